package transport

import (
	"errors"
	"fmt"
	"testing"
)

func TestError(t *testing.T) {
	cause := errors.New("connection reset")
	err := &Error{Op: "download", Err: cause}

	if got := err.Error(); got != "transport download: connection reset" {
		t.Errorf("unexpected message %q", got)
	}
	if !errors.Is(err, cause) {
		t.Error("expected Unwrap to expose the cause")
	}

	wrapped := fmt.Errorf("voice turn: %w", err)
	if !IsTransportError(wrapped) {
		t.Error("expected wrapped transport error to be recognized")
	}
	if IsTransportError(cause) {
		t.Error("plain error is not a transport error")
	}
}
