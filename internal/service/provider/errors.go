// Package provider holds the failure taxonomy and the deadline/retry policy shared by
// the speech-to-text, generation and synthesis collaborators.
package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a collaborator failure.
type Kind string

const (
	KindTimeout     Kind = "timeout"
	KindRateLimit   Kind = "rate_limit"
	KindUnavailable Kind = "unavailable"
	KindBadResponse Kind = "bad_response"
	KindRejected    Kind = "rejected"
	KindCanceled    Kind = "canceled"
)

// Error is returned by every collaborator adapter.
type Error struct {
	Op       string // transcribe, generate, synthesize
	Provider string
	Kind     Kind
	Err      error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("provider %s %s: %s", e.Provider, e.Op, e.Kind)
	}
	return fmt.Sprintf("provider %s %s: %s: %v", e.Provider, e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Retryable reports whether another attempt could succeed.
func (e *Error) Retryable() bool {
	switch e.Kind {
	case KindTimeout, KindRateLimit, KindUnavailable:
		return true
	}
	return false
}

// ErrEmptyResult is wrapped by adapters when the collaborator answered with nothing usable.
var ErrEmptyResult = errors.New("empty result")

// IsProviderError reports whether err is, or wraps, an Error.
func IsProviderError(err error) bool {
	var pe *Error
	return errors.As(err, &pe)
}

// KindOf returns the Kind of a provider error, or "" for other errors.
func KindOf(err error) Kind {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return ""
}

// Wrap converts err into an Error. Existing provider errors are returned unchanged.
// Context errors are classified first, then kind is used.
func Wrap(op, name string, kind Kind, err error) error {
	if err == nil {
		return nil
	}
	var pe *Error
	if errors.As(err, &pe) {
		return err
	}
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		kind = KindTimeout
	case errors.Is(err, context.Canceled):
		kind = KindCanceled
	}
	return &Error{Op: op, Provider: name, Kind: kind, Err: err}
}

// KindFromStatus maps an upstream HTTP status to a Kind.
func KindFromStatus(status int) Kind {
	switch {
	case status == http.StatusTooManyRequests:
		return KindRateLimit
	case status == http.StatusRequestTimeout || status == http.StatusGatewayTimeout:
		return KindTimeout
	case status >= 500:
		return KindUnavailable
	case status >= 400:
		return KindRejected
	}
	return KindBadResponse
}
