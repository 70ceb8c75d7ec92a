package provider

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

func TestError_Retryable(t *testing.T) {
	tests := []struct {
		kind Kind
		want bool
	}{
		{KindTimeout, true},
		{KindRateLimit, true},
		{KindUnavailable, true},
		{KindBadResponse, false},
		{KindRejected, false},
		{KindCanceled, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			e := &Error{Op: "generate", Provider: "test", Kind: tt.kind}
			if got := e.Retryable(); got != tt.want {
				t.Errorf("Retryable() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWrap(t *testing.T) {
	if Wrap("generate", "test", KindUnavailable, nil) != nil {
		t.Error("expected nil for nil error")
	}

	err := Wrap("generate", "test", KindUnavailable, context.DeadlineExceeded)
	if KindOf(err) != KindTimeout {
		t.Errorf("expected timeout kind for deadline, got %s", KindOf(err))
	}

	err = Wrap("generate", "test", KindUnavailable, context.Canceled)
	if KindOf(err) != KindCanceled {
		t.Errorf("expected canceled kind, got %s", KindOf(err))
	}

	inner := &Error{Op: "transcribe", Provider: "x", Kind: KindRateLimit}
	if got := Wrap("generate", "test", KindUnavailable, inner); got != error(inner) {
		t.Error("expected existing provider error returned unchanged")
	}

	if !IsProviderError(Wrap("generate", "test", KindBadResponse, errors.New("boom"))) {
		t.Error("expected wrapped error to be a provider error")
	}
	if IsProviderError(errors.New("plain")) {
		t.Error("plain error is not a provider error")
	}
}

func TestKindFromStatus(t *testing.T) {
	tests := []struct {
		status int
		want   Kind
	}{
		{http.StatusTooManyRequests, KindRateLimit},
		{http.StatusGatewayTimeout, KindTimeout},
		{http.StatusServiceUnavailable, KindUnavailable},
		{http.StatusInternalServerError, KindUnavailable},
		{http.StatusUnauthorized, KindRejected},
		{http.StatusBadRequest, KindRejected},
		{0, KindBadResponse},
	}

	for _, tt := range tests {
		if got := KindFromStatus(tt.status); got != tt.want {
			t.Errorf("KindFromStatus(%d) = %s, want %s", tt.status, got, tt.want)
		}
	}
}

func TestPolicy_Do_SucceedsAfterRetries(t *testing.T) {
	p := Policy{Timeout: time.Second, MaxAttempts: 3, BaseDelay: time.Millisecond}
	calls := 0

	err := p.Do(context.Background(), "generate", "test", func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return &Error{Kind: KindUnavailable}
		}
		return nil
	})

	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
}

func TestPolicy_Do_StopsOnNonRetryable(t *testing.T) {
	p := Policy{Timeout: time.Second, MaxAttempts: 5, BaseDelay: time.Millisecond}
	calls := 0

	err := p.Do(context.Background(), "generate", "test", func(ctx context.Context) error {
		calls++
		return &Error{Op: "generate", Provider: "test", Kind: KindRejected}
	})

	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
	if KindOf(err) != KindRejected {
		t.Errorf("expected rejected error, got %v", err)
	}
}

func TestPolicy_Do_ExhaustsAttempts(t *testing.T) {
	p := Policy{Timeout: time.Second, MaxAttempts: 3, BaseDelay: time.Millisecond}
	calls := 0

	err := p.Do(context.Background(), "transcribe", "test", func(ctx context.Context) error {
		calls++
		return errors.New("connection reset")
	})

	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
	if KindOf(err) != KindUnavailable {
		t.Errorf("expected unclassified errors to become unavailable, got %v", err)
	}
}

func TestPolicy_Do_TimeoutPerAttempt(t *testing.T) {
	p := Policy{Timeout: 10 * time.Millisecond, MaxAttempts: 1}

	err := p.Do(context.Background(), "generate", "test", func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})

	if KindOf(err) != KindTimeout {
		t.Errorf("expected timeout, got %v", err)
	}
}

func TestPolicy_Once_NeverRetries(t *testing.T) {
	p := Policy{Timeout: time.Second, MaxAttempts: 4, BaseDelay: time.Millisecond}.Once()
	calls := 0

	_ = p.Do(context.Background(), "synthesize", "test", func(ctx context.Context) error {
		calls++
		return &Error{Kind: KindUnavailable}
	})

	if calls != 1 {
		t.Errorf("expected a single attempt, got %d", calls)
	}
}

func TestPolicy_Do_CanceledParentStopsRetries(t *testing.T) {
	p := Policy{Timeout: time.Second, MaxAttempts: 5, BaseDelay: time.Hour}
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0

	err := p.Do(ctx, "generate", "test", func(ctx context.Context) error {
		calls++
		cancel()
		return &Error{Kind: KindUnavailable}
	})

	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
	if err == nil {
		t.Error("expected an error")
	}
}

func TestClassifyOpenAI(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"rate limited", &openai.APIError{HTTPStatusCode: http.StatusTooManyRequests, Message: "slow down"}, KindRateLimit},
		{"unauthorized", &openai.APIError{HTTPStatusCode: http.StatusUnauthorized, Message: "bad key"}, KindRejected},
		{"server error", &openai.RequestError{HTTPStatusCode: http.StatusBadGateway, Err: errors.New("bad gateway")}, KindUnavailable},
		{"deadline", context.DeadlineExceeded, KindTimeout},
		{"network", errors.New("dial tcp: connection refused"), KindUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(ClassifyOpenAI("generate", tt.err)); got != tt.want {
				t.Errorf("ClassifyOpenAI() kind = %s, want %s", got, tt.want)
			}
		})
	}
}
