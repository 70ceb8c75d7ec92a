package provider

import (
	"context"
	"errors"
	"time"

	"ai-language-tutor-service/internal/observability/logging"
	"ai-language-tutor-service/internal/observability/metrics"
)

// Policy bounds each collaborator attempt by Timeout and retries retryable
// failures with exponential backoff up to MaxAttempts total attempts.
type Policy struct {
	Timeout     time.Duration
	MaxAttempts int
	BaseDelay   time.Duration
}

// Once returns a copy of p that never retries.
func (p Policy) Once() Policy {
	p.MaxAttempts = 1
	return p
}

// Do runs fn under the policy. Errors not already classified are wrapped as
// KindUnavailable. The last error is returned when all attempts fail.
func (p Policy) Do(ctx context.Context, op, name string, fn func(ctx context.Context) error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	logger := logging.WithProvider(op, name)

	var lastErr error
	for i := 0; i < attempts; i++ {
		if i > 0 {
			delay := p.BaseDelay * time.Duration(1<<(i-1))
			metrics.DefaultMetrics.RecordProviderRetry(op, name)
			logger.Debug().
				Int("attempt", i+1).
				Dur("delay", delay).
				Err(lastErr).
				Msg("Retrying provider call")
			if err := sleep(ctx, delay); err != nil {
				return Wrap(op, name, KindCanceled, err)
			}
		}

		lastErr = p.attempt(ctx, op, name, fn)
		if lastErr == nil {
			return nil
		}

		var pe *Error
		if !errors.As(lastErr, &pe) || !pe.Retryable() || ctx.Err() != nil {
			break
		}
	}

	logger.Warn().
		Err(lastErr).
		Str("kind", string(KindOf(lastErr))).
		Msg("Provider call failed")
	return lastErr
}

func (p Policy) attempt(ctx context.Context, op, name string, fn func(ctx context.Context) error) error {
	attemptCtx := ctx
	if p.Timeout > 0 {
		var cancel context.CancelFunc
		attemptCtx, cancel = context.WithTimeout(ctx, p.Timeout)
		defer cancel()
	}

	start := time.Now()
	err := fn(attemptCtx)
	metrics.DefaultMetrics.RecordProviderCall(op, name, time.Since(start).Seconds())
	if err == nil {
		return nil
	}

	// A deadline hit on the attempt context is a timeout even if the adapter
	// reported something else.
	if attemptCtx.Err() == context.DeadlineExceeded && ctx.Err() == nil {
		err = &Error{Op: op, Provider: name, Kind: KindTimeout, Err: err}
	} else {
		err = Wrap(op, name, KindUnavailable, err)
	}
	metrics.DefaultMetrics.RecordProviderError(op, name, string(KindOf(err)))
	return err
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
