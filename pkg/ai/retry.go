package ai

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"resume-tailor/internal/domain"
)

// Policy controls how a model call is bounded and retried.
type Policy struct {
	MaxAttempts int
	Timeout     time.Duration
	Backoff     time.Duration
	Retryable   func(error) bool
	// Limiter, when set, paces attempts process-wide.
	Limiter *rate.Limiter
}

// DefaultPolicy is one attempt plus two retries, 90 seconds each.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts: 3,
		Timeout:     90 * time.Second,
		Backoff:     time.Second,
		Retryable:   IsRetryable,
	}
}

// NewLimiter returns a token bucket allowing perMinute calls, or nil when
// perMinute is not positive.
func NewLimiter(perMinute int) *rate.Limiter {
	if perMinute <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), 1)
}

// IsRetryable treats every failure as transient except output the model
// will keep producing: malformed JSON and invalid documents.
func IsRetryable(err error) bool {
	var malformed *domain.MalformedModelOutputError
	if errors.As(err, &malformed) {
		return false
	}
	var invalid *domain.InvalidDocumentError
	if errors.As(err, &invalid) {
		return false
	}
	var missing *domain.MissingInputError
	return !errors.As(err, &missing)
}

type result[T any] struct {
	val T
	err error
}

// Call runs fn under p. Each attempt gets its own deadline; an attempt that
// outlives it is abandoned. After the last attempt the failure is wrapped
// in ModelTimeoutError or ModelRequestError. Non-retryable errors are
// returned unchanged on first occurrence.
func Call[T any](ctx context.Context, p Policy, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	retryable := p.Retryable
	if retryable == nil {
		retryable = IsRetryable
	}

	var lastErr error
	timedOut := false
	for attempt := 1; attempt <= attempts; attempt++ {
		if p.Limiter != nil {
			if err := p.Limiter.Wait(ctx); err != nil {
				return zero, &domain.ModelRequestError{Attempts: attempt - 1, Err: err}
			}
		}

		r, expired := attemptOnce(ctx, p.Timeout, fn)
		err := r.err
		if err == nil {
			return r.val, nil
		}
		if !expired && !retryable(err) {
			return zero, err
		}
		lastErr, timedOut = err, expired
		if ctx.Err() != nil {
			break
		}

		if attempt < attempts {
			wait := p.Backoff * time.Duration(attempt)
			slog.Warn("ai: retrying model call", "attempt", attempt, "wait", wait, "error", err)
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return zero, &domain.ModelRequestError{Attempts: attempt, Err: ctx.Err()}
			}
		}
	}

	if timedOut {
		return zero, &domain.ModelTimeoutError{Attempts: attempts, Timeout: p.Timeout, Err: lastErr}
	}
	return zero, &domain.ModelRequestError{Attempts: attempts, Err: lastErr}
}

// attemptOnce reports whether the attempt hit its own deadline.
func attemptOnce[T any](ctx context.Context, timeout time.Duration, fn func(ctx context.Context) (T, error)) (result[T], bool) {
	actx := ctx
	cancel := context.CancelFunc(func() {})
	if timeout > 0 {
		actx, cancel = context.WithTimeout(ctx, timeout)
	}
	defer cancel()

	ch := make(chan result[T], 1)
	go func() {
		v, err := fn(actx)
		ch <- result[T]{val: v, err: err}
	}()

	select {
	case r := <-ch:
		expired := r.err != nil && errors.Is(actx.Err(), context.DeadlineExceeded) && ctx.Err() == nil
		return r, expired
	case <-actx.Done():
		if ctx.Err() != nil {
			return result[T]{err: ctx.Err()}, false
		}
		return result[T]{err: errors.New("model request timed out")}, true
	}
}
