package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// StatusError is a non-2xx answer from a provider.
type StatusError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s api error (status %d): %s", e.Provider, e.StatusCode, e.Body)
}

// TransportError wraps a failure to reach the provider at all.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string { return "request failed: " + e.Err.Error() }
func (e *TransportError) Unwrap() error { return e.Err }

// Retryable reports whether another attempt could succeed: transport failures,
// 5xx and 429 answers.
func Retryable(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode >= http.StatusInternalServerError ||
			statusErr.StatusCode == http.StatusTooManyRequests
	}

	var transportErr *TransportError
	return errors.As(err, &transportErr)
}

// RetryPolicy retries up to MaxRetries extra times, sleeping
// BackoffBase * 2^attempt between attempts.
type RetryPolicy struct {
	MaxRetries  int
	BackoffBase time.Duration
}

func (p RetryPolicy) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	var err error
	for attempt := 0; ; attempt++ {
		err = fn(ctx)
		if err == nil || attempt >= p.MaxRetries || !Retryable(err) {
			return err
		}

		wait := p.BackoffBase * time.Duration(1<<attempt)
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}
