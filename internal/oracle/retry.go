package oracle

import (
	"context"
	"time"
)

const (
	// DefaultAttempts bounds how often a transiently failing oracle call
	// is retried before a Failure is surfaced.
	DefaultAttempts = 3

	// DefaultBackoff is the fixed pause between attempts.
	DefaultBackoff = time.Second
)

// Retrying wraps an oracle with a bounded retry policy. Exhausting the
// budget yields a *Failure, which the rest of the pipeline treats as
// fatal.
type Retrying struct {
	inner    Oracle
	attempts int
	backoff  time.Duration
}

// WithRetry wraps an oracle. Non-positive attempts or backoff fall back to
// the defaults.
func WithRetry(inner Oracle, attempts int, backoff time.Duration) *Retrying {
	if attempts <= 0 {
		attempts = DefaultAttempts
	}
	if backoff <= 0 {
		backoff = DefaultBackoff
	}
	return &Retrying{inner: inner, attempts: attempts, backoff: backoff}
}

func (r *Retrying) GenerateCode(ctx context.Context, narrative string) (string, error) {
	return r.retry(ctx, "generate", func() (string, error) {
		return r.inner.GenerateCode(ctx, narrative)
	})
}

func (r *Retrying) FixCode(ctx context.Context, code, errorSummary string) (string, error) {
	return r.retry(ctx, "fix", func() (string, error) {
		return r.inner.FixCode(ctx, code, errorSummary)
	})
}

func (r *Retrying) retry(ctx context.Context, op string, call func() (string, error)) (string, error) {
	var lastErr error
	for attempt := 0; attempt < r.attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", &Failure{Op: op, Attempts: attempt, Err: ctx.Err()}
			case <-time.After(r.backoff):
			}
		}

		out, err := call()
		if err == nil {
			return out, nil
		}
		lastErr = err
	}
	return "", &Failure{Op: op, Attempts: r.attempts, Err: lastErr}
}
