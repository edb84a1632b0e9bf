// Package retry runs an operation again when it fails with a retryable error.
package retry

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"
)

// SQLSTATE raised when Postgres cancels a statement on statement_timeout.
const queryCanceledCode = "57014"

// ErrExhausted wraps the last error once every attempt has failed.
var ErrExhausted = errors.New("retry attempts exhausted")

// Policy describes how an operation is retried.
type Policy struct {
	// MaxAttempts is the total number of attempts, first call included.
	MaxAttempts int

	// Backoff returns the delay before the given retry (1 for the first retry).
	Backoff func(retry int) time.Duration

	// Retryable decides whether an error is worth another attempt.
	// A nil Retryable retries nothing.
	Retryable func(err error) bool

	// OnRetry is called before each backoff sleep.
	OnRetry func(retry int, err error)
}

// LinearBackoff returns step, 2*step, 3*step, ...
func LinearBackoff(step time.Duration) func(int) time.Duration {
	return func(retry int) time.Duration {
		return time.Duration(retry) * step
	}
}

// TimeoutPolicy retries timeout-class failures with linear backoff.
func TimeoutPolicy(maxAttempts int, step time.Duration) Policy {
	return Policy{
		MaxAttempts: maxAttempts,
		Backoff:     LinearBackoff(step),
		Retryable:   IsTimeout,
	}
}

// WithLogger returns a copy of p that logs every retry at warn level.
func (p Policy) WithLogger(logger *logrus.Logger, operation string) Policy {
	if logger == nil {
		return p
	}
	p.OnRetry = func(retry int, err error) {
		logger.WithFields(logrus.Fields{
			"operation": operation,
			"retry":     retry,
			"max":       p.MaxAttempts - 1,
		}).WithError(err).Warn("Operation timed out, retrying")
	}
	return p
}

// Do calls fn until it succeeds, returns a non-retryable error, the attempts
// run out or ctx is done. Non-retryable errors are returned unchanged.
func Do[T any](ctx context.Context, p Policy, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	attempts := max(p.MaxAttempts, 1)

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		var val T
		val, err = fn(ctx)
		if err == nil {
			return val, nil
		}
		if ctx.Err() != nil || p.Retryable == nil || !p.Retryable(err) {
			return zero, err
		}
		if attempt == attempts {
			break
		}

		if p.OnRetry != nil {
			p.OnRetry(attempt, err)
		}
		if p.Backoff != nil {
			timer := time.NewTimer(p.Backoff(attempt))
			select {
			case <-ctx.Done():
				timer.Stop()
				return zero, err
			case <-timer.C:
			}
		}
	}

	if attempts == 1 {
		return zero, err
	}
	return zero, fmt.Errorf("%w after %d attempts: %w", ErrExhausted, attempts, err)
}

// IsTimeout reports whether err is a timeout-class failure: a context
// deadline, a network timeout, or a Postgres statement cancellation.
func IsTimeout(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == queryCanceledCode {
		return true
	}

	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "timeout") || strings.Contains(msg, "canceling statement")
}
