package retry

import (
	"context"
	"fmt"
	"time"
)

// Default retry configuration
const (
	defaultMaxRetries         = 3
	defaultInitialRetryDelay  = 100 * time.Millisecond
	defaultMaxRetryDelay      = 2 * time.Second
	defaultRetryDelayMultiple = 2.0
)

// Runner executes operations with automatic retry logic using exponential
// backoff. The defaults keep the total wait under a second so the runner
// can sit on a request path.
type Runner struct {
	maxRetries         int
	initialRetryDelay  time.Duration
	maxRetryDelay      time.Duration
	retryDelayMultiple float64
	retryableChecker   RetryableChecker
}

// RetryableChecker determines if an error should trigger a retry
type RetryableChecker func(err error) bool

// Option configures a Runner
type Option func(*Runner)

// WithMaxRetries sets the maximum number of retry attempts
func WithMaxRetries(n int) Option {
	return func(r *Runner) {
		if n >= 0 {
			r.maxRetries = n
		}
	}
}

// WithInitialRetryDelay sets the initial delay before the first retry
func WithInitialRetryDelay(d time.Duration) Option {
	return func(r *Runner) {
		if d > 0 {
			r.initialRetryDelay = d
		}
	}
}

// WithMaxRetryDelay sets the maximum delay between retries
func WithMaxRetryDelay(d time.Duration) Option {
	return func(r *Runner) {
		if d > 0 {
			r.maxRetryDelay = d
		}
	}
}

// WithRetryDelayMultiple sets the exponential backoff multiplier
func WithRetryDelayMultiple(multiplier float64) Option {
	return func(r *Runner) {
		if multiplier > 1.0 {
			r.retryDelayMultiple = multiplier
		}
	}
}

// WithRetryableChecker sets a custom function to determine retryable errors
func WithRetryableChecker(checker RetryableChecker) Option {
	return func(r *Runner) {
		if checker != nil {
			r.retryableChecker = checker
		}
	}
}

// NewRunner creates a retry runner with the given options
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		maxRetries:         defaultMaxRetries,
		initialRetryDelay:  defaultInitialRetryDelay,
		maxRetryDelay:      defaultMaxRetryDelay,
		retryDelayMultiple: defaultRetryDelayMultiple,
		retryableChecker:   DefaultRetryableChecker,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// DefaultRetryableChecker treats every error as retryable
func DefaultRetryableChecker(err error) bool {
	return err != nil
}

// Do executes op with automatic retry logic using exponential backoff.
// It returns nil as soon as an attempt succeeds, the error unchanged when
// the checker declares it non-retryable, and a wrapped last error once
// the attempts are exhausted.
func (r *Runner) Do(ctx context.Context, op func(ctx context.Context) error) error {
	var lastErr error
	delay := r.initialRetryDelay

	for attempt := 0; attempt <= r.maxRetries; attempt++ {
		if attempt > 0 {
			// Wait before retry (exponential backoff)
			select {
			case <-ctx.Done():
				if lastErr != nil {
					return fmt.Errorf(
						"context cancelled after %d attempts: %w",
						attempt,
						lastErr,
					)
				}
				return ctx.Err()
			case <-time.After(delay):
				// Calculate next delay with exponential backoff
				delay = time.Duration(float64(delay) * r.retryDelayMultiple)
				if delay > r.maxRetryDelay {
					delay = r.maxRetryDelay
				}
			}
		}

		lastErr = op(ctx)
		if lastErr == nil {
			return nil
		}

		if !r.retryableChecker(lastErr) {
			return lastErr
		}
	}

	// All retries exhausted
	return fmt.Errorf("operation failed after %d retries: %w", r.maxRetries, lastErr)
}
