package retry

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// SleepFunc waits for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Policy runs an operation up to Attempts times with a fixed Delay between attempts.
//
// There is no backoff growth: every wait is exactly Delay.
type Policy struct {
	Attempts int
	Delay    time.Duration

	// Sleep is used to wait between attempts, defaults to Sleep
	Sleep SleepFunc
	// Name is only used for logging
	Name string
}

// WithRetries returns a policy which makes retries+1 attempts
func WithRetries(retries int, delay time.Duration) Policy {
	return Policy{Attempts: retries + 1, Delay: delay}
}

// ExhaustedError is returned by Do when every attempt failed
type ExhaustedError struct {
	Attempts int
	Last     error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("gave up after %d attempts: %v", e.Attempts, e.Last)
}

func (e *ExhaustedError) Unwrap() error {
	return e.Last
}

// Do calls op until it returns nil or the attempts are used up.
// attempt passed to op starts from 1.
//
// A context cancellation stops retrying immediately and is returned as is.
func (p Policy) Do(ctx context.Context, op func(attempt int) error) error {
	attempts := p.Attempts
	if attempts < 1 {
		attempts = 1
	}
	sleep := p.Sleep
	if sleep == nil {
		sleep = Sleep
	}

	var last error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		last = op(attempt)
		if last == nil {
			return nil
		}

		slog.Debug("attempt failed", "op", p.Name, "attempt", attempt, "of", attempts, "error", last)

		if attempt == attempts {
			break
		}

		if err := sleep(ctx, p.Delay); err != nil {
			return err
		}
	}

	return &ExhaustedError{Attempts: attempts, Last: last}
}

// Sleep is the default SleepFunc
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
