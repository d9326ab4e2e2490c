// Package retry runs fallible operations with exponential backoff. Whether a
// failure is worth retrying is decided from the typed error when available
// and from substring matching for foreign errors.
package retry

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/jhalonen/kiloburn/internal/errors"
)

// Config tunes a retry sequence.
type Config struct {
	MaxAttempts       int
	BaseDelay         time.Duration
	BackoffMultiplier float64
	MaxDelay          time.Duration
	// RetryableErrors lists message substrings (matched case-insensitively)
	// that mark an untyped error as transient.
	RetryableErrors []string
}

// StorageConfig is the default for device storage operations, which fail
// transiently under load.
func StorageConfig() Config {
	return Config{
		MaxAttempts:       3,
		BaseDelay:         500 * time.Millisecond,
		BackoffMultiplier: 2,
		MaxDelay:          5 * time.Second,
		RetryableErrors:   []string{"timeout", "unavailable", "busy", "locked", "i/o"},
	}
}

// CalculationConfig is the default for numeric operations.
func CalculationConfig() Config {
	return Config{
		MaxAttempts:       2,
		BaseDelay:         100 * time.Millisecond,
		BackoffMultiplier: 2,
		MaxDelay:          time.Second,
		RetryableErrors:   []string{"timeout", "temporary"},
	}
}

// ValidationConfig never retries: validation failures are not transient.
func ValidationConfig() Config {
	return Config{
		MaxAttempts:       1,
		BaseDelay:         0,
		BackoffMultiplier: 1,
		MaxDelay:          0,
		RetryableErrors:   nil,
	}
}

// Result carries the outcome of a retried operation.
type Result[T any] struct {
	Value      T
	RetryCount int
	Warnings   []string
}

// Do runs op up to cfg.MaxAttempts times. Non-retryable failures abort
// immediately. Between attempts it waits min(base*multiplier^(n-1), max),
// honoring context cancellation. The name only appears in warnings and error
// context.
func Do[T any](ctx context.Context, name string, cfg Config, op func(context.Context) (T, error)) (Result[T], error) {
	var (
		result  Result[T]
		lastErr error
	)

	maxAttempts := cfg.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		value, err := op(ctx)
		if err == nil {
			result.Value = value
			result.RetryCount = attempt - 1
			if result.RetryCount > 0 {
				result.Warnings = append(result.Warnings,
					fmt.Sprintf("%s succeeded after %d retries", name, result.RetryCount))
			}
			return result, nil
		}
		lastErr = err
		result.RetryCount = attempt - 1

		if attempt == maxAttempts || !isRetryable(err, cfg) {
			break
		}

		if waitErr := wait(ctx, delayFor(cfg, attempt)); waitErr != nil {
			lastErr = errors.Join(lastErr, waitErr)
			break
		}
	}

	return result, errors.Wrap(lastErr, fmt.Sprintf("%s failed after %d attempts", name, result.RetryCount+1))
}

// isRetryable prefers the typed retryable flag; untyped errors fall back to
// the configured substring list.
func isRetryable(err error, cfg Config) bool {
	var tracked *errors.TrackedError
	if errors.As(err, &tracked) {
		return tracked.Retryable
	}

	msg := strings.ToLower(err.Error())
	for _, substr := range cfg.RetryableErrors {
		if strings.Contains(msg, strings.ToLower(substr)) {
			return true
		}
	}
	return false
}

// delayFor computes the backoff before the next attempt after the given
// one-based attempt number.
func delayFor(cfg Config, attempt int) time.Duration {
	multiplier := cfg.BackoffMultiplier
	if multiplier <= 0 {
		multiplier = 1
	}
	delay := time.Duration(float64(cfg.BaseDelay) * math.Pow(multiplier, float64(attempt-1)))
	if cfg.MaxDelay > 0 && delay > cfg.MaxDelay {
		delay = cfg.MaxDelay
	}
	return delay
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return errors.Wrap(ctx.Err(), "retry wait interrupted")
	case <-timer.C:
		return nil
	}
}
