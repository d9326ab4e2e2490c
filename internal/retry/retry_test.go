package retry_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/jhalonen/kiloburn/internal/errors"
	"github.com/jhalonen/kiloburn/internal/retry"
)

// fastConfig keeps test runtime negligible.
func fastConfig(maxAttempts int, retryable []string) retry.Config {
	return retry.Config{
		MaxAttempts:       maxAttempts,
		BaseDelay:         time.Millisecond,
		BackoffMultiplier: 2,
		MaxDelay:          5 * time.Millisecond,
		RetryableErrors:   retryable,
	}
}

func TestDoSucceedsAfterRetries(t *testing.T) {
	attempts := 0
	op := func(context.Context) (string, error) {
		attempts++
		if attempts <= 2 {
			return "", errors.New("storage timeout")
		}
		return "stored", nil
	}

	result, err := retry.Do(t.Context(), "save profile", fastConfig(3, []string{"timeout"}), op)
	if err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	if result.Value != "stored" {
		t.Errorf("Value = %q, want %q", result.Value, "stored")
	}
	if result.RetryCount != 2 {
		t.Errorf("RetryCount = %d, want 2", result.RetryCount)
	}
	found := false
	for _, w := range result.Warnings {
		if strings.Contains(w, "succeeded after 2 retries") {
			found = true
		}
	}
	if !found {
		t.Errorf("Warnings = %v, want a retry-success notice", result.Warnings)
	}
}

func TestDoFirstTrySuccessHasNoWarnings(t *testing.T) {
	result, err := retry.Do(t.Context(), "read", fastConfig(3, nil),
		func(context.Context) (int, error) { return 42, nil })
	if err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	if result.RetryCount != 0 || len(result.Warnings) != 0 {
		t.Errorf("first-try success: RetryCount=%d Warnings=%v, want 0 and none",
			result.RetryCount, result.Warnings)
	}
}

func TestDoNonRetryableMessageAbortsImmediately(t *testing.T) {
	attempts := 0
	op := func(context.Context) (string, error) {
		attempts++
		return "", errors.New("malformed value")
	}

	_, err := retry.Do(t.Context(), "read", fastConfig(3, []string{"timeout", "busy"}), op)
	if err == nil {
		t.Fatal("Do() error = nil, want failure")
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want exactly 1 for a non-retryable error", attempts)
	}
}

func TestDoTypedRetryableFlagWins(t *testing.T) {
	attempts := 0
	// The message matches no configured substring, but the typed error is
	// marked retryable.
	op := func(context.Context) (string, error) {
		attempts++
		return "", errors.Tracked(errors.CategoryStorage, "STORAGE_WRITE", "write rejected")
	}

	_, err := retry.Do(t.Context(), "save", fastConfig(3, []string{"timeout"}), op)
	if err == nil {
		t.Fatal("Do() error = nil, want failure")
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3 for a retryable typed error", attempts)
	}
}

func TestDoTypedNonRetryableAborts(t *testing.T) {
	attempts := 0
	op := func(context.Context) (string, error) {
		attempts++
		// The message would match "timeout", but the typed flag says no.
		return "", errors.Tracked(errors.CategoryValidation, "INVALID_INPUT", "timeout field is invalid")
	}

	_, err := retry.Do(t.Context(), "validate", fastConfig(3, []string{"timeout"}), op)
	if err == nil {
		t.Fatal("Do() error = nil, want failure")
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1 when the typed error is not retryable", attempts)
	}
}

func TestDoExhaustsAttempts(t *testing.T) {
	attempts := 0
	op := func(context.Context) (string, error) {
		attempts++
		return "", errors.New("device busy")
	}

	_, err := retry.Do(t.Context(), "save", fastConfig(3, []string{"busy"}), op)
	if err == nil {
		t.Fatal("Do() error = nil, want failure after exhausted attempts")
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
	if !strings.Contains(err.Error(), "after 3 attempts") {
		t.Errorf("error = %v, want attempt count in message", err)
	}
}

func TestDoHonorsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	attempts := 0
	cfg := retry.Config{
		MaxAttempts:       3,
		BaseDelay:         10 * time.Second, // the wait must be interrupted, not served
		BackoffMultiplier: 2,
		MaxDelay:          time.Minute,
		RetryableErrors:   []string{"busy"},
	}
	start := time.Now()
	_, err := retry.Do(ctx, "save", cfg, func(context.Context) (string, error) {
		attempts++
		return "", errors.New("device busy")
	})
	if err == nil {
		t.Fatal("Do() error = nil, want failure")
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1 after cancellation", attempts)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("cancelled retry took %v, want immediate return", elapsed)
	}
}

func TestValidationConfigNeverRetries(t *testing.T) {
	attempts := 0
	_, err := retry.Do(t.Context(), "validate", retry.ValidationConfig(),
		func(context.Context) (string, error) {
			attempts++
			return "", errors.New("invalid input")
		})
	if err == nil {
		t.Fatal("Do() error = nil, want failure")
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1", attempts)
	}
}
