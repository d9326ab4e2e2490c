package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/jhalonen/kiloburn/internal/errlog"
	"github.com/jhalonen/kiloburn/internal/errors"
	"github.com/jhalonen/kiloburn/internal/retry"
)

// MaxPayloadBytes caps a single stored value. Oversized writes are rejected
// before the store is touched.
const MaxPayloadBytes = 10240

// Safe is the persistence boundary of the app. Every operation is retried
// with the storage config, failures are recorded in the error log, and
// corrupted values are purged instead of poisoning callers.
type Safe struct {
	db     *Database
	errLog *errlog.Log
	cfg    retry.Config
}

// NewSafe wraps db with retrying accessors reporting into errLog.
func NewSafe(db *Database, errLog *errlog.Log) *Safe {
	return &Safe{
		db:     db,
		errLog: errLog,
		cfg:    retry.StorageConfig(),
	}
}

// GetItem reads and decodes the JSON value under key. The second return value
// reports whether a usable value existed: a missing key and a corrupted value
// both read as found=false with a nil error. Corruption is recorded in the
// error log as a PARSE_ERROR and the key is purged, so callers rebuild from
// defaults without special-casing it.
func GetItem[T any](ctx context.Context, s *Safe, key string) (T, bool, error) {
	var zero T

	result, err := retry.Do(ctx, fmt.Sprintf("read %q", key), s.cfg,
		func(ctx context.Context) (string, error) {
			raw, getErr := s.db.get(ctx, key)
			if errors.Is(getErr, ErrNotFound) {
				// Absence is a valid outcome, not a transient failure.
				return "", nil
			}
			return raw, getErr
		})
	if err != nil {
		tracked := errors.Tracked(errors.CategoryStorage, "STORAGE_READ", err.Error()).
			WithCause(err).
			WithContext("key", key).
			Escalate(errors.SeverityHigh)
		s.errLog.Record(ctx, tracked)
		return zero, false, tracked
	}
	if result.Value == "" {
		return zero, false, nil
	}

	var value T
	if err = json.Unmarshal([]byte(result.Value), &value); err != nil {
		tracked := errors.Tracked(errors.CategoryStorage,
			"PARSE_ERROR", fmt.Sprintf("corrupted value under %q: %v", key, err)).
			WithCause(err).
			WithContext("key", key).
			NotRetryable()
		s.errLog.Record(ctx, tracked)

		// Purge the bad value and report absence; the error log already
		// carries the PARSE_ERROR for diagnostics.
		if removeErr := s.db.remove(ctx, key); removeErr != nil {
			s.errLog.Record(ctx, removeErr)
		}
		return zero, false, nil
	}

	s.warn(ctx, result.Warnings)
	return value, true, nil
}

// SetItem encodes value as JSON and stores it under key. Payloads over
// MaxPayloadBytes are rejected with a non-retryable DATA_TOO_LARGE error
// without attempting the write.
func SetItem[T any](ctx context.Context, s *Safe, key string, value T) error {
	payload, err := json.Marshal(value)
	if err != nil {
		tracked := errors.Tracked(errors.CategoryStorage, "STORAGE_WRITE",
			fmt.Sprintf("marshal value for %q: %v", key, err)).
			WithCause(err).
			WithContext("key", key).
			NotRetryable()
		s.errLog.Record(ctx, tracked)
		return tracked
	}
	if len(payload) > MaxPayloadBytes {
		tracked := errors.Tracked(errors.CategoryValidation, "DATA_TOO_LARGE",
			fmt.Sprintf("payload for %q is %d bytes, limit is %d", key, len(payload), MaxPayloadBytes)).
			WithContext("key", key)
		s.errLog.Record(ctx, tracked)
		return tracked
	}

	result, err := retry.Do(ctx, fmt.Sprintf("write %q", key), s.cfg,
		func(ctx context.Context) (struct{}, error) {
			return struct{}{}, s.db.set(ctx, key, string(payload))
		})
	if err != nil {
		tracked := errors.Tracked(errors.CategoryStorage, "STORAGE_WRITE", err.Error()).
			WithCause(err).
			WithContext("key", key).
			Escalate(errors.SeverityHigh)
		s.errLog.Record(ctx, tracked)
		return tracked
	}

	s.warn(ctx, result.Warnings)
	return nil
}

// RemoveItem deletes the value under key.
func (s *Safe) RemoveItem(ctx context.Context, key string) error {
	result, err := retry.Do(ctx, fmt.Sprintf("remove %q", key), s.cfg,
		func(ctx context.Context) (struct{}, error) {
			return struct{}{}, s.db.remove(ctx, key)
		})
	if err != nil {
		tracked := errors.Tracked(errors.CategoryStorage, "STORAGE_WRITE", err.Error()).
			WithCause(err).
			WithContext("key", key)
		s.errLog.Record(ctx, tracked)
		return tracked
	}

	s.warn(ctx, result.Warnings)
	return nil
}

func (s *Safe) warn(ctx context.Context, warnings []string) {
	for _, warning := range warnings {
		s.db.logger.LogAttrs(ctx, slog.LevelWarn, "storage retried", slog.String("detail", warning))
	}
}
