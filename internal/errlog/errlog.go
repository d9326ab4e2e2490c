// Package errlog keeps a bounded in-memory record of tracking errors for
// diagnostics. The log is an explicit object owned by the application root,
// not package state, so tests and hosts control its lifetime.
package errlog

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/jhalonen/kiloburn/internal/errors"
)

// maxEntries bounds the ring buffer. Logging beyond it evicts the oldest.
const maxEntries = 100

// Log is a newest-first ring buffer of tracking errors. Safe for concurrent
// use.
type Log struct {
	mu      sync.Mutex
	logger  *slog.Logger
	entries []*errors.TrackedError
}

// New creates an empty error log routing entries to logger.
func New(logger *slog.Logger) *Log {
	return &Log{
		logger:  logger,
		entries: make([]*errors.TrackedError, 0, maxEntries),
	}
}

// Record classifies err, stores it newest-first, and routes it to the slog
// level matching its severity. It returns the classified error so callers can
// keep propagating it. A nil err is ignored.
func (l *Log) Record(ctx context.Context, err error) *errors.TrackedError {
	tracked := errors.Classify(err)
	if tracked == nil {
		return nil
	}

	l.mu.Lock()
	l.entries = append([]*errors.TrackedError{tracked}, l.entries...)
	if len(l.entries) > maxEntries {
		l.entries = l.entries[:maxEntries]
	}
	l.mu.Unlock()

	attrs := append(tracked.SlogAttrs(), errors.SlogError(err))
	l.logger.LogAttrs(ctx, levelFor(tracked.Severity), "tracked error", attrs...)
	return tracked
}

// levelFor maps severities to log levels: serious failures go to the error
// stream, medium to warnings, low to info.
func levelFor(severity errors.Severity) slog.Level {
	switch severity {
	case errors.SeverityCritical, errors.SeverityHigh:
		return slog.LevelError
	case errors.SeverityMedium:
		return slog.LevelWarn
	case errors.SeverityLow:
		return slog.LevelInfo
	}
	return slog.LevelWarn
}

// Recent returns up to n entries, newest first. n <= 0 returns all.
func (l *Log) Recent(n int) []*errors.TrackedError {
	l.mu.Lock()
	defer l.mu.Unlock()
	if n <= 0 || n > len(l.entries) {
		n = len(l.entries)
	}
	out := make([]*errors.TrackedError, n)
	copy(out, l.entries[:n])
	return out
}

// ByCategory returns all entries of the given category, newest first.
func (l *Log) ByCategory(category errors.Category) []*errors.TrackedError {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []*errors.TrackedError
	for _, entry := range l.entries {
		if entry.Category == category {
			out = append(out, entry)
		}
	}
	return out
}

// Len reports the number of retained entries.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// Clear drops all entries.
func (l *Log) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = l.entries[:0]
}

// report is the JSON shape of an exported error log.
type report struct {
	ExportedAt time.Time              `json:"exportedAt"`
	Count      int                    `json:"count"`
	Errors     []*errors.TrackedError `json:"errors"`
}

// Export serializes the retained entries as a JSON report.
func (l *Log) Export() ([]byte, error) {
	l.mu.Lock()
	entries := make([]*errors.TrackedError, len(l.entries))
	copy(entries, l.entries)
	l.mu.Unlock()

	data, err := json.MarshalIndent(report{
		ExportedAt: time.Now(),
		Count:      len(entries),
		Errors:     entries,
	}, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "marshal error report")
	}
	return data, nil
}

// Degrade runs op and returns its value; if op fails or panics, the failure
// is recorded and fallback is returned instead. It guarantees the caller
// never sees a panic from the wrapped operation.
func Degrade[T any](ctx context.Context, log *Log, op func() (T, error), fallback T) T {
	value, err := func() (value T, err error) {
		defer func() {
			if excp := recover(); excp != nil {
				err = errors.Errorf("panic: %v", excp)
			}
		}()
		return op()
	}()
	if err != nil {
		log.Record(ctx, err)
		return fallback
	}
	return value
}
