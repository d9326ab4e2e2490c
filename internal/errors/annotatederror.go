// Package errors extends the standard library errors with slog annotations and
// the tracking-error taxonomy used across the calorie engine and storage layers.
package errors

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"strconv"
)

// annotatedError wraps an error with a message, slog attributes, and the
// source location of the wrap site.
type annotatedError struct {
	msg    string
	err    error
	attrs  []slog.Attr
	source string
}

// Wrap annotates err with a contextual message and optional slog attributes.
// The resulting message reads "msg: err".
func Wrap(err error, msg string, attrs ...slog.Attr) error {
	return &annotatedError{
		msg:    msg,
		err:    err,
		attrs:  attrs,
		source: callerSource(2), //nolint:mnd // skip callerSource and Wrap
	}
}

// NewSentinel creates a sentinel error suitable for use with Is comparisons.
func NewSentinel(msg string) error {
	return errors.New(msg)
}

func (e *annotatedError) Error() string {
	if e.err == nil {
		return e.msg
	}
	return e.msg + ": " + e.err.Error()
}

func (e *annotatedError) Unwrap() error {
	return e.err
}

// callerSource resolves the file:line of the caller skip frames up the stack.
func callerSource(skip int) string {
	_, file, line, ok := runtime.Caller(skip)
	if !ok {
		return "unknown"
	}
	// Trim to the base filename to keep log lines short.
	for i := len(file) - 1; i >= 0; i-- {
		if file[i] == '/' {
			file = file[i+1:]
			break
		}
	}
	return file + ":" + strconv.Itoa(line)
}

// SlogError converts an error into a slog.Attr group carrying the message,
// any annotations collected from the wrap chain, and the innermost wrap site.
func SlogError(err error) slog.Attr {
	if err == nil {
		return slog.Group("error", slog.String("message", "<nil>"))
	}

	var (
		annotations []any
		source      string
	)
	for unwrapped := err; unwrapped != nil; unwrapped = Unwrap(unwrapped) {
		if annotated, ok := unwrapped.(*annotatedError); ok {
			for _, attr := range annotated.attrs {
				annotations = append(annotations, attr)
			}
			if source == "" {
				source = annotated.source
			}
		}
	}

	args := []any{slog.String("message", err.Error())}
	if source != "" {
		args = append(args, slog.String("source", source))
	}
	if len(annotations) > 0 {
		args = append(args, slog.Group("annotations", annotations...))
	}
	return slog.Group("error", args...)
}

// Re-exports so callers don't need to import both this package and the
// standard library errors.

// New returns an error that formats as the given text.
func New(msg string) error { return errors.New(msg) }

// Is reports whether any error in err's tree matches target.
func Is(err, target error) bool { return errors.Is(err, target) }

// As finds the first error in err's tree that matches target.
func As(err error, target any) bool { return errors.As(err, target) }

// Unwrap returns the result of calling the Unwrap method on err.
func Unwrap(err error) error { return errors.Unwrap(err) }

// Join wraps the given errors into a single error.
func Join(errs ...error) error { return errors.Join(errs...) }

// Errorf formats according to a format specifier and returns the string as an error.
func Errorf(format string, args ...any) error { return fmt.Errorf(format, args...) }
