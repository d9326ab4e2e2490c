package errors

import (
	"log/slog"
	"strings"
	"time"
)

// Category classifies a tracking error by its origin.
type Category string

// Error categories. Validation errors are caller mistakes, storage errors
// signal device storage trouble, calculation errors signal numeric or logic
// faults inside the engine.
const (
	CategoryValidation  Category = "VALIDATION"
	CategoryStorage     Category = "STORAGE"
	CategoryCalculation Category = "CALCULATION"
	CategoryNetwork     Category = "NETWORK"
	CategoryUnknown     Category = "UNKNOWN"
)

// Severity grades how serious a tracking error is.
type Severity string

// Severity levels, in ascending order.
const (
	SeverityLow      Severity = "LOW"
	SeverityMedium   Severity = "MEDIUM"
	SeverityHigh     Severity = "HIGH"
	SeverityCritical Severity = "CRITICAL"
)

// Rank orders severities so callers can compare and escalate them.
func (s Severity) Rank() int {
	switch s {
	case SeverityLow:
		return 1
	case SeverityMedium:
		return 2
	case SeverityHigh:
		return 3
	case SeverityCritical:
		return 4
	}
	return 0
}

// TrackedError is the structured error currency crossing component boundaries.
// It carries the machine diagnostic alongside a user-facing message and
// suggestion so the UI never has to interpret internal codes.
type TrackedError struct {
	Category    Category          `json:"category"`
	Severity    Severity          `json:"severity"`
	Code        string            `json:"code"`
	Message     string            `json:"message"`
	UserMessage string            `json:"userMessage"`
	Suggestion  string            `json:"suggestion"`
	Retryable   bool              `json:"retryable"`
	Timestamp   time.Time         `json:"timestamp"`
	Context     map[string]string `json:"context,omitempty"`

	cause error
}

func (e *TrackedError) Error() string {
	if e.cause != nil {
		return e.Message + ": " + e.cause.Error()
	}
	return e.Message
}

func (e *TrackedError) Unwrap() error {
	return e.cause
}

// userFacing pairs an error code with the guidance shown to the user.
type userFacing struct {
	message    string
	suggestion string
}

var userFacingByCode = map[string]userFacing{
	"INVALID_INPUT":     {"Some of the entered values are invalid.", "Please check your input and try again."},
	"INVALID_PROFILE":   {"Your profile contains invalid values.", "Review your profile in Settings."},
	"INVALID_WORKOUT":   {"The workout could not be processed.", "Check the workout entries and try again."},
	"STORAGE_READ":      {"Saved data could not be read.", "Restart the app. If the problem persists, free up device storage."},
	"STORAGE_WRITE":     {"Your data could not be saved.", "Free up device storage and try again."},
	"PARSE_ERROR":       {"Stored data is corrupted.", "The app will reset this data."},
	"DATA_TOO_LARGE":    {"This record is too large to save.", "Remove some entries and try again."},
	"CALCULATION_ERROR": {"Calories could not be calculated.", "Check the workout values and try again."},
	"TIMEOUT":           {"The operation took too long.", "Please try again."},
}

var defaultSeverity = map[Category]Severity{
	CategoryValidation:  SeverityLow,
	CategoryStorage:     SeverityMedium,
	CategoryCalculation: SeverityMedium,
	CategoryNetwork:     SeverityMedium,
	CategoryUnknown:     SeverityMedium,
}

var defaultRetryable = map[Category]bool{
	CategoryValidation:  false,
	CategoryStorage:     true,
	CategoryCalculation: true,
	CategoryNetwork:     true,
	CategoryUnknown:     false,
}

// Tracked creates a TrackedError with the default severity, retryability and
// user-facing guidance for the given category and code.
func Tracked(category Category, code, message string) *TrackedError {
	facing, ok := userFacingByCode[code]
	if !ok {
		facing = userFacing{
			message:    "Something went wrong.",
			suggestion: "Please try again.",
		}
	}
	return &TrackedError{
		Category:    category,
		Severity:    defaultSeverity[category],
		Code:        code,
		Message:     message,
		UserMessage: facing.message,
		Suggestion:  facing.suggestion,
		Retryable:   defaultRetryable[category],
		Timestamp:   time.Now(),
		Context:     nil,
		cause:       nil,
	}
}

// WithCause attaches the underlying error.
func (e *TrackedError) WithCause(cause error) *TrackedError {
	e.cause = cause
	return e
}

// WithContext attaches a free-form context entry.
func (e *TrackedError) WithContext(key, value string) *TrackedError {
	if e.Context == nil {
		e.Context = make(map[string]string)
	}
	e.Context[key] = value
	return e
}

// NotRetryable marks the error as permanently failing.
func (e *TrackedError) NotRetryable() *TrackedError {
	e.Retryable = false
	return e
}

// Escalate raises the severity to at least sev. It never lowers it.
func (e *TrackedError) Escalate(sev Severity) *TrackedError {
	if sev.Rank() > e.Severity.Rank() {
		e.Severity = sev
	}
	return e
}

// SlogAttrs returns the error's structured fields for logging.
func (e *TrackedError) SlogAttrs() []slog.Attr {
	return []slog.Attr{
		slog.String("category", string(e.Category)),
		slog.String("severity", string(e.Severity)),
		slog.String("code", e.Code),
		slog.Bool("retryable", e.Retryable),
	}
}

// categoryKeywords backs Classify for errors that were not created as
// TrackedError. Typed errors are preferred; keyword matching only covers
// foreign errors crossing into the core.
var categoryKeywords = []struct {
	category Category
	keywords []string
}{
	{CategoryStorage, []string{"storage", "asyncstorage", "sqlite", "database", "disk", "i/o"}},
	{CategoryValidation, []string{"validation", "invalid", "must be"}},
	{CategoryCalculation, []string{"calculation", "overflow", "math", "nan", "infinit"}},
	{CategoryNetwork, []string{"network", "timeout", "connection"}},
}

// Classify converts an arbitrary error into a TrackedError. An error that
// already is one (anywhere in its tree) is returned as-is; otherwise the
// category is inferred from the message text.
func Classify(err error) *TrackedError {
	if err == nil {
		return nil
	}
	var tracked *TrackedError
	if As(err, &tracked) {
		return tracked
	}

	msg := strings.ToLower(err.Error())
	category := CategoryUnknown
	for _, entry := range categoryKeywords {
		for _, keyword := range entry.keywords {
			if strings.Contains(msg, keyword) {
				category = entry.category
				break
			}
		}
		if category != CategoryUnknown {
			break
		}
	}

	return Tracked(category, codeFor(category), err.Error()).WithCause(err)
}

func codeFor(category Category) string {
	switch category {
	case CategoryValidation:
		return "INVALID_INPUT"
	case CategoryStorage:
		return "STORAGE_READ"
	case CategoryCalculation:
		return "CALCULATION_ERROR"
	case CategoryNetwork:
		return "TIMEOUT"
	case CategoryUnknown:
		return "UNKNOWN_ERROR"
	}
	return "UNKNOWN_ERROR"
}
