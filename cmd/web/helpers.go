package main

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/jhalonen/kiloburn/internal/errors"
)

// writeJSON writes v as a JSON response with the given status.
func (app *application) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		app.logger.LogAttrs(r.Context(), slog.LevelError, "encode response", errors.SlogError(err))
	}
}

// errorResponse is the JSON shape of every error reply. The message and
// suggestion are safe to show to the user.
type errorResponse struct {
	Error      string `json:"error"`
	Suggestion string `json:"suggestion,omitempty"`
	Code       string `json:"code,omitempty"`
}

func (app *application) serverError(w http.ResponseWriter, r *http.Request, err error) {
	tracked := errors.Classify(err)
	app.logger.LogAttrs(r.Context(), slog.LevelError, "server error", errors.SlogError(err))
	app.writeJSON(w, r, http.StatusInternalServerError, errorResponse{
		Error:      tracked.UserMessage,
		Suggestion: tracked.Suggestion,
		Code:       tracked.Code,
	})
}

func (app *application) clientError(w http.ResponseWriter, r *http.Request, status int, message string) {
	app.writeJSON(w, r, status, errorResponse{Error: message})
}
