package main

import (
	"encoding/json"
	"net/http"

	"github.com/jhalonen/kiloburn/internal/calorie"
	"github.com/jhalonen/kiloburn/internal/errlog"
	"github.com/jhalonen/kiloburn/internal/profile"
	"github.com/jhalonen/kiloburn/internal/storage"
)

type calculateRequest struct {
	Workout calorie.WorkoutData `json:"workout"`
	// Profile overrides the stored profile when present.
	Profile *profile.Profile `json:"profile,omitempty"`
}

// calculatePOST estimates calories for a workout without persisting anything.
func (app *application) calculatePOST(w http.ResponseWriter, r *http.Request) {
	var req calculateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		app.clientError(w, r, http.StatusBadRequest, "request body is not valid JSON")
		return
	}

	result := app.calculate(r, req)
	app.writeJSON(w, r, http.StatusOK, result)
}

// calculate resolves the profile and catalog and runs the engine behind the
// degradation guard: whatever goes wrong, the caller gets a well-formed
// result.
func (app *application) calculate(r *http.Request, req calculateRequest) calorie.Result {
	ctx := r.Context()

	prof := profile.Profile{}
	if req.Profile != nil {
		prof = *req.Profile
	} else if stored, found, err := storage.GetItem[profile.Profile](ctx, app.store, storage.KeyUserProfile); err == nil && found {
		prof = stored
	}

	categories := errlog.Degrade(ctx, app.errLog, func() (map[string]string, error) {
		return app.catalog.Categories(ctx)
	}, nil)

	fallback := calorie.Result{
		Success: false,
		Errors:  []string{"Calorie calculation failed unexpectedly"},
	}
	return errlog.Degrade(ctx, app.errLog, func() (calorie.Result, error) {
		return calorie.Calculate(req.Workout, prof, categories), nil
	}, fallback)
}
