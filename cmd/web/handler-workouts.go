package main

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/jhalonen/kiloburn/internal/calorie"
	"github.com/jhalonen/kiloburn/internal/storage"
)

// workoutsGET returns the persisted workout history, newest first.
func (app *application) workoutsGET(w http.ResponseWriter, r *http.Request) {
	records, err := app.workouts.List(r.Context())
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	if records == nil {
		records = []storage.WorkoutRecord{}
	}
	app.writeJSON(w, r, http.StatusOK, records)
}

type completeWorkoutResponse struct {
	Result calorie.Result        `json:"result"`
	Record storage.WorkoutRecord `json:"record"`
}

// workoutsPOST completes a workout: it runs the calorie estimate and, when
// the workout is structurally valid, appends the record to the history.
func (app *application) workoutsPOST(w http.ResponseWriter, r *http.Request) {
	var req calculateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		app.clientError(w, r, http.StatusBadRequest, "request body is not valid JSON")
		return
	}

	result := app.calculate(r, req)
	if !result.Success {
		// A structurally invalid workout is not worth persisting.
		app.writeJSON(w, r, http.StatusUnprocessableEntity, completeWorkoutResponse{Result: result})
		return
	}

	record := storage.WorkoutRecord{
		CompletedAt:       time.Now(),
		Duration:          req.Workout.Duration,
		Exercises:         req.Workout.Exercises,
		TotalCalories:     result.TotalCalories,
		AverageMET:        result.AverageMET,
		CalculationMethod: result.CalculationMethod,
		Breakdown:         result.Breakdown,
	}
	if err := app.workouts.Add(r.Context(), record); err != nil {
		app.serverError(w, r, err)
		return
	}

	app.writeJSON(w, r, http.StatusCreated, completeWorkoutResponse{
		Result: result,
		Record: record,
	})
}
