package storage

import (
	"context"
	"log/slog"
	"time"

	"github.com/jhalonen/kiloburn/internal/calorie"
	"github.com/jhalonen/kiloburn/internal/errors"
)

// Retention defaults, used when the settings keys are absent.
const (
	DefaultMaxRecords     = 100
	DefaultRetentionWeeks = 26
)

// WorkoutRecord is one completed workout as persisted under the workouts key,
// newest first.
type WorkoutRecord struct {
	CompletedAt       time.Time                  `json:"completedAt"`
	Duration          float64                    `json:"duration"` // minutes
	Exercises         []calorie.LoggedExercise   `json:"exercises"`
	TotalCalories     float64                    `json:"totalCalories"`
	AverageMET        float64                    `json:"averageMET"`
	CalculationMethod calorie.Method             `json:"calculationMethod"`
	Breakdown         []calorie.ExerciseCalories `json:"exerciseBreakdown,omitempty"`
}

// WorkoutRepo manages the persisted workout history through the Safe
// accessor.
type WorkoutRepo struct {
	safe   *Safe
	logger *slog.Logger
}

// NewWorkoutRepo creates a workout repository.
func NewWorkoutRepo(safe *Safe, logger *slog.Logger) *WorkoutRepo {
	return &WorkoutRepo{safe: safe, logger: logger}
}

// List returns the stored workout history, newest first. A missing or
// corrupted history reads as empty.
func (r *WorkoutRepo) List(ctx context.Context) ([]WorkoutRecord, error) {
	records, found, err := GetItem[[]WorkoutRecord](ctx, r.safe, KeyWorkouts)
	if err != nil {
		return nil, errors.Wrap(err, "list workouts")
	}
	if !found {
		return nil, nil
	}
	return records, nil
}

// Add prepends a completed workout and saves the trimmed history. When the
// serialized history would exceed the payload ceiling, the oldest half is
// dropped and the save retried so a long history can never block logging a
// new workout.
func (r *WorkoutRepo) Add(ctx context.Context, record WorkoutRecord) error {
	records, err := r.List(ctx)
	if err != nil {
		return err
	}

	records = append([]WorkoutRecord{record}, records...)
	records = trimRecords(records, r.maxRecords(ctx))

	for len(records) > 0 {
		err = SetItem(ctx, r.safe, KeyWorkouts, records)
		if err == nil {
			return nil
		}
		var tracked *errors.TrackedError
		if !errors.As(err, &tracked) || tracked.Code != "DATA_TOO_LARGE" {
			return errors.Wrap(err, "save workouts")
		}
		keep := len(records) / 2
		if keep == 0 {
			return errors.Wrap(err, "save workouts", slog.Int("records", len(records)))
		}
		r.logger.LogAttrs(ctx, slog.LevelWarn, "workout history exceeds storage ceiling, dropping oldest",
			slog.Int("kept", keep))
		records = records[:keep]
	}
	return nil
}

// Prune applies the retention settings: the history is capped to maxRecords
// entries and records older than the retention window are dropped. It returns
// the number of removed records.
func (r *WorkoutRepo) Prune(ctx context.Context) (int, error) {
	records, err := r.List(ctx)
	if err != nil {
		return 0, err
	}
	if len(records) == 0 {
		return 0, nil
	}

	kept := trimRecords(records, r.maxRecords(ctx))

	cutoff := time.Now().AddDate(0, 0, -7*r.retentionWeeks(ctx))
	filtered := kept[:0]
	for _, record := range kept {
		if record.CompletedAt.After(cutoff) {
			filtered = append(filtered, record)
		}
	}

	removed := len(records) - len(filtered)
	if removed == 0 {
		return 0, nil
	}
	if err = SetItem(ctx, r.safe, KeyWorkouts, filtered); err != nil {
		return 0, errors.Wrap(err, "save pruned workouts")
	}
	r.logger.LogAttrs(ctx, slog.LevelInfo, "pruned workout history",
		slog.Int("removed", removed), slog.Int("remaining", len(filtered)))
	return removed, nil
}

func trimRecords(records []WorkoutRecord, maxRecords int) []WorkoutRecord {
	if maxRecords > 0 && len(records) > maxRecords {
		return records[:maxRecords]
	}
	return records
}

// maxRecords reads the configured history cap, falling back to the default.
func (r *WorkoutRepo) maxRecords(ctx context.Context) int {
	value, found, err := GetItem[int](ctx, r.safe, KeyMaxRecords)
	if err != nil || !found || value <= 0 {
		return DefaultMaxRecords
	}
	return value
}

// retentionWeeks reads the configured retention window, falling back to the
// default.
func (r *WorkoutRepo) retentionWeeks(ctx context.Context) int {
	value, found, err := GetItem[int](ctx, r.safe, KeyWorkoutRetentionWeeks)
	if err != nil || !found || value <= 0 {
		return DefaultRetentionWeeks
	}
	return value
}
