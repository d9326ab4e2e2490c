// Package calorie implements the MET-based energy expenditure engine. The
// engine is pure computation: it never panics, never returns a Go error, and
// reports every failure through the Result it returns.
package calorie

// LoggedExercise is one exercise entry inside a workout as logged by the user.
// Weight is in pounds, matching how the app records strength entries. The
// cardio fields are optional and only feed intensity classification.
type LoggedExercise struct {
	Name           string  `json:"name"`
	Sets           int     `json:"sets"`
	Reps           int     `json:"reps"`
	Weight         float64 `json:"weight"`
	Pace           float64 `json:"pace,omitempty"`
	PaceUnit       string  `json:"paceUnit,omitempty"`
	ElevationAngle float64 `json:"elevationAngle,omitempty"`
	IntervalTime   float64 `json:"intervalTime,omitempty"`
}

// WorkoutData is the transient calculation input. A nil Exercises slice means
// the exercise list is missing entirely, which is a structural error distinct
// from an empty workout.
type WorkoutData struct {
	Exercises []LoggedExercise `json:"exercises"`
	Duration  float64          `json:"duration"` // minutes
}

// Intensity labels how hard an exercise was performed.
type Intensity string

// Intensity tiers.
const (
	IntensityLight    Intensity = "light"
	IntensityModerate Intensity = "moderate"
	IntensityVigorous Intensity = "vigorous"
)

// Method records which profile backed the calculation.
type Method string

// Calculation methods.
const (
	MethodCompleteProfile Method = "complete_profile"
	MethodDefaultValues   Method = "default_values"
)

// ExerciseCalories is one entry of the per-exercise breakdown. Entries exist
// for every input exercise, including ones that failed validation (with zero
// calories), so the breakdown length always matches the input count.
type ExerciseCalories struct {
	Name      string    `json:"name"`
	Calories  float64   `json:"calories"`
	Intensity Intensity `json:"intensity,omitempty"`
	MET       float64   `json:"metValue"`
}

// Result is the complete outcome of a calorie calculation.
//
// Success is false only for structural failures: a missing exercise list, an
// out-of-bounds duration, or an unsound profile. Individual bad exercises
// degrade gracefully and leave Success true.
type Result struct {
	Success             bool               `json:"success"`
	TotalCalories       float64            `json:"totalCalories"`
	Breakdown           []ExerciseCalories `json:"exerciseBreakdown"`
	AverageMET          float64            `json:"averageMET"`
	Errors              []string           `json:"errors,omitempty"`
	Warnings            []string           `json:"warnings,omitempty"`
	FallbacksUsed       []string           `json:"fallbacksUsed,omitempty"`
	CalculationMethod   Method             `json:"calculationMethod"`
	ProfileCompleteness int                `json:"profileCompleteness"`
	Recommendations     []string           `json:"recommendations,omitempty"`
}

// failure builds a structurally failed result. Failed results always carry
// zero calories and at least one error message.
func failure(completeness int, method Method, messages ...string) Result {
	return Result{
		Success:             false,
		TotalCalories:       0,
		Breakdown:           nil,
		AverageMET:          0,
		Errors:              messages,
		CalculationMethod:   method,
		ProfileCompleteness: completeness,
	}
}
