package calorie

import (
	"fmt"
	"math"
	"strings"

	"github.com/jhalonen/kiloburn/internal/profile"
)

const (
	// MaxDurationMinutes caps the accepted workout duration at 24 hours.
	MaxDurationMinutes = 1440

	// longDurationMinutes and highCalorieTotal mark valid-but-unusual
	// inputs that only produce warnings.
	longDurationMinutes = 240
	highCalorieTotal    = 2000.0

	femaleAdjustment = 0.93

	minutesPerHour = 60.0
)

// Calculate estimates the calories burned for a workout.
//
// The categories map resolves exercise names (lowercased) to MET categories;
// names missing from it fall back to the default category with a notice. A
// structurally invalid workout or profile yields Success=false and no
// per-exercise processing; an invalid individual exercise only records its
// violation messages and contributes a zero-calorie breakdown entry while the
// remaining exercises proceed.
func Calculate(data WorkoutData, prof profile.Profile, categories map[string]string) Result {
	// Structural workout validation short-circuits before any per-exercise
	// work happens.
	if structural := validateWorkoutShape(data); len(structural) > 0 {
		return failure(profile.Completeness(prof), MethodCompleteProfile, structural...)
	}

	// An absent or incomplete profile is substituted with the default
	// profile; a complete but unsound one rejects the whole request.
	prof, result := resolveProfile(prof)
	if !result.Success {
		return result
	}

	if len(data.Exercises) == 0 {
		result.Warnings = append(result.Warnings, "No exercises provided")
		return result
	}

	weightKg := prof.WeightKg()
	adjustment := profileAdjustment(prof)
	hoursPerExercise := data.Duration / minutesPerHour / float64(len(data.Exercises))

	result.Breakdown = make([]ExerciseCalories, 0, len(data.Exercises))
	var total, metSum float64
	var resolved int

	for i, ex := range data.Exercises {
		if messages := validateExercise(i, ex); len(messages) > 0 {
			result.Errors = append(result.Errors, messages...)
			result.Breakdown = append(result.Breakdown, ExerciseCalories{Name: ex.Name})
			continue
		}

		category, ok := lookupCategory(categories, ex.Name)
		if !ok {
			result.FallbacksUsed = append(result.FallbacksUsed,
				fmt.Sprintf("Used default category for %s", ex.Name))
		}

		met, intensity := resolveMET(ex, category)
		calories := met * weightKg * hoursPerExercise * adjustment
		if !isFinite(calories) {
			result.Errors = append(result.Errors,
				fmt.Sprintf("Calculation for %s produced a non-finite value", ex.Name))
			result.Breakdown = append(result.Breakdown, ExerciseCalories{Name: ex.Name})
			continue
		}

		calories = round1(calories)
		total += calories
		metSum += met
		resolved++
		result.Breakdown = append(result.Breakdown, ExerciseCalories{
			Name:      ex.Name,
			Calories:  calories,
			Intensity: intensity,
			MET:       round1(met),
		})
	}

	result.TotalCalories = round1(total)
	if resolved > 0 {
		result.AverageMET = round1(metSum / float64(resolved))
	}

	if data.Duration > longDurationMinutes {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Unusually long workout duration: %.0f minutes", data.Duration))
	}
	if result.TotalCalories > highCalorieTotal {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Unusually high calorie total: %.0f kcal", result.TotalCalories))
	}

	return result
}

// validateWorkoutShape checks the workout-level structure. A nil exercise
// slice is reported differently from an empty one, which is valid.
func validateWorkoutShape(data WorkoutData) []string {
	var messages []string
	if data.Exercises == nil {
		messages = append(messages, "Workout is missing its exercise list")
	}
	switch {
	case math.IsNaN(data.Duration) || math.IsInf(data.Duration, 0) || data.Duration <= 0:
		messages = append(messages, "Workout duration must be a positive number of minutes")
	case data.Duration > MaxDurationMinutes:
		messages = append(messages,
			fmt.Sprintf("Workout duration cannot exceed %d minutes", MaxDurationMinutes))
	}
	return messages
}

// resolveProfile substitutes the default profile when the given one is
// incomplete, and rejects complete-but-invalid profiles. The returned Result
// is pre-populated with the method, completeness and any fallback notice.
func resolveProfile(prof profile.Profile) (profile.Profile, Result) {
	completeness := profile.Completeness(prof)
	if completeness < 100 {
		result := Result{
			Success:             true,
			CalculationMethod:   MethodDefaultValues,
			ProfileCompleteness: completeness,
			FallbacksUsed:       []string{"Used default profile values"},
			Recommendations: []string{
				"Complete your profile in Settings for a more accurate estimate",
			},
		}
		return profile.Default(), result
	}

	if validation := profile.Validate(prof); !validation.IsValid {
		return prof, failure(completeness, MethodCompleteProfile, validation.Errors...)
	}

	return prof, Result{
		Success:             true,
		CalculationMethod:   MethodCompleteProfile,
		ProfileCompleteness: completeness,
	}
}

// validateExercise checks a single exercise entry. Every violated rule
// produces its own message; the entry is rejected as a whole if any fail.
func validateExercise(index int, ex LoggedExercise) []string {
	label := fmt.Sprintf("Exercise %d", index+1)
	if name := strings.TrimSpace(ex.Name); name != "" {
		label = fmt.Sprintf("%s (%s)", label, name)
	}

	var messages []string
	if strings.TrimSpace(ex.Name) == "" {
		messages = append(messages, label+": name must not be empty")
	}
	if ex.Sets < 0 {
		messages = append(messages, label+": sets must be a non-negative number")
	}
	if ex.Reps < 0 {
		messages = append(messages, label+": reps must be a non-negative number")
	}
	if ex.Weight < 0 || !isFinite(ex.Weight) {
		messages = append(messages, label+": weight must be a non-negative finite number")
	}
	return messages
}

// lookupCategory resolves an exercise name against the catalog. The second
// return value reports whether the name was known.
func lookupCategory(categories map[string]string, name string) (string, bool) {
	if category, ok := categories[strings.ToLower(strings.TrimSpace(name))]; ok && category != "" {
		return category, true
	}
	return DefaultCategory, false
}

// profileAdjustment combines the sex factor and the BMI band multiplier.
// Heavier-than-reference bodies burn slightly more per MET-hour, lighter ones
// slightly less, bounded within ±10%.
func profileAdjustment(prof profile.Profile) float64 {
	adjustment := 1.0
	if prof.Sex == profile.SexFemale {
		adjustment *= femaleAdjustment
	}

	heightM := prof.HeightCm() / 100
	if heightM <= 0 {
		return adjustment
	}
	bmi := prof.WeightKg() / (heightM * heightM)
	switch {
	case bmi < 18.5:
		adjustment *= 0.95
	case bmi >= 30:
		adjustment *= 1.10
	case bmi >= 25:
		adjustment *= 1.05
	}
	return adjustment
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func round1(f float64) float64 {
	return math.Round(f*10) / 10
}
