package calorie

import (
	"strings"

	"github.com/jhalonen/kiloburn/internal/units"
)

// DefaultCategory is used when an exercise name is not present in the
// category catalog. Falling back to it is an observable degradation, not an
// error: the result records a notice in FallbacksUsed.
const DefaultCategory = "default"

// baseMET maps an exercise category to its base MET value. Strength
// categories sit in the 3.0-6.0 band, cardio categories in 4.0-12.0.
// Values follow the compendium of physical activities, rounded to halves.
var baseMET = map[string]float64{
	"chest":     4.0,
	"back":      4.5,
	"legs":      5.0,
	"shoulders": 4.0,
	"arms":      3.5,
	"core":      4.0,
	"full_body": 5.5,

	"cardio":  7.0,
	"running": 9.0,
	"cycling": 7.5,
	"rowing":  7.0,
	"hiit":    10.0,

	DefaultCategory: 3.5,
}

// cardioCategories marks categories whose intensity is driven by pace and
// elevation rather than lifted load.
var cardioCategories = map[string]bool{
	"cardio":  true,
	"running": true,
	"cycling": true,
	"rowing":  true,
	"hiit":    true,
}

// Intensity multipliers applied to the base MET. Vigorous work scales up by
// 35%, light work down by 15%, within the published adjustment bands.
const (
	vigorousMultiplier = 1.35
	moderateMultiplier = 1.0
	lightMultiplier    = 0.85
)

// Strength intensity thresholds on volume load (sets x reps x weight in kg).
const (
	lightVolumeLoadKg    = 300.0
	vigorousVolumeLoadKg = 1800.0
)

// Cardio intensity thresholds.
const (
	vigorousPaceKmh      = 10.0
	lightPaceKmh         = 5.0
	vigorousElevationDeg = 5.0
)

// resolveMET returns the effective MET value and intensity tier for an
// exercise in the given category. The category must already be resolved from
// the exercise-type catalog; unknown names should arrive as DefaultCategory.
func resolveMET(ex LoggedExercise, category string) (float64, Intensity) {
	base, ok := baseMET[strings.ToLower(strings.TrimSpace(category))]
	if !ok {
		base = baseMET[DefaultCategory]
	}

	intensity := classifyIntensity(ex, category)
	switch intensity {
	case IntensityVigorous:
		return base * vigorousMultiplier, intensity
	case IntensityLight:
		return base * lightMultiplier, intensity
	case IntensityModerate:
		return base * moderateMultiplier, intensity
	}
	return base, IntensityModerate
}

// classifyIntensity applies per-kind heuristics: volume load for strength
// work, pace and elevation for cardio.
func classifyIntensity(ex LoggedExercise, category string) Intensity {
	if cardioCategories[strings.ToLower(strings.TrimSpace(category))] {
		if ex.Pace >= vigorousPaceKmh || ex.ElevationAngle >= vigorousElevationDeg {
			return IntensityVigorous
		}
		if ex.Pace > 0 && ex.Pace <= lightPaceKmh {
			return IntensityLight
		}
		return IntensityModerate
	}

	volumeLoad := float64(ex.Sets) * float64(ex.Reps) * units.LbsToKg(ex.Weight)
	switch {
	case volumeLoad >= vigorousVolumeLoadKg:
		return IntensityVigorous
	case volumeLoad < lightVolumeLoadKg:
		return IntensityLight
	default:
		return IntensityModerate
	}
}
