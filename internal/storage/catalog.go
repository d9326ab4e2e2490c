package storage

import (
	"context"
	"strings"

	"github.com/jhalonen/kiloburn/internal/errors"
)

// defaultCategories seeds the exercise-type catalog on first run. Keys are
// lowercased exercise names, values are MET categories understood by the
// calorie engine.
var defaultCategories = map[string]string{
	"push-ups":         "chest",
	"bench press":      "chest",
	"incline press":    "chest",
	"chest fly":        "chest",
	"pull-ups":         "back",
	"deadlift":         "back",
	"barbell row":      "back",
	"lat pulldown":     "back",
	"squat":            "legs",
	"leg press":        "legs",
	"lunges":           "legs",
	"calf raise":       "legs",
	"shoulder press":   "shoulders",
	"lateral raise":    "shoulders",
	"bicep curl":       "arms",
	"tricep dip":       "arms",
	"plank":            "core",
	"crunches":         "core",
	"russian twist":    "core",
	"burpees":          "full_body",
	"kettlebell swing": "full_body",
	"running":          "running",
	"treadmill":        "running",
	"cycling":          "cycling",
	"rowing":           "rowing",
	"jump rope":        "cardio",
	"stair climber":    "cardio",
	"swimming":         "cardio",
	"hiit circuit":     "hiit",
}

// CatalogRepo resolves exercise names to MET categories. User additions are
// stored under the exerciseCategories key and win over the built-in defaults.
type CatalogRepo struct {
	safe *Safe
}

// NewCatalogRepo creates an exercise catalog repository.
func NewCatalogRepo(safe *Safe) *CatalogRepo {
	return &CatalogRepo{safe: safe}
}

// Categories returns the merged catalog: the built-in defaults overlaid with
// any stored user-defined mappings.
func (r *CatalogRepo) Categories(ctx context.Context) (map[string]string, error) {
	merged := make(map[string]string, len(defaultCategories))
	for name, category := range defaultCategories {
		merged[name] = category
	}

	stored, found, err := GetItem[map[string]string](ctx, r.safe, KeyExerciseCategories)
	if err != nil {
		return nil, errors.Wrap(err, "load exercise categories")
	}
	if found {
		for name, category := range stored {
			merged[strings.ToLower(strings.TrimSpace(name))] = category
		}
	}
	return merged, nil
}

// Define stores a user-defined exercise-to-category mapping.
func (r *CatalogRepo) Define(ctx context.Context, name, category string) error {
	stored, _, err := GetItem[map[string]string](ctx, r.safe, KeyExerciseCategories)
	if err != nil {
		return errors.Wrap(err, "load exercise categories")
	}
	if stored == nil {
		stored = make(map[string]string)
	}
	stored[strings.ToLower(strings.TrimSpace(name))] = category
	if err = SetItem(ctx, r.safe, KeyExerciseCategories, stored); err != nil {
		return errors.Wrap(err, "save exercise categories")
	}
	return nil
}
