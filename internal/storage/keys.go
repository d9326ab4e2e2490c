package storage

// Well-known storage keys. Together with their JSON value shapes these form
// the persisted schema the app must stay compatible with across versions.
const (
	KeyUserProfile           = "userProfile"
	KeyWorkouts              = "workouts"
	KeyExerciseTypes         = "exerciseTypes"
	KeyExerciseCategories    = "exerciseCategories"
	KeyMaxRecords            = "maxRecords"
	KeyWorkoutRetentionWeeks = "workoutRetentionWeeks"
	KeySelectedTheme         = "selectedTheme"
)
