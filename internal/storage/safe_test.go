package storage_test

import (
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/jhalonen/kiloburn/internal/calorie"
	"github.com/jhalonen/kiloburn/internal/errlog"
	"github.com/jhalonen/kiloburn/internal/errors"
	"github.com/jhalonen/kiloburn/internal/storage"
	"github.com/jhalonen/kiloburn/internal/testhelpers"
)

func newTestSafe(t *testing.T) (*storage.Safe, *storage.Database, *errlog.Log) {
	t.Helper()
	ctx := t.Context()
	logger := testhelpers.NewLogger(testhelpers.NewWriter(t))

	db, err := storage.NewDatabase(ctx, ":memory:", logger)
	if err != nil {
		t.Fatalf("NewDatabase() error = %v", err)
	}
	t.Cleanup(func() {
		if closeErr := db.Close(); closeErr != nil {
			t.Errorf("close database: %v", closeErr)
		}
	})

	errLog := errlog.New(logger)
	return storage.NewSafe(db, errLog), db, errLog
}

func TestSetGetRoundTrip(t *testing.T) {
	safe, _, _ := newTestSafe(t)
	ctx := t.Context()

	type theme struct {
		Name string `json:"name"`
		Dark bool   `json:"dark"`
	}
	want := theme{Name: "forest", Dark: true}

	if err := storage.SetItem(ctx, safe, storage.KeySelectedTheme, want); err != nil {
		t.Fatalf("SetItem() error = %v", err)
	}
	got, found, err := storage.GetItem[theme](ctx, safe, storage.KeySelectedTheme)
	if err != nil {
		t.Fatalf("GetItem() error = %v", err)
	}
	if !found {
		t.Fatal("GetItem() found = false after SetItem")
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestGetMissingKey(t *testing.T) {
	safe, _, _ := newTestSafe(t)

	_, found, err := storage.GetItem[string](t.Context(), safe, "neverStored")
	if err != nil {
		t.Fatalf("GetItem() error = %v, want nil for a missing key", err)
	}
	if found {
		t.Error("found = true for a missing key")
	}
}

func TestSetItemRejectsOversizedPayload(t *testing.T) {
	safe, db, errLog := newTestSafe(t)
	ctx := t.Context()

	huge := strings.Repeat("x", storage.MaxPayloadBytes+1)
	err := storage.SetItem(ctx, safe, "oversized", huge)
	if err == nil {
		t.Fatal("SetItem() error = nil, want DATA_TOO_LARGE")
	}
	var tracked *errors.TrackedError
	if !errors.As(err, &tracked) || tracked.Code != "DATA_TOO_LARGE" {
		t.Fatalf("error = %v, want code DATA_TOO_LARGE", err)
	}
	if tracked.Retryable {
		t.Error("DATA_TOO_LARGE must not be retryable")
	}

	// The store must never have been written.
	var count int
	if scanErr := db.ReadOnly.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM kv WHERE key = ?`, "oversized").Scan(&count); scanErr != nil {
		t.Fatalf("count query: %v", scanErr)
	}
	if count != 0 {
		t.Error("oversized payload reached the underlying store")
	}
	if errLog.Len() != 1 {
		t.Errorf("error log has %d entries, want 1", errLog.Len())
	}
}

func TestGetItemPurgesCorruptedValue(t *testing.T) {
	safe, db, errLog := newTestSafe(t)
	ctx := t.Context()

	// Corrupt the stored value behind the accessor's back.
	_, err := db.ReadWrite.ExecContext(ctx,
		`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)`,
		storage.KeyUserProfile, `{"age": not-json`, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		t.Fatalf("inject corrupted value: %v", err)
	}

	type profileDoc struct {
		Age int `json:"age"`
	}
	_, found, err := storage.GetItem[profileDoc](ctx, safe, storage.KeyUserProfile)
	if err != nil {
		t.Fatalf("GetItem() error = %v, want corruption to read as absence", err)
	}
	if found {
		t.Error("found = true for a corrupted value")
	}

	// The corruption is still diagnosable through the error log.
	entries := errLog.Recent(1)
	if len(entries) == 0 {
		t.Fatal("corruption must be recorded in the error log")
	}
	tracked := entries[0]
	if tracked.Code != "PARSE_ERROR" {
		t.Fatalf("logged error code = %q, want PARSE_ERROR", tracked.Code)
	}
	if tracked.UserMessage == "" || tracked.Suggestion == "" {
		t.Error("PARSE_ERROR must carry user-facing guidance")
	}

	// The corrupted key must have been purged.
	var count int
	if scanErr := db.ReadOnly.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM kv WHERE key = ?`, storage.KeyUserProfile).Scan(&count); scanErr != nil {
		t.Fatalf("count query: %v", scanErr)
	}
	if count != 0 {
		t.Error("corrupted value still present after read")
	}
}

func TestRemoveItem(t *testing.T) {
	safe, _, _ := newTestSafe(t)
	ctx := t.Context()

	if err := storage.SetItem(ctx, safe, storage.KeyMaxRecords, 50); err != nil {
		t.Fatalf("SetItem() error = %v", err)
	}
	if err := safe.RemoveItem(ctx, storage.KeyMaxRecords); err != nil {
		t.Fatalf("RemoveItem() error = %v", err)
	}
	_, found, err := storage.GetItem[int](ctx, safe, storage.KeyMaxRecords)
	if err != nil || found {
		t.Errorf("GetItem() after remove = (found=%v, err=%v), want absent", found, err)
	}

	// Removing an absent key is not an error.
	if err := safe.RemoveItem(ctx, "neverStored"); err != nil {
		t.Errorf("RemoveItem(absent) error = %v", err)
	}
}

func TestWorkoutRepoAddAndList(t *testing.T) {
	safe, _, _ := newTestSafe(t)
	ctx := t.Context()
	logger := testhelpers.NewLogger(testhelpers.NewWriter(t))
	repo := storage.NewWorkoutRepo(safe, logger)

	first := storage.WorkoutRecord{
		CompletedAt:   time.Now().Add(-time.Hour),
		Duration:      45,
		Exercises:     []calorie.LoggedExercise{{Name: "Squat", Sets: 3, Reps: 8, Weight: 135}},
		TotalCalories: 250,
	}
	second := storage.WorkoutRecord{
		CompletedAt:   time.Now(),
		Duration:      30,
		Exercises:     []calorie.LoggedExercise{{Name: "Running", Pace: 10}},
		TotalCalories: 320,
	}

	if err := repo.Add(ctx, first); err != nil {
		t.Fatalf("Add(first) error = %v", err)
	}
	if err := repo.Add(ctx, second); err != nil {
		t.Fatalf("Add(second) error = %v", err)
	}

	records, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("List() returned %d records, want 2", len(records))
	}
	if records[0].TotalCalories != 320 {
		t.Errorf("newest record first: got %v calories, want 320", records[0].TotalCalories)
	}
}

func TestWorkoutRepoListCorruptedHistoryReadsEmpty(t *testing.T) {
	safe, db, errLog := newTestSafe(t)
	ctx := t.Context()
	logger := testhelpers.NewLogger(testhelpers.NewWriter(t))
	repo := storage.NewWorkoutRepo(safe, logger)

	_, err := db.ReadWrite.ExecContext(ctx,
		`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)`,
		storage.KeyWorkouts, `[{"duration": not-json`, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		t.Fatalf("inject corrupted value: %v", err)
	}

	records, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v, want corrupted history to read as empty", err)
	}
	if len(records) != 0 {
		t.Fatalf("List() returned %d records, want 0", len(records))
	}
	if errLog.Len() == 0 {
		t.Error("corruption must be recorded in the error log")
	}

	// The history is usable again after the purge.
	if err = repo.Add(ctx, storage.WorkoutRecord{CompletedAt: time.Now(), Duration: 30}); err != nil {
		t.Fatalf("Add() after purge error = %v", err)
	}
	records, err = repo.List(ctx)
	if err != nil || len(records) != 1 {
		t.Fatalf("List() after rebuild = (%d records, err=%v), want 1 record", len(records), err)
	}
}

func TestWorkoutRepoPrune(t *testing.T) {
	safe, _, _ := newTestSafe(t)
	ctx := t.Context()
	logger := testhelpers.NewLogger(testhelpers.NewWriter(t))
	repo := storage.NewWorkoutRepo(safe, logger)

	recent := storage.WorkoutRecord{CompletedAt: time.Now(), Duration: 30}
	older := storage.WorkoutRecord{CompletedAt: time.Now().Add(-24 * time.Hour), Duration: 30}
	ancient := storage.WorkoutRecord{
		CompletedAt: time.Now().AddDate(0, 0, -7*storage.DefaultRetentionWeeks-1),
		Duration:    30,
	}

	for _, record := range []storage.WorkoutRecord{ancient, older, recent} {
		if err := repo.Add(ctx, record); err != nil {
			t.Fatalf("Add() error = %v", err)
		}
	}

	removed, err := repo.Prune(ctx)
	if err != nil {
		t.Fatalf("Prune() error = %v", err)
	}
	if removed == 0 {
		t.Fatal("Prune() removed nothing, want the ancient record gone")
	}
	records, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	for _, record := range records {
		if !record.CompletedAt.After(time.Now().AddDate(0, 0, -7*storage.DefaultRetentionWeeks)) {
			t.Errorf("record from %v survived retention pruning", record.CompletedAt)
		}
	}
}

func TestCatalogRepo(t *testing.T) {
	safe, _, _ := newTestSafe(t)
	ctx := t.Context()
	repo := storage.NewCatalogRepo(safe)

	categories, err := repo.Categories(ctx)
	if err != nil {
		t.Fatalf("Categories() error = %v", err)
	}
	if categories["bench press"] != "chest" {
		t.Errorf(`default catalog: categories["bench press"] = %q, want "chest"`, categories["bench press"])
	}

	if err = repo.Define(ctx, "Nordic Curl", "legs"); err != nil {
		t.Fatalf("Define() error = %v", err)
	}
	categories, err = repo.Categories(ctx)
	if err != nil {
		t.Fatalf("Categories() error = %v", err)
	}
	if categories["nordic curl"] != "legs" {
		t.Errorf(`user-defined mapping: categories["nordic curl"] = %q, want "legs"`, categories["nordic curl"])
	}
}
