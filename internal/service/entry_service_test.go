package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fittrack/internal/domain"
)

func newTestEntryService(store *fakeStore) EntryService {
	return NewEntryService(
		&fakeEntryRepo{store},
		&fakeExerciseRepo{store},
		NewCalorieEstimator(&fakeWeightRepo{store}, testLogger()),
	)
}

func logTestEntry(t *testing.T, svc EntryService, store *fakeStore, userID int64, sets ...domain.EntrySet) *domain.ExerciseEntry {
	t.Helper()
	ex := store.addExercise(domain.Exercise{Name: "Bench Press", Category: "strength", Level: "intermediate"})
	entry, err := svc.LogEntry(context.Background(), userID, &domain.ExerciseEntry{
		ExerciseID: ex.ID,
		EntryDate:  date(2024, time.January, 3),
		Sets:       sets,
	})
	require.NoError(t, err)
	return entry
}

func assertContiguous(t *testing.T, sets []domain.EntrySet) {
	t.Helper()
	for i, s := range sets {
		assert.Equal(t, i+1, s.SetNumber, "set at index %d", i)
	}
}

func TestLogEntryNormalizes(t *testing.T) {
	store := newFakeStore()
	svc := newTestEntryService(store)

	entry := logTestEntry(t, svc, store, 7,
		domain.EntrySet{Reps: 10, Weight: 60},
		domain.EntrySet{SetType: domain.SetTypeWarmup, Reps: 15, Weight: 20},
	)

	assert.Equal(t, int64(7), entry.UserID)
	assert.Nil(t, entry.PlanAssignmentID)
	require.Len(t, entry.Sets, 2)
	assertContiguous(t, entry.Sets)
	// Untyped sets default to working sets.
	assert.Equal(t, domain.SetTypeWorking, entry.Sets[0].SetType)
	assert.Equal(t, domain.SetTypeWarmup, entry.Sets[1].SetType)
}

func TestLogEntryRejectsUnknownSetType(t *testing.T) {
	store := newFakeStore()
	ex := store.addExercise(domain.Exercise{Name: "Row"})
	svc := newTestEntryService(store)

	_, err := svc.LogEntry(context.Background(), 7, &domain.ExerciseEntry{
		ExerciseID: ex.ID,
		EntryDate:  date(2024, time.January, 3),
		Sets:       []domain.EntrySet{{SetType: "Mega Set", Reps: 10}},
	})
	assert.ErrorIs(t, err, ErrValidationFailed)
}

func TestLogEntryRejectsUnknownExercise(t *testing.T) {
	store := newFakeStore()
	svc := newTestEntryService(store)

	_, err := svc.LogEntry(context.Background(), 7, &domain.ExerciseEntry{
		ExerciseID: 404,
		EntryDate:  date(2024, time.January, 3),
	})
	assert.ErrorIs(t, err, ErrExerciseNotFound)
}

func TestLogEntryFillsCaloriesFromDuration(t *testing.T) {
	store := newFakeStore()
	ex := store.addExercise(domain.Exercise{Name: "Run", Category: "cardio", Level: "intermediate"})
	svc := newTestEntryService(store)

	entry, err := svc.LogEntry(context.Background(), 7, &domain.ExerciseEntry{
		ExerciseID:      ex.ID,
		EntryDate:       date(2024, time.January, 3),
		DurationMinutes: 45,
	})
	require.NoError(t, err)

	perHour := EstimateCaloriesPerHour("cardio", "intermediate", defaultWeightKg)
	assert.Equal(t, CaloriesForDuration(perHour, 45), entry.CaloriesBurned)
}

func TestLogEntryKeepsExplicitCalories(t *testing.T) {
	store := newFakeStore()
	ex := store.addExercise(domain.Exercise{Name: "Run", Category: "cardio", Level: "intermediate"})
	svc := newTestEntryService(store)

	entry, err := svc.LogEntry(context.Background(), 7, &domain.ExerciseEntry{
		ExerciseID:      ex.ID,
		EntryDate:       date(2024, time.January, 3),
		DurationMinutes: 45,
		CaloriesBurned:  512,
	})
	require.NoError(t, err)
	assert.Equal(t, 512, entry.CaloriesBurned)
}

func TestUpdateEntryReplacesSets(t *testing.T) {
	store := newFakeStore()
	svc := newTestEntryService(store)

	entry := logTestEntry(t, svc, store, 7,
		domain.EntrySet{Reps: 10, Weight: 60},
		domain.EntrySet{Reps: 8, Weight: 70},
	)

	update := *entry
	update.Notes = "deload week"
	update.Sets = []domain.EntrySet{
		{Reps: 12, Weight: 40},
		{SetType: domain.SetTypeWarmup, Reps: 15, Weight: 20},
		{Reps: 12, Weight: 40},
	}

	updated, err := svc.UpdateEntry(context.Background(), 7, &update)
	require.NoError(t, err)
	assert.Equal(t, "deload week", updated.Notes)
	require.Len(t, updated.Sets, 3)
	assertContiguous(t, updated.Sets)
	assert.Equal(t, domain.SetTypeWorking, updated.Sets[0].SetType)
	assert.Equal(t, domain.SetTypeWarmup, updated.Sets[1].SetType)
	assert.Equal(t, 40.0, updated.Sets[2].Weight)
}

func TestUpdateEntryRejectsUnknownSetType(t *testing.T) {
	store := newFakeStore()
	svc := newTestEntryService(store)

	entry := logTestEntry(t, svc, store, 7, domain.EntrySet{Reps: 10})

	update := *entry
	update.Sets = []domain.EntrySet{{SetType: "Mega Set", Reps: 10}}
	_, err := svc.UpdateEntry(context.Background(), 7, &update)
	assert.ErrorIs(t, err, ErrValidationFailed)
}

func TestAddSetRenumbers(t *testing.T) {
	store := newFakeStore()
	svc := newTestEntryService(store)
	entry := logTestEntry(t, svc, store, 7, domain.EntrySet{Reps: 10}, domain.EntrySet{Reps: 8})

	updated, err := svc.AddSet(context.Background(), 7, entry.ID, domain.EntrySet{Reps: 6, Weight: 80})
	require.NoError(t, err)

	require.Len(t, updated.Sets, 3)
	assertContiguous(t, updated.Sets)
	assert.Equal(t, 6, updated.Sets[2].Reps)
	assert.Equal(t, domain.SetTypeWorking, updated.Sets[2].SetType)
}

func TestRemoveMiddleSetClosesGap(t *testing.T) {
	store := newFakeStore()
	svc := newTestEntryService(store)
	entry := logTestEntry(t, svc, store, 7,
		domain.EntrySet{Reps: 10}, domain.EntrySet{Reps: 8}, domain.EntrySet{Reps: 6})

	updated, err := svc.RemoveSet(context.Background(), 7, entry.ID, 2)
	require.NoError(t, err)

	require.Len(t, updated.Sets, 2)
	assertContiguous(t, updated.Sets)
	assert.Equal(t, 10, updated.Sets[0].Reps)
	assert.Equal(t, 6, updated.Sets[1].Reps)
}

func TestUpdateSetByNumber(t *testing.T) {
	store := newFakeStore()
	svc := newTestEntryService(store)
	entry := logTestEntry(t, svc, store, 7, domain.EntrySet{Reps: 10}, domain.EntrySet{Reps: 8})

	updated, err := svc.UpdateSet(context.Background(), 7, entry.ID, 2,
		domain.EntrySet{SetType: domain.SetTypeDrop, Reps: 12, Weight: 40})
	require.NoError(t, err)

	require.Len(t, updated.Sets, 2)
	assertContiguous(t, updated.Sets)
	assert.Equal(t, domain.SetTypeDrop, updated.Sets[1].SetType)
	assert.Equal(t, 12, updated.Sets[1].Reps)

	_, err = svc.UpdateSet(context.Background(), 7, entry.ID, 9, domain.EntrySet{Reps: 1})
	assert.ErrorIs(t, err, ErrSetNotFound)
}

func TestReorderSets(t *testing.T) {
	store := newFakeStore()
	svc := newTestEntryService(store)
	entry := logTestEntry(t, svc, store, 7,
		domain.EntrySet{Reps: 10}, domain.EntrySet{Reps: 8}, domain.EntrySet{Reps: 6})

	updated, err := svc.ReorderSets(context.Background(), 7, entry.ID, []int{3, 1, 2})
	require.NoError(t, err)

	require.Len(t, updated.Sets, 3)
	assertContiguous(t, updated.Sets)
	assert.Equal(t, 6, updated.Sets[0].Reps)
	assert.Equal(t, 10, updated.Sets[1].Reps)
	assert.Equal(t, 8, updated.Sets[2].Reps)
}

func TestReorderSetsRejectsBadPermutations(t *testing.T) {
	store := newFakeStore()
	svc := newTestEntryService(store)
	entry := logTestEntry(t, svc, store, 7, domain.EntrySet{Reps: 10}, domain.EntrySet{Reps: 8})

	for _, order := range [][]int{
		{1},       // too short
		{1, 1},    // duplicate
		{1, 9},    // unknown number
		{1, 2, 3}, // too long
	} {
		_, err := svc.ReorderSets(context.Background(), 7, entry.ID, order)
		assert.ErrorIs(t, err, ErrValidationFailed, "order %v", order)
	}
}

func TestEntryOwnership(t *testing.T) {
	store := newFakeStore()
	svc := newTestEntryService(store)
	entry := logTestEntry(t, svc, store, 7, domain.EntrySet{Reps: 10})

	_, err := svc.GetEntry(context.Background(), 99, entry.ID)
	assert.ErrorIs(t, err, ErrEntryAccessDenied)

	_, err = svc.AddSet(context.Background(), 99, entry.ID, domain.EntrySet{Reps: 5})
	assert.ErrorIs(t, err, ErrEntryAccessDenied)

	err = svc.DeleteEntry(context.Background(), 99, entry.ID)
	assert.ErrorIs(t, err, ErrEntryNotFound)

	_, err = svc.GetEntry(context.Background(), 7, 12345)
	assert.ErrorIs(t, err, ErrEntryNotFound)
}

func TestSummaryAggregatesRange(t *testing.T) {
	store := newFakeStore()
	ex := store.addExercise(domain.Exercise{Name: "Run", Category: "cardio", Level: "beginner"})
	svc := newTestEntryService(store)

	for day := 1; day <= 3; day++ {
		_, err := svc.LogEntry(context.Background(), 7, &domain.ExerciseEntry{
			ExerciseID:      ex.ID,
			EntryDate:       date(2024, time.January, day),
			DurationMinutes: 30,
			CaloriesBurned:  200,
		})
		require.NoError(t, err)
	}

	summary, err := svc.Summary(context.Background(), 7,
		date(2024, time.January, 1), date(2024, time.January, 2))
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Entries)
	assert.Equal(t, 60, summary.TotalMinutes)
	assert.Equal(t, 400, summary.TotalCalories)
}
