package service

import (
	"context"
	"time"

	"fittrack/internal/domain"
	"fittrack/internal/repository"
)

// fakeStore is a shared in-memory backing store for the repository fakes.
// The per-interface types below are thin views over it so that the plan
// save path can exercise the same data through the Tx surface.
type fakeStore struct {
	plans          map[int64]*domain.WorkoutPlan
	assignmentPlan map[int64]int64
	presets        map[int64]*domain.WorkoutPreset
	exercises      map[int64]*domain.Exercise
	entries        map[int64]*domain.ExerciseEntry
	weights        map[int64][]domain.WeightMeasurement

	nextPlanID       int64
	nextAssignmentID int64
	nextEntryID      int64
	nextPresetID     int64
	nextExerciseID   int64
	nextWeightID     int64

	// entryCreateFailAfter, when positive, makes entry creation fail once
	// that many entries have been created. Used to force mid-pass errors.
	entryCreateFailAfter int
	entriesCreated       int
	entryCreateErr       error
	weightLatestErr      error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		plans:          make(map[int64]*domain.WorkoutPlan),
		assignmentPlan: make(map[int64]int64),
		presets:        make(map[int64]*domain.WorkoutPreset),
		exercises:      make(map[int64]*domain.Exercise),
		entries:        make(map[int64]*domain.ExerciseEntry),
		weights:        make(map[int64][]domain.WeightMeasurement),
	}
}

func (s *fakeStore) addExercise(ex domain.Exercise) *domain.Exercise {
	s.nextExerciseID++
	ex.ID = s.nextExerciseID
	s.exercises[ex.ID] = &ex
	return &ex
}

func (s *fakeStore) addPreset(p domain.WorkoutPreset) *domain.WorkoutPreset {
	s.nextPresetID++
	p.ID = s.nextPresetID
	s.presets[p.ID] = &p
	return &p
}

func copyPlan(p *domain.WorkoutPlan) *domain.WorkoutPlan {
	cp := *p
	cp.Assignments = append([]domain.PlanAssignment(nil), p.Assignments...)
	return &cp
}

func copyEntry(e *domain.ExerciseEntry) *domain.ExerciseEntry {
	cp := *e
	cp.Sets = append([]domain.EntrySet(nil), e.Sets...)
	if e.PlanAssignmentID != nil {
		id := *e.PlanAssignmentID
		cp.PlanAssignmentID = &id
	}
	return &cp
}

func copyPreset(p *domain.WorkoutPreset) *domain.WorkoutPreset {
	cp := *p
	cp.Exercises = append([]domain.PresetExercise(nil), p.Exercises...)
	return &cp
}

// snapshot captures the mutable state so a failed transaction can be
// rolled back to it.
type storeSnapshot struct {
	plans          map[int64]*domain.WorkoutPlan
	assignmentPlan map[int64]int64
	entries        map[int64]*domain.ExerciseEntry

	nextPlanID       int64
	nextAssignmentID int64
	nextEntryID      int64
	entriesCreated   int
}

func (s *fakeStore) snapshot() storeSnapshot {
	snap := storeSnapshot{
		plans:            make(map[int64]*domain.WorkoutPlan, len(s.plans)),
		assignmentPlan:   make(map[int64]int64, len(s.assignmentPlan)),
		entries:          make(map[int64]*domain.ExerciseEntry, len(s.entries)),
		nextPlanID:       s.nextPlanID,
		nextAssignmentID: s.nextAssignmentID,
		nextEntryID:      s.nextEntryID,
		entriesCreated:   s.entriesCreated,
	}
	for id, p := range s.plans {
		snap.plans[id] = copyPlan(p)
	}
	for a, p := range s.assignmentPlan {
		snap.assignmentPlan[a] = p
	}
	for id, e := range s.entries {
		snap.entries[id] = copyEntry(e)
	}
	return snap
}

func (s *fakeStore) restore(snap storeSnapshot) {
	s.plans = snap.plans
	s.assignmentPlan = snap.assignmentPlan
	s.entries = snap.entries
	s.nextPlanID = snap.nextPlanID
	s.nextAssignmentID = snap.nextAssignmentID
	s.nextEntryID = snap.nextEntryID
	s.entriesCreated = snap.entriesCreated
}

// --- WorkoutPlanRepository ---

type fakePlanRepo struct{ s *fakeStore }

func (r *fakePlanRepo) Create(ctx context.Context, plan *domain.WorkoutPlan) (int64, error) {
	r.s.nextPlanID++
	plan.ID = r.s.nextPlanID
	for i := range plan.Assignments {
		r.s.nextAssignmentID++
		plan.Assignments[i].ID = r.s.nextAssignmentID
		plan.Assignments[i].PlanID = plan.ID
		r.s.assignmentPlan[plan.Assignments[i].ID] = plan.ID
	}
	r.s.plans[plan.ID] = copyPlan(plan)
	return plan.ID, nil
}

func (r *fakePlanRepo) GetByID(ctx context.Context, id int64) (*domain.WorkoutPlan, error) {
	plan, ok := r.s.plans[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return copyPlan(plan), nil
}

func (r *fakePlanRepo) ListByUser(ctx context.Context, userID int64) ([]domain.WorkoutPlan, error) {
	var out []domain.WorkoutPlan
	for _, p := range r.s.plans {
		if p.UserID == userID {
			out = append(out, *copyPlan(p))
		}
	}
	return out, nil
}

func (r *fakePlanRepo) Update(ctx context.Context, plan *domain.WorkoutPlan) error {
	existing, ok := r.s.plans[plan.ID]
	if !ok {
		return repository.ErrNotFound
	}
	for _, a := range existing.Assignments {
		delete(r.s.assignmentPlan, a.ID)
	}
	for i := range plan.Assignments {
		r.s.nextAssignmentID++
		plan.Assignments[i].ID = r.s.nextAssignmentID
		plan.Assignments[i].PlanID = plan.ID
		r.s.assignmentPlan[plan.Assignments[i].ID] = plan.ID
	}
	r.s.plans[plan.ID] = copyPlan(plan)
	return nil
}

func (r *fakePlanRepo) Delete(ctx context.Context, id int64) error {
	plan, ok := r.s.plans[id]
	if !ok {
		return repository.ErrNotFound
	}
	for _, a := range plan.Assignments {
		delete(r.s.assignmentPlan, a.ID)
	}
	delete(r.s.plans, id)
	return nil
}

// --- ExerciseEntryRepository ---

type fakeEntryRepo struct{ s *fakeStore }

func (r *fakeEntryRepo) Create(ctx context.Context, entry *domain.ExerciseEntry) (int64, error) {
	if r.s.entryCreateErr != nil {
		return 0, r.s.entryCreateErr
	}
	if r.s.entryCreateFailAfter > 0 && r.s.entriesCreated >= r.s.entryCreateFailAfter {
		return 0, repository.ErrUpdateFailed
	}
	r.s.nextEntryID++
	entry.ID = r.s.nextEntryID
	r.s.entries[entry.ID] = copyEntry(entry)
	r.s.entriesCreated++
	return entry.ID, nil
}

func (r *fakeEntryRepo) GetByID(ctx context.Context, id int64) (*domain.ExerciseEntry, error) {
	entry, ok := r.s.entries[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return copyEntry(entry), nil
}

func (r *fakeEntryRepo) List(ctx context.Context, userID int64, from, to *time.Time) ([]domain.ExerciseEntry, error) {
	var out []domain.ExerciseEntry
	for _, e := range r.s.entries {
		if e.UserID != userID {
			continue
		}
		if from != nil && e.EntryDate.Before(*from) {
			continue
		}
		if to != nil && e.EntryDate.After(*to) {
			continue
		}
		out = append(out, *copyEntry(e))
	}
	return out, nil
}

func (r *fakeEntryRepo) Update(ctx context.Context, entry *domain.ExerciseEntry) error {
	if _, ok := r.s.entries[entry.ID]; !ok {
		return repository.ErrNotFound
	}
	r.s.entries[entry.ID] = copyEntry(entry)
	return nil
}

func (r *fakeEntryRepo) ReplaceSets(ctx context.Context, entryID int64, sets []domain.EntrySet) error {
	entry, ok := r.s.entries[entryID]
	if !ok {
		return repository.ErrNotFound
	}
	entry.Sets = append([]domain.EntrySet(nil), sets...)
	return nil
}

func (r *fakeEntryRepo) Delete(ctx context.Context, id, userID int64) error {
	entry, ok := r.s.entries[id]
	if !ok || entry.UserID != userID {
		return repository.ErrNotFound
	}
	delete(r.s.entries, id)
	return nil
}

func (r *fakeEntryRepo) DeleteFutureByPlan(ctx context.Context, planID int64, cutoff time.Time) (int64, error) {
	var deleted int64
	for id, e := range r.s.entries {
		if e.PlanAssignmentID == nil {
			continue
		}
		if r.s.assignmentPlan[*e.PlanAssignmentID] != planID {
			continue
		}
		if e.EntryDate.Before(cutoff) {
			continue
		}
		delete(r.s.entries, id)
		deleted++
	}
	return deleted, nil
}

func (r *fakeEntryRepo) Summarize(ctx context.Context, userID int64, from, to time.Time) (*domain.EntrySummary, error) {
	summary := &domain.EntrySummary{}
	for _, e := range r.s.entries {
		if e.UserID != userID || e.EntryDate.Before(from) || e.EntryDate.After(to) {
			continue
		}
		summary.Entries++
		summary.TotalMinutes += e.DurationMinutes
		summary.TotalCalories += e.CaloriesBurned
	}
	return summary, nil
}

// --- WorkoutPresetRepository ---

type fakePresetRepo struct{ s *fakeStore }

func (r *fakePresetRepo) Create(ctx context.Context, preset *domain.WorkoutPreset) (int64, error) {
	r.s.nextPresetID++
	preset.ID = r.s.nextPresetID
	r.s.presets[preset.ID] = copyPreset(preset)
	return preset.ID, nil
}

func (r *fakePresetRepo) GetByID(ctx context.Context, id int64) (*domain.WorkoutPreset, error) {
	preset, ok := r.s.presets[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return copyPreset(preset), nil
}

func (r *fakePresetRepo) ListByUser(ctx context.Context, userID int64) ([]domain.WorkoutPreset, error) {
	var out []domain.WorkoutPreset
	for _, p := range r.s.presets {
		if p.UserID == userID || p.IsPublic {
			out = append(out, *copyPreset(p))
		}
	}
	return out, nil
}

func (r *fakePresetRepo) Update(ctx context.Context, preset *domain.WorkoutPreset) error {
	if _, ok := r.s.presets[preset.ID]; !ok {
		return repository.ErrNotFound
	}
	r.s.presets[preset.ID] = copyPreset(preset)
	return nil
}

func (r *fakePresetRepo) Delete(ctx context.Context, id, userID int64) error {
	preset, ok := r.s.presets[id]
	if !ok || preset.UserID != userID {
		return repository.ErrNotFound
	}
	delete(r.s.presets, id)
	return nil
}

// --- ExerciseRepository ---

type fakeExerciseRepo struct{ s *fakeStore }

func (r *fakeExerciseRepo) Create(ctx context.Context, exercise *domain.Exercise) (int64, error) {
	r.s.nextExerciseID++
	exercise.ID = r.s.nextExerciseID
	cp := *exercise
	r.s.exercises[exercise.ID] = &cp
	return exercise.ID, nil
}

func (r *fakeExerciseRepo) GetByID(ctx context.Context, id int64) (*domain.Exercise, error) {
	ex, ok := r.s.exercises[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *ex
	return &cp, nil
}

func (r *fakeExerciseRepo) ListVisible(ctx context.Context, userID int64) ([]domain.Exercise, error) {
	var out []domain.Exercise
	for _, ex := range r.s.exercises {
		if ex.UserID == nil || *ex.UserID == userID || ex.SharedWithPublic {
			out = append(out, *ex)
		}
	}
	return out, nil
}

func (r *fakeExerciseRepo) Update(ctx context.Context, exercise *domain.Exercise) error {
	if _, ok := r.s.exercises[exercise.ID]; !ok {
		return repository.ErrNotFound
	}
	cp := *exercise
	r.s.exercises[exercise.ID] = &cp
	return nil
}

func (r *fakeExerciseRepo) Delete(ctx context.Context, id, userID int64) error {
	ex, ok := r.s.exercises[id]
	if !ok || ex.UserID == nil || *ex.UserID != userID {
		return repository.ErrNotFound
	}
	delete(r.s.exercises, id)
	return nil
}

// --- WeightRepository ---

type fakeWeightRepo struct{ s *fakeStore }

func (r *fakeWeightRepo) Create(ctx context.Context, m *domain.WeightMeasurement) (int64, error) {
	r.s.nextWeightID++
	m.ID = r.s.nextWeightID
	r.s.weights[m.UserID] = append(r.s.weights[m.UserID], *m)
	return m.ID, nil
}

func (r *fakeWeightRepo) List(ctx context.Context, userID int64) ([]domain.WeightMeasurement, error) {
	return append([]domain.WeightMeasurement(nil), r.s.weights[userID]...), nil
}

func (r *fakeWeightRepo) Latest(ctx context.Context, userID int64) (*domain.WeightMeasurement, error) {
	if r.s.weightLatestErr != nil {
		return nil, r.s.weightLatestErr
	}
	ms := r.s.weights[userID]
	if len(ms) == 0 {
		return nil, repository.ErrNotFound
	}
	latest := ms[0]
	for _, m := range ms[1:] {
		if m.MeasuredAt.After(latest.MeasuredAt) {
			latest = m
		}
	}
	return &latest, nil
}

// --- Tx plumbing ---

type fakeTx struct{ s *fakeStore }

func (t fakeTx) Plans() repository.WorkoutPlanRepository     { return &fakePlanRepo{t.s} }
func (t fakeTx) Entries() repository.ExerciseEntryRepository { return &fakeEntryRepo{t.s} }
func (t fakeTx) Presets() repository.WorkoutPresetRepository { return &fakePresetRepo{t.s} }
func (t fakeTx) Exercises() repository.ExerciseRepository    { return &fakeExerciseRepo{t.s} }

// fakeTxManager snapshots the store before running fn and restores it when
// fn fails, mirroring the all-or-nothing behavior of a real transaction.
type fakeTxManager struct{ s *fakeStore }

func (m *fakeTxManager) WithinTx(ctx context.Context, fn func(ctx context.Context, tx repository.Tx) error) error {
	snap := m.s.snapshot()
	if err := fn(ctx, fakeTx{m.s}); err != nil {
		m.s.restore(snap)
		return err
	}
	return nil
}

// --- UserRepository ---

type fakeUserRepo struct {
	users  map[int64]*domain.User
	nextID int64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[int64]*domain.User)}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *domain.User) (int64, error) {
	for _, u := range r.users {
		if u.Email == user.Email {
			return 0, repository.ErrDuplicate
		}
	}
	r.nextID++
	user.ID = r.nextID
	cp := *user
	r.users[user.ID] = &cp
	return user.ID, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}
