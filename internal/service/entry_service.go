package service

import (
	"context"
	"errors"
	"time"

	"fittrack/internal/domain"
	"fittrack/internal/repository"
)

// --- Error Definitions ---
var (
	ErrEntryNotFound     = errors.New("exercise entry not found")
	ErrEntryAccessDenied = errors.New("access denied to modify or delete this entry")
	ErrSetNotFound       = errors.New("set not found on this entry")
)

// EntryService manages the dated exercise diary: manual logging plus the
// set-list operations. Entries created here are the manual,
// non-materialized path; PlanService writes the materialized ones.
type EntryService interface {
	LogEntry(ctx context.Context, userID int64, entry *domain.ExerciseEntry) (*domain.ExerciseEntry, error)
	GetEntry(ctx context.Context, userID, entryID int64) (*domain.ExerciseEntry, error)
	ListEntries(ctx context.Context, userID int64, from, to *time.Time) ([]domain.ExerciseEntry, error)
	UpdateEntry(ctx context.Context, userID int64, entry *domain.ExerciseEntry) (*domain.ExerciseEntry, error)
	DeleteEntry(ctx context.Context, userID, entryID int64) error

	AddSet(ctx context.Context, userID, entryID int64, set domain.EntrySet) (*domain.ExerciseEntry, error)
	UpdateSet(ctx context.Context, userID, entryID int64, setNumber int, set domain.EntrySet) (*domain.ExerciseEntry, error)
	RemoveSet(ctx context.Context, userID, entryID int64, setNumber int) (*domain.ExerciseEntry, error)
	// ReorderSets rearranges the set list; order holds the current set
	// numbers in their new sequence and must mention each exactly once.
	ReorderSets(ctx context.Context, userID, entryID int64, order []int) (*domain.ExerciseEntry, error)

	Summary(ctx context.Context, userID int64, from, to time.Time) (*domain.EntrySummary, error)
}

// entryService implements the EntryService interface.
type entryService struct {
	entryRepo    repository.ExerciseEntryRepository
	exerciseRepo repository.ExerciseRepository
	estimator    *CalorieEstimator
}

// NewEntryService creates a new instance of entryService.
func NewEntryService(
	entryRepo repository.ExerciseEntryRepository,
	exerciseRepo repository.ExerciseRepository,
	estimator *CalorieEstimator,
) EntryService {
	return &entryService{
		entryRepo:    entryRepo,
		exerciseRepo: exerciseRepo,
		estimator:    estimator,
	}
}

func (s *entryService) LogEntry(ctx context.Context, userID int64, entry *domain.ExerciseEntry) (*domain.ExerciseEntry, error) {
	if entry.ExerciseID == 0 || entry.EntryDate.IsZero() {
		return nil, ErrValidationFailed
	}
	for _, set := range entry.Sets {
		if set.SetType != "" && !domain.ValidSetType(set.SetType) {
			return nil, ErrValidationFailed
		}
	}

	exercise, err := s.exerciseRepo.GetByID(ctx, entry.ExerciseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}

	entry.UserID = userID
	entry.EntryDate = dateOnly(entry.EntryDate)
	// Manual logs never carry a plan back-reference.
	entry.PlanAssignmentID = nil
	for i := range entry.Sets {
		if entry.Sets[i].SetType == "" {
			entry.Sets[i].SetType = domain.SetTypeWorking
		}
	}
	entry.RenumberSets()

	// Fill in calories when the user omitted them and a duration is known.
	if entry.CaloriesBurned == 0 && entry.DurationMinutes > 0 {
		perHour := s.estimator.CaloriesPerHour(ctx, userID, exercise)
		entry.CaloriesBurned = CaloriesForDuration(perHour, entry.DurationMinutes)
	}

	entryID, err := s.entryRepo.Create(ctx, entry)
	if err != nil {
		return nil, err
	}
	return s.entryRepo.GetByID(ctx, entryID)
}

func (s *entryService) GetEntry(ctx context.Context, userID, entryID int64) (*domain.ExerciseEntry, error) {
	return s.ownedEntry(ctx, userID, entryID)
}

func (s *entryService) ListEntries(ctx context.Context, userID int64, from, to *time.Time) ([]domain.ExerciseEntry, error) {
	return s.entryRepo.List(ctx, userID, from, to)
}

func (s *entryService) UpdateEntry(ctx context.Context, userID int64, entry *domain.ExerciseEntry) (*domain.ExerciseEntry, error) {
	for _, set := range entry.Sets {
		if set.SetType != "" && !domain.ValidSetType(set.SetType) {
			return nil, ErrValidationFailed
		}
	}

	existing, err := s.ownedEntry(ctx, userID, entry.ID)
	if err != nil {
		return nil, err
	}

	existing.ExerciseID = entry.ExerciseID
	existing.EntryDate = dateOnly(entry.EntryDate)
	existing.DurationMinutes = entry.DurationMinutes
	existing.CaloriesBurned = entry.CaloriesBurned
	existing.Notes = entry.Notes
	existing.ImageURL = entry.ImageURL

	if err := s.entryRepo.Update(ctx, existing); err != nil {
		return nil, err
	}

	// The set list is replaced wholesale and renumbered, like every other
	// set mutation.
	existing.Sets = append([]domain.EntrySet(nil), entry.Sets...)
	for i := range existing.Sets {
		if existing.Sets[i].SetType == "" {
			existing.Sets[i].SetType = domain.SetTypeWorking
		}
	}
	return s.saveSets(ctx, existing)
}

func (s *entryService) DeleteEntry(ctx context.Context, userID, entryID int64) error {
	err := s.entryRepo.Delete(ctx, entryID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrEntryNotFound
		}
		return err
	}
	return nil
}

func (s *entryService) AddSet(ctx context.Context, userID, entryID int64, set domain.EntrySet) (*domain.ExerciseEntry, error) {
	if set.SetType == "" {
		set.SetType = domain.SetTypeWorking
	}
	if !domain.ValidSetType(set.SetType) {
		return nil, ErrValidationFailed
	}

	entry, err := s.ownedEntry(ctx, userID, entryID)
	if err != nil {
		return nil, err
	}

	entry.Sets = append(entry.Sets, set)
	return s.saveSets(ctx, entry)
}

func (s *entryService) UpdateSet(ctx context.Context, userID, entryID int64, setNumber int, set domain.EntrySet) (*domain.ExerciseEntry, error) {
	if set.SetType != "" && !domain.ValidSetType(set.SetType) {
		return nil, ErrValidationFailed
	}

	entry, err := s.ownedEntry(ctx, userID, entryID)
	if err != nil {
		return nil, err
	}

	idx := setIndex(entry.Sets, setNumber)
	if idx < 0 {
		return nil, ErrSetNotFound
	}

	if set.SetType == "" {
		set.SetType = entry.Sets[idx].SetType
	}
	set.ID = entry.Sets[idx].ID
	entry.Sets[idx] = set
	return s.saveSets(ctx, entry)
}

func (s *entryService) RemoveSet(ctx context.Context, userID, entryID int64, setNumber int) (*domain.ExerciseEntry, error) {
	entry, err := s.ownedEntry(ctx, userID, entryID)
	if err != nil {
		return nil, err
	}

	idx := setIndex(entry.Sets, setNumber)
	if idx < 0 {
		return nil, ErrSetNotFound
	}

	entry.Sets = append(entry.Sets[:idx], entry.Sets[idx+1:]...)
	return s.saveSets(ctx, entry)
}

func (s *entryService) ReorderSets(ctx context.Context, userID, entryID int64, order []int) (*domain.ExerciseEntry, error) {
	entry, err := s.ownedEntry(ctx, userID, entryID)
	if err != nil {
		return nil, err
	}

	if len(order) != len(entry.Sets) {
		return nil, ErrValidationFailed
	}
	reordered := make([]domain.EntrySet, 0, len(entry.Sets))
	seen := make(map[int]bool, len(order))
	for _, num := range order {
		idx := setIndex(entry.Sets, num)
		if idx < 0 || seen[num] {
			return nil, ErrValidationFailed
		}
		seen[num] = true
		reordered = append(reordered, entry.Sets[idx])
	}

	entry.Sets = reordered
	return s.saveSets(ctx, entry)
}

func (s *entryService) Summary(ctx context.Context, userID int64, from, to time.Time) (*domain.EntrySummary, error) {
	return s.entryRepo.Summarize(ctx, userID, dateOnly(from), dateOnly(to))
}

// ownedEntry loads an entry and verifies ownership.
func (s *entryService) ownedEntry(ctx context.Context, userID, entryID int64) (*domain.ExerciseEntry, error) {
	entry, err := s.entryRepo.GetByID(ctx, entryID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrEntryNotFound
		}
		return nil, err
	}
	if entry.UserID != userID {
		return nil, ErrEntryAccessDenied
	}
	return entry, nil
}

// saveSets renumbers the entry's sets contiguously, persists the new list
// and returns the entry re-read from storage.
func (s *entryService) saveSets(ctx context.Context, entry *domain.ExerciseEntry) (*domain.ExerciseEntry, error) {
	entry.RenumberSets()
	if err := s.entryRepo.ReplaceSets(ctx, entry.ID, entry.Sets); err != nil {
		return nil, err
	}
	return s.entryRepo.GetByID(ctx, entry.ID)
}

func setIndex(sets []domain.EntrySet, setNumber int) int {
	for i, s := range sets {
		if s.SetNumber == setNumber {
			return i
		}
	}
	return -1
}
