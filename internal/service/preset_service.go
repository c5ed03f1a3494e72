package service

import (
	"context"
	"errors"

	"fittrack/internal/domain"
	"fittrack/internal/repository"
)

// --- Error Definitions ---
var (
	ErrPresetAccessDenied = errors.New("access denied to modify or delete this workout preset")
)

// PresetService manages workout presets: reusable, date-independent
// bundles of exercises.
type PresetService interface {
	CreatePreset(ctx context.Context, userID int64, preset *domain.WorkoutPreset) (*domain.WorkoutPreset, error)
	GetPresetByID(ctx context.Context, userID, presetID int64) (*domain.WorkoutPreset, error)
	ListPresets(ctx context.Context, userID int64) ([]domain.WorkoutPreset, error)
	UpdatePreset(ctx context.Context, userID int64, preset *domain.WorkoutPreset) (*domain.WorkoutPreset, error)
	DeletePreset(ctx context.Context, userID, presetID int64) error
}

// presetService implements the PresetService interface.
type presetService struct {
	presetRepo   repository.WorkoutPresetRepository
	exerciseRepo repository.ExerciseRepository
}

// NewPresetService creates a new instance of presetService.
func NewPresetService(presetRepo repository.WorkoutPresetRepository, exerciseRepo repository.ExerciseRepository) PresetService {
	return &presetService{
		presetRepo:   presetRepo,
		exerciseRepo: exerciseRepo,
	}
}

func (s *presetService) CreatePreset(ctx context.Context, userID int64, preset *domain.WorkoutPreset) (*domain.WorkoutPreset, error) {
	if err := s.validatePreset(ctx, preset); err != nil {
		return nil, err
	}

	preset.UserID = userID
	presetID, err := s.presetRepo.Create(ctx, preset)
	if err != nil {
		return nil, err
	}
	return s.presetRepo.GetByID(ctx, presetID)
}

func (s *presetService) GetPresetByID(ctx context.Context, userID, presetID int64) (*domain.WorkoutPreset, error) {
	preset, err := s.presetRepo.GetByID(ctx, presetID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPresetNotFound
		}
		return nil, err
	}
	if preset.UserID != userID && !preset.IsPublic {
		return nil, ErrPresetAccessDenied
	}
	return preset, nil
}

func (s *presetService) ListPresets(ctx context.Context, userID int64) ([]domain.WorkoutPreset, error) {
	return s.presetRepo.ListByUser(ctx, userID)
}

func (s *presetService) UpdatePreset(ctx context.Context, userID int64, preset *domain.WorkoutPreset) (*domain.WorkoutPreset, error) {
	if err := s.validatePreset(ctx, preset); err != nil {
		return nil, err
	}

	existing, err := s.presetRepo.GetByID(ctx, preset.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPresetNotFound
		}
		return nil, err
	}
	if existing.UserID != userID {
		return nil, ErrPresetAccessDenied
	}

	preset.UserID = userID
	if err := s.presetRepo.Update(ctx, preset); err != nil {
		return nil, err
	}
	return s.presetRepo.GetByID(ctx, preset.ID)
}

func (s *presetService) DeletePreset(ctx context.Context, userID, presetID int64) error {
	err := s.presetRepo.Delete(ctx, presetID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrPresetNotFound
		}
		return err
	}
	return nil
}

// validatePreset rejects a preset with no name or with an exercise
// reference that does not exist.
func (s *presetService) validatePreset(ctx context.Context, preset *domain.WorkoutPreset) error {
	if preset.Name == "" {
		return ErrValidationFailed
	}
	for _, pe := range preset.Exercises {
		if _, err := s.exerciseRepo.GetByID(ctx, pe.ExerciseID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrExerciseNotFound
			}
			return err
		}
	}
	return nil
}
