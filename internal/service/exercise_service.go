package service

import (
	"context"
	"errors"

	"fittrack/internal/domain"
	"fittrack/internal/repository"
)

// --- Error Definitions ---
var (
	ErrExerciseNotFound     = errors.New("exercise not found")
	ErrExerciseAccessDenied = errors.New("access denied to modify or delete this exercise")
	ErrValidationFailed     = errors.New("validation failed")
)

// ExerciseService manages the exercise catalog. Global exercises (no
// owner) are read-only through this service; custom exercises can only be
// changed by their owner.
type ExerciseService interface {
	CreateExercise(ctx context.Context, userID int64, exercise *domain.Exercise) (*domain.Exercise, error)
	GetExerciseByID(ctx context.Context, exerciseID int64) (*domain.Exercise, error)
	ListExercises(ctx context.Context, userID int64) ([]domain.Exercise, error)
	UpdateExercise(ctx context.Context, userID int64, exercise *domain.Exercise) (*domain.Exercise, error)
	DeleteExercise(ctx context.Context, userID, exerciseID int64) error
}

// exerciseService implements the ExerciseService interface.
type exerciseService struct {
	exerciseRepo repository.ExerciseRepository
}

// NewExerciseService creates a new instance of exerciseService.
func NewExerciseService(exerciseRepo repository.ExerciseRepository) ExerciseService {
	return &exerciseService{
		exerciseRepo: exerciseRepo,
	}
}

func (s *exerciseService) CreateExercise(ctx context.Context, userID int64, exercise *domain.Exercise) (*domain.Exercise, error) {
	if exercise.Name == "" {
		return nil, ErrValidationFailed
	}

	exercise.UserID = &userID
	exercise.IsCustom = true

	exerciseID, err := s.exerciseRepo.Create(ctx, exercise)
	if err != nil {
		return nil, err
	}
	// Fetch again so DB-populated fields come back with the result.
	return s.exerciseRepo.GetByID(ctx, exerciseID)
}

func (s *exerciseService) GetExerciseByID(ctx context.Context, exerciseID int64) (*domain.Exercise, error) {
	exercise, err := s.exerciseRepo.GetByID(ctx, exerciseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}
	return exercise, nil
}

func (s *exerciseService) ListExercises(ctx context.Context, userID int64) ([]domain.Exercise, error) {
	return s.exerciseRepo.ListVisible(ctx, userID)
}

func (s *exerciseService) UpdateExercise(ctx context.Context, userID int64, exercise *domain.Exercise) (*domain.Exercise, error) {
	if exercise.Name == "" {
		return nil, ErrValidationFailed
	}

	existing, err := s.exerciseRepo.GetByID(ctx, exercise.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}
	if existing.UserID == nil || *existing.UserID != userID {
		return nil, ErrExerciseAccessDenied
	}

	if err := s.exerciseRepo.Update(ctx, exercise); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}
	return s.exerciseRepo.GetByID(ctx, exercise.ID)
}

func (s *exerciseService) DeleteExercise(ctx context.Context, userID, exerciseID int64) error {
	// The repository's delete filters on the owner, so ownership is
	// enforced at the database level; global exercises never match.
	err := s.exerciseRepo.Delete(ctx, exerciseID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrExerciseNotFound
		}
		return err
	}
	return nil
}
