package service

import (
	"context"
	"time"

	"fittrack/internal/domain"
	"fittrack/internal/repository"
)

// WeightService records body-weight measurements. The latest measurement
// feeds the calorie estimator.
type WeightService interface {
	LogWeight(ctx context.Context, userID int64, kilograms float64, measuredAt time.Time) (*domain.WeightMeasurement, error)
	ListWeights(ctx context.Context, userID int64) ([]domain.WeightMeasurement, error)
}

type weightService struct {
	weightRepo repository.WeightRepository
}

// NewWeightService creates a new instance of weightService.
func NewWeightService(weightRepo repository.WeightRepository) WeightService {
	return &weightService{weightRepo: weightRepo}
}

func (s *weightService) LogWeight(ctx context.Context, userID int64, kilograms float64, measuredAt time.Time) (*domain.WeightMeasurement, error) {
	if kilograms <= 0 {
		return nil, ErrValidationFailed
	}
	if measuredAt.IsZero() {
		measuredAt = time.Now()
	}

	m := &domain.WeightMeasurement{
		UserID:     userID,
		Kilograms:  kilograms,
		MeasuredAt: measuredAt,
	}
	id, err := s.weightRepo.Create(ctx, m)
	if err != nil {
		return nil, err
	}
	m.ID = id
	return m, nil
}

func (s *weightService) ListWeights(ctx context.Context, userID int64) ([]domain.WeightMeasurement, error) {
	return s.weightRepo.List(ctx, userID)
}
