package service

import (
	"context"
	"errors"
	"math"
	"strings"

	"github.com/sirupsen/logrus"

	"fittrack/internal/domain"
	"fittrack/internal/repository"
)

// defaultWeightKg is assumed when the user has never logged a body weight.
const defaultWeightKg = 70.0

// metValues maps lower-cased exercise category and level to a MET
// (metabolic equivalent of task) value. Unrecognized categories fall back
// to the "default" row, unrecognized levels to "intermediate".
var metValues = map[string]map[string]float64{
	"cardio":                {"beginner": 6.0, "intermediate": 8.0, "expert": 10.0},
	"strength":              {"beginner": 3.5, "intermediate": 5.0, "expert": 6.0},
	"olympic weightlifting": {"beginner": 5.0, "intermediate": 6.0, "expert": 6.0},
	"powerlifting":          {"beginner": 5.0, "intermediate": 6.0, "expert": 6.0},
	"strongman":             {"beginner": 5.0, "intermediate": 6.0, "expert": 8.0},
	"plyometrics":           {"beginner": 5.5, "intermediate": 7.0, "expert": 8.0},
	"stretching":            {"beginner": 2.3, "intermediate": 2.8, "expert": 3.0},
	"default":               {"beginner": 3.0, "intermediate": 4.0, "expert": 5.0},
}

// EstimateCaloriesPerHour estimates calories burned per hour for an
// exercise of the given category and level, performed by a person of the
// given body weight. The MET value is floored at 1.0 to avoid degenerate
// near-zero results.
func EstimateCaloriesPerHour(category, level string, weightKg float64) int {
	byLevel, ok := metValues[strings.ToLower(category)]
	if !ok {
		byLevel = metValues["default"]
	}
	met, ok := byLevel[strings.ToLower(level)]
	if !ok {
		met = byLevel["intermediate"]
	}
	if met < 1.0 {
		met = 1.0
	}
	return int(math.Round(met * 3.5 * weightKg / 200 * 60))
}

// CalorieEstimator resolves the calories-per-hour figure for an exercise,
// looking up the user's latest recorded body weight. Estimation never
// blocks entry creation: weight lookup failures are logged and fall back
// to the 70 kg default.
type CalorieEstimator struct {
	weightRepo repository.WeightRepository
	log        *logrus.Logger
}

// NewCalorieEstimator creates a CalorieEstimator.
func NewCalorieEstimator(weightRepo repository.WeightRepository, log *logrus.Logger) *CalorieEstimator {
	return &CalorieEstimator{
		weightRepo: weightRepo,
		log:        log,
	}
}

// CaloriesPerHour returns the per-hour calorie figure for the exercise.
// A value stored on the exercise itself wins; otherwise the MET table is
// consulted with the user's latest body weight.
func (e *CalorieEstimator) CaloriesPerHour(ctx context.Context, userID int64, exercise *domain.Exercise) int {
	if exercise.CaloriesPerHour > 0 {
		return exercise.CaloriesPerHour
	}

	weightKg := defaultWeightKg
	measurement, err := e.weightRepo.Latest(ctx, userID)
	switch {
	case err == nil && measurement.Kilograms > 0:
		weightKg = measurement.Kilograms
	case err != nil && !errors.Is(err, repository.ErrNotFound):
		e.log.WithError(err).WithField("user_id", userID).
			Warn("failed to fetch latest body weight, using default")
	}

	return EstimateCaloriesPerHour(exercise.Category, exercise.Level, weightKg)
}

// CaloriesForDuration scales a per-hour figure to a duration in minutes.
func CaloriesForDuration(caloriesPerHour, durationMinutes int) int {
	return int(math.Round(float64(caloriesPerHour) / 60.0 * float64(durationMinutes)))
}
