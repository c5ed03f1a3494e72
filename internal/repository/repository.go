package repository

import (
	"context"
	"time"

	"fittrack/internal/domain"
)

// Error constants for the repository layer.
var (
	ErrNotFound     = RepositoryError("not found")
	ErrDuplicate    = RepositoryError("already exists")
	ErrUpdateFailed = RepositoryError("update failed")
)

// RepositoryError helps distinguish repository errors.
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (int64, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

// WeightRepository stores body-weight measurements.
type WeightRepository interface {
	Create(ctx context.Context, m *domain.WeightMeasurement) (int64, error)
	List(ctx context.Context, userID int64) ([]domain.WeightMeasurement, error)
	// Latest returns the most recent measurement, ErrNotFound when the
	// user has never logged a weight.
	Latest(ctx context.Context, userID int64) (*domain.WeightMeasurement, error)
}

// ExerciseRepository defines the interface for interacting with the
// exercise catalog.
type ExerciseRepository interface {
	Create(ctx context.Context, exercise *domain.Exercise) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Exercise, error)
	// ListVisible returns global exercises, the user's own custom
	// exercises and exercises other users shared publicly.
	ListVisible(ctx context.Context, userID int64) ([]domain.Exercise, error)
	Update(ctx context.Context, exercise *domain.Exercise) error
	Delete(ctx context.Context, id, userID int64) error
}

// WorkoutPresetRepository defines the interface for workout presets.
// Preset exercises are owned by the preset and replaced wholesale on
// every update.
type WorkoutPresetRepository interface {
	Create(ctx context.Context, preset *domain.WorkoutPreset) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.WorkoutPreset, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.WorkoutPreset, error)
	Update(ctx context.Context, preset *domain.WorkoutPreset) error
	Delete(ctx context.Context, id, userID int64) error
}

// WorkoutPlanRepository defines the interface for workout plan templates.
// Assignments are owned by the plan and replaced wholesale (delete-all,
// insert-all) on every update; there are no partial assignment edits.
type WorkoutPlanRepository interface {
	Create(ctx context.Context, plan *domain.WorkoutPlan) (int64, error)
	// GetByID loads the plan together with its assignments, with
	// display names resolved via join.
	GetByID(ctx context.Context, id int64) (*domain.WorkoutPlan, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.WorkoutPlan, error)
	Update(ctx context.Context, plan *domain.WorkoutPlan) error
	Delete(ctx context.Context, id int64) error
}

// ExerciseEntryRepository defines the interface for the dated exercise
// diary.
type ExerciseEntryRepository interface {
	Create(ctx context.Context, entry *domain.ExerciseEntry) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.ExerciseEntry, error)
	List(ctx context.Context, userID int64, from, to *time.Time) ([]domain.ExerciseEntry, error)
	Update(ctx context.Context, entry *domain.ExerciseEntry) error
	// ReplaceSets swaps the entry's set list for the given one.
	ReplaceSets(ctx context.Context, entryID int64, sets []domain.EntrySet) error
	Delete(ctx context.Context, id, userID int64) error
	// DeleteFutureByPlan removes every entry tied to one of the plan's
	// assignments whose entry date is on or after the given cutoff.
	// Returns the number of entries deleted. Entries dated before the
	// cutoff are never touched.
	DeleteFutureByPlan(ctx context.Context, planID int64, cutoff time.Time) (int64, error)
	// Summarize aggregates entry count, total minutes and total calories
	// over a date range.
	Summarize(ctx context.Context, userID int64, from, to time.Time) (*domain.EntrySummary, error)
}

// Tx groups the repositories that take part in a plan save so that the
// whole reversal-then-rematerialization pass commits or rolls back as
// one unit.
type Tx interface {
	Plans() WorkoutPlanRepository
	Entries() ExerciseEntryRepository
	Presets() WorkoutPresetRepository
	Exercises() ExerciseRepository
}

// TxManager runs a function inside a single database transaction. Any
// error returned by fn rolls the transaction back in full.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}
