package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"fittrack/internal/repository"
)

// TxManager implements repository.TxManager on top of a pgx pool. The
// repositories handed to fn are bound to the transaction, so everything
// written inside fn commits or rolls back as one unit.
type TxManager struct {
	pool *pgxpool.Pool
}

// NewTxManager creates a transaction manager over the given pool.
func NewTxManager(pool *pgxpool.Pool) *TxManager {
	return &TxManager{pool: pool}
}

func (m *TxManager) WithinTx(ctx context.Context, fn func(ctx context.Context, tx repository.Tx) error) error {
	return pgx.BeginFunc(ctx, m.pool, func(tx pgx.Tx) error {
		return fn(ctx, txRepos{db: tx})
	})
}

// txRepos satisfies repository.Tx with repositories bound to one pgx.Tx.
type txRepos struct {
	db Querier
}

func (t txRepos) Plans() repository.WorkoutPlanRepository     { return NewWorkoutPlanRepo(t.db) }
func (t txRepos) Entries() repository.ExerciseEntryRepository { return NewExerciseEntryRepo(t.db) }
func (t txRepos) Presets() repository.WorkoutPresetRepository { return NewWorkoutPresetRepo(t.db) }
func (t txRepos) Exercises() repository.ExerciseRepository    { return NewExerciseRepo(t.db) }

var _ repository.TxManager = (*TxManager)(nil)
