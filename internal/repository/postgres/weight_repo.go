package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"fittrack/internal/domain"
	"fittrack/internal/repository"
)

// WeightRepo is the Postgres implementation of repository.WeightRepository.
type WeightRepo struct {
	db Querier
}

func NewWeightRepo(db Querier) *WeightRepo {
	return &WeightRepo{db: db}
}

func (r *WeightRepo) Create(ctx context.Context, m *domain.WeightMeasurement) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx,
		`INSERT INTO weight_measurements (user_id, kilograms, measured_at)
			VALUES ($1, $2, $3)
		RETURNING id`,
		m.UserID, m.Kilograms, m.MeasuredAt,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *WeightRepo) List(ctx context.Context, userID int64) ([]domain.WeightMeasurement, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, kilograms, measured_at
			FROM weight_measurements
			WHERE user_id = $1
			ORDER BY measured_at DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	measurements := make([]domain.WeightMeasurement, 0)
	for rows.Next() {
		var m domain.WeightMeasurement
		if err := rows.Scan(&m.ID, &m.UserID, &m.Kilograms, &m.MeasuredAt); err != nil {
			return nil, err
		}
		measurements = append(measurements, m)
	}
	return measurements, rows.Err()
}

func (r *WeightRepo) Latest(ctx context.Context, userID int64) (*domain.WeightMeasurement, error) {
	var m domain.WeightMeasurement
	err := r.db.QueryRow(ctx,
		`SELECT id, user_id, kilograms, measured_at
			FROM weight_measurements
			WHERE user_id = $1
			ORDER BY measured_at DESC
			LIMIT 1`,
		userID,
	).Scan(&m.ID, &m.UserID, &m.Kilograms, &m.MeasuredAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

var _ repository.WeightRepository = (*WeightRepo)(nil)
