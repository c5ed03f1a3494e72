package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Querier is the subset of pgx operations the repositories need. Both
// *pgxpool.Pool and pgx.Tx satisfy it, so the same repository code runs
// against the pool or inside a transaction.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Connect opens a pgx connection pool and verifies it with a ping.
func Connect(ctx context.Context, uri string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(uri)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, err
	}

	return pool, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id            BIGSERIAL PRIMARY KEY,
	name          TEXT NOT NULL,
	email         TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS weight_measurements (
	id          BIGSERIAL PRIMARY KEY,
	user_id     BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	kilograms   DOUBLE PRECISION NOT NULL,
	measured_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS exercises (
	id                 BIGSERIAL PRIMARY KEY,
	source             TEXT NOT NULL DEFAULT '',
	source_id          TEXT NOT NULL DEFAULT '',
	name               TEXT NOT NULL,
	force              TEXT NOT NULL DEFAULT '',
	level              TEXT NOT NULL DEFAULT '',
	mechanic           TEXT NOT NULL DEFAULT '',
	category           TEXT NOT NULL DEFAULT '',
	equipment          JSONB NOT NULL DEFAULT '[]',
	primary_muscles    JSONB NOT NULL DEFAULT '[]',
	secondary_muscles  JSONB NOT NULL DEFAULT '[]',
	instructions       JSONB NOT NULL DEFAULT '[]',
	images             JSONB NOT NULL DEFAULT '[]',
	calories_per_hour  INT NOT NULL DEFAULT 0,
	description        TEXT NOT NULL DEFAULT '',
	user_id            BIGINT REFERENCES users(id) ON DELETE CASCADE,
	is_custom          BOOLEAN NOT NULL DEFAULT FALSE,
	shared_with_public BOOLEAN NOT NULL DEFAULT FALSE,
	created_at         TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at         TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS workout_presets (
	id          BIGSERIAL PRIMARY KEY,
	user_id     BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	name        TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	is_public   BOOLEAN NOT NULL DEFAULT FALSE,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS workout_preset_exercises (
	id            BIGSERIAL PRIMARY KEY,
	preset_id     BIGINT NOT NULL REFERENCES workout_presets(id) ON DELETE CASCADE,
	exercise_id   BIGINT NOT NULL REFERENCES exercises(id) ON DELETE CASCADE,
	exercise_name TEXT NOT NULL DEFAULT '',
	position      INT NOT NULL,
	sets          INT NOT NULL DEFAULT 0,
	reps          INT NOT NULL DEFAULT 0,
	weight        DOUBLE PRECISION NOT NULL DEFAULT 0,
	duration      INT NOT NULL DEFAULT 0,
	notes         TEXT NOT NULL DEFAULT '',
	image_url     TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS workout_plans (
	id          BIGSERIAL PRIMARY KEY,
	user_id     BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	plan_name   TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	start_date  DATE NOT NULL,
	end_date    DATE,
	is_active   BOOLEAN NOT NULL DEFAULT TRUE,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS workout_plan_assignments (
	id                BIGSERIAL PRIMARY KEY,
	plan_id           BIGINT NOT NULL REFERENCES workout_plans(id) ON DELETE CASCADE,
	day_of_week       INT NOT NULL CHECK (day_of_week BETWEEN 0 AND 6),
	workout_preset_id BIGINT REFERENCES workout_presets(id) ON DELETE CASCADE,
	exercise_id       BIGINT REFERENCES exercises(id) ON DELETE CASCADE,
	sets              INT NOT NULL DEFAULT 0,
	reps              INT NOT NULL DEFAULT 0,
	weight            DOUBLE PRECISION NOT NULL DEFAULT 0,
	duration          INT NOT NULL DEFAULT 0,
	notes             TEXT NOT NULL DEFAULT '',
	CHECK ((workout_preset_id IS NULL) <> (exercise_id IS NULL))
);

CREATE TABLE IF NOT EXISTS exercise_entries (
	id                 BIGSERIAL PRIMARY KEY,
	user_id            BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	exercise_id        BIGINT NOT NULL REFERENCES exercises(id) ON DELETE CASCADE,
	entry_date         DATE NOT NULL,
	duration_minutes   INT NOT NULL DEFAULT 0,
	calories_burned    INT NOT NULL DEFAULT 0,
	notes              TEXT NOT NULL DEFAULT '',
	image_url          TEXT NOT NULL DEFAULT '',
	plan_assignment_id BIGINT REFERENCES workout_plan_assignments(id) ON DELETE SET NULL,
	created_at         TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at         TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_exercise_entries_user_date ON exercise_entries (user_id, entry_date);
CREATE INDEX IF NOT EXISTS idx_exercise_entries_assignment ON exercise_entries (plan_assignment_id);

CREATE TABLE IF NOT EXISTS exercise_entry_sets (
	id         BIGSERIAL PRIMARY KEY,
	entry_id   BIGINT NOT NULL REFERENCES exercise_entries(id) ON DELETE CASCADE,
	set_number INT NOT NULL,
	set_type   TEXT NOT NULL DEFAULT 'Working Set',
	reps       INT NOT NULL DEFAULT 0,
	weight     DOUBLE PRECISION NOT NULL DEFAULT 0,
	duration   INT NOT NULL DEFAULT 0,
	rest_time  INT NOT NULL DEFAULT 0,
	notes      TEXT NOT NULL DEFAULT ''
);
`

// Migrate ensures all tables exist. Call once at startup.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, schema)
	return err
}

// isUniqueViolation checks for the Postgres unique-violation error code.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
