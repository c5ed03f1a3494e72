package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"fittrack/internal/domain"
	"fittrack/internal/repository"
)

// ExerciseEntryRepo is the Postgres implementation of
// repository.ExerciseEntryRepository.
type ExerciseEntryRepo struct {
	db Querier
}

func NewExerciseEntryRepo(db Querier) *ExerciseEntryRepo {
	return &ExerciseEntryRepo{db: db}
}

func (r *ExerciseEntryRepo) Create(ctx context.Context, entry *domain.ExerciseEntry) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx,
		`INSERT INTO exercise_entries
			(user_id, exercise_id, entry_date, duration_minutes, calories_burned,
			 notes, image_url, plan_assignment_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`,
		entry.UserID, entry.ExerciseID, entry.EntryDate, entry.DurationMinutes,
		entry.CaloriesBurned, entry.Notes, entry.ImageURL, entry.PlanAssignmentID,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	entry.ID = id

	for i := range entry.Sets {
		entry.Sets[i].SetNumber = i + 1
		if err := r.insertSet(ctx, id, &entry.Sets[i]); err != nil {
			return 0, err
		}
	}
	return id, nil
}

func (r *ExerciseEntryRepo) GetByID(ctx context.Context, id int64) (*domain.ExerciseEntry, error) {
	var e domain.ExerciseEntry
	err := r.db.QueryRow(ctx,
		`SELECT en.id, en.user_id, en.exercise_id, ex.name, en.entry_date,
				en.duration_minutes, en.calories_burned, en.notes, en.image_url,
				en.plan_assignment_id, en.created_at, en.updated_at
			FROM exercise_entries en
			JOIN exercises ex ON ex.id = en.exercise_id
			WHERE en.id = $1`,
		id,
	).Scan(&e.ID, &e.UserID, &e.ExerciseID, &e.ExerciseName, &e.EntryDate,
		&e.DurationMinutes, &e.CaloriesBurned, &e.Notes, &e.ImageURL,
		&e.PlanAssignmentID, &e.CreatedAt, &e.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	sets, err := r.loadSets(ctx, e.ID)
	if err != nil {
		return nil, err
	}
	e.Sets = sets
	return &e, nil
}

func (r *ExerciseEntryRepo) List(ctx context.Context, userID int64, from, to *time.Time) ([]domain.ExerciseEntry, error) {
	rows, err := r.db.Query(ctx,
		`SELECT en.id, en.user_id, en.exercise_id, ex.name, en.entry_date,
				en.duration_minutes, en.calories_burned, en.notes, en.image_url,
				en.plan_assignment_id, en.created_at, en.updated_at
			FROM exercise_entries en
			JOIN exercises ex ON ex.id = en.exercise_id
			WHERE en.user_id = $1
				AND ($2::date IS NULL OR en.entry_date >= $2)
				AND ($3::date IS NULL OR en.entry_date <= $3)
			ORDER BY en.entry_date DESC, en.id DESC`,
		userID, from, to,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]domain.ExerciseEntry, 0)
	for rows.Next() {
		var e domain.ExerciseEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.ExerciseID, &e.ExerciseName, &e.EntryDate,
			&e.DurationMinutes, &e.CaloriesBurned, &e.Notes, &e.ImageURL,
			&e.PlanAssignmentID, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range entries {
		sets, err := r.loadSets(ctx, entries[i].ID)
		if err != nil {
			return nil, err
		}
		entries[i].Sets = sets
	}
	return entries, nil
}

func (r *ExerciseEntryRepo) Update(ctx context.Context, entry *domain.ExerciseEntry) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE exercise_entries
			SET exercise_id = $1, entry_date = $2, duration_minutes = $3,
				calories_burned = $4, notes = $5, image_url = $6, updated_at = now()
		WHERE id = $7`,
		entry.ExerciseID, entry.EntryDate, entry.DurationMinutes,
		entry.CaloriesBurned, entry.Notes, entry.ImageURL, entry.ID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// ReplaceSets swaps the entry's set list. Set numbers are rewritten to
// 1..N in list order before insert, so the stored numbering never has
// gaps or duplicates.
func (r *ExerciseEntryRepo) ReplaceSets(ctx context.Context, entryID int64, sets []domain.EntrySet) error {
	if _, err := r.db.Exec(ctx,
		`DELETE FROM exercise_entry_sets WHERE entry_id = $1`, entryID); err != nil {
		return err
	}
	for i := range sets {
		sets[i].SetNumber = i + 1
		if err := r.insertSet(ctx, entryID, &sets[i]); err != nil {
			return err
		}
	}
	return nil
}

func (r *ExerciseEntryRepo) Delete(ctx context.Context, id, userID int64) error {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM exercise_entries WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// DeleteFutureByPlan removes entries produced by any of the plan's current
// assignments, dated on or after the cutoff. Past entries are never
// touched; history is immutable once its date has passed.
func (r *ExerciseEntryRepo) DeleteFutureByPlan(ctx context.Context, planID int64, cutoff time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM exercise_entries e
			USING workout_plan_assignments a
			WHERE e.plan_assignment_id = a.id
				AND a.plan_id = $1
				AND e.entry_date >= $2`,
		planID, cutoff,
	)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *ExerciseEntryRepo) Summarize(ctx context.Context, userID int64, from, to time.Time) (*domain.EntrySummary, error) {
	var s domain.EntrySummary
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*), COALESCE(SUM(duration_minutes), 0), COALESCE(SUM(calories_burned), 0)
			FROM exercise_entries
			WHERE user_id = $1 AND entry_date >= $2 AND entry_date <= $3`,
		userID, from, to,
	).Scan(&s.Entries, &s.TotalMinutes, &s.TotalCalories)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *ExerciseEntryRepo) insertSet(ctx context.Context, entryID int64, set *domain.EntrySet) error {
	return r.db.QueryRow(ctx,
		`INSERT INTO exercise_entry_sets
			(entry_id, set_number, set_type, reps, weight, duration, rest_time, notes)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`,
		entryID, set.SetNumber, set.SetType, set.Reps, set.Weight,
		set.Duration, set.RestTime, set.Notes,
	).Scan(&set.ID)
}

func (r *ExerciseEntryRepo) loadSets(ctx context.Context, entryID int64) ([]domain.EntrySet, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, entry_id, set_number, set_type, reps, weight, duration, rest_time, notes
			FROM exercise_entry_sets
			WHERE entry_id = $1
			ORDER BY set_number`,
		entryID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sets := make([]domain.EntrySet, 0)
	for rows.Next() {
		var s domain.EntrySet
		if err := rows.Scan(&s.ID, &s.EntryID, &s.SetNumber, &s.SetType,
			&s.Reps, &s.Weight, &s.Duration, &s.RestTime, &s.Notes); err != nil {
			return nil, err
		}
		sets = append(sets, s)
	}
	return sets, rows.Err()
}

var _ repository.ExerciseEntryRepository = (*ExerciseEntryRepo)(nil)
