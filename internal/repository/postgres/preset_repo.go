package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"fittrack/internal/domain"
	"fittrack/internal/repository"
)

// WorkoutPresetRepo is the Postgres implementation of
// repository.WorkoutPresetRepository. Preset exercises are replaced
// wholesale on every update.
type WorkoutPresetRepo struct {
	db Querier
}

func NewWorkoutPresetRepo(db Querier) *WorkoutPresetRepo {
	return &WorkoutPresetRepo{db: db}
}

func (r *WorkoutPresetRepo) Create(ctx context.Context, preset *domain.WorkoutPreset) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx,
		`INSERT INTO workout_presets (user_id, name, description, is_public)
			VALUES ($1, $2, $3, $4)
		RETURNING id`,
		preset.UserID, preset.Name, preset.Description, preset.IsPublic,
	).Scan(&id)
	if err != nil {
		return 0, err
	}

	if err := r.insertExercises(ctx, id, preset.Exercises); err != nil {
		return 0, err
	}
	return id, nil
}

func (r *WorkoutPresetRepo) GetByID(ctx context.Context, id int64) (*domain.WorkoutPreset, error) {
	var p domain.WorkoutPreset
	err := r.db.QueryRow(ctx,
		`SELECT id, user_id, name, description, is_public, created_at, updated_at
			FROM workout_presets WHERE id = $1`,
		id,
	).Scan(&p.ID, &p.UserID, &p.Name, &p.Description, &p.IsPublic, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	exercises, err := r.loadExercises(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	p.Exercises = exercises
	return &p, nil
}

func (r *WorkoutPresetRepo) ListByUser(ctx context.Context, userID int64) ([]domain.WorkoutPreset, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, name, description, is_public, created_at, updated_at
			FROM workout_presets
			WHERE user_id = $1 OR is_public
			ORDER BY name`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	presets := make([]domain.WorkoutPreset, 0)
	for rows.Next() {
		var p domain.WorkoutPreset
		if err := rows.Scan(&p.ID, &p.UserID, &p.Name, &p.Description, &p.IsPublic, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		presets = append(presets, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range presets {
		exercises, err := r.loadExercises(ctx, presets[i].ID)
		if err != nil {
			return nil, err
		}
		presets[i].Exercises = exercises
	}
	return presets, nil
}

func (r *WorkoutPresetRepo) Update(ctx context.Context, preset *domain.WorkoutPreset) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE workout_presets
			SET name = $1, description = $2, is_public = $3, updated_at = now()
		WHERE id = $4`,
		preset.Name, preset.Description, preset.IsPublic, preset.ID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	// No diffing of the exercise list: delete everything, insert the new set.
	if _, err := r.db.Exec(ctx,
		`DELETE FROM workout_preset_exercises WHERE preset_id = $1`, preset.ID); err != nil {
		return err
	}
	return r.insertExercises(ctx, preset.ID, preset.Exercises)
}

func (r *WorkoutPresetRepo) Delete(ctx context.Context, id, userID int64) error {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM workout_presets WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *WorkoutPresetRepo) insertExercises(ctx context.Context, presetID int64, exercises []domain.PresetExercise) error {
	for i, pe := range exercises {
		_, err := r.db.Exec(ctx,
			`INSERT INTO workout_preset_exercises
				(preset_id, exercise_id, exercise_name, position, sets, reps, weight, duration, notes, image_url)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			presetID, pe.ExerciseID, pe.ExerciseName, i+1,
			pe.Sets, pe.Reps, pe.Weight, pe.Duration, pe.Notes, pe.ImageURL,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *WorkoutPresetRepo) loadExercises(ctx context.Context, presetID int64) ([]domain.PresetExercise, error) {
	rows, err := r.db.Query(ctx,
		`SELECT pe.id, pe.preset_id, pe.exercise_id, e.name, pe.position,
				pe.sets, pe.reps, pe.weight, pe.duration, pe.notes, pe.image_url
			FROM workout_preset_exercises pe
			JOIN exercises e ON e.id = pe.exercise_id
			WHERE pe.preset_id = $1
			ORDER BY pe.position`,
		presetID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	exercises := make([]domain.PresetExercise, 0)
	for rows.Next() {
		var pe domain.PresetExercise
		if err := rows.Scan(
			&pe.ID, &pe.PresetID, &pe.ExerciseID, &pe.ExerciseName, &pe.Position,
			&pe.Sets, &pe.Reps, &pe.Weight, &pe.Duration, &pe.Notes, &pe.ImageURL,
		); err != nil {
			return nil, err
		}
		exercises = append(exercises, pe)
	}
	return exercises, rows.Err()
}

var _ repository.WorkoutPresetRepository = (*WorkoutPresetRepo)(nil)
