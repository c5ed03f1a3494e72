package postgres

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5"

	"fittrack/internal/domain"
	"fittrack/internal/repository"
)

// ExerciseRepo is the Postgres implementation of repository.ExerciseRepository.
// The array-valued fields (equipment, muscles, instructions, images) live in
// JSONB columns and are decoded on every read; a row with malformed JSON
// degrades to an empty slice instead of failing the query.
type ExerciseRepo struct {
	db Querier
}

func NewExerciseRepo(db Querier) *ExerciseRepo {
	return &ExerciseRepo{db: db}
}

const exerciseColumns = `id, source, source_id, name, force, level, mechanic, category,
	equipment, primary_muscles, secondary_muscles, instructions, images,
	calories_per_hour, description, user_id, is_custom, shared_with_public,
	created_at, updated_at`

func (r *ExerciseRepo) Create(ctx context.Context, exercise *domain.Exercise) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx,
		`INSERT INTO exercises
			(source, source_id, name, force, level, mechanic, category,
			 equipment, primary_muscles, secondary_muscles, instructions, images,
			 calories_per_hour, description, user_id, is_custom, shared_with_public)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING id`,
		exercise.Source, exercise.SourceID, exercise.Name,
		exercise.Force, exercise.Level, exercise.Mechanic, exercise.Category,
		marshalArray(exercise.Equipment), marshalArray(exercise.PrimaryMuscles),
		marshalArray(exercise.SecondaryMuscles), marshalArray(exercise.Instructions),
		marshalArray(exercise.Images),
		exercise.CaloriesPerHour, exercise.Description, exercise.UserID,
		exercise.IsCustom, exercise.SharedWithPublic,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *ExerciseRepo) GetByID(ctx context.Context, id int64) (*domain.Exercise, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+exerciseColumns+` FROM exercises WHERE id = $1`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	exercises, err := rows2exercises(rows)
	if err != nil {
		return nil, err
	}
	if len(exercises) != 1 {
		return nil, repository.ErrNotFound
	}
	return &exercises[0], nil
}

func (r *ExerciseRepo) ListVisible(ctx context.Context, userID int64) ([]domain.Exercise, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+exerciseColumns+` FROM exercises
			WHERE user_id IS NULL OR user_id = $1 OR shared_with_public
			ORDER BY name`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return rows2exercises(rows)
}

func (r *ExerciseRepo) Update(ctx context.Context, exercise *domain.Exercise) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE exercises SET
			name = $1, force = $2, level = $3, mechanic = $4, category = $5,
			equipment = $6, primary_muscles = $7, secondary_muscles = $8,
			instructions = $9, images = $10, calories_per_hour = $11,
			description = $12, shared_with_public = $13, updated_at = now()
		WHERE id = $14`,
		exercise.Name, exercise.Force, exercise.Level, exercise.Mechanic, exercise.Category,
		marshalArray(exercise.Equipment), marshalArray(exercise.PrimaryMuscles),
		marshalArray(exercise.SecondaryMuscles), marshalArray(exercise.Instructions),
		marshalArray(exercise.Images), exercise.CaloriesPerHour,
		exercise.Description, exercise.SharedWithPublic, exercise.ID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes a custom exercise. The user filter enforces ownership at
// the database level; global exercises (user_id NULL) cannot be deleted
// through this path.
func (r *ExerciseRepo) Delete(ctx context.Context, id, userID int64) error {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM exercises WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func rows2exercises(rows pgx.Rows) ([]domain.Exercise, error) {
	exercises := make([]domain.Exercise, 0)
	for rows.Next() {
		var e domain.Exercise
		var equipment, primary, secondary, instructions, images []byte
		if err := rows.Scan(
			&e.ID, &e.Source, &e.SourceID, &e.Name,
			&e.Force, &e.Level, &e.Mechanic, &e.Category,
			&equipment, &primary, &secondary, &instructions, &images,
			&e.CaloriesPerHour, &e.Description, &e.UserID,
			&e.IsCustom, &e.SharedWithPublic,
			&e.CreatedAt, &e.UpdatedAt,
		); err != nil {
			return nil, err
		}
		e.Equipment = unmarshalArray(equipment)
		e.PrimaryMuscles = unmarshalArray(primary)
		e.SecondaryMuscles = unmarshalArray(secondary)
		e.Instructions = unmarshalArray(instructions)
		e.Images = unmarshalArray(images)
		exercises = append(exercises, e)
	}
	return exercises, rows.Err()
}

func marshalArray(values []string) []byte {
	if values == nil {
		values = []string{}
	}
	// Marshalling a string slice cannot fail.
	data, _ := json.Marshal(values)
	return data
}

// unmarshalArray decodes a JSON array column. A parse failure degrades to
// an empty array rather than propagating.
func unmarshalArray(data []byte) []string {
	if len(data) == 0 {
		return []string{}
	}
	var values []string
	if err := json.Unmarshal(data, &values); err != nil {
		return []string{}
	}
	if values == nil {
		return []string{}
	}
	return values
}

var _ repository.ExerciseRepository = (*ExerciseRepo)(nil)
