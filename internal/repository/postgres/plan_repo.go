package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"fittrack/internal/domain"
	"fittrack/internal/repository"
)

// WorkoutPlanRepo is the Postgres implementation of
// repository.WorkoutPlanRepository. Assignments are owned by the plan and
// replaced wholesale (delete-all, insert-all) on every update.
type WorkoutPlanRepo struct {
	db Querier
}

func NewWorkoutPlanRepo(db Querier) *WorkoutPlanRepo {
	return &WorkoutPlanRepo{db: db}
}

func (r *WorkoutPlanRepo) Create(ctx context.Context, plan *domain.WorkoutPlan) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx,
		`INSERT INTO workout_plans (user_id, plan_name, description, start_date, end_date, is_active)
			VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		plan.UserID, plan.Name, plan.Description, plan.StartDate, plan.EndDate, plan.IsActive,
	).Scan(&id)
	if err != nil {
		return 0, err
	}

	if err := r.insertAssignments(ctx, id, plan.Assignments); err != nil {
		return 0, err
	}
	return id, nil
}

func (r *WorkoutPlanRepo) GetByID(ctx context.Context, id int64) (*domain.WorkoutPlan, error) {
	var p domain.WorkoutPlan
	err := r.db.QueryRow(ctx,
		`SELECT id, user_id, plan_name, description, start_date, end_date, is_active, created_at, updated_at
			FROM workout_plans WHERE id = $1`,
		id,
	).Scan(&p.ID, &p.UserID, &p.Name, &p.Description, &p.StartDate, &p.EndDate,
		&p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	assignments, err := r.loadAssignments(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	p.Assignments = assignments
	return &p, nil
}

func (r *WorkoutPlanRepo) ListByUser(ctx context.Context, userID int64) ([]domain.WorkoutPlan, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, plan_name, description, start_date, end_date, is_active, created_at, updated_at
			FROM workout_plans
			WHERE user_id = $1
			ORDER BY start_date DESC, id DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	plans := make([]domain.WorkoutPlan, 0)
	for rows.Next() {
		var p domain.WorkoutPlan
		if err := rows.Scan(&p.ID, &p.UserID, &p.Name, &p.Description, &p.StartDate, &p.EndDate,
			&p.IsActive, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		plans = append(plans, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range plans {
		assignments, err := r.loadAssignments(ctx, plans[i].ID)
		if err != nil {
			return nil, err
		}
		plans[i].Assignments = assignments
	}
	return plans, nil
}

// Update rewrites the plan row and fully replaces its assignment list.
// The assignments slice gets fresh database ids; callers must re-read the
// plan (GetByID) if they need them resolved with display names.
func (r *WorkoutPlanRepo) Update(ctx context.Context, plan *domain.WorkoutPlan) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE workout_plans
			SET plan_name = $1, description = $2, start_date = $3, end_date = $4,
				is_active = $5, updated_at = now()
		WHERE id = $6`,
		plan.Name, plan.Description, plan.StartDate, plan.EndDate, plan.IsActive, plan.ID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	if _, err := r.db.Exec(ctx,
		`DELETE FROM workout_plan_assignments WHERE plan_id = $1`, plan.ID); err != nil {
		return err
	}
	return r.insertAssignments(ctx, plan.ID, plan.Assignments)
}

func (r *WorkoutPlanRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM workout_plans WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// insertAssignments writes the assignment list and sets the generated ids
// back on the slice, so the caller can tag materialized entries with them.
func (r *WorkoutPlanRepo) insertAssignments(ctx context.Context, planID int64, assignments []domain.PlanAssignment) error {
	for i := range assignments {
		a := &assignments[i]
		err := r.db.QueryRow(ctx,
			`INSERT INTO workout_plan_assignments
				(plan_id, day_of_week, workout_preset_id, exercise_id, sets, reps, weight, duration, notes)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			RETURNING id`,
			planID, a.DayOfWeek, a.PresetID, a.ExerciseID,
			a.Sets, a.Reps, a.Weight, a.Duration, a.Notes,
		).Scan(&a.ID)
		if err != nil {
			return err
		}
		a.PlanID = planID
	}
	return nil
}

// loadAssignments reads the plan's assignments with display names resolved
// via join. The names are display only, never authoritative.
func (r *WorkoutPlanRepo) loadAssignments(ctx context.Context, planID int64) ([]domain.PlanAssignment, error) {
	rows, err := r.db.Query(ctx,
		`SELECT a.id, a.plan_id, a.day_of_week, a.workout_preset_id, a.exercise_id,
				a.sets, a.reps, a.weight, a.duration, a.notes,
				COALESCE(p.name, ''), COALESCE(e.name, '')
			FROM workout_plan_assignments a
			LEFT JOIN workout_presets p ON p.id = a.workout_preset_id
			LEFT JOIN exercises e ON e.id = a.exercise_id
			WHERE a.plan_id = $1
			ORDER BY a.day_of_week, a.id`,
		planID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	assignments := make([]domain.PlanAssignment, 0)
	for rows.Next() {
		var a domain.PlanAssignment
		if err := rows.Scan(
			&a.ID, &a.PlanID, &a.DayOfWeek, &a.PresetID, &a.ExerciseID,
			&a.Sets, &a.Reps, &a.Weight, &a.Duration, &a.Notes,
			&a.PresetName, &a.ExerciseName,
		); err != nil {
			return nil, err
		}
		assignments = append(assignments, a)
	}
	return assignments, rows.Err()
}

var _ repository.WorkoutPlanRepository = (*WorkoutPlanRepo)(nil)
