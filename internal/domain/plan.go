package domain

import "time"

// WorkoutPlan is a recurring weekly plan: an active date range plus a set
// of weekday assignments. Saving an active plan expands the assignments
// into dated exercise entries (see service.PlanService).
type WorkoutPlan struct {
	ID          int64      `json:"id"`
	UserID      int64      `json:"user_id"`
	Name        string     `json:"plan_name"`
	Description string     `json:"description,omitempty"`
	StartDate   time.Time  `json:"start_date"`
	EndDate     *time.Time `json:"end_date,omitempty"` // nil = open-ended
	IsActive    bool       `json:"is_active"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	// Owned by the plan; deleted and re-inserted on every update.
	Assignments []PlanAssignment `json:"assignments"`
}

// PlanAssignment is one (weekday -> preset-or-exercise) rule within a plan.
// Exactly one of PresetID and ExerciseID is set. For a direct-exercise
// assignment the Sets/Reps/Weight/Duration fields describe what should be
// logged each time the assignment fires.
type PlanAssignment struct {
	ID         int64  `json:"id"`
	PlanID     int64  `json:"plan_id"`
	DayOfWeek  int    `json:"day_of_week"` // 0=Sunday .. 6=Saturday
	PresetID   *int64 `json:"workout_preset_id,omitempty"`
	ExerciseID *int64 `json:"exercise_id,omitempty"`

	Sets     int     `json:"sets,omitempty"`
	Reps     int     `json:"reps,omitempty"`
	Weight   float64 `json:"weight,omitempty"`
	Duration int     `json:"duration,omitempty"` // minutes per set
	Notes    string  `json:"notes,omitempty"`

	// Resolved at read time via join; display only.
	PresetName   string `json:"workout_preset_name,omitempty"`
	ExerciseName string `json:"exercise_name,omitempty"`
}

// TargetsPreset reports whether the assignment expands a whole preset
// rather than a single exercise.
func (a *PlanAssignment) TargetsPreset() bool {
	return a.PresetID != nil
}
