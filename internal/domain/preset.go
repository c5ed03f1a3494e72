package domain

import "time"

// WorkoutPreset is a named, reusable bundle of exercises with target
// sets/reps/weight/duration. Presets are independent of dates; plans
// reference them through assignments.
type WorkoutPreset struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	IsPublic    bool      `json:"is_public"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Ordered by Position; replaced wholesale on every preset update.
	Exercises []PresetExercise `json:"exercises"`
}

// PresetExercise is one exercise slot within a preset. ExerciseName is
// denormalized display data and never authoritative.
type PresetExercise struct {
	ID           int64   `json:"id"`
	PresetID     int64   `json:"preset_id"`
	ExerciseID   int64   `json:"exercise_id"`
	ExerciseName string  `json:"exercise_name,omitempty"`
	Position     int     `json:"position"`
	Sets         int     `json:"sets,omitempty"`
	Reps         int     `json:"reps,omitempty"`
	Weight       float64 `json:"weight,omitempty"`
	Duration     int     `json:"duration,omitempty"` // minutes per set
	Notes        string  `json:"notes,omitempty"`
	ImageURL     string  `json:"image_url,omitempty"`
}
