package domain

import "time"

// SetType classifies a logged set.
type SetType string

const (
	SetTypeWorking   SetType = "Working Set"
	SetTypeWarmup    SetType = "Warm-up"
	SetTypeDrop      SetType = "Drop Set"
	SetTypeFailure   SetType = "Failure"
	SetTypeAMRAP     SetType = "AMRAP"
	SetTypeBackoff   SetType = "Back-off"
	SetTypeRestPause SetType = "Rest-Pause"
	SetTypeCluster   SetType = "Cluster"
	SetTypeTechnique SetType = "Technique"
)

// ValidSetType reports whether t is one of the known set types.
func ValidSetType(t SetType) bool {
	switch t {
	case SetTypeWorking, SetTypeWarmup, SetTypeDrop, SetTypeFailure,
		SetTypeAMRAP, SetTypeBackoff, SetTypeRestPause, SetTypeCluster, SetTypeTechnique:
		return true
	}
	return false
}

// ExerciseEntry is one dated diary row: a logged (or plan-materialized)
// occurrence of an exercise, optionally composed of ordered sets.
type ExerciseEntry struct {
	ID              int64     `json:"id"`
	UserID          int64     `json:"user_id"`
	ExerciseID      int64     `json:"exercise_id"`
	ExerciseName    string    `json:"exercise_name,omitempty"` // joined at read time, display only
	EntryDate       time.Time `json:"entry_date"`
	DurationMinutes int       `json:"duration_minutes,omitempty"`
	CaloriesBurned  int       `json:"calories_burned,omitempty"`
	Notes           string    `json:"notes,omitempty"`
	ImageURL        string    `json:"image_url,omitempty"`

	// Back-reference to the plan assignment that produced this entry.
	// Weak link: deleting the assignment does not cascade here except
	// through the explicit reversal routine.
	PlanAssignmentID *int64 `json:"workout_plan_assignment_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Ordered by SetNumber, always renumbered 1..N after any mutation.
	Sets []EntrySet `json:"sets"`
}

// EntrySet is a single set within an entry.
type EntrySet struct {
	ID        int64   `json:"id"`
	EntryID   int64   `json:"entry_id"`
	SetNumber int     `json:"set_number"` // 1-based, contiguous
	SetType   SetType `json:"set_type"`
	Reps      int     `json:"reps,omitempty"`
	Weight    float64 `json:"weight,omitempty"`
	Duration  int     `json:"duration,omitempty"`  // minutes
	RestTime  int     `json:"rest_time,omitempty"` // seconds
	Notes     string  `json:"notes,omitempty"`
}

// EntrySummary aggregates diary activity over a date range.
type EntrySummary struct {
	Entries       int `json:"entries"`
	TotalMinutes  int `json:"total_minutes"`
	TotalCalories int `json:"total_calories"`
}

// RenumberSets rewrites the set numbers to 1..N in list order.
// Called after every insert/delete/reorder of the set list so the
// numbering never has gaps or duplicates.
func (e *ExerciseEntry) RenumberSets() {
	for i := range e.Sets {
		e.Sets[i].SetNumber = i + 1
	}
}
