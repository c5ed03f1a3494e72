package domain

import "time"

// Exercise represents a single exercise definition in the catalog.
// Global exercises (imported from an external dataset) have a nil UserID;
// custom exercises belong to the user that created them.
type Exercise struct {
	ID       int64  `json:"id"`
	Source   string `json:"source,omitempty"`    // External catalog origin, e.g. "free-exercise-db"
	SourceID string `json:"source_id,omitempty"` // Identifier within that catalog

	Name     string `json:"name"`
	Force    string `json:"force,omitempty"`    // e.g. "push", "pull", "static"
	Level    string `json:"level,omitempty"`    // "beginner", "intermediate", "expert"
	Mechanic string `json:"mechanic,omitempty"` // "compound" or "isolation"
	Category string `json:"category,omitempty"` // e.g. "strength", "cardio", "stretching"

	// Stored as JSONB arrays; a row with malformed JSON degrades to an
	// empty slice on read instead of failing the whole query.
	Equipment        []string `json:"equipment"`
	PrimaryMuscles   []string `json:"primary_muscles"`
	SecondaryMuscles []string `json:"secondary_muscles"`
	Instructions     []string `json:"instructions"`
	Images           []string `json:"images"`

	CaloriesPerHour  int    `json:"calories_per_hour,omitempty"`
	Description      string `json:"description,omitempty"`
	UserID           *int64 `json:"user_id,omitempty"` // nil for global/public exercises
	IsCustom         bool   `json:"is_custom"`
	SharedWithPublic bool   `json:"shared_with_public"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
