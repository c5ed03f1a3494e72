package domain

import "time"

// User represents an account in the system. This is a personal tracking
// tool, so there is a single user role.
type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"` // Should be unique
	PasswordHash string    `json:"-"`     // Never expose this via JSON
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// WeightMeasurement is a single body-weight reading. The most recent
// measurement feeds calorie estimation.
type WeightMeasurement struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"user_id"`
	Kilograms  float64   `json:"kilograms"`
	MeasuredAt time.Time `json:"measured_at"`
}
