package entities

import "time"

// Device is a registered push-notification target.
type Device struct {
	ID        string    `json:"id" db:"id"`
	UserID    string    `json:"user_id" db:"user_id"`
	Platform  string    `json:"platform" db:"platform"`
	PushToken string    `json:"push_token" db:"push_token"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Navigation records that a user started navigating to a station. A
// post-visit reminder push is scheduled for RemindAt and sent by the
// background reminder scanner; these records never interact with the
// consensus engine.
type Navigation struct {
	ID        string     `json:"id" db:"id"`
	DeviceID  string     `json:"device_id" db:"device_id"`
	StationID string     `json:"station_id" db:"station_id"`
	StartedAt time.Time  `json:"started_at" db:"started_at"`
	RemindAt  time.Time  `json:"remind_at" db:"remind_at"`
	SentAt    *time.Time `json:"sent_at,omitempty" db:"sent_at"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
}
