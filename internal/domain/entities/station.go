package entities

import (
	"encoding/json"
	"time"
)

// ChangingStation represents a verified (or crowd-verifiable) changing
// station at a business. Stations are created on first sighting and mutated
// by every review; they are never deleted in normal operation.
type ChangingStation struct {
	// ID is either a locally assigned uuid or a provider-prefixed external
	// id (e.g. "fsq:4bf58dd8") when the station was created from a search
	// candidate.
	ID                  string          `json:"id" db:"id"`
	Name                string          `json:"name" db:"name"`
	Address             string          `json:"address" db:"address"`
	Location            Location        `json:"location" db:"-"`
	Accessibility       TriState        `json:"accessibility" db:"accessibility"`
	Privacy             bool            `json:"privacy" db:"privacy"`
	Supplies            TriState        `json:"supplies" db:"supplies"`
	Hours               json.RawMessage `json:"hours,omitempty" db:"hours"`
	Open                TriState        `json:"open" db:"open"`
	Rating              float64         `json:"rating" db:"rating"`
	ReviewCount         int             `json:"review_count" db:"review_count"`
	HasChangingStation  TriState        `json:"has_changing_station" db:"has_changing_station"`
	NegativeReportCount int             `json:"negative_report_count" db:"negative_report_count"`
	Verified            bool            `json:"verified" db:"verified"`
	GuaranteedChain     bool            `json:"guaranteed_chain" db:"guaranteed_chain"`
	CreatedAt           time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at" db:"updated_at"`
}

// Location represents geographical coordinates
type Location struct {
	Latitude  float64 `json:"latitude" db:"latitude"`
	Longitude float64 `json:"longitude" db:"longitude"`
}
