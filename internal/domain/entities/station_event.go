package entities

import "time"

// StationEventType identifies the kind of station event
type StationEventType string

const (
	// StationEventCreated is published when a station is first persisted
	StationEventCreated StationEventType = "station_created"

	// StationEventConsensusUpdated is published after a review triggers a
	// consensus recompute
	StationEventConsensusUpdated StationEventType = "consensus_updated"
)

// StationEvent is broadcast on the event bus so connected clients see
// station updates in real time.
type StationEvent struct {
	ID        string           `json:"id"`
	EventType StationEventType `json:"event_type"`
	StationID string           `json:"station_id"`
	Location  Location         `json:"location"`
	Station   *ChangingStation `json:"station,omitempty"`
	Timestamp time.Time        `json:"timestamp"`
}
