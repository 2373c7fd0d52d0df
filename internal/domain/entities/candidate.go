package entities

import "encoding/json"

// PlaceCandidate is a place returned by an external search. Candidates are
// transient: they are scored and ranked for display, and only become a
// persisted ChangingStation when a user submits a review or an explicit add
// referencing them.
type PlaceCandidate struct {
	ExternalID      string          `json:"external_id"`
	Name            string          `json:"name"`
	Address         string          `json:"address"`
	Location        Location        `json:"location"`
	Categories      []string        `json:"categories,omitempty"`
	ChainIDs        []string        `json:"chain_ids,omitempty"`
	DistanceMeters  *float64        `json:"distance_meters,omitempty"`
	Open            *bool           `json:"open,omitempty"`
	Hours           json.RawMessage `json:"hours,omitempty"`
	GuaranteedChain bool            `json:"guaranteed_chain"`
	Score           float64         `json:"score"`
}
