package entities

import "time"

// Review is a user-submitted report about a station. Reviews are immutable
// once created; every insert triggers a consensus recompute on the station.
type Review struct {
	ID                string    `json:"id" db:"id"`
	StationID         string    `json:"station_id" db:"station_id"`
	AuthorName        string    `json:"author_name" db:"author_name"`
	Rating            int       `json:"rating" db:"rating"`
	Content           string    `json:"content,omitempty" db:"content"`
	Clean             bool      `json:"clean" db:"clean"`
	WellStocked       bool      `json:"well_stocked" db:"well_stocked"`
	Accessible        bool      `json:"accessible" db:"accessible"`
	Private           bool      `json:"private" db:"private"`
	ReportNoStation   bool      `json:"report_no_station" db:"report_no_station"`
	ConfirmHasStation bool      `json:"confirm_has_station" db:"confirm_has_station"`
	CreatedAt         time.Time `json:"created_at" db:"created_at"`
}
