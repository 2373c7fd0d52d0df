package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/neststop/backend/internal/domain/entities"
	"github.com/neststop/backend/internal/domain/repositories"
	"github.com/neststop/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/neststop/backend/pkg/errors"
)

// StationAdapter implements the StationRepository interface
type StationAdapter struct {
	client *postgres.Client
}

// NewStationAdapter creates a new station adapter
func NewStationAdapter(client *postgres.Client) repositories.StationRepository {
	return &StationAdapter{
		client: client,
	}
}

const stationColumns = `
	id, name, address, latitude, longitude,
	accessibility, supplies, privacy, hours, open_status,
	rating, review_count, negative_report_count,
	has_changing_station, verified, guaranteed_chain,
	created_at, updated_at
`

// Create creates a new station
func (a *StationAdapter) Create(ctx context.Context, station *entities.ChangingStation) error {
	query := `
		INSERT INTO stations (
			id, name, address, latitude, longitude,
			accessibility, supplies, privacy, hours, open_status,
			rating, review_count, negative_report_count,
			has_changing_station, verified, guaranteed_chain,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
	`

	_, err := a.client.DB().ExecContext(ctx, query,
		station.ID,
		station.Name,
		station.Address,
		station.Location.Latitude,
		station.Location.Longitude,
		station.Accessibility,
		station.Supplies,
		station.Privacy,
		nullableJSON(station.Hours),
		station.Open,
		station.Rating,
		station.ReviewCount,
		station.NegativeReportCount,
		station.HasChangingStation,
		station.Verified,
		station.GuaranteedChain,
		station.CreatedAt,
		station.UpdatedAt,
	)

	if err != nil {
		return apperrors.NewInternalError("failed to create station", err)
	}

	return nil
}

// GetByID retrieves a station by ID
func (a *StationAdapter) GetByID(ctx context.Context, id string) (*entities.ChangingStation, error) {
	query := `SELECT ` + stationColumns + ` FROM stations WHERE id = $1`

	station, err := scanStation(a.client.DB().QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("station with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get station", err)
	}

	return station, nil
}

// GetAll retrieves every station
func (a *StationAdapter) GetAll(ctx context.Context) ([]*entities.ChangingStation, error) {
	query := `SELECT ` + stationColumns + ` FROM stations ORDER BY created_at`

	rows, err := a.client.DB().QueryContext(ctx, query)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list stations", err)
	}
	defer rows.Close()

	return collectStations(rows)
}

// Update updates a station
func (a *StationAdapter) Update(ctx context.Context, station *entities.ChangingStation) error {
	query := `
		UPDATE stations SET
			name = $2, address = $3, latitude = $4, longitude = $5,
			accessibility = $6, supplies = $7, privacy = $8, hours = $9, open_status = $10,
			rating = $11, review_count = $12, negative_report_count = $13,
			has_changing_station = $14, verified = $15, guaranteed_chain = $16,
			updated_at = $17
		WHERE id = $1
	`

	result, err := a.client.DB().ExecContext(ctx, query,
		station.ID,
		station.Name,
		station.Address,
		station.Location.Latitude,
		station.Location.Longitude,
		station.Accessibility,
		station.Supplies,
		station.Privacy,
		nullableJSON(station.Hours),
		station.Open,
		station.Rating,
		station.ReviewCount,
		station.NegativeReportCount,
		station.HasChangingStation,
		station.Verified,
		station.GuaranteedChain,
		station.UpdatedAt,
	)

	if err != nil {
		return apperrors.NewInternalError("failed to update station", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to check update result", err)
	}
	if affected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("station with id %s not found", station.ID))
	}

	return nil
}

// FindNear returns the first station within eps degrees on both axes
func (a *StationAdapter) FindNear(ctx context.Context, lat, lng, eps float64) (*entities.ChangingStation, error) {
	query := `
		SELECT ` + stationColumns + `
		FROM stations
		WHERE abs(latitude - $1) < $3 AND abs(longitude - $2) < $3
		ORDER BY created_at
		LIMIT 1
	`

	station, err := scanStation(a.client.DB().QueryRowContext(ctx, query, lat, lng, eps))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError("no station near coordinates")
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to find station near coordinates", err)
	}

	return station, nil
}

// SearchByText returns stations whose name or address matches the query
func (a *StationAdapter) SearchByText(ctx context.Context, query string, limit int) ([]*entities.ChangingStation, error) {
	sqlQuery := `
		SELECT ` + stationColumns + `
		FROM stations
		WHERE name ILIKE '%' || $1 || '%' OR address ILIKE '%' || $1 || '%'
		ORDER BY review_count DESC
		LIMIT $2
	`

	rows, err := a.client.DB().QueryContext(ctx, sqlQuery, query, limit)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to search stations", err)
	}
	defer rows.Close()

	return collectStations(rows)
}

// Nearby returns stations within radiusKm of the point, nearest first
func (a *StationAdapter) Nearby(ctx context.Context, lat, lng, radiusKm float64) ([]*entities.ChangingStation, error) {
	// Haversine on plain columns; PostGIS is overkill at current data sizes
	query := `
		SELECT ` + stationColumns + ` FROM (
			SELECT *,
				(6371 * acos(cos(radians($1)) * cos(radians(latitude)) *
				cos(radians(longitude) - radians($2)) + sin(radians($1)) *
				sin(radians(latitude)))) AS distance
			FROM stations
		) s
		WHERE distance <= $3
		ORDER BY distance
	`

	rows, err := a.client.DB().QueryContext(ctx, query, lat, lng, radiusKm)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to query nearby stations", err)
	}
	defer rows.Close()

	return collectStations(rows)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanStation(row rowScanner) (*entities.ChangingStation, error) {
	station := &entities.ChangingStation{}
	var hours []byte
	err := row.Scan(
		&station.ID,
		&station.Name,
		&station.Address,
		&station.Location.Latitude,
		&station.Location.Longitude,
		&station.Accessibility,
		&station.Supplies,
		&station.Privacy,
		&hours,
		&station.Open,
		&station.Rating,
		&station.ReviewCount,
		&station.NegativeReportCount,
		&station.HasChangingStation,
		&station.Verified,
		&station.GuaranteedChain,
		&station.CreatedAt,
		&station.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	station.Hours = hours
	return station, nil
}

func collectStations(rows *sql.Rows) ([]*entities.ChangingStation, error) {
	stations := []*entities.ChangingStation{}
	for rows.Next() {
		station, err := scanStation(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan station", err)
		}
		stations = append(stations, station)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("error iterating stations", err)
	}
	return stations, nil
}

func nullableJSON(raw []byte) interface{} {
	if len(raw) == 0 {
		return nil
	}
	return raw
}
