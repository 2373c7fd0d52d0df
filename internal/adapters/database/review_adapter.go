package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"

	"github.com/neststop/backend/internal/domain/entities"
	"github.com/neststop/backend/internal/domain/repositories"
	"github.com/neststop/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/neststop/backend/pkg/errors"
)

// ReviewAdapter implements review persistence in Postgres.
type ReviewAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewReviewAdapter creates a new review adapter.
func NewReviewAdapter(client *postgres.Client) repositories.ReviewRepository {
	return &ReviewAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create inserts a review record.
func (a *ReviewAdapter) Create(ctx context.Context, review *entities.Review) error {
	if review == nil {
		return apperrors.NewInternalError("review is nil", fmt.Errorf("review is nil"))
	}

	record := goqu.Record{
		"id":                  review.ID,
		"station_id":          review.StationID,
		"author_name":         sql.NullString{String: review.AuthorName, Valid: review.AuthorName != ""},
		"rating":              review.Rating,
		"content":             sql.NullString{String: review.Content, Valid: review.Content != ""},
		"clean":               review.Clean,
		"well_stocked":        review.WellStocked,
		"accessible":          review.Accessible,
		"private":             review.Private,
		"report_no_station":   review.ReportNoStation,
		"confirm_has_station": review.ConfirmHasStation,
		"created_at":          review.CreatedAt,
	}

	query, args, err := a.db.Insert("reviews").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build review insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to create review", err)
	}

	return nil
}

// ListByStation returns all reviews for a station, oldest first.
func (a *ReviewAdapter) ListByStation(ctx context.Context, stationID string) ([]*entities.Review, error) {
	query, args, err := a.db.From("reviews").
		Select(
			"id", "station_id", "author_name", "rating", "content",
			"clean", "well_stocked", "accessible", "private",
			"report_no_station", "confirm_has_station", "created_at",
		).
		Where(goqu.Ex{"station_id": stationID}).
		Order(goqu.I("created_at").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build review list query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list reviews", err)
	}
	defer rows.Close()

	reviews := []*entities.Review{}
	for rows.Next() {
		review := &entities.Review{}
		var authorName, content sql.NullString
		err := rows.Scan(
			&review.ID,
			&review.StationID,
			&authorName,
			&review.Rating,
			&content,
			&review.Clean,
			&review.WellStocked,
			&review.Accessible,
			&review.Private,
			&review.ReportNoStation,
			&review.ConfirmHasStation,
			&review.CreatedAt,
		)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan review", err)
		}
		review.AuthorName = authorName.String
		review.Content = content.String
		reviews = append(reviews, review)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("error iterating reviews", err)
	}

	return reviews, nil
}

// CountByStation returns the number of reviews for a station.
func (a *ReviewAdapter) CountByStation(ctx context.Context, stationID string) (int, error) {
	query, args, err := a.db.From("reviews").
		Select(goqu.COUNT("*")).
		Where(goqu.Ex{"station_id": stationID}).
		ToSQL()
	if err != nil {
		return 0, apperrors.NewInternalError("failed to build review count query", err)
	}

	var count int
	if err := a.client.DB().QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, apperrors.NewInternalError("failed to count reviews", err)
	}
	return count, nil
}
