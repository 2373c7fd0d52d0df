package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/doug-martin/goqu/v9"

	"github.com/neststop/backend/internal/domain/entities"
	"github.com/neststop/backend/internal/domain/repositories"
	"github.com/neststop/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/neststop/backend/pkg/errors"
)

// UserAdapter implements user persistence in Postgres.
type UserAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewUserAdapter creates a new user adapter.
func NewUserAdapter(client *postgres.Client) repositories.UserRepository {
	return &UserAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// UpsertByExternalID creates or refreshes the user row for an external id.
// NULLIF/COALESCE keeps the stored name and email when the incoming values
// are empty, since Apple only sends them on first sign-in.
func (a *UserAdapter) UpsertByExternalID(ctx context.Context, user *entities.User) (*entities.User, error) {
	query := `
		INSERT INTO users (id, external_id, name, email, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (external_id) DO UPDATE SET
			name = COALESCE(NULLIF(EXCLUDED.name, ''), users.name),
			email = COALESCE(NULLIF(EXCLUDED.email, ''), users.email),
			updated_at = EXCLUDED.updated_at
		RETURNING id, external_id, name, email, created_at, updated_at
	`

	result := &entities.User{}
	err := a.client.DB().QueryRowContext(ctx, query,
		user.ID,
		user.ExternalID,
		user.Name,
		user.Email,
		user.CreatedAt,
		user.UpdatedAt,
	).Scan(
		&result.ID,
		&result.ExternalID,
		&result.Name,
		&result.Email,
		&result.CreatedAt,
		&result.UpdatedAt,
	)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to upsert user", err)
	}

	return result, nil
}

// GetByExternalID retrieves a user by external id.
func (a *UserAdapter) GetByExternalID(ctx context.Context, externalID string) (*entities.User, error) {
	query, args, err := a.db.From("users").
		Select("id", "external_id", "name", "email", "created_at", "updated_at").
		Where(goqu.Ex{"external_id": externalID}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build user query", err)
	}

	user := &entities.User{}
	err = a.client.DB().QueryRowContext(ctx, query, args...).Scan(
		&user.ID,
		&user.ExternalID,
		&user.Name,
		&user.Email,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("user with external id %s not found", externalID))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get user", err)
	}

	return user, nil
}
