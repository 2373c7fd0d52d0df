package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/neststop/backend/internal/domain/entities"
	"github.com/neststop/backend/internal/domain/repositories"
	"github.com/neststop/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/neststop/backend/pkg/errors"
)

// NavigationAdapter implements device and navigation persistence in Postgres.
type NavigationAdapter struct {
	db *sqlx.DB
}

// NewNavigationAdapter creates a new navigation adapter.
func NewNavigationAdapter(client *postgres.Client) repositories.NavigationRepository {
	return &NavigationAdapter{
		db: client.Sqlx(),
	}
}

// RegisterDevice upserts a device by push token.
func (a *NavigationAdapter) RegisterDevice(ctx context.Context, device *entities.Device) error {
	query := `
		INSERT INTO devices (id, user_id, platform, push_token, created_at, updated_at)
		VALUES (:id, :user_id, :platform, :push_token, :created_at, :updated_at)
		ON CONFLICT (push_token) DO UPDATE SET
			user_id = EXCLUDED.user_id,
			platform = EXCLUDED.platform,
			updated_at = EXCLUDED.updated_at
	`

	if _, err := a.db.NamedExecContext(ctx, query, device); err != nil {
		return apperrors.NewInternalError("failed to register device", err)
	}
	return nil
}

// GetDevice retrieves a device by id.
func (a *NavigationAdapter) GetDevice(ctx context.Context, id string) (*entities.Device, error) {
	device := &entities.Device{}
	err := a.db.GetContext(ctx, device,
		`SELECT id, user_id, platform, push_token, created_at, updated_at FROM devices WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("device with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get device", err)
	}
	return device, nil
}

// CreateNavigation records a started navigation and its reminder time.
func (a *NavigationAdapter) CreateNavigation(ctx context.Context, nav *entities.Navigation) error {
	query := `
		INSERT INTO navigations (id, device_id, station_id, started_at, remind_at, sent_at, created_at)
		VALUES (:id, :device_id, :station_id, :started_at, :remind_at, :sent_at, :created_at)
	`

	if _, err := a.db.NamedExecContext(ctx, query, nav); err != nil {
		return apperrors.NewInternalError("failed to create navigation", err)
	}
	return nil
}

// ListDueReminders returns unsent navigations whose remind_at has passed.
func (a *NavigationAdapter) ListDueReminders(ctx context.Context, now time.Time) ([]*entities.Navigation, error) {
	navs := []*entities.Navigation{}
	err := a.db.SelectContext(ctx, &navs, `
		SELECT id, device_id, station_id, started_at, remind_at, sent_at, created_at
		FROM navigations
		WHERE sent_at IS NULL AND remind_at <= $1
		ORDER BY remind_at
	`, now)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list due reminders", err)
	}
	return navs, nil
}

// MarkReminderSent stamps sent_at on a navigation.
func (a *NavigationAdapter) MarkReminderSent(ctx context.Context, id string, sentAt time.Time) error {
	result, err := a.db.ExecContext(ctx,
		`UPDATE navigations SET sent_at = $2 WHERE id = $1`, id, sentAt)
	if err != nil {
		return apperrors.NewInternalError("failed to mark reminder sent", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to check reminder update result", err)
	}
	if affected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("navigation with id %s not found", id))
	}
	return nil
}
