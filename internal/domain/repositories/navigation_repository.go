package repositories

import (
	"context"
	"time"

	"github.com/neststop/backend/internal/domain/entities"
)

// NavigationRepository defines persistence for devices and navigation
// reminder records. These rows are read and written by the reminder scanner
// only; they share no fields with station aggregates.
type NavigationRepository interface {
	// RegisterDevice upserts a device by push token
	RegisterDevice(ctx context.Context, device *entities.Device) error

	// GetDevice retrieves a device by id
	GetDevice(ctx context.Context, id string) (*entities.Device, error)

	// CreateNavigation records a started navigation and its reminder time
	CreateNavigation(ctx context.Context, nav *entities.Navigation) error

	// ListDueReminders returns unsent navigations whose remind_at is at or
	// before now
	ListDueReminders(ctx context.Context, now time.Time) ([]*entities.Navigation, error)

	// MarkReminderSent stamps sent_at on a navigation
	MarkReminderSent(ctx context.Context, id string, sentAt time.Time) error
}
