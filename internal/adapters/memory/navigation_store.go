package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/neststop/backend/internal/domain/entities"
	"github.com/neststop/backend/internal/domain/repositories"
	apperrors "github.com/neststop/backend/pkg/errors"
)

// NavigationStore is an in-memory NavigationRepository.
type NavigationStore struct {
	mu      sync.RWMutex
	devices map[string]*entities.Device
	navs    map[string]*entities.Navigation
	order   []string
}

// NewNavigationStore creates an empty in-memory navigation store.
func NewNavigationStore() *NavigationStore {
	return &NavigationStore{
		devices: make(map[string]*entities.Device),
		navs:    make(map[string]*entities.Navigation),
	}
}

var _ repositories.NavigationRepository = (*NavigationStore)(nil)

// RegisterDevice upserts a device by push token
func (s *NavigationStore) RegisterDevice(ctx context.Context, device *entities.Device) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.devices {
		if existing.PushToken == device.PushToken {
			device.ID = existing.ID
			device.CreatedAt = existing.CreatedAt
			break
		}
	}

	copied := *device
	s.devices[device.ID] = &copied
	return nil
}

// GetDevice retrieves a device by id
func (s *NavigationStore) GetDevice(ctx context.Context, id string) (*entities.Device, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	device, ok := s.devices[id]
	if !ok {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("device with id %s not found", id))
	}
	copied := *device
	return &copied, nil
}

// CreateNavigation records a started navigation
func (s *NavigationStore) CreateNavigation(ctx context.Context, nav *entities.Navigation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.navs[nav.ID]; exists {
		return apperrors.NewConflictError(fmt.Sprintf("navigation with id %s already exists", nav.ID))
	}
	copied := *nav
	s.navs[nav.ID] = &copied
	s.order = append(s.order, nav.ID)
	return nil
}

// ListDueReminders returns unsent navigations whose remind_at has passed
func (s *NavigationStore) ListDueReminders(ctx context.Context, now time.Time) ([]*entities.Navigation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	due := []*entities.Navigation{}
	for _, id := range s.order {
		nav := s.navs[id]
		if nav.SentAt == nil && !nav.RemindAt.After(now) {
			copied := *nav
			due = append(due, &copied)
		}
	}
	return due, nil
}

// MarkReminderSent stamps sent_at on a navigation
func (s *NavigationStore) MarkReminderSent(ctx context.Context, id string, sentAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	nav, ok := s.navs[id]
	if !ok {
		return apperrors.NewNotFoundError(fmt.Sprintf("navigation with id %s not found", id))
	}
	stamp := sentAt
	nav.SentAt = &stamp
	return nil
}
