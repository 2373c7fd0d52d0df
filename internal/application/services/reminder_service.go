package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/neststop/backend/internal/domain/entities"
	"github.com/neststop/backend/internal/domain/providers"
	"github.com/neststop/backend/internal/domain/repositories"
	apperrors "github.com/neststop/backend/pkg/errors"
)

// ReminderService registers devices, records started navigations, and runs
// the background scanner that sends the post-visit "leave a review" push.
type ReminderService struct {
	navs     repositories.NavigationRepository
	stations repositories.StationRepository
	push     providers.PushProvider
	interval time.Duration
	delay    time.Duration
}

// NewReminderService creates a new reminder service. interval is the scan
// cadence; delay is how long after navigation start the reminder fires.
func NewReminderService(
	navs repositories.NavigationRepository,
	stations repositories.StationRepository,
	push providers.PushProvider,
	interval, delay time.Duration,
) *ReminderService {
	return &ReminderService{
		navs:     navs,
		stations: stations,
		push:     push,
		interval: interval,
		delay:    delay,
	}
}

// RegisterDevice upserts a push-notification target.
func (s *ReminderService) RegisterDevice(ctx context.Context, device *entities.Device) (*entities.Device, error) {
	if device == nil || device.PushToken == "" {
		return nil, apperrors.NewValidationError("push token is required")
	}

	now := time.Now().UTC()
	if device.ID == "" {
		device.ID = uuid.New().String()
		device.CreatedAt = now
	}
	device.UpdatedAt = now

	if err := s.navs.RegisterDevice(ctx, device); err != nil {
		return nil, err
	}
	return device, nil
}

// StartNavigation records that a device began navigating to a station and
// schedules the review reminder.
func (s *ReminderService) StartNavigation(ctx context.Context, deviceID, stationID string) (*entities.Navigation, error) {
	if deviceID == "" || stationID == "" {
		return nil, apperrors.NewValidationError("device_id and station_id are required")
	}
	if _, err := s.navs.GetDevice(ctx, deviceID); err != nil {
		return nil, err
	}
	if _, err := s.stations.GetByID(ctx, stationID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	nav := &entities.Navigation{
		ID:        uuid.New().String(),
		DeviceID:  deviceID,
		StationID: stationID,
		StartedAt: now,
		RemindAt:  now.Add(s.delay),
		CreatedAt: now,
	}

	if err := s.navs.CreateNavigation(ctx, nav); err != nil {
		return nil, err
	}
	return nav, nil
}

// Start runs the reminder scanner until ctx is cancelled.
func (s *ReminderService) Start(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	log.Printf("Reminder scanner started (interval %s, delay %s)", s.interval, s.delay)
	for {
		select {
		case <-ctx.Done():
			log.Println("Reminder scanner stopped")
			return
		case <-ticker.C:
			s.Scan(ctx)
		}
	}
}

// Scan sends every due reminder. Each navigation is marked sent whether or
// not push delivery succeeded: a reminder is attempted at most once, never
// retried into a duplicate-notification storm.
func (s *ReminderService) Scan(ctx context.Context) {
	due, err := s.navs.ListDueReminders(ctx, time.Now().UTC())
	if err != nil {
		log.Printf("Warning: reminder scan failed: %v", err)
		return
	}

	for _, nav := range due {
		s.sendReminder(ctx, nav)
		if err := s.navs.MarkReminderSent(ctx, nav.ID, time.Now().UTC()); err != nil {
			log.Printf("Warning: failed to mark reminder %s sent: %v", nav.ID, err)
		}
	}
}

func (s *ReminderService) sendReminder(ctx context.Context, nav *entities.Navigation) {
	device, err := s.navs.GetDevice(ctx, nav.DeviceID)
	if err != nil {
		log.Printf("Warning: reminder %s has no device: %v", nav.ID, err)
		return
	}

	body := "How was the changing station? Leave a quick review to help other parents."
	if station, err := s.stations.GetByID(ctx, nav.StationID); err == nil {
		body = fmt.Sprintf("How was the changing station at %s? Leave a quick review to help other parents.", station.Name)
	}

	notification := &providers.PushNotification{
		RecipientToken: device.PushToken,
		Title:          "Rate your visit",
		Body:           body,
		Data: map[string]string{
			"station_id": nav.StationID,
		},
	}
	if s.push == nil {
		log.Printf("Warning: push delivery not configured, dropping reminder for navigation %s", nav.ID)
		return
	}
	if err := s.push.Send(ctx, notification); err != nil {
		log.Printf("Warning: failed to send reminder push for navigation %s: %v", nav.ID, err)
	}
}
