package providers

import (
	"context"

	"github.com/neststop/backend/internal/domain/entities"
)

// EventChannelStationUpdates is the global channel every station event is
// published to.
const EventChannelStationUpdates = "stations:updates"

// GetStationChannel returns the per-station event channel name.
func GetStationChannel(stationID string) string {
	return "stations:updates:" + stationID
}

// EventBus defines the interface for publishing and subscribing to station
// events.
type EventBus interface {
	// Publish publishes an event to a channel
	Publish(ctx context.Context, channel string, event *entities.StationEvent) error

	// Subscribe subscribes to events on a channel; the returned channel is
	// closed when ctx is cancelled
	Subscribe(ctx context.Context, channel string) (<-chan *entities.StationEvent, error)

	// Unsubscribe tears down a channel subscription
	Unsubscribe(ctx context.Context, channel string) error

	// Close closes the event bus and all subscriptions
	Close() error
}
