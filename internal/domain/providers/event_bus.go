package providers

import (
	"context"

	"github.com/smartlocalbusiness/backend/internal/domain/entities"
)

// EventBus defines the interface for publishing and subscribing to business events
type EventBus interface {
	// Publish publishes an event to all subscribers
	Publish(ctx context.Context, channel string, event *entities.BusinessEvent) error

	// Subscribe subscribes to events on a channel until ctx is done
	Subscribe(ctx context.Context, channel string) (<-chan *entities.BusinessEvent, error)

	// Unsubscribe unsubscribes from a channel
	Unsubscribe(ctx context.Context, channel string) error

	// Close closes the event bus and all subscriptions
	Close() error
}

const (
	// EventChannelBusinessUpdates carries every business change
	EventChannelBusinessUpdates = "business:updates"
)

// BookingEventPublisher delivers booking lifecycle events to a broker
type BookingEventPublisher interface {
	PublishBookingEvent(ctx context.Context, event *entities.BookingEvent) error
	Close() error
}
