package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/smartlocalbusiness/backend/internal/domain/entities"
	"github.com/smartlocalbusiness/backend/internal/domain/providers"
)

// MessageSender is the broker operation the booking publisher needs.
// *rabbitmq.Client satisfies it.
type MessageSender interface {
	Publish(ctx context.Context, body []byte) error
	Close() error
}

// RabbitMQPublisher serializes booking events onto the broker queue
type RabbitMQPublisher struct {
	sender MessageSender
}

// NewRabbitMQPublisher creates a booking event publisher
func NewRabbitMQPublisher(sender MessageSender) providers.BookingEventPublisher {
	return &RabbitMQPublisher{sender: sender}
}

// PublishBookingEvent encodes the event as JSON and sends it
func (p *RabbitMQPublisher) PublishBookingEvent(ctx context.Context, event *entities.BookingEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal booking event: %w", err)
	}
	if err := p.sender.Publish(ctx, body); err != nil {
		return fmt.Errorf("failed to publish booking event: %w", err)
	}

	log.Debug().Str("event_type", string(event.Type)).Str("booking_id", event.BookingID).
		Msg("Published booking event")
	return nil
}

// Close releases the broker connection
func (p *RabbitMQPublisher) Close() error {
	return p.sender.Close()
}

// NoopBookingPublisher discards events; used when no broker is configured
type NoopBookingPublisher struct{}

// PublishBookingEvent does nothing
func (NoopBookingPublisher) PublishBookingEvent(context.Context, *entities.BookingEvent) error {
	return nil
}

// Close does nothing
func (NoopBookingPublisher) Close() error { return nil }
