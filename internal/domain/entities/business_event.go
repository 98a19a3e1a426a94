package entities

import (
	"time"

	"github.com/google/uuid"
)

// BusinessEventType represents the kind of change made to a business
type BusinessEventType string

const (
	BusinessEventCreated       BusinessEventType = "business_created"
	BusinessEventUpdated       BusinessEventType = "business_updated"
	BusinessEventDeleted       BusinessEventType = "business_deleted"
	BusinessEventRatingUpdated BusinessEventType = "rating_updated"
)

// BusinessEvent announces a change that invalidates cached or indexed
// copies of a business
type BusinessEvent struct {
	ID            string                 `json:"id"`
	BusinessID    string                 `json:"businessId"`
	EventType     BusinessEventType      `json:"eventType"`
	Timestamp     time.Time              `json:"timestamp"`
	ChangedFields map[string]interface{} `json:"changedFields,omitempty"`
}

// NewBusinessEvent creates a new business event
func NewBusinessEvent(businessID string, eventType BusinessEventType, changedFields map[string]interface{}) *BusinessEvent {
	return &BusinessEvent{
		ID:            uuid.NewString(),
		BusinessID:    businessID,
		EventType:     eventType,
		Timestamp:     time.Now().UTC(),
		ChangedFields: changedFields,
	}
}

// BookingEventType names a booking lifecycle transition
type BookingEventType string

const (
	BookingEventCreated       BookingEventType = "booking.created"
	BookingEventStatusChanged BookingEventType = "booking.status_changed"
	BookingEventCancelled     BookingEventType = "booking.cancelled"
)

// BookingEvent is published to the message broker after booking writes
type BookingEvent struct {
	ID         string           `json:"id"`
	Type       BookingEventType `json:"type"`
	BookingID  string           `json:"bookingId"`
	UserID     string           `json:"userId"`
	BusinessID string           `json:"businessId"`
	Status     BookingStatus    `json:"status"`
	OccurredAt time.Time        `json:"occurredAt"`
}

// NewBookingEvent creates an event snapshot of b
func NewBookingEvent(eventType BookingEventType, b *Booking) *BookingEvent {
	return &BookingEvent{
		ID:         uuid.NewString(),
		Type:       eventType,
		BookingID:  b.ID,
		UserID:     b.UserID,
		BusinessID: b.BusinessID,
		Status:     b.Status,
		OccurredAt: time.Now().UTC(),
	}
}
