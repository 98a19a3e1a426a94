package entities

import (
	"time"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "Pending"
	BookingStatusConfirmed BookingStatus = "Confirmed"
	BookingStatusCompleted BookingStatus = "Completed"
	BookingStatusCancelled BookingStatus = "Cancelled"
)

// BookingStatuses lists every accepted status
var BookingStatuses = []BookingStatus{
	BookingStatusPending,
	BookingStatusConfirmed,
	BookingStatusCompleted,
	BookingStatusCancelled,
}

// IsValid reports membership in the fixed status set. Matching is exact.
func (s BookingStatus) IsValid() bool {
	for _, v := range BookingStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Booking is a reservation of a service. TotalAmount is the service price
// at creation time and is never rewritten.
type Booking struct {
	ID          string        `json:"bookingId" db:"id"`
	UserID      string        `json:"userId" db:"user_id"`
	BusinessID  string        `json:"businessId" db:"business_id"`
	ServiceID   string        `json:"serviceId" db:"service_id"`
	BookingDate time.Time     `json:"bookingDate" db:"booking_date"`
	Status      BookingStatus `json:"status" db:"status"`
	TotalAmount float64       `json:"totalAmount" db:"total_amount"`
	Notes       string        `json:"notes" db:"notes"`
	CreatedAt   time.Time     `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time     `json:"updatedAt" db:"updated_at"`

	// Joined context, populated by GetByID
	UserName     string `json:"-" db:"user_name"`
	BusinessName string `json:"-" db:"business_name"`
	ServiceName  string `json:"-" db:"service_name"`
}

// BookingDTO is the flat API shape of a booking
type BookingDTO struct {
	ID           string        `json:"bookingId"`
	UserID       string        `json:"userId"`
	BusinessID   string        `json:"businessId"`
	ServiceID    string        `json:"serviceId"`
	BookingDate  time.Time     `json:"bookingDate"`
	Status       BookingStatus `json:"status"`
	TotalAmount  float64       `json:"totalAmount"`
	Notes        string        `json:"notes"`
	BusinessName string        `json:"businessName,omitempty"`
	ServiceName  string        `json:"serviceName,omitempty"`
	CreatedAt    time.Time     `json:"createdAt"`
}

// DTO flattens the booking
func (b *Booking) DTO() *BookingDTO {
	return &BookingDTO{
		ID:           b.ID,
		UserID:       b.UserID,
		BusinessID:   b.BusinessID,
		ServiceID:    b.ServiceID,
		BookingDate:  b.BookingDate,
		Status:       b.Status,
		TotalAmount:  b.TotalAmount,
		Notes:        b.Notes,
		BusinessName: b.BusinessName,
		ServiceName:  b.ServiceName,
		CreatedAt:    b.CreatedAt,
	}
}
