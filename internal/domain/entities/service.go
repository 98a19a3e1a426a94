package entities

import "time"

// Service is something a business offers for booking
type Service struct {
	ID              string    `json:"serviceId" db:"id"`
	BusinessID      string    `json:"businessId" db:"business_id"`
	Name            string    `json:"serviceName" db:"service_name"`
	Description     string    `json:"description" db:"description"`
	Price           float64   `json:"price" db:"price"`
	DurationMinutes int       `json:"durationMinutes" db:"duration_minutes"`
	IsActive        bool      `json:"isActive" db:"is_active"`
	CreatedAt       time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time `json:"updatedAt" db:"updated_at"`
}
