package entities

import "time"

// Category groups businesses (e.g. "Salon", "Plumbing")
type Category struct {
	ID          string    `json:"categoryId" db:"id"`
	Name        string    `json:"categoryName" db:"name"`
	Description string    `json:"description" db:"description"`
	Icon        string    `json:"icon" db:"icon"`
	IsActive    bool      `json:"isActive" db:"is_active"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}
