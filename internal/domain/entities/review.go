package entities

import "time"

const (
	MinRating = 1
	MaxRating = 5
)

// Review is a user's rating of a business. Several reviews per
// (user, business) pair are allowed.
type Review struct {
	ID         string    `json:"reviewId" db:"id"`
	BusinessID string    `json:"businessId" db:"business_id"`
	UserID     string    `json:"userId" db:"user_id"`
	Rating     int       `json:"rating" db:"rating"`
	ReviewText string    `json:"reviewText" db:"review_text"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt  time.Time `json:"updatedAt" db:"updated_at"`
}

// RatingSummary is the aggregate over a business's reviews
type RatingSummary struct {
	BusinessID    string  `json:"businessId"`
	AverageRating float64 `json:"averageRating"`
	TotalReviews  int     `json:"totalReviews"`
}
