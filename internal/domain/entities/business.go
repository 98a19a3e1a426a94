package entities

import (
	"time"
)

// Business represents a listing owned by a BusinessOwner user.
// Rating and TotalReviews are denormalized from reviews.
type Business struct {
	ID           string    `json:"businessId" db:"id"`
	UserID       string    `json:"userId" db:"user_id"`
	CategoryID   string    `json:"categoryId" db:"category_id"`
	Name         string    `json:"businessName" db:"business_name"`
	Description  string    `json:"description" db:"description"`
	Address      string    `json:"address" db:"address"`
	City         string    `json:"city" db:"city"`
	State        string    `json:"state" db:"state"`
	ZipCode      string    `json:"zipCode" db:"zip_code"`
	Latitude     float64   `json:"latitude" db:"latitude"`
	Longitude    float64   `json:"longitude" db:"longitude"`
	PhoneNumber  string    `json:"phoneNumber" db:"phone_number"`
	Email        string    `json:"email" db:"email"`
	Website      string    `json:"website" db:"website"`
	Rating       float64   `json:"rating" db:"rating"`
	TotalReviews int       `json:"totalReviews" db:"total_reviews"`
	IsVerified   bool      `json:"isVerified" db:"is_verified"`
	IsActive     bool      `json:"isActive" db:"is_active"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`

	// CategoryName is populated by joined reads
	CategoryName string `json:"categoryName,omitempty" db:"category_name"`
}

// BusinessDTO is the flat shape returned by the business and search APIs
type BusinessDTO struct {
	ID           string  `json:"businessId" db:"id"`
	UserID       string  `json:"userId,omitempty" db:"-"`
	CategoryID   string  `json:"categoryId,omitempty" db:"-"`
	Name         string  `json:"businessName" db:"business_name"`
	Description  string  `json:"description" db:"description"`
	Address      string  `json:"address" db:"address"`
	City         string  `json:"city" db:"city"`
	State        string  `json:"state" db:"state"`
	ZipCode      string  `json:"zipCode,omitempty" db:"-"`
	Latitude     float64 `json:"latitude" db:"latitude"`
	Longitude    float64 `json:"longitude" db:"longitude"`
	PhoneNumber  string  `json:"phoneNumber" db:"phone_number"`
	Email        string  `json:"email" db:"email"`
	Website      string  `json:"website,omitempty" db:"-"`
	Rating       float64 `json:"rating" db:"rating"`
	TotalReviews int     `json:"totalReviews" db:"total_reviews"`
	IsVerified   bool    `json:"isVerified" db:"is_verified"`
	IsActive     bool    `json:"isActive" db:"-"`
	CategoryName string  `json:"categoryName" db:"category_name"`
}

// DTO maps the entity to its API shape
func (b *Business) DTO() *BusinessDTO {
	return &BusinessDTO{
		ID:           b.ID,
		UserID:       b.UserID,
		CategoryID:   b.CategoryID,
		Name:         b.Name,
		Description:  b.Description,
		Address:      b.Address,
		City:         b.City,
		State:        b.State,
		ZipCode:      b.ZipCode,
		Latitude:     b.Latitude,
		Longitude:    b.Longitude,
		PhoneNumber:  b.PhoneNumber,
		Email:        b.Email,
		Website:      b.Website,
		Rating:       b.Rating,
		TotalReviews: b.TotalReviews,
		IsVerified:   b.IsVerified,
		IsActive:     b.IsActive,
		CategoryName: b.CategoryName,
	}
}

// NearbyBusinessRow is one row of sp_get_nearby_businesses
type NearbyBusinessRow struct {
	ID           string  `db:"id"`
	Name         string  `db:"business_name"`
	Description  string  `db:"description"`
	Address      string  `db:"address"`
	City         string  `db:"city"`
	State        string  `db:"state"`
	PhoneNumber  string  `db:"phone_number"`
	Email        string  `db:"email"`
	Rating       float64 `db:"rating"`
	TotalReviews int     `db:"total_reviews"`
	IsVerified   bool    `db:"is_verified"`
	CategoryName string  `db:"category_name"`
	DistanceInKm float64 `db:"distance_in_km"`
}

// DTO drops the distance column
func (r *NearbyBusinessRow) DTO() *BusinessDTO {
	return &BusinessDTO{
		ID:           r.ID,
		Name:         r.Name,
		Description:  r.Description,
		Address:      r.Address,
		City:         r.City,
		State:        r.State,
		PhoneNumber:  r.PhoneNumber,
		Email:        r.Email,
		Rating:       r.Rating,
		TotalReviews: r.TotalReviews,
		IsVerified:   r.IsVerified,
		IsActive:     true,
		CategoryName: r.CategoryName,
	}
}
