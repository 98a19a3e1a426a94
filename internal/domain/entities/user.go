package entities

import (
	"time"
)

// UserType is the account role
type UserType string

const (
	UserTypeCustomer      UserType = "Customer"
	UserTypeBusinessOwner UserType = "BusinessOwner"
)

// IsValid reports whether t is a known user type
func (t UserType) IsValid() bool {
	return t == UserTypeCustomer || t == UserTypeBusinessOwner
}

// User represents a registered account
type User struct {
	ID           string    `json:"userId" db:"id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	FirstName    string    `json:"firstName" db:"first_name"`
	LastName     string    `json:"lastName" db:"last_name"`
	PhoneNumber  string    `json:"phoneNumber" db:"phone_number"`
	UserType     UserType  `json:"userType" db:"user_type"`
	IsActive     bool      `json:"isActive" db:"is_active"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}

// UserProfile is the public view of a user; it never carries the hash
type UserProfile struct {
	ID          string   `json:"userId"`
	Email       string   `json:"email"`
	FirstName   string   `json:"firstName"`
	LastName    string   `json:"lastName"`
	PhoneNumber string   `json:"phoneNumber"`
	UserType    UserType `json:"userType"`
}

// Profile maps a user to its public DTO
func (u *User) Profile() *UserProfile {
	return &UserProfile{
		ID:          u.ID,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		PhoneNumber: u.PhoneNumber,
		UserType:    u.UserType,
	}
}
