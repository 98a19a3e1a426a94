package repositories

import (
	"context"

	"github.com/smartlocalbusiness/backend/internal/domain/entities"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	// Create creates a new user. A duplicate email yields a DuplicateEmail error.
	Create(ctx context.Context, user *entities.User) error

	// GetByID retrieves a user by ID
	GetByID(ctx context.Context, id string) (*entities.User, error)

	// GetByEmail retrieves a user by exact email
	GetByEmail(ctx context.Context, email string) (*entities.User, error)

	// Update updates profile fields and the timestamp
	Update(ctx context.Context, user *entities.User) error
}
