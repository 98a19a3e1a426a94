package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/smartlocalbusiness/backend/internal/domain/entities"
	"github.com/smartlocalbusiness/backend/internal/domain/repositories"
	"github.com/smartlocalbusiness/backend/pkg/auth"
	apperrors "github.com/smartlocalbusiness/backend/pkg/errors"
	"github.com/smartlocalbusiness/backend/pkg/validation"
)

// TokenIssuer signs access tokens for authenticated users
type TokenIssuer interface {
	Issue(subject auth.TokenSubject) (string, time.Time, error)
}

// RegisterInput is the payload for account creation
type RegisterInput struct {
	Email       string            `json:"email" validate:"required,email"`
	Password    string            `json:"password" validate:"required"`
	FirstName   string            `json:"firstName"`
	LastName    string            `json:"lastName"`
	PhoneNumber string            `json:"phoneNumber"`
	UserType    entities.UserType `json:"userType" validate:"omitempty,oneof=Customer BusinessOwner"`
}

// UpdateUserInput carries the mutable profile fields
type UpdateUserInput struct {
	FirstName   string            `json:"firstName"`
	LastName    string            `json:"lastName"`
	PhoneNumber string            `json:"phoneNumber"`
	UserType    entities.UserType `json:"userType" validate:"omitempty,oneof=Customer BusinessOwner"`
}

// UserService handles registration, login and profile management
type UserService struct {
	repo       repositories.UserRepository
	tokens     TokenIssuer
	bcryptCost int
	now        func() time.Time
}

// NewUserService creates a new user service
func NewUserService(repo repositories.UserRepository, tokens TokenIssuer, bcryptCost int) *UserService {
	return &UserService{
		repo:       repo,
		tokens:     tokens,
		bcryptCost: bcryptCost,
		now:        time.Now,
	}
}

// Register creates an active account. The email must not already exist.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*entities.UserProfile, error) {
	in.Email = strings.TrimSpace(in.Email)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	email := in.Email

	userType := in.UserType
	if userType == "" {
		userType = entities.UserTypeCustomer
	}

	existing, err := s.repo.GetByEmail(ctx, email)
	if err != nil && !apperrors.IsNotFound(err) {
		return nil, err
	}
	if existing != nil {
		return nil, apperrors.NewDuplicateEmailError()
	}

	hash, err := auth.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to hash password", err)
	}

	now := s.now().UTC()
	user := &entities.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		PhoneNumber:  strings.TrimSpace(in.PhoneNumber),
		UserType:     userType,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	log.Info().Str("user_id", user.ID).Str("user_type", string(user.UserType)).Msg("User registered")
	return user.Profile(), nil
}

// Login verifies credentials and returns a signed token
func (s *UserService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.repo.GetByEmail(ctx, strings.TrimSpace(email))
	if apperrors.IsNotFound(err) {
		return "", apperrors.NewInvalidCredentialsError()
	}
	if err != nil {
		return "", err
	}

	if !auth.VerifyPassword(user.PasswordHash, password) {
		return "", apperrors.NewInvalidCredentialsError()
	}
	if !user.IsActive {
		return "", apperrors.NewAccountInactiveError()
	}

	token, _, err := s.tokens.Issue(auth.TokenSubject{
		UserID:    user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Role:      string(user.UserType),
	})
	if err != nil {
		return "", apperrors.NewInternalError("failed to issue token", err)
	}
	return token, nil
}

// GetByID returns the public profile of a user
func (s *UserService) GetByID(ctx context.Context, id string) (*entities.UserProfile, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return user.Profile(), nil
}

// Update changes name, phone and optionally user type. Email and password
// are not mutable here.
func (s *UserService) Update(ctx context.Context, id string, in UpdateUserInput) (*entities.UserProfile, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.UserType != "" {
		user.UserType = in.UserType
	}
	user.FirstName = strings.TrimSpace(in.FirstName)
	user.LastName = strings.TrimSpace(in.LastName)
	user.PhoneNumber = strings.TrimSpace(in.PhoneNumber)
	user.UpdatedAt = s.now().UTC()

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, id)
}
