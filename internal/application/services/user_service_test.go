package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/smartlocalbusiness/backend/internal/application/services"
	"github.com/smartlocalbusiness/backend/internal/domain/entities"
	"github.com/smartlocalbusiness/backend/pkg/auth"
	apperrors "github.com/smartlocalbusiness/backend/pkg/errors"
)

func newUserService() (*services.UserService, *MockUserRepository, *MockTokenIssuer) {
	repo := new(MockUserRepository)
	tokens := new(MockTokenIssuer)
	return services.NewUserService(repo, tokens, bcrypt.MinCost), repo, tokens
}

func storedUser(t *testing.T, password string, active bool) *entities.User {
	hash, err := auth.HashPassword(password, bcrypt.MinCost)
	require.NoError(t, err)
	return &entities.User{
		ID:           "user-1",
		Email:        "ada@example.com",
		PasswordHash: hash,
		FirstName:    "Ada",
		LastName:     "Lovelace",
		UserType:     entities.UserTypeCustomer,
		IsActive:     active,
	}
}

func TestUserService_Register(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newUserService()

	repo.On("GetByEmail", ctx, "ada@example.com").Return(nil, apperrors.NewNotFoundError("user not found"))
	repo.On("Create", ctx, mock.MatchedBy(func(u *entities.User) bool {
		return u.Email == "ada@example.com" &&
			u.PasswordHash != "secret" &&
			auth.VerifyPassword(u.PasswordHash, "secret") &&
			u.UserType == entities.UserTypeCustomer &&
			u.IsActive
	})).Return(nil)

	profile, err := svc.Register(ctx, services.RegisterInput{
		Email:     " ada@example.com ",
		Password:  "secret",
		FirstName: "Ada",
	})

	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", profile.Email)
	assert.Equal(t, entities.UserTypeCustomer, profile.UserType)
	repo.AssertExpectations(t)
}

func TestUserService_Register_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newUserService()

	repo.On("GetByEmail", ctx, "ada@example.com").Return(storedUser(t, "x", true), nil)

	_, err := svc.Register(ctx, services.RegisterInput{Email: "ada@example.com", Password: "secret"})

	assert.Equal(t, apperrors.CodeDuplicateEmail, apperrors.CodeOf(err))
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUserService_Register_Validation(t *testing.T) {
	svc, repo, _ := newUserService()

	tests := []struct {
		name string
		in   services.RegisterInput
	}{
		{"missing email", services.RegisterInput{Password: "secret"}},
		{"bad email", services.RegisterInput{Email: "nope", Password: "secret"}},
		{"missing password", services.RegisterInput{Email: "ada@example.com"}},
		{"bad user type", services.RegisterInput{Email: "ada@example.com", Password: "secret", UserType: "Admin"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tt.in)
			assert.Equal(t, apperrors.ErrorTypeValidation, apperrors.TypeOf(err))
		})
	}
	repo.AssertNotCalled(t, "GetByEmail", mock.Anything, mock.Anything)
}

func TestUserService_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("valid credentials", func(t *testing.T) {
		svc, repo, tokens := newUserService()
		repo.On("GetByEmail", ctx, "ada@example.com").Return(storedUser(t, "secret", true), nil)
		tokens.On("Issue", auth.TokenSubject{
			UserID:    "user-1",
			Email:     "ada@example.com",
			FirstName: "Ada",
			LastName:  "Lovelace",
			Role:      "Customer",
		}).Return("signed-token", nil)

		token, err := svc.Login(ctx, "ada@example.com", "secret")

		require.NoError(t, err)
		assert.Equal(t, "signed-token", token)
	})

	t.Run("unknown email", func(t *testing.T) {
		svc, repo, _ := newUserService()
		repo.On("GetByEmail", ctx, "who@example.com").Return(nil, apperrors.NewNotFoundError("user not found"))

		_, err := svc.Login(ctx, "who@example.com", "secret")

		assert.Equal(t, apperrors.CodeInvalidCredentials, apperrors.CodeOf(err))
	})

	t.Run("wrong password", func(t *testing.T) {
		svc, repo, _ := newUserService()
		repo.On("GetByEmail", ctx, "ada@example.com").Return(storedUser(t, "secret", true), nil)

		_, err := svc.Login(ctx, "ada@example.com", "wrong")

		assert.Equal(t, apperrors.CodeInvalidCredentials, apperrors.CodeOf(err))
	})

	t.Run("inactive account", func(t *testing.T) {
		svc, repo, tokens := newUserService()
		repo.On("GetByEmail", ctx, "ada@example.com").Return(storedUser(t, "secret", false), nil)

		_, err := svc.Login(ctx, "ada@example.com", "secret")

		assert.Equal(t, apperrors.CodeAccountInactive, apperrors.CodeOf(err))
		tokens.AssertNotCalled(t, "Issue", mock.Anything)
	})
}

func TestUserService_Update(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newUserService()

	user := storedUser(t, "secret", true)
	repo.On("GetByID", ctx, "user-1").Return(user, nil)
	repo.On("Update", ctx, mock.MatchedBy(func(u *entities.User) bool {
		return u.FirstName == "Grace" && u.UserType == entities.UserTypeBusinessOwner && u.Email == "ada@example.com"
	})).Return(nil)

	profile, err := svc.Update(ctx, "user-1", services.UpdateUserInput{
		FirstName: "Grace",
		LastName:  "Hopper",
		UserType:  entities.UserTypeBusinessOwner,
	})

	require.NoError(t, err)
	assert.Equal(t, "Grace", profile.FirstName)
	repo.AssertExpectations(t)
}

func TestUserService_Update_NotFound(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newUserService()
	repo.On("GetByID", ctx, "missing").Return(nil, apperrors.NewNotFoundError("user not found"))

	_, err := svc.Update(ctx, "missing", services.UpdateUserInput{FirstName: "X"})

	assert.True(t, apperrors.IsNotFound(err))
}
