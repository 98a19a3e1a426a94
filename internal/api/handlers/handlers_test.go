package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/smartlocalbusiness/backend/internal/api/handlers"
	"github.com/smartlocalbusiness/backend/internal/application/services"
	"github.com/smartlocalbusiness/backend/internal/domain/entities"
	apperrors "github.com/smartlocalbusiness/backend/pkg/errors"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func request(method, target, body string, pathValues map[string]string) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range pathValues {
		req.SetPathValue(k, v)
	}
	return req
}

type MockUserService struct{ mock.Mock }

func (m *MockUserService) Register(ctx context.Context, in services.RegisterInput) (*entities.UserProfile, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.UserProfile), args.Error(1)
}

func (m *MockUserService) Login(ctx context.Context, email, password string) (string, error) {
	args := m.Called(ctx, email, password)
	return args.String(0), args.Error(1)
}

func (m *MockUserService) GetByID(ctx context.Context, id string) (*entities.UserProfile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.UserProfile), args.Error(1)
}

func (m *MockUserService) Update(ctx context.Context, id string, in services.UpdateUserInput) (*entities.UserProfile, error) {
	args := m.Called(ctx, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.UserProfile), args.Error(1)
}

func TestUserHandler_Register(t *testing.T) {
	svc := new(MockUserService)
	h := handlers.NewUserHandler(svc)

	svc.On("Register", mock.Anything, services.RegisterInput{Email: "ada@example.com", Password: "secret"}).
		Return(&entities.UserProfile{ID: "user-1", Email: "ada@example.com", UserType: entities.UserTypeCustomer}, nil)

	rec := httptest.NewRecorder()
	h.Register(rec, request(http.MethodPost, "/api/users/register", `{"email":"ada@example.com","password":"secret"}`, nil))

	assert.Equal(t, http.StatusCreated, rec.Code)
	env := decode(t, rec)
	assert.True(t, env.Success)
	assert.JSONEq(t, `{"userId":"user-1","email":"ada@example.com","firstName":"","lastName":"","phoneNumber":"","userType":"Customer"}`, string(env.Data))
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestUserHandler_ErrorStatuses(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"duplicate email", apperrors.NewDuplicateEmailError(), http.StatusBadRequest, "Email already exists"},
		{"validation", apperrors.NewValidationError("email is required"), http.StatusBadRequest, "email is required"},
		{"unexpected", errors.New("pq: connection refused"), http.StatusInternalServerError, "an unexpected error occurred"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockUserService)
			svc.On("Register", mock.Anything, mock.Anything).Return(nil, tt.err)

			rec := httptest.NewRecorder()
			handlers.NewUserHandler(svc).Register(rec, request(http.MethodPost, "/api/users/register", `{}`, nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			env := decode(t, rec)
			assert.False(t, env.Success)
			assert.Equal(t, tt.wantMsg, env.Message)
		})
	}
}

func TestUserHandler_Register_MalformedBody(t *testing.T) {
	svc := new(MockUserService)
	rec := httptest.NewRecorder()

	handlers.NewUserHandler(svc).Register(rec, request(http.MethodPost, "/api/users/register", `{"email":`, nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertNotCalled(t, "Register", mock.Anything, mock.Anything)
}

func TestUserHandler_Login(t *testing.T) {
	svc := new(MockUserService)
	h := handlers.NewUserHandler(svc)
	svc.On("Login", mock.Anything, "ada@example.com", "secret").Return("jwt-token", nil)
	svc.On("Login", mock.Anything, "ada@example.com", "wrong").Return("", apperrors.NewInvalidCredentialsError())
	svc.On("Login", mock.Anything, "old@example.com", "secret").Return("", apperrors.NewAccountInactiveError())

	rec := httptest.NewRecorder()
	h.Login(rec, request(http.MethodPost, "/api/users/login", `{"email":"ada@example.com","password":"secret"}`, nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `"jwt-token"`, string(decode(t, rec).Data))

	rec = httptest.NewRecorder()
	h.Login(rec, request(http.MethodPost, "/api/users/login", `{"email":"ada@example.com","password":"wrong"}`, nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	h.Login(rec, request(http.MethodPost, "/api/users/login", `{"email":"old@example.com","password":"secret"}`, nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUserHandler_GetUser_NotFound(t *testing.T) {
	svc := new(MockUserService)
	svc.On("GetByID", mock.Anything, "missing").Return(nil, apperrors.NewNotFoundError("user not found"))

	rec := httptest.NewRecorder()
	handlers.NewUserHandler(svc).GetUser(rec, request(http.MethodGet, "/api/users/missing", "", map[string]string{"id": "missing"}))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "user not found", decode(t, rec).Message)
}
