package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims is the token payload consumed by the frontend. Field names follow
// the claim keys the web client already decodes.
type Claims struct {
	UserID     string `json:"userId"`
	NameID     string `json:"nameid"`
	Email      string `json:"email"`
	UniqueName string `json:"unique_name"`
	GivenName  string `json:"given_name,omitempty"`
	FamilyName string `json:"family_name,omitempty"`
	Role       string `json:"role"`
	jwt.RegisteredClaims
}

// TokenSubject is the user data encoded into a token
type TokenSubject struct {
	UserID    string
	Email     string
	FirstName string
	LastName  string
	Role      string
}

// DisplayName is "First Last" trimmed of missing parts
func (s TokenSubject) DisplayName() string {
	switch {
	case s.FirstName == "":
		return s.LastName
	case s.LastName == "":
		return s.FirstName
	default:
		return s.FirstName + " " + s.LastName
	}
}

// TokenManager issues and verifies HS256 tokens
type TokenManager struct {
	secret   []byte
	issuer   string
	audience string
	expiry   time.Duration
	now      func() time.Time
}

// NewTokenManager creates a token manager. expiry defaults to 7 days.
func NewTokenManager(secret, issuer, audience string, expiry time.Duration) *TokenManager {
	if expiry <= 0 {
		expiry = 7 * 24 * time.Hour
	}
	return &TokenManager{
		secret:   []byte(secret),
		issuer:   issuer,
		audience: audience,
		expiry:   expiry,
		now:      time.Now,
	}
}

// Issue signs a token for the subject
func (m *TokenManager) Issue(subject TokenSubject) (string, time.Time, error) {
	if len(m.secret) == 0 {
		return "", time.Time{}, errors.New("jwt secret is not configured")
	}

	now := m.now().UTC()
	exp := now.Add(m.expiry)
	claims := Claims{
		UserID:     subject.UserID,
		NameID:     subject.UserID,
		Email:      subject.Email,
		UniqueName: subject.DisplayName(),
		GivenName:  subject.FirstName,
		FamilyName: subject.LastName,
		Role:       subject.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   subject.UserID,
			Issuer:    m.issuer,
			Audience:  jwt.ClaimStrings{m.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, exp, nil
}

// Verify parses a token and checks signature, issuer, audience and expiry
func (m *TokenManager) Verify(raw string) (*Claims, error) {
	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(m.issuer),
		jwt.WithAudience(m.audience),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return nil, err
	}
	if !tok.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
