package auth

import "context"

// Session is the authenticated caller attached to a request context
type Session struct {
	UserID string
	Email  string
	Name   string
	Role   string
	Token  string
}

type sessionKey struct{}

// WithSession returns a copy of ctx carrying s
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// SessionFromContext returns the session stored by WithSession, if any
func SessionFromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(*Session)
	return s, ok && s != nil
}

// SessionFromClaims builds a session from verified claims
func SessionFromClaims(c *Claims, raw string) *Session {
	return &Session{
		UserID: c.UserID,
		Email:  c.Email,
		Name:   c.UniqueName,
		Role:   c.Role,
		Token:  raw,
	}
}
