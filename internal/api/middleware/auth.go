package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/smartlocalbusiness/backend/pkg/auth"
)

// TokenVerifier validates a raw bearer token
type TokenVerifier interface {
	Verify(raw string) (*auth.Claims, error)
}

var publicPaths = map[string]bool{
	"/health":             true,
	"/api/users/register": true,
	"/api/users/login":    true,
}

// IsPublic reports whether a request may proceed without a session.
// Reads, preflights, health and the account entry points are public.
func IsPublic(r *http.Request) bool {
	switch r.Method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return publicPaths[r.URL.Path]
}

// Auth attaches an auth.Session for a valid bearer token. When enforce is
// set, writes without a valid session are rejected with 401; otherwise
// they pass through without a session.
func Auth(verifier TokenVerifier, enforce bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, hasToken := bearerToken(r)
			if hasToken && verifier != nil {
				claims, err := verifier.Verify(raw)
				if err == nil {
					ctx := auth.WithSession(r.Context(), auth.SessionFromClaims(claims, raw))
					next.ServeHTTP(w, r.WithContext(ctx))
					return
				}
				log.Debug().Err(err).Str("path", r.URL.Path).Msg("Rejected bearer token")
			}

			if enforce && !IsPublic(r) {
				writeError(w, http.StatusUnauthorized, "authentication required")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if len(header) < 7 || !strings.EqualFold(header[:7], "Bearer ") {
		return "", false
	}
	token := strings.TrimSpace(header[7:])
	return token, token != ""
}

// writeError writes the standard failure envelope
func writeError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"success": false,
		"message": message,
		"data":    nil,
	})
}
