package middleware

import (
	"context"
	"net/http"
	"strings"

	"exhibitsurvey/internal/model"
	"exhibitsurvey/internal/service"
)

type contextKey string

const SessionClaimsKey contextKey = "sessionClaims"

// SessionMiddleware resolves the survey session a request belongs to
type SessionMiddleware struct {
	tokens *service.TokenService
}

// NewSessionMiddleware creates a new session middleware
func NewSessionMiddleware(tokens *service.TokenService) *SessionMiddleware {
	return &SessionMiddleware{tokens: tokens}
}

// RequireSession validates the session token from the Authorization header
// or the token query param (used by WebSocket clients)
func (m *SessionMiddleware) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := ExtractToken(r)
		if token == "" {
			http.Error(w, `{"error":"missing session token"}`, http.StatusUnauthorized)
			return
		}

		claims, err := m.tokens.Validate(token)
		if err != nil {
			http.Error(w, `{"error":"invalid or expired session token"}`, http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), SessionClaimsKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetSessionClaims extracts session claims from context
func GetSessionClaims(ctx context.Context) *model.SessionClaims {
	if v, ok := ctx.Value(SessionClaimsKey).(*model.SessionClaims); ok {
		return v
	}
	return nil
}

// ExtractToken reads a bearer token, falling back to the token query param
func ExtractToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if auth != "" {
		parts := strings.SplitN(auth, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return parts[1]
		}
	}
	return r.URL.Query().Get("token")
}
