package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/asmolyar/webpen/internal/common"
	"github.com/asmolyar/webpen/internal/server/auth"
)

type ctxKey string

const usernameKey ctxKey = "username"

// sessionToken extracts the session token from the Authorization bearer
// header, falling back to the session cookie for browser clients.
func sessionToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		if token, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	if c, err := r.Cookie(SessionCookieName); err == nil {
		return c.Value
	}
	return ""
}

// requireAuth rejects requests without a valid session token and attaches
// the authenticated username to the request context.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		token := sessionToken(r)
		if token == "" {
			s.writeError(r.Context(), w, fmt.Errorf("%w: missing session token", common.ErrUnauthenticated))
			return
		}

		username, err := auth.GetUsernameFromToken(token, s.jwtSecret)
		if err != nil {
			s.writeError(r.Context(), w, fmt.Errorf("%w: %v", common.ErrUnauthenticated, err))
			return
		}

		ctx := context.WithValue(r.Context(), usernameKey, username)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// caller returns the authenticated username placed in the context by
// requireAuth.
func caller(ctx context.Context) string {
	username, _ := ctx.Value(usernameKey).(string)
	return username
}
