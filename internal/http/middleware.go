package http

import (
	"context"
	"net/http"
	"strings"

	"outgo/internal/auth"
)

type contextKey string

const sessionKey contextKey = "session"

// withSession authenticates the request and stores the Session in context.
func (s *Server) withSession(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			writeError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}

		session, err := s.auth.VerifyToken(strings.TrimSpace(token))
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), sessionKey, session)
		next(w, r.WithContext(ctx))
	}
}

// sessionFrom returns the authenticated session; the zero Session means the
// handler was reached without withSession.
func sessionFrom(ctx context.Context) auth.Session {
	if session, ok := ctx.Value(sessionKey).(auth.Session); ok {
		return session
	}
	return auth.Session{}
}
