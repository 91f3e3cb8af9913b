// Package middleware provides HTTP middleware for the API server.
package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/render"

	authservice "collab-canvas/backend/internal/auth/service"
)

const bearerPrefix = "bearer "

// Authenticate returns middleware that validates the Bearer token from the
// Authorization header and sets the resolved subject id in the request
// context for protected routes. Any validation failure is a 401; handlers
// never see an unauthenticated request.
func Authenticate(auth *authservice.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ExtractBearer(r)
			if token == "" {
				unauthorized(w, r)
				return
			}
			subjectID, err := auth.ResolveCurrentSubject(token, time.Now().UTC())
			if err != nil {
				unauthorized(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithSubject(r.Context(), subjectID)))
		})
	}
}

// ExtractBearer returns the Bearer token from the request's Authorization
// header, or "" if missing or malformed.
func ExtractBearer(r *http.Request) string {
	v := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(v) < len(bearerPrefix) {
		return ""
	}
	if !strings.EqualFold(v[:len(bearerPrefix)], bearerPrefix) {
		return ""
	}
	return strings.TrimSpace(v[len(bearerPrefix):])
}

func unauthorized(w http.ResponseWriter, r *http.Request) {
	render.Status(r, http.StatusUnauthorized)
	render.JSON(w, r, map[string]string{"error": "missing or invalid authorization"})
}
