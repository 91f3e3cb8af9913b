// Package handler exposes signup, login, logout, and current-user HTTP endpoints.
package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/sirupsen/logrus"

	"collab-canvas/backend/internal/auth/service"
	"collab-canvas/backend/internal/server/middleware"
)

// Handler serves the auth endpoints.
type Handler struct {
	auth  *service.AuthService
	users service.UserRepo
}

// NewHandler returns an auth HTTP handler.
func NewHandler(auth *service.AuthService, users service.UserRepo) *Handler {
	return &Handler{auth: auth, users: users}
}

type signupRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"displayName"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	UserID      string    `json:"userId"`
	Email       string    `json:"email"`
	DisplayName string    `json:"displayName,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

type loginResponse struct {
	AccessToken string    `json:"accessToken"`
	TokenType   string    `json:"tokenType"`
	ExpiresAt   time.Time `json:"expiresAt"`
	UserID      string    `json:"userId"`
	DisplayName string    `json:"displayName,omitempty"`
}

// Routes returns the user routes. Signup, login, and logout are public;
// logout reads the bearer token itself so an expired session can still be
// revoked. /me goes through the authn middleware.
func (h *Handler) Routes(authn func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/signup", h.signup)
	r.Post("/login", h.login)
	r.Post("/logout", h.logout)
	r.With(authn).Get("/me", h.me)
	return r
}

func (h *Handler) signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		renderError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	user, err := h.auth.Register(r.Context(), req.Email, req.Password, req.DisplayName)
	if err != nil {
		if errors.Is(err, service.ErrEmailAlreadyRegistered) {
			renderError(w, r, http.StatusConflict, err.Error())
			return
		}
		renderError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	logrus.WithFields(logrus.Fields{"user_id": user.ID}).Info("user registered")
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, userResponse{
		UserID:      user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		CreatedAt:   user.CreatedAt,
	})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		renderError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	res, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			renderError(w, r, http.StatusUnauthorized, err.Error())
			return
		}
		renderInternal(w, r, err)
		return
	}
	render.JSON(w, r, loginResponse{
		AccessToken: res.Token,
		TokenType:   "Bearer",
		ExpiresAt:   res.ExpiresAt,
		UserID:      res.UserID,
		DisplayName: res.DisplayName,
	})
}

// logout revokes the presented token. It succeeds whether or not a token is
// present or valid; logging out with a garbage token is "already logged out".
func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	h.auth.Logout(middleware.ExtractBearer(r))
	render.JSON(w, r, map[string]string{"message": "logged out"})
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	subjectID, ok := middleware.GetSubject(r.Context())
	if !ok {
		renderError(w, r, http.StatusUnauthorized, "missing or invalid authorization")
		return
	}
	user, err := h.users.GetByID(r.Context(), subjectID)
	if err != nil {
		renderInternal(w, r, err)
		return
	}
	if user == nil {
		renderError(w, r, http.StatusUnauthorized, "unknown subject")
		return
	}
	render.JSON(w, r, userResponse{
		UserID:      user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		CreatedAt:   user.CreatedAt,
	})
}

func renderError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	render.Status(r, status)
	render.JSON(w, r, map[string]string{"error": msg})
}

func renderInternal(w http.ResponseWriter, r *http.Request, err error) {
	logrus.WithError(err).Error("auth handler failure")
	renderError(w, r, http.StatusInternalServerError, "internal error")
}
