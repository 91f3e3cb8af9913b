// Package handler exposes the invitation endpoints.
package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/sirupsen/logrus"

	"collab-canvas/backend/internal/invitation/domain"
	"collab-canvas/backend/internal/invitation/service"
	"collab-canvas/backend/internal/server/middleware"
)

// Handler serves the invitation endpoints.
type Handler struct {
	invitations *service.InvitationService
}

// NewHandler returns an invitation HTTP handler.
func NewHandler(invitations *service.InvitationService) *Handler {
	return &Handler{invitations: invitations}
}

type invitationResponse struct {
	InvitationID string    `json:"invitationId"`
	Code         string    `json:"code"`
	RoomID       string    `json:"roomId"`
	InviterID    string    `json:"inviterId"`
	Status       string    `json:"status"`
	ExpiresAt    time.Time `json:"expiresAt"`
	CreatedAt    time.Time `json:"createdAt"`
}

func toInvitationResponse(inv *domain.Invitation) invitationResponse {
	return invitationResponse{
		InvitationID: inv.ID,
		Code:         inv.Code,
		RoomID:       inv.RoomID,
		InviterID:    inv.InviterID,
		Status:       string(inv.Status),
		ExpiresAt:    inv.ExpiresAt,
		CreatedAt:    inv.CreatedAt,
	}
}

// RoomRoutes returns the routes mounted under /rooms/{roomID}/invitations.
func (h *Handler) RoomRoutes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.create)
	return r
}

// AcceptRoutes returns the routes mounted under /invitations.
func (h *Handler) AcceptRoutes() chi.Router {
	r := chi.NewRouter()
	r.Post("/{code}/accept", h.accept)
	return r
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	subjectID, ok := middleware.GetSubject(r.Context())
	if !ok {
		renderError(w, r, http.StatusUnauthorized, "missing or invalid authorization")
		return
	}
	inv, err := h.invitations.Create(r.Context(), chi.URLParam(r, "roomID"), subjectID)
	if err != nil {
		renderServiceError(w, r, err)
		return
	}
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, toInvitationResponse(inv))
}

func (h *Handler) accept(w http.ResponseWriter, r *http.Request) {
	subjectID, ok := middleware.GetSubject(r.Context())
	if !ok {
		renderError(w, r, http.StatusUnauthorized, "missing or invalid authorization")
		return
	}
	inv, err := h.invitations.Accept(r.Context(), chi.URLParam(r, "code"), subjectID)
	if err != nil {
		renderServiceError(w, r, err)
		return
	}
	logrus.WithFields(logrus.Fields{"room_id": inv.RoomID, "user_id": subjectID}).Info("invitation accepted")
	render.JSON(w, r, toInvitationResponse(inv))
}

func renderServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrRoomNotFound),
		errors.Is(err, service.ErrInvitationNotFound):
		renderError(w, r, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrNotRoomParticipant):
		renderError(w, r, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrInvitationExpired):
		renderError(w, r, http.StatusGone, err.Error())
	case errors.Is(err, service.ErrInvitationAlreadyAccepted):
		renderError(w, r, http.StatusConflict, err.Error())
	default:
		logrus.WithError(err).Error("invitation handler failure")
		renderError(w, r, http.StatusInternalServerError, "internal error")
	}
}

func renderError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	render.Status(r, status)
	render.JSON(w, r, map[string]string{"error": msg})
}
