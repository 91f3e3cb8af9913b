// Package handler exposes the room endpoints.
package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/sirupsen/logrus"

	"collab-canvas/backend/internal/room/domain"
	"collab-canvas/backend/internal/room/service"
	"collab-canvas/backend/internal/server/middleware"
)

// Handler serves the room endpoints.
type Handler struct {
	rooms *service.RoomService
}

// NewHandler returns a room HTTP handler.
func NewHandler(rooms *service.RoomService) *Handler {
	return &Handler{rooms: rooms}
}

type createRoomRequest struct {
	Title       string `json:"title"`
	IsAnonymous bool   `json:"isAnonymous"`
}

type roomResponse struct {
	RoomID        string    `json:"roomId"`
	OwnerID       string    `json:"ownerId"`
	Title         string    `json:"title"`
	IsAnonymous   bool      `json:"isAnonymous"`
	CreatedAt     time.Time `json:"createdAt"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
}

func toRoomResponse(room *domain.Room) roomResponse {
	return roomResponse{
		RoomID:        room.ID,
		OwnerID:       room.OwnerID,
		Title:         room.Title,
		IsAnonymous:   room.IsAnonymous,
		CreatedAt:     room.CreatedAt,
		LastUpdatedAt: room.LastUpdatedAt,
	}
}

// Routes returns the room routes, mounted under /rooms.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/{roomID}", h.get)
	return r
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	subjectID, ok := middleware.GetSubject(r.Context())
	if !ok {
		renderError(w, r, http.StatusUnauthorized, "missing or invalid authorization")
		return
	}
	var req createRoomRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		renderError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Title == "" {
		renderError(w, r, http.StatusBadRequest, "title is required")
		return
	}
	room, err := h.rooms.Create(r.Context(), subjectID, req.Title, req.IsAnonymous)
	if err != nil {
		renderInternal(w, r, err)
		return
	}
	logrus.WithFields(logrus.Fields{"room_id": room.ID, "owner_id": subjectID}).Info("room created")
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, toRoomResponse(room))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	rooms, err := h.rooms.List(r.Context())
	if err != nil {
		renderInternal(w, r, err)
		return
	}
	out := make([]roomResponse, 0, len(rooms))
	for _, room := range rooms {
		out = append(out, toRoomResponse(room))
	}
	render.JSON(w, r, out)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	room, err := h.rooms.Get(r.Context(), chi.URLParam(r, "roomID"))
	if err != nil {
		if errors.Is(err, service.ErrRoomNotFound) {
			renderError(w, r, http.StatusNotFound, err.Error())
			return
		}
		renderInternal(w, r, err)
		return
	}
	render.JSON(w, r, toRoomResponse(room))
}

func renderError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	render.Status(r, status)
	render.JSON(w, r, map[string]string{"error": msg})
}

func renderInternal(w http.ResponseWriter, r *http.Request, err error) {
	logrus.WithError(err).Error("room handler failure")
	renderError(w, r, http.StatusInternalServerError, "internal error")
}
