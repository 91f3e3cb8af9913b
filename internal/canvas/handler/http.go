// Package handler exposes the per-room canvas object endpoints.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/sirupsen/logrus"

	"collab-canvas/backend/internal/canvas/domain"
	"collab-canvas/backend/internal/canvas/service"
	"collab-canvas/backend/internal/server/middleware"
)

// Handler serves the canvas object endpoints.
type Handler struct {
	canvas *service.CanvasService
}

// NewHandler returns a canvas HTTP handler.
func NewHandler(canvas *service.CanvasService) *Handler {
	return &Handler{canvas: canvas}
}

type appendRequest struct {
	ObjectType string          `json:"objectType"`
	ObjectData json.RawMessage `json:"objectData"`
}

type updateRequest struct {
	ObjectData json.RawMessage `json:"objectData"`
}

// objectResponse is the public projection of a canvas object. Liveness is an
// internal mechanism; clients only ever see live objects in listings and the
// object acted on by an operation.
type objectResponse struct {
	ObjectID   string          `json:"objectId"`
	RoomID     string          `json:"roomId"`
	CreatorID  string          `json:"creatorId"`
	ObjectType string          `json:"objectType"`
	ObjectData json.RawMessage `json:"objectData"`
	CreatedAt  time.Time       `json:"createdAt"`
}

func toObjectResponse(obj *domain.CanvasObject) objectResponse {
	return objectResponse{
		ObjectID:   obj.ID,
		RoomID:     obj.RoomID,
		CreatorID:  obj.CreatorID,
		ObjectType: obj.ObjectType,
		ObjectData: obj.Payload,
		CreatedAt:  obj.CreatedAt,
	}
}

// Routes returns the canvas routes, mounted under /rooms/{roomID}/objects.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.append)
	r.Get("/", h.listLive)
	r.Post("/undo", h.undo)
	r.Post("/redo", h.redo)
	r.Put("/{objectID}", h.update)
	r.Delete("/{objectID}", h.remove)
	return r
}

func (h *Handler) append(w http.ResponseWriter, r *http.Request) {
	subjectID, ok := middleware.GetSubject(r.Context())
	if !ok {
		renderError(w, r, http.StatusUnauthorized, "missing or invalid authorization")
		return
	}
	var req appendRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		renderError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ObjectType == "" {
		renderError(w, r, http.StatusBadRequest, "object type is required")
		return
	}
	if len(req.ObjectData) == 0 {
		renderError(w, r, http.StatusBadRequest, "object data is required")
		return
	}
	roomID := chi.URLParam(r, "roomID")
	obj, err := h.canvas.Append(r.Context(), roomID, subjectID, req.ObjectType, req.ObjectData)
	if err != nil {
		renderServiceError(w, r, err)
		return
	}
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, toObjectResponse(obj))
}

func (h *Handler) listLive(w http.ResponseWriter, r *http.Request) {
	objs, err := h.canvas.ListLive(r.Context(), chi.URLParam(r, "roomID"))
	if err != nil {
		renderServiceError(w, r, err)
		return
	}
	out := make([]objectResponse, 0, len(objs))
	for _, obj := range objs {
		out = append(out, toObjectResponse(obj))
	}
	render.JSON(w, r, out)
}

func (h *Handler) undo(w http.ResponseWriter, r *http.Request) {
	obj, err := h.canvas.Undo(r.Context(), chi.URLParam(r, "roomID"))
	if err != nil {
		renderServiceError(w, r, err)
		return
	}
	render.JSON(w, r, toObjectResponse(obj))
}

func (h *Handler) redo(w http.ResponseWriter, r *http.Request) {
	obj, err := h.canvas.Redo(r.Context(), chi.URLParam(r, "roomID"))
	if err != nil {
		renderServiceError(w, r, err)
		return
	}
	render.JSON(w, r, toObjectResponse(obj))
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	var req updateRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		renderError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.ObjectData) == 0 {
		renderError(w, r, http.StatusBadRequest, "object data is required")
		return
	}
	obj, err := h.canvas.UpdatePayload(r.Context(), chi.URLParam(r, "roomID"), chi.URLParam(r, "objectID"), req.ObjectData)
	if err != nil {
		renderServiceError(w, r, err)
		return
	}
	render.JSON(w, r, toObjectResponse(obj))
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	obj, err := h.canvas.Delete(r.Context(), chi.URLParam(r, "roomID"), chi.URLParam(r, "objectID"))
	if err != nil {
		renderServiceError(w, r, err)
		return
	}
	render.JSON(w, r, toObjectResponse(obj))
}

func renderServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrRoomNotFound),
		errors.Is(err, service.ErrObjectNotFound),
		errors.Is(err, service.ErrNothingToUndo),
		errors.Is(err, service.ErrNothingToRedo):
		renderError(w, r, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrAlreadyDeleted),
		errors.Is(err, service.ErrWrongRoom):
		renderError(w, r, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrCreatorUnknown):
		renderError(w, r, http.StatusUnauthorized, err.Error())
	default:
		logrus.WithError(err).Error("canvas handler failure")
		renderError(w, r, http.StatusInternalServerError, "internal error")
	}
}

func renderError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	render.Status(r, status)
	render.JSON(w, r, map[string]string{"error": msg})
}
