package repository

import (
	"context"
	"encoding/json"

	"collab-canvas/backend/internal/canvas/domain"
)

// Repository defines persistence for canvas objects. Implementations must
// assign Seq atomically per room on Create: two racing appends to the same
// room receive distinct, monotonically ordered counters.
type Repository interface {
	// Create persists o and assigns o.Seq = room's current max seq + 1.
	Create(ctx context.Context, o *domain.CanvasObject) error
	// GetByID returns the object for id, or nil if not found.
	GetByID(ctx context.Context, id string) (*domain.CanvasObject, error)
	// ListLiveByRoom returns the room's live objects in ascending seq order.
	// The result is a snapshot at call time with no isolation guarantee
	// against concurrent appends.
	ListLiveByRoom(ctx context.Context, roomID string) ([]*domain.CanvasObject, error)
	// LatestByRoomAndState returns the object with the greatest seq in the
	// room that is in the given state, or nil if none exists.
	LatestByRoomAndState(ctx context.Context, roomID string, state domain.ObjectState) (*domain.CanvasObject, error)
	// SetState updates the object's liveness state.
	SetState(ctx context.Context, id string, state domain.ObjectState) error
	// UpdatePayload replaces the object's payload in place. Seq and CreatedAt
	// are untouched, so undo/redo ordering is unaffected.
	UpdatePayload(ctx context.Context, id string, payload json.RawMessage) error
}
