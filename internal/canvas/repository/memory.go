package repository

import (
	"context"
	"encoding/json"
	"sync"

	"collab-canvas/backend/internal/canvas/domain"
)

// MemoryRepository is an in-memory canvas object repository used by tests and
// DATABASE_URL-less development runs. A single mutex guards the per-room
// sequence counters together with object visibility, so a counter is never
// observable before its object is.
type MemoryRepository struct {
	mu      sync.RWMutex
	byID    map[string]*domain.CanvasObject
	byRoom  map[string][]*domain.CanvasObject // insertion (seq) order
	nextSeq map[string]int64
}

// NewMemoryRepository returns an empty in-memory canvas object repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byID:    make(map[string]*domain.CanvasObject),
		byRoom:  make(map[string][]*domain.CanvasObject),
		nextSeq: make(map[string]int64),
	}
}

// Create stores the object and assigns its per-room sequence counter.
func (r *MemoryRepository) Create(ctx context.Context, o *domain.CanvasObject) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextSeq[o.RoomID]++
	o.Seq = r.nextSeq[o.RoomID]

	stored := *o
	r.byID[stored.ID] = &stored
	r.byRoom[stored.RoomID] = append(r.byRoom[stored.RoomID], &stored)
	return nil
}

// GetByID returns a copy of the object for id, or nil if not found.
func (r *MemoryRepository) GetByID(ctx context.Context, id string) (*domain.CanvasObject, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if o, ok := r.byID[id]; ok {
		o2 := *o
		return &o2, nil
	}
	return nil, nil
}

// ListLiveByRoom returns copies of the room's live objects in ascending seq order.
func (r *MemoryRepository) ListLiveByRoom(ctx context.Context, roomID string) ([]*domain.CanvasObject, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*domain.CanvasObject
	for _, o := range r.byRoom[roomID] {
		if o.State == domain.StateLive {
			o2 := *o
			out = append(out, &o2)
		}
	}
	return out, nil
}

// LatestByRoomAndState returns a copy of the object with the greatest seq in
// the room that is in the given state, or nil if none exists.
func (r *MemoryRepository) LatestByRoomAndState(ctx context.Context, roomID string, state domain.ObjectState) (*domain.CanvasObject, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	objs := r.byRoom[roomID]
	for i := len(objs) - 1; i >= 0; i-- {
		if objs[i].State == state {
			o2 := *objs[i]
			return &o2, nil
		}
	}
	return nil, nil
}

// SetState updates the object's liveness state. Missing ids are a no-op.
func (r *MemoryRepository) SetState(ctx context.Context, id string, state domain.ObjectState) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if o, ok := r.byID[id]; ok {
		o.State = state
	}
	return nil
}

// UpdatePayload replaces the object's payload in place. Missing ids are a no-op.
func (r *MemoryRepository) UpdatePayload(ctx context.Context, id string, payload json.RawMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if o, ok := r.byID[id]; ok {
		o.Payload = append(json.RawMessage(nil), payload...)
	}
	return nil
}
