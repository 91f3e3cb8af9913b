package repository

import (
	"context"
	"sort"
	"sync"

	"collab-canvas/backend/internal/room/domain"
)

// MemoryRepository is an in-memory room repository used by tests and
// DATABASE_URL-less development runs.
type MemoryRepository struct {
	mu           sync.RWMutex
	rooms        map[string]*domain.Room
	participants map[string]map[string]*domain.Participant // roomID -> userID
}

// NewMemoryRepository returns an empty in-memory room repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		rooms:        make(map[string]*domain.Room),
		participants: make(map[string]map[string]*domain.Participant),
	}
}

// GetByID returns the room for id, or nil if not found.
func (r *MemoryRepository) GetByID(ctx context.Context, id string) (*domain.Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if rm, ok := r.rooms[id]; ok {
		rm2 := *rm
		return &rm2, nil
	}
	return nil, nil
}

// List returns all rooms in descending creation order.
func (r *MemoryRepository) List(ctx context.Context) ([]*domain.Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domain.Room, 0, len(r.rooms))
	for _, rm := range r.rooms {
		rm2 := *rm
		out = append(out, &rm2)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// Create stores the room. The room must have ID set.
func (r *MemoryRepository) Create(ctx context.Context, rm *domain.Room) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rm2 := *rm
	r.rooms[rm2.ID] = &rm2
	return nil
}

// Exists reports whether a room with the given id exists.
func (r *MemoryRepository) Exists(ctx context.Context, id string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.rooms[id]
	return ok, nil
}

// AddParticipant records membership; adding an existing participant is a no-op.
func (r *MemoryRepository) AddParticipant(ctx context.Context, p *domain.Participant) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.participants[p.RoomID]
	if !ok {
		m = make(map[string]*domain.Participant)
		r.participants[p.RoomID] = m
	}
	if _, exists := m[p.UserID]; exists {
		return nil
	}
	p2 := *p
	m[p2.UserID] = &p2
	return nil
}

// IsParticipant reports whether the user is a participant of the room.
func (r *MemoryRepository) IsParticipant(ctx context.Context, roomID, userID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.participants[roomID][userID]
	return ok, nil
}
