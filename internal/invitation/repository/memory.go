package repository

import (
	"context"
	"sync"

	"collab-canvas/backend/internal/invitation/domain"
)

// MemoryRepository is an in-memory invitation repository used by tests and
// DATABASE_URL-less development runs.
type MemoryRepository struct {
	mu     sync.RWMutex
	byID   map[string]*domain.Invitation
	byCode map[string]*domain.Invitation
}

// NewMemoryRepository returns an empty in-memory invitation repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byID:   make(map[string]*domain.Invitation),
		byCode: make(map[string]*domain.Invitation),
	}
}

// GetByCode returns the invitation with the given code, or nil if not found.
func (r *MemoryRepository) GetByCode(ctx context.Context, code string) (*domain.Invitation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if i, ok := r.byCode[code]; ok {
		i2 := *i
		return &i2, nil
	}
	return nil, nil
}

// Create stores the invitation. The invitation must have ID and Code set.
func (r *MemoryRepository) Create(ctx context.Context, i *domain.Invitation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	i2 := *i
	r.byID[i2.ID] = &i2
	r.byCode[i2.Code] = &i2
	return nil
}

// SetStatus updates the invitation's lifecycle status.
func (r *MemoryRepository) SetStatus(ctx context.Context, id string, status domain.InvitationStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if i, ok := r.byID[id]; ok {
		i.Status = status
	}
	return nil
}
