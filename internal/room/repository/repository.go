package repository

import (
	"context"

	"collab-canvas/backend/internal/room/domain"
)

// Repository defines persistence for rooms and their participants.
type Repository interface {
	GetByID(ctx context.Context, id string) (*domain.Room, error)
	List(ctx context.Context) ([]*domain.Room, error)
	Create(ctx context.Context, r *domain.Room) error
	// Exists reports whether a room with the given id exists.
	Exists(ctx context.Context, id string) (bool, error)
	// AddParticipant records membership; adding an existing participant is a no-op.
	AddParticipant(ctx context.Context, p *domain.Participant) error
	IsParticipant(ctx context.Context, roomID, userID string) (bool, error)
}
