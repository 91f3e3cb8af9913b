package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"collab-canvas/backend/internal/room/domain"
	"collab-canvas/backend/internal/room/repository"
)

// Sentinel errors for the room service; handlers map them to HTTP statuses.
var (
	ErrRoomNotFound = errors.New("room not found")
)

// RoomService implements room creation and lookup. The creating owner is
// recorded as the room's first participant.
type RoomService struct {
	repo repository.Repository
	nowF func() time.Time
}

// NewRoomService returns a RoomService with the given repository.
func NewRoomService(repo repository.Repository) *RoomService {
	return &RoomService{
		repo: repo,
		nowF: func() time.Time { return time.Now().UTC() },
	}
}

// Create creates a room owned by ownerID and joins the owner as a participant.
func (s *RoomService) Create(ctx context.Context, ownerID, title string, isAnonymous bool) (*domain.Room, error) {
	now := s.nowF()
	room := &domain.Room{
		ID:            uuid.New().String(),
		OwnerID:       ownerID,
		Title:         title,
		IsAnonymous:   isAnonymous,
		CreatedAt:     now,
		LastUpdatedAt: now,
	}
	if err := room.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, room); err != nil {
		return nil, err
	}
	if err := s.repo.AddParticipant(ctx, &domain.Participant{RoomID: room.ID, UserID: ownerID, JoinedAt: now}); err != nil {
		return nil, err
	}
	return room, nil
}

// List returns all rooms in descending creation order.
func (s *RoomService) List(ctx context.Context) ([]*domain.Room, error) {
	return s.repo.List(ctx)
}

// Get returns the room for id. Fails with ErrRoomNotFound for an unknown room.
func (s *RoomService) Get(ctx context.Context, id string) (*domain.Room, error) {
	room, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, ErrRoomNotFound
	}
	return room, nil
}
