package service

import (
	"context"
	"crypto/rand"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"

	invitationdomain "collab-canvas/backend/internal/invitation/domain"
	"collab-canvas/backend/internal/invitation/repository"
	roomdomain "collab-canvas/backend/internal/room/domain"
)

// Sentinel errors for the invitation service; handlers map them to HTTP statuses.
var (
	ErrRoomNotFound              = errors.New("room not found")
	ErrNotRoomParticipant        = errors.New("only room participants can invite")
	ErrInvitationNotFound        = errors.New("invitation not found")
	ErrInvitationExpired         = errors.New("invitation has expired")
	ErrInvitationAlreadyAccepted = errors.New("invitation already accepted")
)

// RoomRepo is the minimal room repository needed by the invitation service.
type RoomRepo interface {
	Exists(ctx context.Context, roomID string) (bool, error)
	AddParticipant(ctx context.Context, p *roomdomain.Participant) error
	IsParticipant(ctx context.Context, roomID, userID string) (bool, error)
}

// InvitationService creates shareable invitation codes and redeems them into
// room membership.
type InvitationService struct {
	repo     repository.Repository
	roomRepo RoomRepo
	ttl      time.Duration
	nowF     func() time.Time
}

// NewInvitationService returns an InvitationService. ttl is the lifetime of
// newly created invitations.
func NewInvitationService(repo repository.Repository, roomRepo RoomRepo, ttl time.Duration) *InvitationService {
	return &InvitationService{
		repo:     repo,
		roomRepo: roomRepo,
		ttl:      ttl,
		nowF:     func() time.Time { return time.Now().UTC() },
	}
}

// Create issues an invitation to roomID on behalf of inviterID, who must be a
// participant of the room. The code is a ULID, sortable and URL-safe.
func (s *InvitationService) Create(ctx context.Context, roomID, inviterID string) (*invitationdomain.Invitation, error) {
	ok, err := s.roomRepo.Exists(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrRoomNotFound
	}
	member, err := s.roomRepo.IsParticipant(ctx, roomID, inviterID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, ErrNotRoomParticipant
	}

	now := s.nowF()
	inv := &invitationdomain.Invitation{
		ID:        uuid.New().String(),
		Code:      ulid.MustNew(ulid.Timestamp(now), rand.Reader).String(),
		RoomID:    roomID,
		InviterID: inviterID,
		Status:    invitationdomain.StatusPending,
		ExpiresAt: now.Add(s.ttl),
		CreatedAt: now,
	}
	if err := s.repo.Create(ctx, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

// Accept redeems the invitation code for userID and joins them to the room.
// Re-accepting a code the user already redeemed is an idempotent success;
// a second distinct user hitting an accepted code gets
// ErrInvitationAlreadyAccepted.
func (s *InvitationService) Accept(ctx context.Context, code, userID string) (*invitationdomain.Invitation, error) {
	inv, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, ErrInvitationNotFound
	}
	now := s.nowF()
	if inv.Expired(now) {
		return nil, ErrInvitationExpired
	}
	if inv.Status == invitationdomain.StatusAccepted {
		member, err := s.roomRepo.IsParticipant(ctx, inv.RoomID, userID)
		if err != nil {
			return nil, err
		}
		if member {
			return inv, nil
		}
		return nil, ErrInvitationAlreadyAccepted
	}

	if err := s.roomRepo.AddParticipant(ctx, &roomdomain.Participant{RoomID: inv.RoomID, UserID: userID, JoinedAt: now}); err != nil {
		return nil, err
	}
	if err := s.repo.SetStatus(ctx, inv.ID, invitationdomain.StatusAccepted); err != nil {
		return nil, err
	}
	inv.Status = invitationdomain.StatusAccepted
	return inv, nil
}
