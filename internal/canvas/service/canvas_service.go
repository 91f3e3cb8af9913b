package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"collab-canvas/backend/internal/canvas/domain"
	"collab-canvas/backend/internal/canvas/repository"
)

// Sentinel errors for the canvas service; handlers map them to HTTP statuses.
var (
	ErrRoomNotFound   = errors.New("room not found")
	ErrObjectNotFound = errors.New("canvas object not found")
	ErrNothingToUndo  = errors.New("no canvas object to undo")
	ErrNothingToRedo  = errors.New("no canvas object to redo")
	ErrAlreadyDeleted = errors.New("canvas object already deleted")
	ErrWrongRoom      = errors.New("canvas object does not belong to the room")
	ErrCreatorUnknown = errors.New("creator is not a known user")
)

// RoomRepo is the room-existence oracle needed by the canvas service.
type RoomRepo interface {
	Exists(ctx context.Context, roomID string) (bool, error)
}

// SubjectRepo resolves a creator id to a known user at append time.
type SubjectRepo interface {
	ExistsByID(ctx context.Context, userID string) (bool, error)
}

// CanvasService mutates a room's object history. The acting subject is always
// an explicit parameter, resolved upstream from the bearer token; this service
// never reads identity from ambient state.
//
// Undo/redo is not a bounded stack with a cursor: it is derived entirely from
// the per-object liveness state plus the total order given by the per-room
// sequence counter. Undo soft-deletes the live object with the greatest seq;
// redo restores the soft-deleted object with the greatest seq. Appending after
// an undo does NOT clear redo eligibility — a soft-deleted object stays
// restorable for as long as it exists. That matches the source system's
// collaborative-room behavior and is kept deliberately.
type CanvasService struct {
	repo     repository.Repository
	roomRepo RoomRepo
	subjects SubjectRepo
	nowF     func() time.Time

	// Mutating operations on the same room are serialized through a per-room
	// critical section so a racing undo/redo pair can never both select the
	// same object or leave one in a torn state.
	lockMu    sync.Mutex
	roomLocks map[string]*sync.Mutex
}

// NewCanvasService returns a CanvasService with the given dependencies.
func NewCanvasService(repo repository.Repository, roomRepo RoomRepo, subjects SubjectRepo) *CanvasService {
	return &CanvasService{
		repo:      repo,
		roomRepo:  roomRepo,
		subjects:  subjects,
		nowF:      func() time.Time { return time.Now().UTC() },
		roomLocks: make(map[string]*sync.Mutex),
	}
}

func (s *CanvasService) roomLock(roomID string) *sync.Mutex {
	s.lockMu.Lock()
	defer s.lockMu.Unlock()
	if l, ok := s.roomLocks[roomID]; ok {
		return l
	}
	l := &sync.Mutex{}
	s.roomLocks[roomID] = l
	return l
}

func (s *CanvasService) requireRoom(ctx context.Context, roomID string) error {
	ok, err := s.roomRepo.Exists(ctx, roomID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrRoomNotFound
	}
	return nil
}

// Append creates a live object at the end of the room's history. creatorID is
// the already-authenticated acting subject. Fails with ErrRoomNotFound for an
// unknown room and ErrCreatorUnknown when the subject no longer exists.
func (s *CanvasService) Append(ctx context.Context, roomID, creatorID, objectType string, payload json.RawMessage) (*domain.CanvasObject, error) {
	if err := s.requireRoom(ctx, roomID); err != nil {
		return nil, err
	}
	ok, err := s.subjects.ExistsByID(ctx, creatorID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrCreatorUnknown
	}

	obj := &domain.CanvasObject{
		ID:         uuid.New().String(),
		RoomID:     roomID,
		CreatorID:  creatorID,
		ObjectType: objectType,
		Payload:    payload,
		CreatedAt:  s.nowF(),
		State:      domain.StateLive,
	}
	if err := obj.Validate(); err != nil {
		return nil, err
	}

	l := s.roomLock(roomID)
	l.Lock()
	defer l.Unlock()

	if err := s.repo.Create(ctx, obj); err != nil {
		return nil, err
	}
	return obj, nil
}

// ListLive returns the room's live objects in ascending creation order. The
// result reflects state at call time; callers must re-invoke for a fresh view.
func (s *CanvasService) ListLive(ctx context.Context, roomID string) ([]*domain.CanvasObject, error) {
	if err := s.requireRoom(ctx, roomID); err != nil {
		return nil, err
	}
	return s.repo.ListLiveByRoom(ctx, roomID)
}

// Undo soft-deletes the live object with the greatest seq in the room and
// returns it. Fails with ErrNothingToUndo when no live object exists.
func (s *CanvasService) Undo(ctx context.Context, roomID string) (*domain.CanvasObject, error) {
	if err := s.requireRoom(ctx, roomID); err != nil {
		return nil, err
	}

	l := s.roomLock(roomID)
	l.Lock()
	defer l.Unlock()

	obj, err := s.repo.LatestByRoomAndState(ctx, roomID, domain.StateLive)
	if err != nil {
		return nil, err
	}
	if obj == nil {
		return nil, ErrNothingToUndo
	}
	if err := s.repo.SetState(ctx, obj.ID, domain.StateSoftDeleted); err != nil {
		return nil, err
	}
	obj.State = domain.StateSoftDeleted
	return obj, nil
}

// Redo restores the soft-deleted object with the greatest seq in the room and
// returns it. Fails with ErrNothingToRedo when no soft-deleted object exists.
func (s *CanvasService) Redo(ctx context.Context, roomID string) (*domain.CanvasObject, error) {
	if err := s.requireRoom(ctx, roomID); err != nil {
		return nil, err
	}

	l := s.roomLock(roomID)
	l.Lock()
	defer l.Unlock()

	obj, err := s.repo.LatestByRoomAndState(ctx, roomID, domain.StateSoftDeleted)
	if err != nil {
		return nil, err
	}
	if obj == nil {
		return nil, ErrNothingToRedo
	}
	if err := s.repo.SetState(ctx, obj.ID, domain.StateLive); err != nil {
		return nil, err
	}
	obj.State = domain.StateLive
	return obj, nil
}

// Delete soft-deletes one specific object, independent of undo ordering. The
// object is excluded from future undo selection exactly as if it had been
// undone; redo still targets the room's most-recently-created soft-deleted
// object, which is not necessarily this one.
func (s *CanvasService) Delete(ctx context.Context, roomID, objectID string) (*domain.CanvasObject, error) {
	if err := s.requireRoom(ctx, roomID); err != nil {
		return nil, err
	}

	l := s.roomLock(roomID)
	l.Lock()
	defer l.Unlock()

	obj, err := s.repo.GetByID(ctx, objectID)
	if err != nil {
		return nil, err
	}
	if obj == nil {
		return nil, ErrObjectNotFound
	}
	if obj.RoomID != roomID {
		return nil, ErrWrongRoom
	}
	if !obj.Live() {
		return nil, ErrAlreadyDeleted
	}
	if err := s.repo.SetState(ctx, obj.ID, domain.StateSoftDeleted); err != nil {
		return nil, err
	}
	obj.State = domain.StateSoftDeleted
	return obj, nil
}

// UpdatePayload replaces the object's payload in place. Seq and CreatedAt are
// untouched, so the edit does not affect undo/redo ordering.
func (s *CanvasService) UpdatePayload(ctx context.Context, roomID, objectID string, payload json.RawMessage) (*domain.CanvasObject, error) {
	if err := s.requireRoom(ctx, roomID); err != nil {
		return nil, err
	}
	if len(payload) == 0 {
		return nil, errors.New("payload is required")
	}

	l := s.roomLock(roomID)
	l.Lock()
	defer l.Unlock()

	obj, err := s.repo.GetByID(ctx, objectID)
	if err != nil {
		return nil, err
	}
	if obj == nil {
		return nil, ErrObjectNotFound
	}
	if obj.RoomID != roomID {
		return nil, ErrWrongRoom
	}
	if !obj.Live() {
		return nil, ErrAlreadyDeleted
	}
	if err := s.repo.UpdatePayload(ctx, obj.ID, payload); err != nil {
		return nil, err
	}
	obj.Payload = append(json.RawMessage(nil), payload...)
	return obj, nil
}
