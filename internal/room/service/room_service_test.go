package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"collab-canvas/backend/internal/room/repository"
)

func newTestRoomService() (*RoomService, *repository.MemoryRepository) {
	repo := repository.NewMemoryRepository()
	return NewRoomService(repo), repo
}

func TestCreateJoinsOwnerAsParticipant(t *testing.T) {
	svc, repo := newTestRoomService()
	ctx := context.Background()

	room, err := svc.Create(ctx, "user-1", "sketch session", false)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if room.ID == "" {
		t.Fatal("expected room id to be assigned")
	}
	if room.OwnerID != "user-1" {
		t.Fatalf("OwnerID = %q, want user-1", room.OwnerID)
	}

	member, err := repo.IsParticipant(ctx, room.ID, "user-1")
	if err != nil {
		t.Fatalf("IsParticipant: %v", err)
	}
	if !member {
		t.Fatal("owner should be a participant of the new room")
	}
}

func TestCreateRejectsEmptyTitle(t *testing.T) {
	svc, _ := newTestRoomService()
	if _, err := svc.Create(context.Background(), "user-1", "", false); err == nil {
		t.Fatal("expected error for empty title")
	}
}

func TestCreateRejectsEmptyOwner(t *testing.T) {
	svc, _ := newTestRoomService()
	if _, err := svc.Create(context.Background(), "", "sketch session", false); err == nil {
		t.Fatal("expected error for empty owner id")
	}
}

func TestListReturnsNewestFirst(t *testing.T) {
	svc, _ := newTestRoomService()
	ctx := context.Background()

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := base
	svc.nowF = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}

	first, err := svc.Create(ctx, "user-1", "first", false)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	second, err := svc.Create(ctx, "user-1", "second", false)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	rooms, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(rooms) != 2 {
		t.Fatalf("len(rooms) = %d, want 2", len(rooms))
	}
	if rooms[0].ID != second.ID || rooms[1].ID != first.ID {
		t.Fatalf("rooms not in descending creation order: got %q, %q", rooms[0].Title, rooms[1].Title)
	}
}

func TestGetUnknownRoom(t *testing.T) {
	svc, _ := newTestRoomService()
	if _, err := svc.Get(context.Background(), "nope"); !errors.Is(err, ErrRoomNotFound) {
		t.Fatalf("err = %v, want ErrRoomNotFound", err)
	}
}

func TestGetRoundTrip(t *testing.T) {
	svc, _ := newTestRoomService()
	ctx := context.Background()

	created, err := svc.Create(ctx, "user-1", "sketch session", true)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	got, err := svc.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Title != "sketch session" || !got.IsAnonymous {
		t.Fatalf("unexpected room: %+v", got)
	}
}
