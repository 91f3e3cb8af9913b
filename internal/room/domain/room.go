package domain

import (
	"errors"
	"time"
)

// Room is a collaborative session containing an ordered set of canvas objects.
type Room struct {
	ID            string
	OwnerID       string
	Title         string
	IsAnonymous   bool // participants are shown as "anonymous" to each other
	CreatedAt     time.Time
	LastUpdatedAt time.Time
}

// Participant is a user's membership in a room.
type Participant struct {
	RoomID   string
	UserID   string
	JoinedAt time.Time
}

// Validate validates the room for persistence. Returns an error describing the first validation failure.
func (r *Room) Validate() error {
	if r.OwnerID == "" {
		return errors.New("owner id is required")
	}
	if r.Title == "" {
		return errors.New("title is required")
	}
	return nil
}
