package domain

import (
	"encoding/json"
	"errors"
	"time"
)

// ObjectState is the liveness state of a canvas object. An object oscillates
// between Live and SoftDeleted arbitrarily many times via undo/redo; there is
// no terminal state and this core never hard-deletes.
type ObjectState string

const (
	// StateLive marks an object as part of the visible canvas.
	StateLive ObjectState = "live"
	// StateSoftDeleted marks an object as hidden but retained for redo.
	StateSoftDeleted ObjectState = "soft_deleted"
)

// CanvasObject is one drawable unit within a room's history. ID, RoomID,
// CreatorID, CreatedAt, and Seq are immutable after creation; only State and
// Payload mutate. Seq is a per-room monotonically increasing counter assigned
// at insertion and establishes the total creation order used by undo/redo
// (creation time alone is not unique at sub-tick resolution).
type CanvasObject struct {
	ID         string
	RoomID     string
	CreatorID  string
	ObjectType string
	Payload    json.RawMessage
	Seq        int64
	CreatedAt  time.Time
	State      ObjectState
}

// Live reports whether the object is currently part of the visible canvas.
func (o *CanvasObject) Live() bool {
	return o.State == StateLive
}

// Validate validates the object for persistence. Returns an error describing the first validation failure.
func (o *CanvasObject) Validate() error {
	if o.RoomID == "" {
		return errors.New("room id is required")
	}
	if o.CreatorID == "" {
		return errors.New("creator id is required")
	}
	if o.ObjectType == "" {
		return errors.New("object type is required")
	}
	if len(o.Payload) == 0 {
		return errors.New("payload is required")
	}
	if o.State == "" {
		o.State = StateLive
	}
	return nil
}
