package domain

import "time"

// InvitationStatus is the lifecycle state of an invitation.
type InvitationStatus string

const (
	StatusPending  InvitationStatus = "PENDING"
	StatusAccepted InvitationStatus = "ACCEPTED"
)

// Invitation is a shareable, expiring code that grants room membership.
type Invitation struct {
	ID        string
	Code      string
	RoomID    string
	InviterID string
	Status    InvitationStatus
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Expired reports whether the invitation's expiry is at or before now.
func (i *Invitation) Expired(now time.Time) bool {
	return !i.ExpiresAt.After(now)
}
