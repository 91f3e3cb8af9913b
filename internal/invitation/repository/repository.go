package repository

import (
	"context"

	"collab-canvas/backend/internal/invitation/domain"
)

// Repository defines persistence for invitations.
type Repository interface {
	GetByCode(ctx context.Context, code string) (*domain.Invitation, error)
	Create(ctx context.Context, i *domain.Invitation) error
	SetStatus(ctx context.Context, id string, status domain.InvitationStatus) error
}
