package repository

import (
	"context"

	"collab-canvas/backend/internal/user/domain"
)

// Repository defines persistence for users.
type Repository interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, u *domain.User) error
	// ExistsByID reports whether a user with the given id exists.
	ExistsByID(ctx context.Context, id string) (bool, error)
}
