package repository

import (
	"context"
	"database/sql"
	"errors"

	"collab-canvas/backend/internal/invitation/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns an invitation repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// GetByCode returns the invitation with the given code, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByCode(ctx context.Context, code string) (*domain.Invitation, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT invitation_id, code, room_id, inviter_id, status, expires_at, created_at
		 FROM invitations WHERE code = $1`, code)
	var i domain.Invitation
	var status string
	if err := row.Scan(&i.ID, &i.Code, &i.RoomID, &i.InviterID, &status, &i.ExpiresAt, &i.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	i.Status = domain.InvitationStatus(status)
	return &i, nil
}

// Create persists the invitation to the database. The invitation must have ID and Code set.
func (r *PostgresRepository) Create(ctx context.Context, i *domain.Invitation) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO invitations (invitation_id, code, room_id, inviter_id, status, expires_at, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		i.ID, i.Code, i.RoomID, i.InviterID, string(i.Status), i.ExpiresAt, i.CreatedAt)
	return err
}

// SetStatus updates the invitation's lifecycle status.
func (r *PostgresRepository) SetStatus(ctx context.Context, id string, status domain.InvitationStatus) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE invitations SET status = $2 WHERE invitation_id = $1`, id, string(status))
	return err
}
