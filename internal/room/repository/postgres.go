package repository

import (
	"context"
	"database/sql"
	"errors"

	"collab-canvas/backend/internal/room/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a room repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// GetByID returns the room for id, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.Room, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT room_id, owner_id, title, is_anonymous, created_at, last_updated_at
		 FROM rooms WHERE room_id = $1`, id)
	var rm domain.Room
	if err := row.Scan(&rm.ID, &rm.OwnerID, &rm.Title, &rm.IsAnonymous, &rm.CreatedAt, &rm.LastUpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &rm, nil
}

// List returns all rooms in descending creation order.
func (r *PostgresRepository) List(ctx context.Context) ([]*domain.Room, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT room_id, owner_id, title, is_anonymous, created_at, last_updated_at
		 FROM rooms ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Room
	for rows.Next() {
		var rm domain.Room
		if err := rows.Scan(&rm.ID, &rm.OwnerID, &rm.Title, &rm.IsAnonymous, &rm.CreatedAt, &rm.LastUpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, &rm)
	}
	return out, rows.Err()
}

// Create persists the room to the database. The room must have ID set.
func (r *PostgresRepository) Create(ctx context.Context, rm *domain.Room) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO rooms (room_id, owner_id, title, is_anonymous, created_at, last_updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		rm.ID, rm.OwnerID, rm.Title, rm.IsAnonymous, rm.CreatedAt, rm.LastUpdatedAt)
	return err
}

// Exists reports whether a room with the given id exists.
func (r *PostgresRepository) Exists(ctx context.Context, id string) (bool, error) {
	var ok bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM rooms WHERE room_id = $1)`, id).Scan(&ok)
	return ok, err
}

// AddParticipant records membership; adding an existing participant is a no-op.
func (r *PostgresRepository) AddParticipant(ctx context.Context, p *domain.Participant) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO room_participants (room_id, user_id, joined_at)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (room_id, user_id) DO NOTHING`,
		p.RoomID, p.UserID, p.JoinedAt)
	return err
}

// IsParticipant reports whether the user is a participant of the room.
func (r *PostgresRepository) IsParticipant(ctx context.Context, roomID, userID string) (bool, error) {
	var ok bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM room_participants WHERE room_id = $1 AND user_id = $2)`,
		roomID, userID).Scan(&ok)
	return ok, err
}
