package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"collab-canvas/backend/internal/canvas/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a canvas object repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create persists the object and assigns its per-room sequence counter inside
// a transaction holding the room's advisory lock, so racing appends to the
// same room are serialized by the database and never observe duplicate or
// torn counters.
func (r *PostgresRepository) Create(ctx context.Context, o *domain.CanvasObject) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, o.RoomID); err != nil {
		return err
	}
	row := tx.QueryRowContext(ctx,
		`INSERT INTO canvas_objects (object_id, room_id, creator_id, object_type, object_data, seq, created_at, state)
		 VALUES ($1, $2, $3, $4, $5,
		         (SELECT COALESCE(MAX(seq), 0) + 1 FROM canvas_objects WHERE room_id = $2),
		         $6, $7)
		 RETURNING seq`,
		o.ID, o.RoomID, o.CreatorID, o.ObjectType, []byte(o.Payload), o.CreatedAt, string(o.State))
	if err := row.Scan(&o.Seq); err != nil {
		return err
	}
	return tx.Commit()
}

// GetByID returns the object for id, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.CanvasObject, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT object_id, room_id, creator_id, object_type, object_data, seq, created_at, state
		 FROM canvas_objects WHERE object_id = $1`, id)
	return scanObject(row)
}

// ListLiveByRoom returns the room's live objects in ascending seq order.
func (r *PostgresRepository) ListLiveByRoom(ctx context.Context, roomID string) ([]*domain.CanvasObject, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT object_id, room_id, creator_id, object_type, object_data, seq, created_at, state
		 FROM canvas_objects WHERE room_id = $1 AND state = $2 ORDER BY seq ASC`,
		roomID, string(domain.StateLive))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.CanvasObject
	for rows.Next() {
		o, err := scanObjectRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// LatestByRoomAndState returns the object with the greatest seq in the room
// that is in the given state, or nil if none exists.
func (r *PostgresRepository) LatestByRoomAndState(ctx context.Context, roomID string, state domain.ObjectState) (*domain.CanvasObject, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT object_id, room_id, creator_id, object_type, object_data, seq, created_at, state
		 FROM canvas_objects WHERE room_id = $1 AND state = $2
		 ORDER BY seq DESC LIMIT 1`,
		roomID, string(state))
	return scanObject(row)
}

// SetState updates the object's liveness state.
func (r *PostgresRepository) SetState(ctx context.Context, id string, state domain.ObjectState) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE canvas_objects SET state = $2 WHERE object_id = $1`, id, string(state))
	return err
}

// UpdatePayload replaces the object's payload in place.
func (r *PostgresRepository) UpdatePayload(ctx context.Context, id string, payload json.RawMessage) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE canvas_objects SET object_data = $2 WHERE object_id = $1`, id, []byte(payload))
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanObject(row *sql.Row) (*domain.CanvasObject, error) {
	o, err := scanObjectRow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return o, nil
}

func scanObjectRow(row rowScanner) (*domain.CanvasObject, error) {
	var o domain.CanvasObject
	var payload []byte
	var state string
	if err := row.Scan(&o.ID, &o.RoomID, &o.CreatorID, &o.ObjectType, &payload, &o.Seq, &o.CreatedAt, &state); err != nil {
		return nil, err
	}
	o.Payload = json.RawMessage(payload)
	o.State = domain.ObjectState(state)
	return &o, nil
}
