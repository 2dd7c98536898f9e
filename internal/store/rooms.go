package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
)

// CreateRoom inserts a new study room owned by ownerID. Room names
// are unique; a duplicate surfaces as a constraint error from pgx.
func (p *Postgres) CreateRoom(ctx context.Context, name, ownerID string) (Room, error) {
	if name == "" {
		return Room{}, errors.New("missing room name")
	}

	row := p.pool.QueryRow(ctx, `
		INSERT INTO rooms (name, owner_id)
		VALUES ($1, $2)
		RETURNING id, name, owner_id, created_at
	`, name, ownerID)

	var r Room
	if err := row.Scan(&r.ID, &r.Name, &r.OwnerID, &r.CreatedAt); err != nil {
		return Room{}, err
	}
	return r, nil
}

// ListRooms returns all rooms, newest first
func (p *Postgres) ListRooms(ctx context.Context) ([]Room, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT id, name, owner_id, created_at
		FROM rooms
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Room
	for rows.Next() {
		var r Room
		if err := rows.Scan(&r.ID, &r.Name, &r.OwnerID, &r.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// GetRoom fetches a room by ID
func (p *Postgres) GetRoom(ctx context.Context, id string) (Room, error) {
	row := p.pool.QueryRow(ctx, `
		SELECT id, name, owner_id, created_at
		FROM rooms
		WHERE id = $1
	`, id)

	var r Room
	if err := row.Scan(&r.ID, &r.Name, &r.OwnerID, &r.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Room{}, errors.New("not found")
		}
		return Room{}, err
	}
	return r, nil
}

// CreateMessage stores one chat message in a room's history
func (p *Postgres) CreateMessage(ctx context.Context, content, userID, roomID string) (Message, error) {
	if content == "" {
		return Message{}, errors.New("missing content")
	}

	row := p.pool.QueryRow(ctx, `
		INSERT INTO messages (content, user_id, room_id)
		VALUES ($1, $2, $3)
		RETURNING id, content, user_id, room_id, timestamp
	`, content, userID, roomID)

	var m Message
	if err := row.Scan(&m.ID, &m.Content, &m.UserID, &m.RoomID, &m.Timestamp); err != nil {
		return Message{}, err
	}
	return m, nil
}

// ListMessages returns a room's history in send order
func (p *Postgres) ListMessages(ctx context.Context, roomID string) ([]Message, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT id, content, user_id, room_id, timestamp
		FROM messages
		WHERE room_id = $1
		ORDER BY timestamp ASC
	`, roomID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Message
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.Content, &m.UserID, &m.RoomID, &m.Timestamp); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
