package intake

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/iesm-tools/intake/internal/db"
	"github.com/iesm-tools/intake/internal/directory"
	"github.com/iesm-tools/intake/internal/form"
)

// ErrSessionNotFound is returned for unknown session IDs.
var ErrSessionNotFound = fmt.Errorf("session not found")

// Store persists sessions in SQLite.
type Store struct {
	db *db.DB
}

// NewStore creates a Store backed by the given database.
func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

// Create inserts a fresh session with a generated UUID and empty answers.
func (s *Store) Create(ctx context.Context) (*Session, error) {
	sess := &Session{
		ID: uuid.New().String(),
		Answer: form.Answer{
			Availability: form.AvailabilityAnyDay,
			Priority:     form.PriorityNormal,
		},
	}

	answer, err := json.Marshal(sess.Answer)
	if err != nil {
		return nil, fmt.Errorf("marshalling answer: %w", err)
	}

	now := time.Now().UTC()
	sess.CreatedAt = now
	sess.UpdatedAt = now

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO sessions (id, identity, answer, created_at, updated_at) VALUES (?, NULL, ?, ?, ?)`,
		sess.ID, string(answer), now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting session: %w", err)
	}
	return sess, nil
}

// Get retrieves a session by ID.
func (s *Store) Get(ctx context.Context, id string) (*Session, error) {
	var (
		sess     Session
		identity sql.NullString
		answer   string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, identity, answer, created_at, updated_at FROM sessions WHERE id = ?`, id,
	).Scan(&sess.ID, &identity, &answer, &sess.CreatedAt, &sess.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting session: %w", err)
	}

	if identity.Valid && identity.String != "" {
		var ident directory.Identity
		if err := json.Unmarshal([]byte(identity.String), &ident); err != nil {
			return nil, fmt.Errorf("unmarshalling identity: %w", err)
		}
		sess.Identity = &ident
	}
	if err := json.Unmarshal([]byte(answer), &sess.Answer); err != nil {
		return nil, fmt.Errorf("unmarshalling answer: %w", err)
	}
	return &sess, nil
}

// Save writes the session's identity and answer document back.
func (s *Store) Save(ctx context.Context, sess *Session) error {
	answer, err := json.Marshal(sess.Answer)
	if err != nil {
		return fmt.Errorf("marshalling answer: %w", err)
	}

	var identity sql.NullString
	if sess.Identity != nil {
		data, err := json.Marshal(sess.Identity)
		if err != nil {
			return fmt.Errorf("marshalling identity: %w", err)
		}
		identity = sql.NullString{String: string(data), Valid: true}
	}

	sess.UpdatedAt = time.Now().UTC()
	res, err := s.db.ExecContext(ctx,
		`UPDATE sessions SET identity = ?, answer = ?, updated_at = ? WHERE id = ?`,
		identity, string(answer), sess.UpdatedAt, sess.ID,
	)
	if err != nil {
		return fmt.Errorf("updating session: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrSessionNotFound
	}
	return nil
}

// Delete removes a session.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrSessionNotFound
	}
	return nil
}
