package authsession

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type MySQLRepo struct {
	DB  *sql.DB
	Now func() time.Time
}

func NewMySQLRepo(db *sql.DB) *MySQLRepo {
	return &MySQLRepo{DB: db, Now: time.Now}
}

func (r *MySQLRepo) Create(ctx context.Context, userID string, ttl time.Duration) (*Session, error) {
	now := r.Now().UTC()
	s := &Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}

	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO sessions (id, user_id, created_at, expires_at)
		VALUES (?, ?, ?, ?)
	`, s.ID, s.UserID, s.CreatedAt, s.ExpiresAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create sign-in session: %w", err)
	}

	return s, nil
}

func (r *MySQLRepo) IsValid(ctx context.Context, sessionID, userID string) (bool, error) {
	var exists bool
	err := r.DB.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM sessions
			WHERE id = ? AND user_id = ? AND expires_at > ?
		)
	`, sessionID, userID, r.Now().UTC()).Scan(&exists)
	return exists, err
}

// Invalidate drops every sign-in session of the user.
func (r *MySQLRepo) Invalidate(ctx context.Context, userID string) error {
	_, err := r.DB.ExecContext(ctx, `
		DELETE FROM sessions WHERE user_id = ?
	`, userID)
	return err
}

// Purge removes expired rows.
func (r *MySQLRepo) Purge(ctx context.Context) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `
		DELETE FROM sessions WHERE expires_at <= ?
	`, r.Now().UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
