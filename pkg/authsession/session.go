package authsession

import (
	"context"
	"time"
)

// Session is the server-side record behind an issued bearer token.
type Session struct {
	ID        string
	UserID    string
	CreatedAt time.Time
	ExpiresAt time.Time
}

type Repository interface {
	Create(ctx context.Context, userID string, ttl time.Duration) (*Session, error)
	IsValid(ctx context.Context, sessionID, userID string) (bool, error)
	Invalidate(ctx context.Context, userID string) error
}
