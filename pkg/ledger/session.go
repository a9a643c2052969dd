package ledger

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrNotFound           = errors.New("session not found")
	ErrActiveExists       = errors.New("an active session already exists")
	ErrInvariantViolation = errors.New("more than one active session")
	ErrStoreWrite         = errors.New("session store write failed")
)

// Session is one tracked stretch of work. Active is true exactly when End is nil.
type Session struct {
	MongoID primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	ID      string             `json:"id" bson:"-"`
	UserID  string             `json:"-" bson:"user_id"`
	Start   time.Time          `json:"start" bson:"start"`
	End     *time.Time         `json:"end,omitempty" bson:"end,omitempty"`
	Active  bool               `json:"active" bson:"active"`
	Invalid bool               `json:"invalid,omitempty" bson:"invalid,omitempty"`
}

type Repository interface {
	Create(ctx context.Context, session *Session) error
	Close(ctx context.Context, session *Session) error
	GetActive(ctx context.Context, userID string) ([]*Session, error)
	GetByUser(ctx context.Context, userID string) ([]*Session, error)
	GetInRange(ctx context.Context, userID string, from, to time.Time) ([]*Session, error)
	GetAllActive(ctx context.Context) ([]*Session, error)
}
