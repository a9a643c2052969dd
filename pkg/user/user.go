package user

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("user not found")

// User is the profile stored for an identity. ID is the identity provider's
// subject and doubles as the document id.
type User struct {
	ID                string `json:"id" bson:"_id"`
	DisplayName       string `json:"displayName" bson:"name"`
	Email             string `json:"email" bson:"email"`
	MaxSessionMinutes int    `json:"maxSessionMinutes,omitempty" bson:"max_session_minutes,omitempty"`
}

func (u *User) MaxSessionDuration() time.Duration {
	return time.Duration(u.MaxSessionMinutes) * time.Minute
}

type Repository interface {
	EnsureProfile(ctx context.Context, user *User) (bool, error)
	Get(ctx context.Context, id string) (*User, error)
	WithSessionLimit(ctx context.Context) ([]*User, error)
}
