package user

import (
	"context"
	"log/slog"
	"time"
)

type ServiceUser interface {
	Get(ctx context.Context, id string) (*User, error)
}

type Service struct {
	Repo   Repository
	Logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{Repo: repo, Logger: logger}
}

func (s *Service) Get(ctx context.Context, id string) (*User, error) {
	return s.Repo.Get(ctx, id)
}

// OnAuthStateChanged is registered with the identity provider. On sign-in it
// creates the profile if this is the first time the user is seen.
func (s *Service) OnAuthStateChanged(ctx context.Context, u *User) {
	if u == nil {
		return
	}

	created, err := s.Repo.EnsureProfile(ctx, u)
	if err != nil {
		s.Logger.Error("ensure profile", "user", u.ID, "error", err)
		return
	}
	if created {
		s.Logger.Info("profile created", "user", u.ID)
	}
}

// SessionLimits maps user ids to their maximum session duration. Users
// without a limit are left out.
func (s *Service) SessionLimits(ctx context.Context) (map[string]time.Duration, error) {
	users, err := s.Repo.WithSessionLimit(ctx)
	if err != nil {
		return nil, err
	}

	limits := make(map[string]time.Duration, len(users))
	for _, u := range users {
		if d := u.MaxSessionDuration(); d > 0 {
			limits[u.ID] = d
		}
	}
	return limits, nil
}
