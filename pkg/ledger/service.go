package ledger

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
)

type ServiceSession interface {
	Toggle(ctx context.Context, userID string) (*Session, error)
	List(ctx context.Context, userID string) ([]*Session, error)
	WorkedHours(ctx context.Context, userID string, from, to time.Time) (decimal.Decimal, error)
	OpenSessions(ctx context.Context) ([]*Session, error)
}

// Publisher announces that a user's sessions changed.
type Publisher interface {
	Publish(ctx context.Context, userID string) error
}

// Enqueuer hands newly started sessions to background processing.
type Enqueuer interface {
	EnqueueSessionCreated(ctx context.Context, session *Session) error
}

type Service struct {
	Repo   Repository
	Feed   Publisher
	Events Enqueuer
	Logger *slog.Logger
	Now    func() time.Time
}

func NewService(repo Repository, feed Publisher, events Enqueuer, logger *slog.Logger) *Service {
	return &Service{
		Repo:   repo,
		Feed:   feed,
		Events: events,
		Logger: logger,
		Now:    time.Now,
	}
}

// Toggle starts or stops tracking for the user. A conflicting concurrent
// write shows up as ErrActiveExists or ErrNotFound; the toggle is then
// replayed once against fresh state.
func (s *Service) Toggle(ctx context.Context, userID string) (*Session, error) {
	session, err := s.toggle(ctx, userID)
	if errors.Is(err, ErrActiveExists) || errors.Is(err, ErrNotFound) {
		s.Logger.Warn("toggle raced with another write, retrying", "user", userID, "error", err)
		session, err = s.toggle(ctx, userID)
	}
	if err != nil {
		return nil, err
	}

	s.notify(ctx, userID)
	return session, nil
}

func (s *Service) toggle(ctx context.Context, userID string) (*Session, error) {
	active, err := s.Repo.GetActive(ctx, userID)
	if err != nil {
		return nil, err
	}

	t := Toggle(active, s.Now().UTC())

	if len(t.Stale) > 0 {
		s.Logger.Warn("closing extra active sessions", "user", userID, "count", len(t.Stale), "error", ErrInvariantViolation)
		for _, stale := range t.Stale {
			if err := s.Repo.Close(ctx, stale); err != nil && !errors.Is(err, ErrNotFound) {
				return nil, err
			}
		}
	}

	if t.Started != nil {
		t.Started.UserID = userID
		if err := s.Repo.Create(ctx, t.Started); err != nil {
			return nil, err
		}
		if s.Events != nil {
			if err := s.Events.EnqueueSessionCreated(ctx, t.Started); err != nil {
				s.Logger.Warn("enqueue session created", "session", t.Started.ID, "error", err)
			}
		}
		return t.Started, nil
	}

	if err := s.Repo.Close(ctx, t.Stopped); err != nil {
		return nil, err
	}
	return t.Stopped, nil
}

func (s *Service) List(ctx context.Context, userID string) ([]*Session, error) {
	sessions, err := s.Repo.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return OrderedView(sessions), nil
}

func (s *Service) WorkedHours(ctx context.Context, userID string, from, to time.Time) (decimal.Decimal, error) {
	if to.Before(from) {
		return decimal.Zero, nil
	}

	sessions, err := s.Repo.GetInRange(ctx, userID, from, to)
	if err != nil {
		return decimal.Zero, err
	}
	return WorkedHours(sessions, from, to), nil
}

func (s *Service) OpenSessions(ctx context.Context) ([]*Session, error) {
	return s.Repo.GetAllActive(ctx)
}

// CloseOverdue closes every active session that has run longer than its
// owner's limit. The end is capped at start+limit and the session is marked
// invalid. Users with a non-positive limit are skipped.
func (s *Service) CloseOverdue(ctx context.Context, limits map[string]time.Duration, now time.Time) (int, error) {
	closed := 0
	for userID, limit := range limits {
		if limit <= 0 {
			continue
		}

		active, err := s.Repo.GetActive(ctx, userID)
		if err != nil {
			return closed, err
		}

		changed := false
		for _, session := range active {
			if now.Sub(session.Start) <= limit {
				continue
			}
			end := session.Start.Add(limit)
			session.End = &end
			session.Active = false
			session.Invalid = true

			if err := s.Repo.Close(ctx, session); err != nil {
				if errors.Is(err, ErrNotFound) {
					continue
				}
				return closed, err
			}
			s.Logger.Info("closed overdue session", "user", userID, "session", session.ID, "limit", limit.String())
			closed++
			changed = true
		}

		if changed {
			s.notify(ctx, userID)
		}
	}
	return closed, nil
}

func (s *Service) notify(ctx context.Context, userID string) {
	if s.Feed == nil {
		return
	}
	if err := s.Feed.Publish(ctx, userID); err != nil {
		s.Logger.Warn("publish session change", "user", userID, "error", err)
	}
}
