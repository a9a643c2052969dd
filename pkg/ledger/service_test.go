package ledger_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"worktracker/pkg/ledger"
	"worktracker/pkg/ledger/mocks"
)

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

type mockEnqueuer struct {
	mock.Mock
}

func (m *mockEnqueuer) EnqueueSessionCreated(ctx context.Context, session *ledger.Session) error {
	return m.Called(ctx, session).Error(0)
}

var (
	ctx   = context.Background()
	fixed = time.Date(2021, 11, 5, 12, 0, 0, 0, time.UTC)
)

func newService(t *testing.T) (*ledger.Service, *mocks.RepoSession, *mockPublisher, *mockEnqueuer) {
	repo := mocks.NewRepoSession(t)
	pub := new(mockPublisher)
	enq := new(mockEnqueuer)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	service := ledger.NewService(repo, pub, enq, logger)
	service.Now = func() time.Time { return fixed }
	return service, repo, pub, enq
}

func TestServiceToggle(t *testing.T) {
	t.Run("start", func(t *testing.T) {
		service, repo, pub, enq := newService(t)

		repo.On("GetActive", ctx, "u1").Return(nil, nil).Once()
		repo.On("Create", ctx, mock.MatchedBy(func(s *ledger.Session) bool {
			return s.UserID == "u1" && s.Active && s.End == nil && s.Start.Equal(fixed)
		})).Return(nil).Once()
		enq.On("EnqueueSessionCreated", ctx, mock.AnythingOfType("*ledger.Session")).Return(nil).Once()
		pub.On("Publish", ctx, "u1").Return(nil).Once()

		session, err := service.Toggle(ctx, "u1")

		require.NoError(t, err)
		assert.True(t, session.Active)
		pub.AssertExpectations(t)
		enq.AssertExpectations(t)
	})

	t.Run("stop", func(t *testing.T) {
		service, repo, pub, _ := newService(t)
		active := &ledger.Session{ID: "s1", UserID: "u1", Start: fixed.Add(-time.Hour), Active: true}

		repo.On("GetActive", ctx, "u1").Return([]*ledger.Session{active}, nil).Once()
		repo.On("Close", ctx, mock.MatchedBy(func(s *ledger.Session) bool {
			return s.ID == "s1" && !s.Active && s.End != nil && s.End.Equal(fixed)
		})).Return(nil).Once()
		pub.On("Publish", ctx, "u1").Return(nil).Once()

		session, err := service.Toggle(ctx, "u1")

		require.NoError(t, err)
		assert.False(t, session.Active)
		pub.AssertExpectations(t)
	})

	t.Run("retries once on a lost race", func(t *testing.T) {
		service, repo, pub, _ := newService(t)
		winner := &ledger.Session{ID: "s2", UserID: "u1", Start: fixed, Active: true}

		repo.On("GetActive", ctx, "u1").Return(nil, nil).Once()
		repo.On("Create", ctx, mock.AnythingOfType("*ledger.Session")).Return(ledger.ErrActiveExists).Once()
		repo.On("GetActive", ctx, "u1").Return([]*ledger.Session{winner}, nil).Once()
		repo.On("Close", ctx, mock.MatchedBy(func(s *ledger.Session) bool { return s.ID == "s2" })).Return(nil).Once()
		pub.On("Publish", ctx, "u1").Return(nil).Once()

		session, err := service.Toggle(ctx, "u1")

		require.NoError(t, err)
		assert.Equal(t, "s2", session.ID)
		assert.False(t, session.Active)
	})

	t.Run("closes stale sessions first", func(t *testing.T) {
		service, repo, pub, _ := newService(t)
		older := &ledger.Session{ID: "old", UserID: "u1", Start: fixed.Add(-3 * time.Hour), Active: true}
		newer := &ledger.Session{ID: "new", UserID: "u1", Start: fixed.Add(-time.Hour), Active: true}

		repo.On("GetActive", ctx, "u1").Return([]*ledger.Session{older, newer}, nil).Once()
		repo.On("Close", ctx, mock.MatchedBy(func(s *ledger.Session) bool { return s.ID == "old" })).Return(nil).Once()
		repo.On("Close", ctx, mock.MatchedBy(func(s *ledger.Session) bool { return s.ID == "new" })).Return(nil).Once()
		pub.On("Publish", ctx, "u1").Return(nil).Once()

		session, err := service.Toggle(ctx, "u1")

		require.NoError(t, err)
		assert.Equal(t, "new", session.ID)
	})

	t.Run("store write error", func(t *testing.T) {
		service, repo, pub, _ := newService(t)

		repo.On("GetActive", ctx, "u1").Return(nil, nil).Once()
		repo.On("Create", ctx, mock.AnythingOfType("*ledger.Session")).Return(ledger.ErrStoreWrite).Once()

		session, err := service.Toggle(ctx, "u1")

		assert.ErrorIs(t, err, ledger.ErrStoreWrite)
		assert.Nil(t, session)
		pub.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
	})

	t.Run("feed error is not fatal", func(t *testing.T) {
		service, repo, pub, enq := newService(t)

		repo.On("GetActive", ctx, "u1").Return(nil, nil).Once()
		repo.On("Create", ctx, mock.AnythingOfType("*ledger.Session")).Return(nil).Once()
		enq.On("EnqueueSessionCreated", ctx, mock.AnythingOfType("*ledger.Session")).Return(errors.New("redis down")).Once()
		pub.On("Publish", ctx, "u1").Return(errors.New("redis down")).Once()

		session, err := service.Toggle(ctx, "u1")

		assert.NoError(t, err)
		assert.NotNil(t, session)
	})
}

func TestServiceList(t *testing.T) {
	service, repo, _, _ := newService(t)
	active := &ledger.Session{ID: "a", Start: fixed.Add(-48 * time.Hour), Active: true}
	end := fixed.Add(-time.Hour)
	done := &ledger.Session{ID: "b", Start: fixed.Add(-2 * time.Hour), End: &end}

	repo.On("GetByUser", ctx, "u1").Return([]*ledger.Session{done, active}, nil).Once()

	sessions, err := service.List(ctx, "u1")

	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, "a", sessions[0].ID)
}

func TestServiceWorkedHours(t *testing.T) {
	from := time.Date(2021, 11, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2021, 11, 29, 0, 0, 0, 0, time.UTC)

	t.Run("sums range", func(t *testing.T) {
		service, repo, _, _ := newService(t)
		start := time.Date(2021, 11, 5, 9, 0, 0, 0, time.UTC)
		end := start.Add(8*time.Hour + 30*time.Minute)

		repo.On("GetInRange", ctx, "u1", from, to).
			Return([]*ledger.Session{{Start: start, End: &end}}, nil).Once()

		hours, err := service.WorkedHours(ctx, "u1", from, to)

		require.NoError(t, err)
		assert.True(t, decimal.RequireFromString("8.5").Equal(hours))
	})

	t.Run("inverted range skips the store", func(t *testing.T) {
		service, _, _, _ := newService(t)

		hours, err := service.WorkedHours(ctx, "u1", to, from)

		require.NoError(t, err)
		assert.True(t, hours.IsZero())
	})

	t.Run("query error", func(t *testing.T) {
		service, repo, _, _ := newService(t)

		repo.On("GetInRange", ctx, "u1", from, to).Return(nil, errors.New("mongo_err")).Once()

		_, err := service.WorkedHours(ctx, "u1", from, to)

		assert.Error(t, err)
	})
}

func TestServiceCloseOverdue(t *testing.T) {
	service, repo, pub, _ := newService(t)
	overdue := &ledger.Session{ID: "late", UserID: "u1", Start: fixed.Add(-10 * time.Hour), Active: true}
	fresh := &ledger.Session{ID: "fresh", UserID: "u2", Start: fixed.Add(-time.Hour), Active: true}

	repo.On("GetActive", ctx, "u1").Return([]*ledger.Session{overdue}, nil).Once()
	repo.On("GetActive", ctx, "u2").Return([]*ledger.Session{fresh}, nil).Once()
	repo.On("Close", ctx, mock.MatchedBy(func(s *ledger.Session) bool {
		return s.ID == "late" && s.Invalid && !s.Active && s.End.Equal(fixed.Add(-2*time.Hour))
	})).Return(nil).Once()
	pub.On("Publish", ctx, "u1").Return(nil).Once()

	closed, err := service.CloseOverdue(ctx, map[string]time.Duration{
		"u1": 8 * time.Hour,
		"u2": 8 * time.Hour,
		"u3": 0,
	}, fixed)

	require.NoError(t, err)
	assert.Equal(t, 1, closed)
	pub.AssertExpectations(t)
}

func TestServiceOpenSessions(t *testing.T) {
	service, repo, _, _ := newService(t)
	open := []*ledger.Session{{ID: "x", UserID: "u1", Active: true}}

	repo.On("GetAllActive", ctx).Return(open, nil).Once()

	sessions, err := service.OpenSessions(ctx)

	require.NoError(t, err)
	assert.Equal(t, open, sessions)
}
