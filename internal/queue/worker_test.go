package queue

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"worktracker/pkg/ledger"
)

type stubLimits struct {
	limits map[string]time.Duration
	err    error
}

func (s *stubLimits) SessionLimits(ctx context.Context) (map[string]time.Duration, error) {
	return s.limits, s.err
}

type stubCloser struct {
	calls  int
	limits map[string]time.Duration
	now    time.Time
	closed int
	err    error
}

func (s *stubCloser) CloseOverdue(ctx context.Context, limits map[string]time.Duration, now time.Time) (int, error) {
	s.calls++
	s.limits = limits
	s.now = now
	return s.closed, s.err
}

type stubPurger struct {
	n   int64
	err error
}

func (s *stubPurger) Purge(ctx context.Context) (int64, error) {
	return s.n, s.err
}

func testWorker(limits LimitSource, closer OverdueCloser) *Worker {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return newWorker(nil, limits, closer, &stubPurger{n: 2}, logger)
}

func TestHandleCloseOverdue(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	limits := &stubLimits{limits: map[string]time.Duration{"u1": 8 * time.Hour}}
	closer := &stubCloser{closed: 1}
	w := testWorker(limits, closer)
	w.now = func() time.Time { return now }

	err := w.handleCloseOverdue(context.Background(), asynq.NewTask(TypeSessionCloseOverdue, nil))

	require.NoError(t, err)
	assert.Equal(t, 1, closer.calls)
	assert.Equal(t, limits.limits, closer.limits)
	assert.Equal(t, now, closer.now)
}

func TestHandleCloseOverdueNoLimits(t *testing.T) {
	closer := &stubCloser{}
	w := testWorker(&stubLimits{limits: map[string]time.Duration{}}, closer)

	err := w.handleCloseOverdue(context.Background(), asynq.NewTask(TypeSessionCloseOverdue, nil))

	require.NoError(t, err)
	assert.Zero(t, closer.calls)
}

func TestHandleCloseOverdueErrors(t *testing.T) {
	t.Run("limits", func(t *testing.T) {
		closer := &stubCloser{}
		w := testWorker(&stubLimits{err: errors.New("mongo down")}, closer)

		err := w.handleCloseOverdue(context.Background(), asynq.NewTask(TypeSessionCloseOverdue, nil))

		assert.EqualError(t, err, "mongo down")
		assert.Zero(t, closer.calls)
	})

	t.Run("close", func(t *testing.T) {
		closer := &stubCloser{err: ledger.ErrStoreWrite}
		w := testWorker(&stubLimits{limits: map[string]time.Duration{"u1": time.Hour}}, closer)

		err := w.handleCloseOverdue(context.Background(), asynq.NewTask(TypeSessionCloseOverdue, nil))

		assert.ErrorIs(t, err, ledger.ErrStoreWrite)
	})
}

func TestHandleSessionCreated(t *testing.T) {
	w := testWorker(&stubLimits{}, &stubCloser{})
	start := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

	task, err := newSessionCreatedTask(&ledger.Session{ID: "s1", UserID: "u1", Start: start, Active: true})
	require.NoError(t, err)
	assert.Equal(t, TypeSessionCreated, task.Type())

	var p sessionCreatedPayload
	require.NoError(t, json.Unmarshal(task.Payload(), &p))
	assert.Equal(t, sessionCreatedPayload{SessionID: "s1", UserID: "u1", Start: start}, p)

	assert.NoError(t, w.handleSessionCreated(context.Background(), task))
}

func TestHandleSessionCreatedBadPayload(t *testing.T) {
	w := testWorker(&stubLimits{}, &stubCloser{})

	err := w.handleSessionCreated(context.Background(), asynq.NewTask(TypeSessionCreated, []byte("{")))

	assert.Error(t, err)
}

func TestHandleSignInPurge(t *testing.T) {
	w := testWorker(&stubLimits{}, &stubCloser{})
	assert.NoError(t, w.handleSignInPurge(context.Background(), asynq.NewTask(TypeSignInPurge, nil)))

	w.signIn = &stubPurger{err: errors.New("mysql down")}
	assert.EqualError(t, w.handleSignInPurge(context.Background(), asynq.NewTask(TypeSignInPurge, nil)), "mysql down")
}
