package queue

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
)

const closeOverdueTimeout = time.Minute

// LimitSource reports the maximum session duration per user.
type LimitSource interface {
	SessionLimits(ctx context.Context) (map[string]time.Duration, error)
}

// Purger drops expired sign-in sessions.
type Purger interface {
	Purge(ctx context.Context) (int64, error)
}

type OverdueCloser interface {
	CloseOverdue(ctx context.Context, limits map[string]time.Duration, now time.Time) (int, error)
}

// Worker runs the asynq task handlers.
type Worker struct {
	srv    *asynq.Server
	mux    *asynq.ServeMux
	log    *slog.Logger
	limits LimitSource
	ledger OverdueCloser
	signIn Purger
	now    func() time.Time
}

// NewWorker creates the asynq server and registers handlers. Call Run to start.
func NewWorker(redisOpt asynq.RedisClientOpt, limits LimitSource, ledger OverdueCloser, signIn Purger, log *slog.Logger) *Worker {
	srv := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: 2,
		LogLevel:    asynq.WarnLevel,
	})
	return newWorker(srv, limits, ledger, signIn, log)
}

func newWorker(srv *asynq.Server, limits LimitSource, ledger OverdueCloser, signIn Purger, log *slog.Logger) *Worker {
	w := &Worker{
		srv:    srv,
		mux:    asynq.NewServeMux(),
		log:    log,
		limits: limits,
		ledger: ledger,
		signIn: signIn,
		now:    time.Now,
	}
	w.mux.HandleFunc(TypeSessionCreated, w.handleSessionCreated)
	w.mux.HandleFunc(TypeSessionCloseOverdue, w.handleCloseOverdue)
	w.mux.HandleFunc(TypeSignInPurge, w.handleSignInPurge)
	return w
}

func (w *Worker) handleSessionCreated(ctx context.Context, t *asynq.Task) error {
	var p sessionCreatedPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		w.log.Error("session created payload invalid", "error", err)
		return err
	}
	w.log.Info("session started",
		slog.String("session", p.SessionID),
		slog.String("user", p.UserID),
		slog.Time("start", p.Start))
	return nil
}

func (w *Worker) handleCloseOverdue(ctx context.Context, t *asynq.Task) error {
	ctx, cancel := context.WithTimeout(ctx, closeOverdueTimeout)
	defer cancel()

	limits, err := w.limits.SessionLimits(ctx)
	if err != nil {
		w.log.Error("load session limits", "error", err)
		return err
	}
	if len(limits) == 0 {
		return nil
	}

	closed, err := w.ledger.CloseOverdue(ctx, limits, w.now().UTC())
	if err != nil {
		w.log.Error("close overdue sessions", "closed", closed, "error", err)
		return err
	}
	if closed > 0 {
		w.log.Info("overdue sessions closed", "count", closed)
	}
	return nil
}

func (w *Worker) handleSignInPurge(ctx context.Context, t *asynq.Task) error {
	n, err := w.signIn.Purge(ctx)
	if err != nil {
		w.log.Error("purge sign-in sessions", "error", err)
		return err
	}
	w.log.Debug("expired sign-in sessions purged", "count", n)
	return nil
}

// Run blocks until shutdown.
func (w *Worker) Run() error {
	return w.srv.Run(w.mux)
}

func (w *Worker) Shutdown() {
	w.srv.Shutdown()
}
