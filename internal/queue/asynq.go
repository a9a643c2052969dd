package queue

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"worktracker/pkg/ledger"
)

const (
	TypeSessionCreated      = "session:created"
	TypeSessionCloseOverdue = "session:close-overdue"
	TypeSignInPurge         = "signin:purge"
)

type sessionCreatedPayload struct {
	SessionID string    `json:"session_id"`
	UserID    string    `json:"user_id"`
	Start     time.Time `json:"start"`
}

type TaskEnqueuer struct {
	client *asynq.Client
	log    *slog.Logger
}

func NewAsynqEnqueuer(redisOpt asynq.RedisClientOpt, log *slog.Logger) *TaskEnqueuer {
	return &TaskEnqueuer{client: asynq.NewClient(redisOpt), log: log}
}

func (q *TaskEnqueuer) Close() error {
	return q.client.Close()
}

func (q *TaskEnqueuer) EnqueueSessionCreated(ctx context.Context, session *ledger.Session) error {
	task, err := newSessionCreatedTask(session)
	if err != nil {
		return err
	}
	if _, err := q.client.EnqueueContext(ctx, task); err != nil {
		q.log.Warn("enqueue session created failed", "session", session.ID, "error", err)
		return err
	}
	return nil
}

func newSessionCreatedTask(session *ledger.Session) (*asynq.Task, error) {
	payload, err := json.Marshal(sessionCreatedPayload{
		SessionID: session.ID,
		UserID:    session.UserID,
		Start:     session.Start,
	})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeSessionCreated, payload, asynq.MaxRetry(3)), nil
}

var _ ledger.Enqueuer = (*TaskEnqueuer)(nil)
