package queue

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
)

// Scheduler periodically enqueues the overdue session sweep and the
// sign-in purge.
type Scheduler struct {
	scheduler *asynq.Scheduler
	log       *slog.Logger
}

func NewScheduler(redisOpt asynq.RedisClientOpt, cronspec string, log *slog.Logger) (*Scheduler, error) {
	s := asynq.NewScheduler(redisOpt, &asynq.SchedulerOpts{
		Location: time.UTC,
		LogLevel: asynq.WarnLevel,
	})

	for _, typename := range []string{TypeSessionCloseOverdue, TypeSignInPurge} {
		task := asynq.NewTask(typename, nil, asynq.MaxRetry(0), asynq.Unique(time.Minute))
		id, err := s.Register(cronspec, task)
		if err != nil {
			return nil, fmt.Errorf("invalid cleanup schedule %q: %w", cronspec, err)
		}
		log.Info("task scheduled", "task", typename, "entry", id, "schedule", cronspec)
	}

	return &Scheduler{scheduler: s, log: log}, nil
}

// Run blocks until shutdown.
func (s *Scheduler) Run() error {
	return s.scheduler.Run()
}

func (s *Scheduler) Shutdown() {
	s.scheduler.Shutdown()
}
