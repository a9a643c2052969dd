package feed

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const channelPrefix = "worktracker:sessions:"

func Channel(userID string) string {
	return channelPrefix + userID
}

// Notifier announces per-user changes over Redis pub/sub. Messages carry no
// state; subscribers reload what they need.
type Notifier struct {
	client *redis.Client
	Logger *slog.Logger
}

func NewNotifier(client *redis.Client, logger *slog.Logger) *Notifier {
	return &Notifier{client: client, Logger: logger}
}

func (n *Notifier) Publish(ctx context.Context, userID string) error {
	if err := n.client.Publish(ctx, Channel(userID), time.Now().UTC().Format(time.RFC3339Nano)).Err(); err != nil {
		return fmt.Errorf("failed to publish change for %s: %w", userID, err)
	}
	return nil
}

// Subscription is a live feed for one user. It must be closed by its owner.
type Subscription struct {
	pubsub *redis.PubSub
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

// Subscribe delivers load's result once before returning, then again after
// every change notification for userID. Each delivery is a full snapshot.
// deliver is never called concurrently and never after Close returns.
func Subscribe[T any](ctx context.Context, n *Notifier, userID string, load func(context.Context) (T, error), deliver func(T)) (*Subscription, error) {
	ps := n.client.Subscribe(ctx, Channel(userID))
	if _, err := ps.Receive(ctx); err != nil {
		ps.Close()
		return nil, fmt.Errorf("failed to subscribe: %w", err)
	}

	first, err := load(ctx)
	if err != nil {
		ps.Close()
		return nil, err
	}
	deliver(first)

	ctx, cancel := context.WithCancel(ctx)
	s := &Subscription{
		pubsub: ps,
		cancel: cancel,
		done:   make(chan struct{}),
	}

	messages := ps.Channel()
	go func() {
		defer close(s.done)
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-messages:
				if !ok {
					return
				}
			}

			// collapse a burst of notifications into one reload
		drain:
			for {
				select {
				case _, ok := <-messages:
					if !ok {
						return
					}
				default:
					break drain
				}
			}

			snapshot, err := load(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				n.Logger.Warn("feed reload", "user", userID, "error", err)
				continue
			}
			if ctx.Err() != nil {
				return
			}
			deliver(snapshot)
		}
	}()

	return s, nil
}

// Done is closed once the subscription stops delivering.
func (s *Subscription) Done() <-chan struct{} {
	return s.done
}

func (s *Subscription) Close() error {
	var err error
	s.once.Do(func() {
		s.cancel()
		err = s.pubsub.Close()
		<-s.done
	})
	return err
}
