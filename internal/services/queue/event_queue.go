package queue

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/gamepulse/randomwatch/pkg/event"
)

// eventsKey is the global Redis list all client event envelopes land on.
const eventsKey = "events"

// EventQueue manages the queue of client event envelopes awaiting
// processing by a worker.
type EventQueue struct {
	client *Client
}

func NewEventQueue(client *Client) *EventQueue {
	return &EventQueue{
		client: client,
	}
}

// Enqueue adds an envelope to the end of the event queue.
func (q *EventQueue) Enqueue(ctx context.Context, env *event.Envelope) error {
	if env.EnqueuedAt.IsZero() {
		env.EnqueuedAt = time.Now()
	}

	data, err := env.ToJSON()
	if err != nil {
		return fmt.Errorf("failed to serialize envelope: %w", err)
	}

	if err := q.client.rdb.RPush(ctx, eventsKey, data).Err(); err != nil {
		return fmt.Errorf("failed to enqueue event: %w", err)
	}
	return nil
}

// Dequeue removes and returns the next envelope.
// Returns nil if the queue is empty.
func (q *EventQueue) Dequeue(ctx context.Context) (*event.Envelope, error) {
	result, err := q.client.rdb.LPop(ctx, eventsKey).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // Queue is empty
		}
		return nil, fmt.Errorf("failed to dequeue event: %w", err)
	}

	env, err := event.FromJSON([]byte(result))
	if err != nil {
		return nil, fmt.Errorf("failed to parse envelope: %w", err)
	}
	return env, nil
}

// BlockingDequeue blocks until an envelope is available or the timeout
// elapses, returning nil on timeout or cancellation.
func (q *EventQueue) BlockingDequeue(ctx context.Context, timeout time.Duration) (*event.Envelope, error) {
	result, err := q.client.rdb.BLPop(ctx, timeout, eventsKey).Result()
	if err != nil {
		if err == redis.Nil ||
			errors.Is(err, context.DeadlineExceeded) ||
			errors.Is(err, context.Canceled) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to dequeue event: %w", err)
	}

	// BLPop returns [key, value]
	if len(result) != 2 {
		return nil, fmt.Errorf("unexpected BLPOP result length: %d", len(result))
	}

	env, err := event.FromJSON([]byte(result[1]))
	if err != nil {
		return nil, fmt.Errorf("failed to parse envelope: %w", err)
	}
	return env, nil
}

// Depth returns the number of envelopes waiting on the queue.
func (q *EventQueue) Depth(ctx context.Context) (int, error) {
	count, err := q.client.rdb.LLen(ctx, eventsKey).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to get queue depth: %w", err)
	}
	return int(count), nil
}

// Clear removes all queued envelopes.
func (q *EventQueue) Clear(ctx context.Context) error {
	if err := q.client.rdb.Del(ctx, eventsKey).Err(); err != nil {
		return fmt.Errorf("failed to clear event queue: %w", err)
	}
	return nil
}
