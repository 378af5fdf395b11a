package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	"github.com/gamepulse/randomwatch/internal/services/events"
	"github.com/gamepulse/randomwatch/internal/services/queue"
	"github.com/gamepulse/randomwatch/internal/storage"
	"github.com/gamepulse/randomwatch/pkg/event"
	"github.com/gamepulse/randomwatch/pkg/settings"
	"github.com/gamepulse/randomwatch/pkg/watcher"
)

const (
	workerTimeout = 5 * time.Second
	lockTTL       = 30 * time.Second
)

// Worker drains the event queue and runs each envelope through the
// session's watcher.
type Worker struct {
	id          string
	queue       *queue.EventQueue
	store       storage.Storage
	broadcaster *events.Broadcaster
	redisClient *redis.Client
	log         *slog.Logger
	ctx         context.Context
	cancel      context.CancelFunc
}

// New creates a new worker instance
func New(eventQueue *queue.EventQueue, store storage.Storage, redisClient *redis.Client, log *slog.Logger, workerID string) *Worker {
	ctx, cancel := context.WithCancel(context.Background())

	if workerID == "" {
		workerID = fmt.Sprintf("worker-%s", uuid.New().String()[:8])
	}

	return &Worker{
		id:          workerID,
		queue:       eventQueue,
		store:       store,
		broadcaster: events.NewBroadcaster(redisClient, log),
		redisClient: redisClient,
		log:         log,
		ctx:         ctx,
		cancel:      cancel,
	}
}

// Start begins processing events from the queue
func (w *Worker) Start() error {
	w.log.Info("Worker starting", "worker_id", w.id)

	for {
		select {
		case <-w.ctx.Done():
			w.log.Info("Worker shutting down", "worker_id", w.id)
			return nil
		default:
			if err := w.processNextEvent(); err != nil {
				w.log.Error("Error processing event", "error", err, "worker_id", w.id)
				// Continue processing even on error
				time.Sleep(1 * time.Second)
			}
		}
	}
}

// Stop gracefully shuts down the worker
func (w *Worker) Stop() {
	w.log.Info("Worker stop requested", "worker_id", w.id)
	w.cancel()
}

// processNextEvent pulls the next envelope from the queue and processes it
func (w *Worker) processNextEvent() error {
	// Block waiting for the next envelope (timeout to check for shutdown)
	ctx, cancel := context.WithTimeout(w.ctx, workerTimeout)
	defer cancel()

	env, err := w.queue.BlockingDequeue(ctx, workerTimeout)
	if err != nil {
		return fmt.Errorf("failed to dequeue event: %w", err)
	}
	if env == nil {
		// Queue is empty or timeout occurred - this is normal
		return nil
	}

	// Serialize processing per session across workers
	locked, err := w.acquireSessionLock(env.SessionID)
	if err != nil {
		return fmt.Errorf("failed to acquire session lock: %w", err)
	}
	if !locked {
		// Another worker owns this session; re-queue and move on.
		// Event order within the session is preserved because the
		// owning worker drains before releasing.
		w.log.Info("Session already locked, re-queueing event",
			"worker_id", w.id,
			"session_id", env.SessionID.String(),
			"type", env.Type,
		)
		if err := w.queue.Enqueue(w.ctx, env); err != nil {
			return fmt.Errorf("failed to re-queue event: %w", err)
		}
		return nil
	}

	defer w.releaseSessionLock(env.SessionID)
	return w.processEvent(env)
}

// acquireSessionLock attempts to acquire a lock for a session.
// Returns true if the lock was acquired, false if already locked.
func (w *Worker) acquireSessionLock(sessionID uuid.UUID) (bool, error) {
	lockKey := fmt.Sprintf("session-lock:%s", sessionID.String())

	result, err := w.redisClient.SetNX(w.ctx, lockKey, w.id, lockTTL).Result()
	if err != nil {
		return false, err
	}
	return result, nil
}

// releaseSessionLock releases the lock for a session
func (w *Worker) releaseSessionLock(sessionID uuid.UUID) {
	lockKey := fmt.Sprintf("session-lock:%s", sessionID.String())

	// Only delete if we own the lock
	script := redis.NewScript(`
		if redis.call("get", KEYS[1]) == ARGV[1] then
			return redis.call("del", KEYS[1])
		else
			return 0
		end
	`)

	if err := script.Run(w.ctx, w.redisClient, []string{lockKey}, w.id).Err(); err != nil {
		w.log.Error("Failed to release session lock", "error", err, "session_id", sessionID.String())
	}
}

// processEvent runs a single envelope through the session's watcher and
// publishes the outcomes.
func (w *Worker) processEvent(env *event.Envelope) error {
	w.log.Debug("Processing event",
		"worker_id", w.id,
		"session_id", env.SessionID.String(),
		"type", env.Type,
		"tick", env.Tick,
	)

	sess, err := w.store.LoadSession(w.ctx, env.SessionID)
	if err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}
	if sess == nil {
		// Expired or never existed; drop silently.
		w.log.Warn("Dropping event for unknown session", "session_id", env.SessionID.String())
		return nil
	}

	sets, err := w.store.LoadSettings(w.ctx, env.SessionID)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}
	if sets == nil {
		sets = settings.Default()
	}

	prevTracked := sess.Watcher.Tracked
	sess.Apply(env)
	prevMenuLen := len(sess.Menu)

	notifier := &broadcastNotifier{
		ctx:         w.ctx,
		broadcaster: w.broadcaster,
		sessionID:   sess.ID,
		log:         w.log,
	}

	wt := watcher.New(sess, notifier, sets, w.log)
	wt.Restore(sess.Watcher)
	wt.Handle(env)
	sess.Watcher = wt.State()

	// Publish state transitions. Event publishing failures are logged
	// but do not fail the event.
	cur := sess.Watcher.Tracked
	if cur != nil && !cur.Same(prevTracked) {
		if err := w.broadcaster.PublishTracked(w.ctx, sess.ID, cur); err != nil {
			w.log.Error("Failed to publish tracked event", "error", err)
		}
	}
	if prevTracked != nil && cur == nil {
		if err := w.broadcaster.PublishCleared(w.ctx, sess.ID, prevTracked); err != nil {
			w.log.Error("Failed to publish cleared event", "error", err)
		}
	}
	if env.Type == event.TypeMenuEntryAdded && len(sess.Menu) < prevMenuLen {
		if err := w.broadcaster.PublishMenuSuppressed(w.ctx, sess.ID, env.MenuEntry.Entry); err != nil {
			w.log.Error("Failed to publish menu suppression", "error", err)
		}
	}

	if err := w.store.SaveSession(w.ctx, sess); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// broadcastNotifier forwards watcher notifications to the pub/sub
// broadcaster. Delivery honors the routed setting's enabled flag.
type broadcastNotifier struct {
	ctx         context.Context
	broadcaster *events.Broadcaster
	sessionID   uuid.UUID
	log         *slog.Logger
}

func (n *broadcastNotifier) Notify(setting settings.Notification, message string) {
	if !setting.Enabled {
		n.log.Debug("Notification disabled by settings", "session_id", n.sessionID.String())
		return
	}
	if err := n.broadcaster.PublishSpawned(n.ctx, n.sessionID, setting, message); err != nil {
		n.log.Error("Failed to publish notification", "error", err)
	}
}
