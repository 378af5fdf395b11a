package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	"github.com/gamepulse/randomwatch/pkg/menu"
	"github.com/gamepulse/randomwatch/pkg/npc"
	"github.com/gamepulse/randomwatch/pkg/settings"
)

// EventType represents the type of event being broadcast
type EventType string

const (
	// EventTypeSpawned is a spawn notification for the local player.
	EventTypeSpawned EventType = "event.spawned"

	// EventTypeTracked fires when the watcher starts tracking an NPC.
	EventTypeTracked EventType = "event.tracked"

	// EventTypeCleared fires when the tracked NPC despawns.
	EventTypeCleared EventType = "event.cleared"

	// EventTypeMenuSuppressed fires when a menu entry was stripped.
	EventTypeMenuSuppressed EventType = "menu.suppressed"
)

// Event represents a generic event structure
type Event struct {
	Type      EventType              `json:"type"`
	SessionID string                 `json:"session_id"`
	Data      map[string]interface{} `json:"data,omitempty"`
}

// Channel returns the pub/sub channel name for a session.
func Channel(sessionID uuid.UUID) string {
	return fmt.Sprintf("notifications:%s", sessionID.String())
}

// Broadcaster publishes watcher outcomes to Redis Pub/Sub for SSE
// distribution.
type Broadcaster struct {
	redisClient *redis.Client
	logger      *slog.Logger
}

// NewBroadcaster creates a new event broadcaster
func NewBroadcaster(redisClient *redis.Client, logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		redisClient: redisClient,
		logger:      logger,
	}
}

// PublishSpawned publishes an event.spawned notification.
func (b *Broadcaster) PublishSpawned(ctx context.Context, sessionID uuid.UUID, n settings.Notification, message string) error {
	urgency := n.Urgency
	if urgency == "" {
		urgency = settings.UrgencyNormal
	}
	event := Event{
		Type:      EventTypeSpawned,
		SessionID: sessionID.String(),
		Data: map[string]interface{}{
			"message": message,
			"urgency": urgency,
		},
	}
	return b.publish(ctx, sessionID, event)
}

// PublishTracked publishes an event.tracked event.
func (b *Broadcaster) PublishTracked(ctx context.Context, sessionID uuid.UUID, ref *npc.Ref) error {
	event := Event{
		Type:      EventTypeTracked,
		SessionID: sessionID.String(),
		Data: map[string]interface{}{
			"npc":       ref.DisplayName(),
			"npc_id":    ref.ID,
			"npc_index": ref.Index,
		},
	}
	return b.publish(ctx, sessionID, event)
}

// PublishCleared publishes an event.cleared event.
func (b *Broadcaster) PublishCleared(ctx context.Context, sessionID uuid.UUID, ref *npc.Ref) error {
	event := Event{
		Type:      EventTypeCleared,
		SessionID: sessionID.String(),
		Data: map[string]interface{}{
			"npc":       ref.DisplayName(),
			"npc_id":    ref.ID,
			"npc_index": ref.Index,
		},
	}
	return b.publish(ctx, sessionID, event)
}

// PublishMenuSuppressed publishes a menu.suppressed event.
func (b *Broadcaster) PublishMenuSuppressed(ctx context.Context, sessionID uuid.UUID, entry menu.Entry) error {
	event := Event{
		Type:      EventTypeMenuSuppressed,
		SessionID: sessionID.String(),
		Data: map[string]interface{}{
			"option": entry.Option,
			"npc":    entry.NPC.DisplayName(),
		},
	}
	return b.publish(ctx, sessionID, event)
}

// publish sends an event to the session-specific channel
func (b *Broadcaster) publish(ctx context.Context, sessionID uuid.UUID, event Event) error {
	channel := Channel(sessionID)

	data, err := json.Marshal(event)
	if err != nil {
		b.logger.Error("Failed to marshal event", "error", err, "event", event)
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := b.redisClient.Publish(ctx, channel, data).Err(); err != nil {
		b.logger.Error("Failed to publish event", "error", err, "channel", channel)
		return fmt.Errorf("failed to publish event: %w", err)
	}

	b.logger.Debug("Event published",
		"channel", channel,
		"event_type", event.Type,
	)

	return nil
}
