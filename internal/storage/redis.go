package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	"github.com/gamepulse/randomwatch/pkg/session"
	"github.com/gamepulse/randomwatch/pkg/settings"
)

// Sessions expire after an hour of inactivity; settings are kept until
// the session is deleted.
const sessionTTL = time.Hour

// RedisStorage implements the Storage interface using Redis.
type RedisStorage struct {
	client *redis.Client
	logger *slog.Logger
}

// Ensure RedisStorage implements Storage interface
var _ Storage = (*RedisStorage)(nil)

// NewRedisStorage creates a new Redis storage instance
func NewRedisStorage(redisAddr string, logger *slog.Logger) *RedisStorage {
	rdb := redis.NewClient(&redis.Options{
		Addr: redisAddr,
	})

	return &RedisStorage{
		client: rdb,
		logger: logger,
	}
}

func (r *RedisStorage) Ping(ctx context.Context) error {
	cmd := r.client.Ping(ctx)
	if err := cmd.Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (r *RedisStorage) Close() error {
	if err := r.client.Close(); err != nil {
		r.logger.Error("Failed to close Redis connection", "error", err)
		return err
	}
	r.logger.Info("Redis connection closed")
	return nil
}

// WaitForConnection waits for Redis to become available (used during startup)
func (r *RedisStorage) WaitForConnection(ctx context.Context) error {
	maxRetries := 30
	retryDelay := 2 * time.Second

	for i := 0; i < maxRetries; i++ {
		if err := r.Ping(ctx); err != nil {
			r.logger.Debug("Redis not ready yet", "error", err, "attempt", i+1)

			select {
			case <-ctx.Done():
				return fmt.Errorf("context cancelled while waiting for redis: %w", ctx.Err())
			case <-time.After(retryDelay):
				continue
			}
		}

		r.logger.Info("Redis connection established")
		return nil
	}

	return fmt.Errorf("redis did not become available after %d attempts", maxRetries)
}

// GetClient returns the underlying Redis client for pub/sub and locking.
func (r *RedisStorage) GetClient() *redis.Client {
	return r.client
}

func sessionKey(id uuid.UUID) string {
	return "session:" + id.String()
}

func settingsKey(id uuid.UUID) string {
	return "settings:" + id.String()
}

// Session operations

func (r *RedisStorage) SaveSession(ctx context.Context, s *session.State) error {
	s.UpdatedAt = time.Now()

	data, err := json.Marshal(s)
	if err != nil {
		r.logger.Error("Failed to marshal session", "uuid", s.ID, "error", err)
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	cmd := r.client.Set(ctx, sessionKey(s.ID), string(data), sessionTTL)
	if err := cmd.Err(); err != nil {
		r.logger.Error("Failed to save session", "uuid", s.ID, "error", err)
		return fmt.Errorf("failed to save session: %w", err)
	}

	return nil
}

func (r *RedisStorage) LoadSession(ctx context.Context, id uuid.UUID) (*session.State, error) {
	cmd := r.client.Get(ctx, sessionKey(id))
	if err := cmd.Err(); err != nil {
		if err == redis.Nil {
			r.logger.Warn("Session not found", "uuid", id)
			return nil, nil // Return nil for not found
		}
		r.logger.Error("Failed to load session", "uuid", id, "error", err)
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	var s session.State
	if err := json.Unmarshal([]byte(cmd.Val()), &s); err != nil {
		r.logger.Error("Failed to unmarshal session", "uuid", id, "error", err)
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	return &s, nil
}

func (r *RedisStorage) DeleteSession(ctx context.Context, id uuid.UUID) error {
	cmd := r.client.Del(ctx, sessionKey(id))
	if err := cmd.Err(); err != nil {
		r.logger.Error("Failed to delete session", "uuid", id, "error", err)
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// Settings operations

func (r *RedisStorage) SaveSettings(ctx context.Context, id uuid.UUID, s *settings.Settings) error {
	data, err := json.Marshal(s)
	if err != nil {
		r.logger.Error("Failed to marshal settings", "uuid", id, "error", err)
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	cmd := r.client.Set(ctx, settingsKey(id), string(data), 0)
	if err := cmd.Err(); err != nil {
		r.logger.Error("Failed to save settings", "uuid", id, "error", err)
		return fmt.Errorf("failed to save settings: %w", err)
	}

	return nil
}

func (r *RedisStorage) LoadSettings(ctx context.Context, id uuid.UUID) (*settings.Settings, error) {
	cmd := r.client.Get(ctx, settingsKey(id))
	if err := cmd.Err(); err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		r.logger.Error("Failed to load settings", "uuid", id, "error", err)
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	var s settings.Settings
	if err := json.Unmarshal([]byte(cmd.Val()), &s); err != nil {
		r.logger.Error("Failed to unmarshal settings", "uuid", id, "error", err)
		return nil, fmt.Errorf("failed to unmarshal settings: %w", err)
	}

	return &s, nil
}

func (r *RedisStorage) DeleteSettings(ctx context.Context, id uuid.UUID) error {
	cmd := r.client.Del(ctx, settingsKey(id))
	if err := cmd.Err(); err != nil {
		r.logger.Error("Failed to delete settings", "uuid", id, "error", err)
		return fmt.Errorf("failed to delete settings: %w", err)
	}
	return nil
}
