package storage

import (
	"context"

	"github.com/google/uuid"

	"github.com/gamepulse/randomwatch/pkg/session"
	"github.com/gamepulse/randomwatch/pkg/settings"
)

// Storage persists session state and per-session watcher settings.
// Load methods return nil (not an error) when the key does not exist.
type Storage interface {
	Ping(ctx context.Context) error
	Close() error

	SaveSession(ctx context.Context, s *session.State) error
	LoadSession(ctx context.Context, id uuid.UUID) (*session.State, error)
	DeleteSession(ctx context.Context, id uuid.UUID) error

	SaveSettings(ctx context.Context, id uuid.UUID, s *settings.Settings) error
	LoadSettings(ctx context.Context, id uuid.UUID) (*settings.Settings, error)
	DeleteSettings(ctx context.Context, id uuid.UUID) error
}
