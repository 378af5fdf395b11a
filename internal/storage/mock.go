package storage

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/gamepulse/randomwatch/pkg/session"
	"github.com/gamepulse/randomwatch/pkg/settings"
)

// MockStorage is a mock implementation of Storage for testing
type MockStorage struct {
	mu        sync.RWMutex
	sessions  map[uuid.UUID]*session.State
	settings  map[uuid.UUID]*settings.Settings
	pingError error
}

// Ensure MockStorage implements Storage interface
var _ Storage = (*MockStorage)(nil)

// NewMockStorage creates a new mock storage
func NewMockStorage() *MockStorage {
	return &MockStorage{
		sessions: make(map[uuid.UUID]*session.State),
		settings: make(map[uuid.UUID]*settings.Settings),
	}
}

// SetPingError configures the mock to fail on ping with the given error
func (m *MockStorage) SetPingError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pingError = err
}

func (m *MockStorage) Ping(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.pingError
}

func (m *MockStorage) Close() error {
	return nil
}

func (m *MockStorage) SaveSession(ctx context.Context, s *session.State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = s
	return nil
}

func (m *MockStorage) LoadSession(ctx context.Context, id uuid.UUID) (*session.State, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sessions[id], nil
}

func (m *MockStorage) DeleteSession(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

func (m *MockStorage) SaveSettings(ctx context.Context, id uuid.UUID, s *settings.Settings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings[id] = s
	return nil
}

func (m *MockStorage) LoadSettings(ctx context.Context, id uuid.UUID) (*settings.Settings, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.settings[id], nil
}

func (m *MockStorage) DeleteSettings(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.settings, id)
	return nil
}
