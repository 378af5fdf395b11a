package storage

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"

	"github.com/gamepulse/randomwatch/pkg/npc"
	"github.com/gamepulse/randomwatch/pkg/session"
	"github.com/gamepulse/randomwatch/pkg/settings"
)

func setupTestStorage(t *testing.T) (*RedisStorage, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	return NewRedisStorage(mr.Addr(), logger), mr
}

func TestRedisStorage_SessionRoundTrip(t *testing.T) {
	store, mr := setupTestStorage(t)
	defer mr.Close()
	defer store.Close()

	ctx := context.Background()

	s := session.New("Zezima")
	s.Tick = 77
	s.Watcher.Tracked = &npc.Ref{ID: npc.Genie, Index: 42, Name: "Genie"}

	if err := store.SaveSession(ctx, s); err != nil {
		t.Fatalf("Failed to save session: %v", err)
	}

	loaded, err := store.LoadSession(ctx, s.ID)
	if err != nil {
		t.Fatalf("Failed to load session: %v", err)
	}
	if loaded == nil {
		t.Fatal("Expected a session, got nil")
	}
	if loaded.Player != "Zezima" || loaded.Tick != 77 {
		t.Errorf("Session mismatch: %+v", loaded)
	}
	if loaded.Watcher.Tracked == nil || loaded.Watcher.Tracked.Index != 42 {
		t.Errorf("Watcher state mismatch: %+v", loaded.Watcher)
	}

	if err := store.DeleteSession(ctx, s.ID); err != nil {
		t.Fatalf("Failed to delete session: %v", err)
	}
	loaded, err = store.LoadSession(ctx, s.ID)
	if err != nil {
		t.Fatalf("Load after delete failed: %v", err)
	}
	if loaded != nil {
		t.Error("Expected nil after delete")
	}
}

func TestRedisStorage_SessionNotFound(t *testing.T) {
	store, mr := setupTestStorage(t)
	defer mr.Close()
	defer store.Close()

	loaded, err := store.LoadSession(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if loaded != nil {
		t.Error("Expected nil for a missing session")
	}
}

func TestRedisStorage_SettingsRoundTrip(t *testing.T) {
	store, mr := setupTestStorage(t)
	defer mr.Close()
	defer store.Close()

	ctx := context.Background()
	id := uuid.New()

	sets := settings.Default()
	sets.Genie = settings.Notification{Enabled: true, Urgency: settings.UrgencyUrgent}
	sets.RemoveMenuOptions = false

	if err := store.SaveSettings(ctx, id, sets); err != nil {
		t.Fatalf("Failed to save settings: %v", err)
	}

	loaded, err := store.LoadSettings(ctx, id)
	if err != nil {
		t.Fatalf("Failed to load settings: %v", err)
	}
	if loaded == nil {
		t.Fatal("Expected settings, got nil")
	}
	if !loaded.Genie.Enabled || loaded.Genie.Urgency != settings.UrgencyUrgent {
		t.Errorf("Genie setting mismatch: %+v", loaded.Genie)
	}
	if loaded.RemoveMenuOptions {
		t.Error("Expected menu suppression disabled")
	}

	if err := store.DeleteSettings(ctx, id); err != nil {
		t.Fatalf("Failed to delete settings: %v", err)
	}
	loaded, err = store.LoadSettings(ctx, id)
	if err != nil {
		t.Fatalf("Load after delete failed: %v", err)
	}
	if loaded != nil {
		t.Error("Expected nil after delete")
	}
}

func TestRedisStorage_Ping(t *testing.T) {
	store, mr := setupTestStorage(t)
	defer store.Close()

	if err := store.Ping(context.Background()); err != nil {
		t.Errorf("Expected ping to succeed: %v", err)
	}

	mr.Close()
	if err := store.Ping(context.Background()); err == nil {
		t.Error("Expected ping to fail after redis stops")
	}
}
