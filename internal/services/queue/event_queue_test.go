package queue

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"

	"github.com/gamepulse/randomwatch/pkg/event"
	"github.com/gamepulse/randomwatch/pkg/npc"
)

func setupTestRedis(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()

	// Start miniredis
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	client, err := NewClient(mr.Addr(), logger)
	if err != nil {
		mr.Close()
		t.Fatalf("Failed to create queue client: %v", err)
	}

	return client, mr
}

func despawnEnvelope(sessionID uuid.UUID, index int) *event.Envelope {
	return &event.Envelope{
		SessionID: sessionID,
		Type:      event.TypeNpcDespawned,
		Tick:      index,
		Despawn:   &event.NpcDespawned{NPC: npc.Ref{ID: npc.Genie, Index: index}},
	}
}

func TestEventQueue_EnqueueAndDequeue(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer mr.Close()
	defer client.Close()

	q := NewEventQueue(client)
	ctx := context.Background()
	sessionID := uuid.New()

	for i := 0; i < 3; i++ {
		if err := q.Enqueue(ctx, despawnEnvelope(sessionID, i)); err != nil {
			t.Fatalf("Failed to enqueue envelope %d: %v", i, err)
		}
	}

	depth, err := q.Depth(ctx)
	if err != nil {
		t.Fatalf("Failed to get depth: %v", err)
	}
	if depth != 3 {
		t.Errorf("Expected depth 3, got %d", depth)
	}

	// FIFO order
	for i := 0; i < 3; i++ {
		env, err := q.Dequeue(ctx)
		if err != nil {
			t.Fatalf("Failed to dequeue: %v", err)
		}
		if env == nil {
			t.Fatalf("Expected envelope %d, got nil", i)
		}
		if env.SessionID != sessionID || env.Despawn.NPC.Index != i {
			t.Errorf("Envelope %d mismatch: %+v", i, env)
		}
		if env.EnqueuedAt.IsZero() {
			t.Error("Expected EnqueuedAt to be stamped on enqueue")
		}
	}

	// Queue empty now
	env, err := q.Dequeue(ctx)
	if err != nil {
		t.Fatalf("Dequeue on empty queue failed: %v", err)
	}
	if env != nil {
		t.Errorf("Expected nil on empty queue, got %+v", env)
	}
}

func TestEventQueue_BlockingDequeue(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer mr.Close()
	defer client.Close()

	q := NewEventQueue(client)
	ctx := context.Background()
	sessionID := uuid.New()

	if err := q.Enqueue(ctx, despawnEnvelope(sessionID, 7)); err != nil {
		t.Fatalf("Failed to enqueue: %v", err)
	}

	env, err := q.BlockingDequeue(ctx, 0)
	if err != nil {
		t.Fatalf("BlockingDequeue failed: %v", err)
	}
	if env == nil || env.Despawn.NPC.Index != 7 {
		t.Errorf("Unexpected envelope: %+v", env)
	}
}

func TestEventQueue_Clear(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer mr.Close()
	defer client.Close()

	q := NewEventQueue(client)
	ctx := context.Background()
	sessionID := uuid.New()

	for i := 0; i < 2; i++ {
		if err := q.Enqueue(ctx, despawnEnvelope(sessionID, i)); err != nil {
			t.Fatalf("Failed to enqueue: %v", err)
		}
	}

	if err := q.Clear(ctx); err != nil {
		t.Fatalf("Failed to clear: %v", err)
	}

	depth, err := q.Depth(ctx)
	if err != nil {
		t.Fatalf("Failed to get depth: %v", err)
	}
	if depth != 0 {
		t.Errorf("Expected empty queue, got depth %d", depth)
	}
}
