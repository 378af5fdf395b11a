package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/google/uuid"

	"github.com/gamepulse/randomwatch/internal/services/queue"
	"github.com/gamepulse/randomwatch/pkg/event"
	"github.com/gamepulse/randomwatch/pkg/menu"
	"github.com/gamepulse/randomwatch/pkg/npc"
)

// Pushes a few hand-built envelopes onto the queue so the worker can be
// exercised without the API in front of it.
func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <session-id>\n", os.Args[0])
		os.Exit(1)
	}

	sessionID, err := uuid.Parse(os.Args[1])
	if err != nil {
		log.Fatal("Invalid session ID:", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	client, err := queue.NewClient(getEnv("REDIS_ADDR", "localhost:6379"), logger)
	if err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}
	defer client.Close()

	q := queue.NewEventQueue(client)
	ctx := context.Background()

	fmt.Println("Connected to Redis successfully!")

	spawn := &event.Envelope{
		SessionID: sessionID,
		Type:      event.TypeInteractingChanged,
		Tick:      200,
		Interacting: &event.InteractingChanged{
			Source: &event.Actor{Kind: event.ActorNPC, ID: npc.Genie, Index: 7, Name: "Genie"},
			Target: &event.Actor{Kind: event.ActorPlayer, Name: getEnv("PLAYER", "Zezima")},
		},
	}
	if err := q.Enqueue(ctx, spawn); err != nil {
		log.Fatal("Failed to enqueue spawn event:", err)
	}
	fmt.Println("Enqueued interacting_changed: Genie targets the player")

	foreign := &event.Envelope{
		SessionID: sessionID,
		Type:      event.TypeMenuEntryAdded,
		Tick:      201,
		MenuEntry: &event.MenuEntryAdded{
			Entry: menu.Entry{
				Option: "Talk-to",
				Action: menu.ActionNPCFirstOption,
				NPC:    &npc.Ref{ID: npc.DrunkenDwarf, Index: 8, Name: "Drunken dwarf"},
			},
		},
	}
	if err := q.Enqueue(ctx, foreign); err != nil {
		log.Fatal("Failed to enqueue menu event:", err)
	}
	fmt.Println("Enqueued menu_entry_added: Talk-to on a foreign Drunken Dwarf")

	despawn := &event.Envelope{
		SessionID: sessionID,
		Type:      event.TypeNpcDespawned,
		Tick:      250,
		Despawn:   &event.NpcDespawned{NPC: npc.Ref{ID: npc.Genie, Index: 7, Name: "Genie"}},
	}
	if err := q.Enqueue(ctx, despawn); err != nil {
		log.Fatal("Failed to enqueue despawn event:", err)
	}
	fmt.Println("Enqueued npc_despawned: Genie leaves")

	depth, err := q.Depth(ctx)
	if err != nil {
		log.Fatal("Failed to get queue depth:", err)
	}

	fmt.Printf("\nQueue depth: %d events\n", depth)
	fmt.Println("\nNow start the worker to see it process these events!")
	fmt.Println("   Run: go run cmd/worker/main.go")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
