package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/gamepulse/randomwatch/pkg/event"
	"github.com/gamepulse/randomwatch/pkg/npc"
)

// Validates an event envelope JSON file before it goes anywhere near the
// queue. Useful for checking client payloads by hand.
func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <envelope.json>\n", os.Args[0])
		os.Exit(1)
	}

	filename := os.Args[1]

	if err := validateFile(filename); err != nil {
		fmt.Fprintf(os.Stderr, "Validation failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Envelope file is valid!")
}

func validateFile(filename string) error {
	fmt.Printf("Validating %s...\n", filename)

	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	if !json.Valid(data) {
		return fmt.Errorf("file %s contains invalid JSON", filename)
	}

	var env event.Envelope
	decoder := json.NewDecoder(strings.NewReader(string(data)))
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(&env); err != nil {
		return fmt.Errorf("file %s failed strict JSON unmarshaling: %w", filename, err)
	}

	if err := env.Validate(); err != nil {
		return fmt.Errorf("envelope in %s is not routable: %w", filename, err)
	}

	warnUnknownNPCs(&env)
	return nil
}

// warnUnknownNPCs flags NPC IDs the watcher will ignore. Not an error:
// clients report every NPC, random event or not.
func warnUnknownNPCs(env *event.Envelope) {
	check := func(label string, id int) {
		if id != 0 && !npc.IsRandomEvent(id) {
			fmt.Printf("  note: %s NPC %d is not a random event NPC; the watcher will ignore it\n", label, id)
		}
	}

	switch env.Type {
	case event.TypeInteractingChanged:
		if src := env.Interacting.Source; src != nil && src.Kind == event.ActorNPC {
			check("source", src.ID)
		}
	case event.TypeNpcDespawned:
		check("despawned", env.Despawn.NPC.ID)
	case event.TypeMenuEntryAdded:
		if ref := env.MenuEntry.Entry.NPC; ref != nil {
			check("menu", ref.ID)
		}
	}
}
