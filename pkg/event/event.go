package event

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/gamepulse/randomwatch/pkg/menu"
	"github.com/gamepulse/randomwatch/pkg/npc"
)

// Type discriminates the client events the watcher consumes.
type Type string

const (
	TypeInteractingChanged Type = "interacting_changed"
	TypeNpcDespawned       Type = "npc_despawned"
	TypeMenuEntryAdded     Type = "menu_entry_added"
)

// ActorKind distinguishes players from NPCs in event payloads.
type ActorKind string

const (
	ActorPlayer ActorKind = "player"
	ActorNPC    ActorKind = "npc"
)

// Actor is a player or NPC referenced by an event. ID and Index are NPC
// identity and are unset for players.
type Actor struct {
	Kind  ActorKind `json:"kind"`
	Name  string    `json:"name,omitempty"`
	ID    int       `json:"id,omitempty"`
	Index int       `json:"index,omitempty"`
}

// IsPlayer reports whether the actor is the named player.
func (a *Actor) IsPlayer(name string) bool {
	return a != nil && a.Kind == ActorPlayer && a.Name == name
}

// NPC returns the actor as an NPC ref, or nil if the actor is not an NPC.
func (a *Actor) NPC() *npc.Ref {
	if a == nil || a.Kind != ActorNPC {
		return nil
	}
	return &npc.Ref{ID: a.ID, Index: a.Index, Name: a.Name}
}

// InteractingChanged reports that Source began interacting with Target.
// A nil Target means Source stopped interacting.
type InteractingChanged struct {
	Source *Actor `json:"source"`
	Target *Actor `json:"target,omitempty"`
}

// NpcDespawned reports that an NPC left the world.
type NpcDespawned struct {
	NPC npc.Ref `json:"npc"`
}

// MenuEntryAdded reports that the client just appended a menu entry to
// its right-click menu.
type MenuEntryAdded struct {
	Entry menu.Entry `json:"entry"`
}

// Envelope is the wire form of a client event. Exactly one payload field
// is set, matching Type.
type Envelope struct {
	SessionID uuid.UUID `json:"session_id"`
	Type      Type      `json:"type"`
	Tick      int       `json:"tick"`

	Interacting *InteractingChanged `json:"interacting,omitempty"`
	Despawn     *NpcDespawned       `json:"despawn,omitempty"`
	MenuEntry   *MenuEntryAdded     `json:"menu_entry,omitempty"`

	EnqueuedAt time.Time `json:"enqueued_at,omitempty"`
}

// Validate checks that the envelope is routable: a session, a known type,
// and the payload matching that type.
func (e *Envelope) Validate() error {
	if e.SessionID == uuid.Nil {
		return fmt.Errorf("session_id is required")
	}
	switch e.Type {
	case TypeInteractingChanged:
		if e.Interacting == nil || e.Interacting.Source == nil {
			return fmt.Errorf("interacting payload with source is required for %s", e.Type)
		}
	case TypeNpcDespawned:
		if e.Despawn == nil {
			return fmt.Errorf("despawn payload is required for %s", e.Type)
		}
	case TypeMenuEntryAdded:
		if e.MenuEntry == nil {
			return fmt.Errorf("menu_entry payload is required for %s", e.Type)
		}
	default:
		return fmt.Errorf("unknown event type: %q", e.Type)
	}
	return nil
}

// ToJSON converts the envelope to JSON bytes for the queue.
func (e *Envelope) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// FromJSON parses an envelope from JSON bytes.
func FromJSON(data []byte) (*Envelope, error) {
	var e Envelope
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	return &e, nil
}
