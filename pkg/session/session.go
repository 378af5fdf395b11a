package session

import (
	"time"

	"github.com/google/uuid"

	"github.com/gamepulse/randomwatch/pkg/event"
	"github.com/gamepulse/randomwatch/pkg/menu"
	"github.com/gamepulse/randomwatch/pkg/npc"
	"github.com/gamepulse/randomwatch/pkg/watcher"
)

// State is the per-session reconstruction of the client state the
// watcher needs, rebuilt from the same event stream the watcher
// consumes.
type State struct {
	ID     uuid.UUID `json:"id"`
	Player string    `json:"player"`
	Tick   int       `json:"tick"`

	// Interacting is the NPC the local player last targeted, derived
	// from interacting_changed events whose source is the player.
	Interacting *npc.Ref `json:"interacting,omitempty"`

	// Menu is the live right-click menu entry list.
	Menu []menu.Entry `json:"menu,omitempty"`

	Watcher watcher.State `json:"watcher"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Ensure State satisfies the watcher's view of the client.
var _ watcher.Client = (*State)(nil)

// New creates a session for the named player with initial watcher state.
func New(player string) *State {
	now := time.Now()
	return &State{
		ID:        uuid.New(),
		Player:    player,
		Watcher:   watcher.NewState(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Apply folds an envelope into the reconstructed client state. It runs
// before the watcher sees the event, mirroring how the client updates
// its own state ahead of plugin callbacks.
func (s *State) Apply(env *event.Envelope) {
	if env.Tick > s.Tick {
		s.Tick = env.Tick
	}

	switch env.Type {
	case event.TypeInteractingChanged:
		ic := env.Interacting
		if ic == nil || !ic.Source.IsPlayer(s.Player) {
			return
		}
		s.Interacting = ic.Target.NPC()

	case event.TypeNpcDespawned:
		if env.Despawn != nil && s.Interacting.Same(&env.Despawn.NPC) {
			s.Interacting = nil
		}

	case event.TypeMenuEntryAdded:
		if env.MenuEntry != nil {
			s.Menu = append(s.Menu, env.MenuEntry.Entry)
		}
	}
}

func (s *State) LocalPlayer() string {
	return s.Player
}

func (s *State) PlayerInteracting() *npc.Ref {
	return s.Interacting
}

func (s *State) TickCount() int {
	return s.Tick
}

func (s *State) MenuEntries() []menu.Entry {
	return s.Menu
}

func (s *State) SetMenuEntries(entries []menu.Entry) {
	s.Menu = entries
}
