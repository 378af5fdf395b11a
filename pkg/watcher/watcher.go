package watcher

import (
	"log/slog"

	"github.com/gamepulse/randomwatch/pkg/event"
	"github.com/gamepulse/randomwatch/pkg/menu"
	"github.com/gamepulse/randomwatch/pkg/npc"
	"github.com/gamepulse/randomwatch/pkg/settings"
)

// Timeout is the minimum number of game ticks between spawn
// notifications.
const Timeout = 150

// Client is the slice of live client state the watcher reads and, for
// menu suppression, writes back.
type Client interface {
	// LocalPlayer returns the local player's name, or "" before login.
	LocalPlayer() string

	// PlayerInteracting returns the NPC the local player is currently
	// interacting with, or nil.
	PlayerInteracting() *npc.Ref

	TickCount() int
	MenuEntries() []menu.Entry
	SetMenuEntries([]menu.Entry)
}

// Notifier delivers a spawn notification using the routed setting.
// Delivery honors the setting's enabled flag.
type Notifier interface {
	Notify(n settings.Notification, message string)
}

// State is the persistable portion of a watcher, carried between events
// of the same session.
type State struct {
	Tracked              *npc.Ref `json:"tracked,omitempty"`
	LastNotificationTick int      `json:"last_notification_tick"`
}

// NewState returns the initial watcher state. The notification tick
// starts one full window in the past so the first spawn always notifies.
func NewState() State {
	return State{LastNotificationTick: -Timeout}
}

// Watcher reacts to client events: it tracks the random event NPC that
// belongs to the local player, notifies on qualifying spawns, and strips
// Talk-to/Dismiss menu options from random events that belong to other
// players.
//
// All methods are synchronous and must be called from a single
// goroutine, matching the client's serial event delivery.
type Watcher struct {
	client   Client
	notifier Notifier
	settings *settings.Settings
	log      *slog.Logger

	current              *npc.Ref
	lastNotificationTick int
}

// New creates a watcher in its initial state.
func New(client Client, notifier Notifier, s *settings.Settings, log *slog.Logger) *Watcher {
	return &Watcher{
		client:               client,
		notifier:             notifier,
		settings:             s,
		log:                  log,
		lastNotificationTick: -Timeout,
	}
}

// Restore loads previously persisted watcher state.
func (w *Watcher) Restore(st State) {
	w.current = st.Tracked
	w.lastNotificationTick = st.LastNotificationTick
}

// State returns the persistable watcher state.
func (w *Watcher) State() State {
	return State{
		Tracked:              w.current,
		LastNotificationTick: w.lastNotificationTick,
	}
}

// Current returns the tracked random event NPC, or nil when idle.
func (w *Watcher) Current() *npc.Ref {
	return w.current
}

// Shutdown resets the watcher synchronously.
func (w *Watcher) Shutdown() {
	w.lastNotificationTick = 0
	w.current = nil
}

// Handle dispatches an envelope to the matching handler.
func (w *Watcher) Handle(env *event.Envelope) {
	switch env.Type {
	case event.TypeInteractingChanged:
		if env.Interacting != nil {
			w.HandleInteractingChanged(env.Interacting.Source, env.Interacting.Target)
		}
	case event.TypeNpcDespawned:
		if env.Despawn != nil {
			w.HandleNpcDespawned(env.Despawn.NPC)
		}
	case event.TypeMenuEntryAdded:
		if env.MenuEntry != nil {
			w.HandleMenuEntryAdded(env.MenuEntry.Entry)
		}
	}
}

// HandleInteractingChanged tracks and notifies when a random event NPC
// begins targeting the local player.
func (w *Watcher) HandleInteractingChanged(source, target *event.Actor) {
	player := w.client.LocalPlayer()

	// The NPC must be targeting the player, and the player must not
	// already be interacting with the NPC, so that talking to another
	// player's random does not fire a notification.
	if player == "" || !target.IsPlayer(player) {
		return
	}

	src := source.NPC()
	if src == nil || !npc.IsRandomEvent(src.ID) {
		return
	}
	if w.client.PlayerInteracting().Same(src) {
		return
	}

	w.log.Debug("Random event spawn", "npc", src.DisplayName(), "id", src.ID)

	w.current = src

	if tick := w.client.TickCount(); tick-w.lastNotificationTick > Timeout {
		w.lastNotificationTick = tick
		w.notifier.Notify(w.settings.ForNPC(src.ID), "Random event spawned: "+src.DisplayName())
	}
}

// HandleNpcDespawned clears tracking when the tracked NPC despawns.
func (w *Watcher) HandleNpcDespawned(n npc.Ref) {
	if w.current.Same(&n) {
		w.current = nil
	}
}

// HandleMenuEntryAdded removes the entry the client just appended when it
// is a Talk-to/Dismiss option on a random event NPC that does not belong
// to the local player.
func (w *Watcher) HandleMenuEntryAdded(e menu.Entry) {
	if !e.Action.IsNPCOption() || !menu.Suppressible(e.Option) {
		return
	}
	if e.NPC == nil || !npc.IsRandomEvent(e.NPC.ID) || e.NPC.Same(w.current) || !w.settings.RemoveMenuOptions {
		return
	}

	entries := w.client.MenuEntries()
	if len(entries) == 0 {
		return
	}
	w.client.SetMenuEntries(entries[:len(entries)-1])
}
