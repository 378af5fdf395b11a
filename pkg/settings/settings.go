package settings

import "github.com/gamepulse/randomwatch/pkg/npc"

// Urgency hints for notification delivery. The service passes urgency
// through to consumers; delivery itself is client-side.
const (
	UrgencyNormal = "normal"
	UrgencyUrgent = "urgent"
)

// Notification is a single notification toggle.
type Notification struct {
	Enabled bool   `json:"enabled"`
	Urgency string `json:"urgency,omitempty"`
}

// Settings holds a player's watcher configuration: one notification
// toggle per random event type, a notify-all fallback, and the menu
// suppression switch.
type Settings struct {
	Beekeeper        Notification `json:"beekeeper"`
	Arnav            Notification `json:"arnav"`
	Dwarf            Notification `json:"dwarf"`
	Demon            Notification `json:"demon"`
	Forester         Notification `json:"forester"`
	Frog             Notification `json:"frog"`
	Genie            Notification `json:"genie"`
	Certers          Notification `json:"certers"`
	Jekyll           Notification `json:"jekyll"`
	Bob              Notification `json:"bob"`
	Prison           Notification `json:"prison"`
	Gravedigger      Notification `json:"gravedigger"`
	MysteriousOldMan Notification `json:"mysterious_old_man"`
	Maze             Notification `json:"maze"`
	Mime             Notification `json:"mime"`
	Pillory          Notification `json:"pillory"`
	Twin             Notification `json:"twin"`
	Quiz             Notification `json:"quiz"`
	Turpentine       Notification `json:"turpentine"`
	Dunce            Notification `json:"dunce"`
	Sandwich         Notification `json:"sandwich"`
	Flippa           Notification `json:"flippa"`
	CountCheck       Notification `json:"count_check"`

	// NotifyAll is the fallback used when the per-event setting is
	// absent or disabled.
	NotifyAll Notification `json:"notify_all"`

	// RemoveMenuOptions strips Talk-to and Dismiss from random event
	// NPCs that belong to other players.
	RemoveMenuOptions bool `json:"remove_menu_options"`
}

// Default returns the out-of-the-box settings: per-event toggles off,
// menu suppression on.
func Default() *Settings {
	return &Settings{
		RemoveMenuOptions: true,
	}
}

// ForNPC routes an NPC ID to its notification setting. Variant IDs of
// the same event share one setting. Falls back to NotifyAll when the
// specific setting is disabled.
func (s *Settings) ForNPC(id int) Notification {
	var n Notification
	switch id {
	case npc.BeeKeeper:
		n = s.Beekeeper
	case npc.CaptArnav:
		n = s.Arnav
	case npc.DrunkenDwarf:
		n = s.Dwarf
	case npc.SergeantDamien:
		n = s.Demon
	case npc.FreakyForester:
		n = s.Forester
	case npc.Frog:
		n = s.Frog
	case npc.Genie, npc.GenieAlt:
		n = s.Genie
	case npc.Giles, npc.GilesAlt, npc.Miles, npc.MilesAlt, npc.Niles, npc.NilesAlt:
		n = s.Certers
	case npc.DrJekyll, npc.DrJekyllAlt:
		n = s.Jekyll
	case npc.EvilBob:
		n = s.Bob
	case npc.EvilBobPrison:
		n = s.Prison
	case npc.Leo:
		n = s.Gravedigger
	case npc.MysteriousOldMan, npc.MysteriousOldManAlt:
		n = s.MysteriousOldMan
	case npc.MysteriousOldManMaze:
		n = s.Maze
	case npc.MysteriousOldManMime:
		n = s.Mime
	case npc.PilloryGuard:
		n = s.Pillory
	case npc.PostiePete:
		n = s.Twin
	case npc.QuizMaster:
		n = s.Quiz
	case npc.RickTurpentine, npc.RickTurpentineAlt:
		n = s.Turpentine
	case npc.Dunce:
		n = s.Dunce
	case npc.SandwichLady:
		n = s.Sandwich
	case npc.Flippa:
		n = s.Flippa
	case npc.CountCheck, npc.CountCheckAlt:
		n = s.CountCheck
	}

	if n.Enabled {
		return n
	}
	return s.NotifyAll
}
