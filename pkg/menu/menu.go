package menu

import "github.com/gamepulse/randomwatch/pkg/npc"

// Action identifies the kind of interaction a menu entry performs,
// mirroring the client's menu action table.
type Action int

const (
	ActionCancel Action = 0
	ActionWalk   Action = 1

	// The five left-click options an NPC can expose.
	ActionNPCFirstOption  Action = 9
	ActionNPCSecondOption Action = 10
	ActionNPCThirdOption  Action = 11
	ActionNPCFourthOption Action = 12
	ActionNPCFifthOption  Action = 13

	ActionExamineNPC Action = 1003
)

// IsNPCOption reports whether the action falls in the range reserved for
// NPC first through fifth options.
func (a Action) IsNPCOption() bool {
	return a >= ActionNPCFirstOption && a <= ActionNPCFifthOption
}

// Entry is a single right-click menu option. NPC is set when the entry
// targets a live NPC.
type Entry struct {
	Option string   `json:"option"`
	Action Action   `json:"action"`
	NPC    *npc.Ref `json:"npc,omitempty"`
}

// suppressible holds the interactable option labels eligible for removal
// on random event NPCs that belong to another player.
var suppressible = map[string]struct{}{
	"Talk-to": {},
	"Dismiss": {},
}

// Suppressible reports whether the option label may be stripped from a
// foreign random event NPC.
func Suppressible(option string) bool {
	_, ok := suppressible[option]
	return ok
}
