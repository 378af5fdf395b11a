package menu

import "testing"

func TestActionIsNPCOption(t *testing.T) {
	npcOptions := []Action{
		ActionNPCFirstOption,
		ActionNPCSecondOption,
		ActionNPCThirdOption,
		ActionNPCFourthOption,
		ActionNPCFifthOption,
	}
	for _, a := range npcOptions {
		if !a.IsNPCOption() {
			t.Errorf("Action %d should be an NPC option", a)
		}
	}

	for _, a := range []Action{ActionCancel, ActionWalk, ActionExamineNPC} {
		if a.IsNPCOption() {
			t.Errorf("Action %d should not be an NPC option", a)
		}
	}
}

func TestSuppressible(t *testing.T) {
	for _, option := range []string{"Talk-to", "Dismiss"} {
		if !Suppressible(option) {
			t.Errorf("Option %q should be suppressible", option)
		}
	}

	for _, option := range []string{"Attack", "Examine", "talk-to", ""} {
		if Suppressible(option) {
			t.Errorf("Option %q should not be suppressible", option)
		}
	}
}
