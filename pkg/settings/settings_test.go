package settings

import (
	"testing"

	"github.com/gamepulse/randomwatch/pkg/npc"
)

func TestForNPC_RoutesVariantsToOneSetting(t *testing.T) {
	s := Default()
	s.Genie = Notification{Enabled: true, Urgency: UrgencyUrgent}
	s.Certers = Notification{Enabled: true}

	for _, id := range []int{npc.Genie, npc.GenieAlt} {
		n := s.ForNPC(id)
		if !n.Enabled || n.Urgency != UrgencyUrgent {
			t.Errorf("ID %d: expected the genie setting, got %+v", id, n)
		}
	}

	certers := []int{npc.Giles, npc.GilesAlt, npc.Miles, npc.MilesAlt, npc.Niles, npc.NilesAlt}
	for _, id := range certers {
		if n := s.ForNPC(id); !n.Enabled {
			t.Errorf("ID %d: expected the certers setting, got %+v", id, n)
		}
	}
}

func TestForNPC_FallsBackToNotifyAll(t *testing.T) {
	s := Default()
	s.NotifyAll = Notification{Enabled: true, Urgency: UrgencyNormal}

	// Per-event toggle disabled: the fallback applies.
	if n := s.ForNPC(npc.Frog); !n.Enabled || n.Urgency != UrgencyNormal {
		t.Errorf("Expected notify-all fallback, got %+v", n)
	}

	// Unknown ID also routes to the fallback.
	if n := s.ForNPC(123456); !n.Enabled {
		t.Errorf("Expected notify-all fallback for unknown ID, got %+v", n)
	}
}

func TestForNPC_DisabledEverywhere(t *testing.T) {
	s := Default()
	if n := s.ForNPC(npc.BeeKeeper); n.Enabled {
		t.Errorf("Expected a disabled setting, got %+v", n)
	}
}

func TestForNPC_DistinctOldManVariants(t *testing.T) {
	s := Default()
	s.Maze = Notification{Enabled: true}

	if n := s.ForNPC(npc.MysteriousOldManMaze); !n.Enabled {
		t.Error("Expected the maze setting for the maze variant")
	}
	// The base old man variants do not share the maze toggle.
	if n := s.ForNPC(npc.MysteriousOldMan); n.Enabled {
		t.Errorf("Expected the base old man to stay disabled, got %+v", n)
	}
}

func TestDefault(t *testing.T) {
	s := Default()
	if !s.RemoveMenuOptions {
		t.Error("Expected menu suppression enabled by default")
	}
	if s.NotifyAll.Enabled {
		t.Error("Expected notify-all disabled by default")
	}
}
