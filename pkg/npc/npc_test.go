package npc

import "testing"

func TestIsRandomEvent(t *testing.T) {
	for _, id := range RandomEventIDs() {
		if !IsRandomEvent(id) {
			t.Errorf("ID %d should be a random event", id)
		}
	}

	for _, id := range []int{0, -1, 1, 9999} {
		if IsRandomEvent(id) {
			t.Errorf("ID %d should not be a random event", id)
		}
	}
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		id   int
		want string
	}{
		{Genie, "Genie"},
		{GenieAlt, "Genie"},
		{DrunkenDwarf, "Drunken Dwarf"},
		{MysteriousOldManMime, "Mysterious Old Man"},
		{CaptArnav, "Capt' Arnav"},
		{9999, ""},
	}

	for _, tt := range tests {
		if got := DisplayName(tt.id); got != tt.want {
			t.Errorf("DisplayName(%d) = %q, want %q", tt.id, got, tt.want)
		}
	}
}

func TestRefSame(t *testing.T) {
	a := &Ref{ID: Genie, Index: 42}
	b := &Ref{ID: GenieAlt, Index: 42}
	c := &Ref{ID: Genie, Index: 43}

	if !a.Same(b) {
		t.Error("Refs in the same world slot are the same entity")
	}
	if a.Same(c) {
		t.Error("Refs in different world slots are different entities")
	}
	if a.Same(nil) || (*Ref)(nil).Same(a) {
		t.Error("Nil refs are never the same entity")
	}
}

func TestRefDisplayName(t *testing.T) {
	named := &Ref{ID: Genie, Index: 1, Name: "Genie"}
	if got := named.DisplayName(); got != "Genie" {
		t.Errorf("Expected the client-reported name, got %q", got)
	}

	unnamed := &Ref{ID: Frog, Index: 2}
	if got := unnamed.DisplayName(); got != "Frog" {
		t.Errorf("Expected the canonical name fallback, got %q", got)
	}
}
