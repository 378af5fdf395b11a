package npc

import (
	"sort"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Random event NPC IDs, covering every appearance variant the client can
// spawn. Variants of the same event (e.g. both Genie forms) share a
// display name and a notification setting.
const (
	BeeKeeper            = 6747
	CaptArnav            = 2873
	CountCheck           = 12551
	CountCheckAlt        = 12552
	DrJekyll             = 313
	DrJekyllAlt          = 314
	DrunkenDwarf         = 956
	Dunce                = 6749
	EvilBob              = 390
	EvilBobPrison        = 6754
	Flippa               = 6744
	FreakyForester       = 6748
	Frog                 = 5429
	Genie                = 326
	GenieAlt             = 327
	Giles                = 343
	GilesAlt             = 5441
	Leo                  = 6746
	Miles                = 344
	MilesAlt             = 5440
	MysteriousOldMan     = 6750
	MysteriousOldManAlt  = 6751
	MysteriousOldManMaze = 6752
	MysteriousOldManMime = 6753
	Niles                = 345
	NilesAlt             = 5439
	PilloryGuard         = 380
	PostiePete           = 6738
	QuizMaster           = 6755
	RickTurpentine       = 375
	RickTurpentineAlt    = 376
	SandwichLady         = 3117
	SergeantDamien       = 6743
)

// names maps every random event NPC ID to its canonical lowercase name.
// Membership in this map defines the known random event set.
var names = map[int]string{
	BeeKeeper:            "bee keeper",
	CaptArnav:            "capt' arnav",
	CountCheck:           "count check",
	CountCheckAlt:        "count check",
	DrJekyll:             "dr jekyll",
	DrJekyllAlt:          "dr jekyll",
	DrunkenDwarf:         "drunken dwarf",
	Dunce:                "dunce",
	EvilBob:              "evil bob",
	EvilBobPrison:        "evil bob",
	Flippa:               "flippa",
	FreakyForester:       "freaky forester",
	Frog:                 "frog",
	Genie:                "genie",
	GenieAlt:             "genie",
	Giles:                "giles",
	GilesAlt:             "giles",
	Leo:                  "leo",
	Miles:                "miles",
	MilesAlt:             "miles",
	MysteriousOldMan:     "mysterious old man",
	MysteriousOldManAlt:  "mysterious old man",
	MysteriousOldManMaze: "mysterious old man",
	MysteriousOldManMime: "mysterious old man",
	Niles:                "niles",
	NilesAlt:             "niles",
	PilloryGuard:         "pillory guard",
	PostiePete:           "postie pete",
	QuizMaster:           "quiz master",
	RickTurpentine:       "rick turpentine",
	RickTurpentineAlt:    "rick turpentine",
	SandwichLady:         "sandwich lady",
	SergeantDamien:       "sergeant damien",
}

// IsRandomEvent reports whether id is a known random event NPC.
func IsRandomEvent(id int) bool {
	_, ok := names[id]
	return ok
}

// DisplayName returns the human-readable name for a random event NPC ID,
// or an empty string for unknown IDs.
func DisplayName(id int) string {
	name, ok := names[id]
	if !ok {
		return ""
	}
	return cases.Title(language.English).String(name)
}

// RandomEventIDs returns all known random event NPC IDs in ascending
// order.
func RandomEventIDs() []int {
	ids := make([]int, 0, len(names))
	for id := range names {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Ref identifies a live NPC in the game world. Index is the world slot
// the client assigned the entity; two NPCs with the same ID in different
// slots are different entities.
type Ref struct {
	ID    int    `json:"id"`
	Index int    `json:"index"`
	Name  string `json:"name,omitempty"`
}

// Same reports whether two refs point at the same live entity.
func (r *Ref) Same(other *Ref) bool {
	return r != nil && other != nil && r.Index == other.Index
}

// DisplayName returns the name the client reported for the NPC, falling
// back to the canonical name for its ID.
func (r *Ref) DisplayName() string {
	if r == nil {
		return ""
	}
	if r.Name != "" {
		return r.Name
	}
	return DisplayName(r.ID)
}
