package lineup

import (
	"fmt"
	"strings"
)

// Team identifies one of the two opposing sides.
type Team string

const (
	Home Team = "home"
	Away Team = "away"
)

// ParseTeam accepts "home" or "away" in any case.
func ParseTeam(s string) (Team, error) {
	switch Team(strings.ToLower(strings.TrimSpace(s))) {
	case Home:
		return Home, nil
	case Away:
		return Away, nil
	default:
		return "", fmt.Errorf("unknown team %q (want home or away)", s)
	}
}

// Category is the coarse role of a formation slot. The declaration order
// is the positional adjacency GK, DF, MF, FW.
type Category string

const (
	GK Category = "GK"
	DF Category = "DF"
	MF Category = "MF"
	FW Category = "FW"
)

// Categories lists every category in adjacency order.
var Categories = []Category{GK, DF, MF, FW}

// Index returns the category's position in the adjacency order, or -1.
func (c Category) Index() int {
	for i, cat := range Categories {
		if cat == c {
			return i
		}
	}
	return -1
}

// Distance is the number of adjacency steps between two categories.
// Unknown categories are as far as possible from everything.
func (c Category) Distance(other Category) int {
	a, b := c.Index(), other.Index()
	if a < 0 || b < 0 {
		return len(Categories) - 1
	}
	if a > b {
		return a - b
	}
	return b - a
}

// ParseCategory accepts the short codes and a few long spellings.
func ParseCategory(s string) (Category, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "GK", "GOALKEEPER":
		return GK, nil
	case "DF", "DEF", "DEFENDER":
		return DF, nil
	case "MF", "MID", "MIDFIELDER":
		return MF, nil
	case "FW", "FWD", "FORWARD":
		return FW, nil
	default:
		return "", fmt.Errorf("unknown slot role %q", s)
	}
}

// Status is a player's availability.
type Status string

const (
	Available   Status = "Available"
	Doubtful    Status = "Doubtful"
	MinorInjury Status = "Minor Injury"
	MajorInjury Status = "Major Injury"
	Suspended   Status = "Suspended"
)

// Level is a point on the ordered form/morale scale.
type Level string

const (
	Excellent Level = "Excellent"
	Good      Level = "Good"
	Okay      Level = "Okay"
	Average   Level = "Average"
	Poor      Level = "Poor"
	VeryPoor  Level = "Very Poor"
	Terrible  Level = "Terrible"
)

// Availability is a player's fitness status with an optional free-text note.
type Availability struct {
	Status Status `yaml:"status" json:"status"`
	Note   string `yaml:"note,omitempty" json:"note,omitempty"`
}

// Player is a roster entry. The engine only reads players.
type Player struct {
	ID           string         `yaml:"id" json:"id"`
	Name         string         `yaml:"name" json:"name"`
	Team         Team           `yaml:"team" json:"team"`
	RoleID       string         `yaml:"role" json:"roleId"`
	Attributes   map[string]int `yaml:"attributes,omitempty" json:"attributes,omitempty"`
	Availability *Availability  `yaml:"availability,omitempty" json:"availability,omitempty"`
	Form         Level          `yaml:"form,omitempty" json:"form,omitempty"`
	Morale       Level          `yaml:"morale,omitempty" json:"morale,omitempty"`
	Fatigue      int            `yaml:"fatigue,omitempty" json:"fatigue,omitempty"` // 0 fresh, 100 exhausted
}

// Status returns the player's availability, treating a missing record as Available.
func (p Player) Status() Status {
	if p.Availability == nil || p.Availability.Status == "" {
		return Available
	}
	return p.Availability.Status
}

// IsAvailable reports whether the player is fully fit to play.
func (p Player) IsAvailable() bool {
	return strings.EqualFold(strings.TrimSpace(string(p.Status())), string(Available))
}

// DisplayName falls back to the id when the roster has no name.
func (p Player) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}
	return p.ID
}

// Position is a point on the 0-100 pitch grid. Y grows from own goal.
type Position struct {
	X float64 `yaml:"x" json:"x"`
	Y float64 `yaml:"y" json:"y"`
}

// Slot is one position of a formation. An empty PlayerID means the slot is
// unoccupied.
type Slot struct {
	ID              string   `yaml:"id" json:"id"`
	Role            Category `yaml:"role" json:"role"`
	DefaultPosition Position `yaml:"position" json:"defaultPosition"`
	PlayerID        string   `yaml:"player,omitempty" json:"playerId,omitempty"`
	PreferredRoles  []string `yaml:"preferred_roles,omitempty" json:"preferredRoles,omitempty"`
}

// Occupied reports whether a player is assigned to the slot.
func (s Slot) Occupied() bool {
	return s.PlayerID != ""
}

// Formation is an ordered list of slots. Callers guarantee that slot ids are
// unique and that no player id appears in more than one slot.
type Formation struct {
	ID    string `yaml:"id" json:"id"`
	Name  string `yaml:"name" json:"name"`
	Slots []Slot `yaml:"slots" json:"slots"`
}

// Clone returns a deep copy that shares no slices with f.
func (f Formation) Clone() Formation {
	out := Formation{ID: f.ID, Name: f.Name}
	if f.Slots == nil {
		return out
	}
	out.Slots = make([]Slot, len(f.Slots))
	for i, s := range f.Slots {
		out.Slots[i] = s
		if s.PreferredRoles != nil {
			out.Slots[i].PreferredRoles = append([]string(nil), s.PreferredRoles...)
		}
	}
	return out
}

// Cleared returns a copy with every slot emptied.
func (f Formation) Cleared() Formation {
	out := f.Clone()
	for i := range out.Slots {
		out.Slots[i].PlayerID = ""
	}
	return out
}

// SlotIndex returns the index of the slot with the given id, or -1.
func (f Formation) SlotIndex(id string) int {
	for i, s := range f.Slots {
		if s.ID == id {
			return i
		}
	}
	return -1
}

// SlotOf returns the index of the slot holding the player, or -1.
func (f Formation) SlotOf(playerID string) int {
	if playerID == "" {
		return -1
	}
	for i, s := range f.Slots {
		if s.PlayerID == playerID {
			return i
		}
	}
	return -1
}

// Filled counts occupied slots.
func (f Formation) Filled() int {
	n := 0
	for _, s := range f.Slots {
		if s.Occupied() {
			n++
		}
	}
	return n
}

// Roster indexes players by id. Later duplicates do not replace earlier ones.
func Roster(players []Player) map[string]Player {
	m := make(map[string]Player, len(players))
	for _, p := range players {
		if _, ok := m[p.ID]; !ok {
			m[p.ID] = p
		}
	}
	return m
}

// ForTeam returns the players on the given side, in roster order. As with
// Roster, only the first player with a given id is kept.
func ForTeam(players []Player, team Team) []Player {
	var out []Player
	seen := make(map[string]bool)
	for _, p := range players {
		if seen[p.ID] {
			continue
		}
		seen[p.ID] = true
		if p.Team == team {
			out = append(out, p)
		}
	}
	return out
}
