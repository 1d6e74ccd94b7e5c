package lineup

import (
	"strings"
	"testing"
)

func TestParseTeam(t *testing.T) {
	for in, want := range map[string]Team{"home": Home, "AWAY": Away, " Home ": Home} {
		got, err := ParseTeam(in)
		if err != nil {
			t.Errorf("ParseTeam(%q) error: %v", in, err)
		}
		if got != want {
			t.Errorf("ParseTeam(%q) = %q, want %q", in, got, want)
		}
	}
	if _, err := ParseTeam("neutral"); err == nil {
		t.Error("expected error for unknown team")
	}
}

func TestCategoryDistance(t *testing.T) {
	tests := []struct {
		a, b Category
		want int
	}{
		{GK, GK, 0},
		{GK, DF, 1},
		{DF, GK, 1},
		{DF, FW, 2},
		{GK, FW, 3},
		{Category("XX"), MF, 3},
	}
	for _, tt := range tests {
		if got := tt.a.Distance(tt.b); got != tt.want {
			t.Errorf("%s.Distance(%s) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestParseCategory(t *testing.T) {
	for in, want := range map[string]Category{"gk": GK, "Defender": DF, "mid": MF, "FWD": FW} {
		got, err := ParseCategory(in)
		if err != nil || got != want {
			t.Errorf("ParseCategory(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ParseCategory("libero"); err == nil {
		t.Error("expected error for unknown category")
	}
}

func TestPlayerStatus(t *testing.T) {
	t.Run("missing availability is available", func(t *testing.T) {
		p := Player{ID: "p1"}
		if p.Status() != Available || !p.IsAvailable() {
			t.Errorf("Status() = %q, IsAvailable() = %v", p.Status(), p.IsAvailable())
		}
	})

	t.Run("case is ignored", func(t *testing.T) {
		p := Player{ID: "p1", Availability: &Availability{Status: "available"}}
		if !p.IsAvailable() {
			t.Error("lower-case available should count as available")
		}
	})

	t.Run("injured", func(t *testing.T) {
		p := Player{ID: "p1", Availability: &Availability{Status: MinorInjury}}
		if p.IsAvailable() {
			t.Error("injured player reported available")
		}
	})

	t.Run("display name falls back to id", func(t *testing.T) {
		if got := (Player{ID: "p9"}).DisplayName(); got != "p9" {
			t.Errorf("DisplayName() = %q, want p9", got)
		}
	})
}

func TestFormationCopies(t *testing.T) {
	f := Formation{
		ID:   "f",
		Name: "f",
		Slots: []Slot{
			{ID: "gk", Role: GK, PlayerID: "p1", PreferredRoles: []string{"gk"}},
			{ID: "df1", Role: DF},
		},
	}

	t.Run("clone shares nothing", func(t *testing.T) {
		c := f.Clone()
		c.Slots[0].PlayerID = "other"
		c.Slots[0].PreferredRoles[0] = "cb"
		if f.Slots[0].PlayerID != "p1" || f.Slots[0].PreferredRoles[0] != "gk" {
			t.Errorf("original changed: %+v", f.Slots[0])
		}
	})

	t.Run("cleared empties every slot", func(t *testing.T) {
		c := f.Cleared()
		if c.Filled() != 0 {
			t.Errorf("Filled() = %d, want 0", c.Filled())
		}
		if f.Filled() != 1 {
			t.Errorf("original Filled() = %d, want 1", f.Filled())
		}
	})

	t.Run("lookups", func(t *testing.T) {
		if got := f.SlotIndex("df1"); got != 1 {
			t.Errorf("SlotIndex(df1) = %d, want 1", got)
		}
		if got := f.SlotIndex("fw1"); got != -1 {
			t.Errorf("SlotIndex(fw1) = %d, want -1", got)
		}
		if got := f.SlotOf("p1"); got != 0 {
			t.Errorf("SlotOf(p1) = %d, want 0", got)
		}
		if got := f.SlotOf(""); got != -1 {
			t.Errorf("SlotOf(\"\") = %d, want -1", got)
		}
	})
}

func TestRosterAndTeam(t *testing.T) {
	players := []Player{
		{ID: "a", Name: "First", Team: Home},
		{ID: "b", Team: Away},
		{ID: "a", Name: "Duplicate", Team: Home},
		{ID: "c", Team: Home},
	}

	if got := Roster(players)["a"].Name; got != "First" {
		t.Errorf("Roster kept %q, want First", got)
	}

	home := ForTeam(players, Home)
	var ids []string
	for _, p := range home {
		ids = append(ids, p.ID)
	}
	if strings.Join(ids, ",") != "a,c" {
		t.Errorf("ForTeam(home) = %v, want roster order a,c", ids)
	}
	if home[0].Name != "First" {
		t.Errorf("ForTeam kept %q, want First", home[0].Name)
	}
	// The first "b" plays away, so a later home "b" is not a home player.
	mixed := append(players, Player{ID: "b", Team: Home})
	if got := len(ForTeam(mixed, Home)); got != 2 {
		t.Errorf("ForTeam(mixed, home) has %d players, want 2", got)
	}
	if len(ForTeam(nil, Away)) != 0 {
		t.Error("ForTeam(nil) should be empty")
	}
}

func TestPreset(t *testing.T) {
	for _, shape := range Presets {
		t.Run(shape, func(t *testing.T) {
			f, err := Preset(shape)
			if err != nil {
				t.Fatalf("Preset(%q) error: %v", shape, err)
			}
			if len(f.Slots) != 11 {
				t.Fatalf("slots = %d, want 11", len(f.Slots))
			}
			if f.Slots[0].Role != GK {
				t.Errorf("first slot role = %s, want GK", f.Slots[0].Role)
			}
			seen := make(map[string]bool)
			for _, s := range f.Slots {
				if seen[s.ID] {
					t.Errorf("duplicate slot id %q", s.ID)
				}
				seen[s.ID] = true
				if s.Occupied() {
					t.Errorf("slot %s is occupied", s.ID)
				}
				if len(s.PreferredRoles) == 0 {
					t.Errorf("slot %s has no preferred roles", s.ID)
				}
				if s.DefaultPosition.X < 0 || s.DefaultPosition.X > 100 || s.DefaultPosition.Y < 0 || s.DefaultPosition.Y > 100 {
					t.Errorf("slot %s is off the pitch: %+v", s.ID, s.DefaultPosition)
				}
			}
		})
	}

	t.Run("line counts", func(t *testing.T) {
		f, _ := Preset("4-2-3-1")
		counts := make(map[Category]int)
		for _, s := range f.Slots {
			counts[s.Role]++
		}
		if counts[DF] != 4 || counts[MF] != 5 || counts[FW] != 1 {
			t.Errorf("counts = %v, want DF 4, MF 5, FW 1", counts)
		}
	})

	t.Run("invalid shapes", func(t *testing.T) {
		for _, shape := range []string{"", "4-4", "4-4-3", "4-x-2", "7-2-1", "0-5-5"} {
			if _, err := Preset(shape); err == nil {
				t.Errorf("Preset(%q) should fail", shape)
			}
		}
	})
}
