package strategy

import (
	"reflect"
	"testing"

	"github.com/tiendc/go-deepcopy"

	"github.com/derekprior/formation/internal/lineup"
	"github.com/derekprior/formation/internal/scoring"
)

func solvers(t *testing.T) map[string]Solver {
	t.Helper()
	out := make(map[string]Solver)
	for _, name := range Names {
		s, err := Get(name, scoring.Default())
		if err != nil {
			t.Fatalf("Get(%q) error: %v", name, err)
		}
		out[name] = s
	}
	return out
}

func occupants(f lineup.Formation) map[string]string {
	m := make(map[string]string)
	for _, s := range f.Slots {
		m[s.ID] = s.PlayerID
	}
	return m
}

func total(sc *scoring.Scorer, f lineup.Formation, players []lineup.Player) int {
	roster := lineup.Roster(players)
	sum := 0
	for _, s := range f.Slots {
		if p, ok := roster[s.PlayerID]; ok {
			sum += sc.Score(p, s)
		}
	}
	return sum
}

func fourSlots() lineup.Formation {
	return lineup.Formation{
		ID:   "diamond",
		Name: "diamond",
		Slots: []lineup.Slot{
			{ID: "gk", Role: lineup.GK, PreferredRoles: []string{"gk"}},
			{ID: "df1", Role: lineup.DF, PreferredRoles: []string{"cb"}},
			{ID: "mf1", Role: lineup.MF, PreferredRoles: []string{"cm"}},
			{ID: "fw1", Role: lineup.FW, PreferredRoles: []string{"cf"}},
		},
	}
}

func squad() []lineup.Player {
	return []lineup.Player{
		{ID: "fw", Name: "Forward", Team: lineup.Home, RoleID: "cf", Attributes: map[string]int{"shooting": 80}},
		{ID: "mf", Name: "Midfielder", Team: lineup.Home, RoleID: "cm", Form: lineup.Good},
		{ID: "away-gk", Name: "Visitor", Team: lineup.Away, RoleID: "gk", Attributes: map[string]int{"positioning": 100, "passing": 100}},
		{ID: "df", Name: "Defender", Team: lineup.Home, RoleID: "cb", Availability: &lineup.Availability{Status: lineup.Available}},
		{ID: "gk", Name: "Keeper", Team: lineup.Home, RoleID: "gk"},
	}
}

func TestGet(t *testing.T) {
	for _, name := range []string{"", "greedy"} {
		s, err := Get(name, nil)
		if err != nil {
			t.Fatalf("Get(%q) error: %v", name, err)
		}
		if _, ok := s.(*Greedy); !ok {
			t.Errorf("Get(%q) = %T, want *Greedy", name, s)
		}
	}
	if s, _ := Get("optimal", nil); s == nil {
		t.Error("Get(optimal) returned nil")
	}
	if _, err := Get("random", nil); err == nil {
		t.Error("expected error for unknown strategy")
	}
}

func TestAssignRoleCorrect(t *testing.T) {
	for name, s := range solvers(t) {
		t.Run(name, func(t *testing.T) {
			got := occupants(s.Assign(squad(), fourSlots(), lineup.Home))
			want := map[string]string{"gk": "gk", "df1": "df", "mf1": "mf", "fw1": "fw"}
			if !reflect.DeepEqual(got, want) {
				t.Errorf("Assign() = %v, want %v", got, want)
			}
		})
	}
}

func TestAssignTeamIsolation(t *testing.T) {
	for name, s := range solvers(t) {
		t.Run(name, func(t *testing.T) {
			got := s.Assign(squad(), fourSlots(), lineup.Away)
			if got.Filled() != 1 {
				t.Fatalf("Filled() = %d, want 1", got.Filled())
			}
			for _, slot := range got.Slots {
				if slot.Occupied() && slot.PlayerID != "away-gk" {
					t.Errorf("slot %s holds home player %s", slot.ID, slot.PlayerID)
				}
			}
		})
	}
}

func TestAssignAvailability(t *testing.T) {
	mfOnly := lineup.Formation{Slots: []lineup.Slot{{ID: "mf1", Role: lineup.MF, PreferredRoles: []string{"cm"}}}}

	t.Run("available player preferred", func(t *testing.T) {
		players := []lineup.Player{
			{ID: "hurt", Team: lineup.Home, RoleID: "cm", Availability: &lineup.Availability{Status: lineup.MajorInjury}},
			{ID: "fit", Team: lineup.Home, RoleID: "cm", Availability: &lineup.Availability{Status: lineup.Available}},
		}
		for name, s := range solvers(t) {
			if got := s.Assign(players, mfOnly, lineup.Home).Slots[0].PlayerID; got != "fit" {
				t.Errorf("%s placed %q, want fit", name, got)
			}
		}
	})

	t.Run("equal scores prefer the available player", func(t *testing.T) {
		strong := map[string]int{"passing": 100, "dribbling": 100, "stamina": 100}
		players := []lineup.Player{
			// 100 + 5 + 10 - 15 and 100 + 5 both clamp to 100.
			{ID: "hurt", Team: lineup.Home, RoleID: "cm", Attributes: strong, Form: lineup.Excellent, Morale: lineup.Excellent,
				Availability: &lineup.Availability{Status: lineup.MinorInjury}},
			{ID: "fit", Team: lineup.Home, RoleID: "cm", Attributes: strong},
		}
		sc := scoring.Default()
		if a, b := sc.Score(players[0], mfOnly.Slots[0]), sc.Score(players[1], mfOnly.Slots[0]); a != b {
			t.Fatalf("scores differ: %d vs %d", a, b)
		}
		for name, s := range solvers(t) {
			if got := s.Assign(players, mfOnly, lineup.Home).Slots[0].PlayerID; got != "fit" {
				t.Errorf("%s placed %q, want fit", name, got)
			}
		}
	})

	t.Run("then better form and morale", func(t *testing.T) {
		strong := map[string]int{"passing": 100, "dribbling": 100, "stamina": 100}
		players := []lineup.Player{
			{ID: "good", Team: lineup.Home, RoleID: "cm", Attributes: strong, Form: lineup.Good},
			{ID: "excellent", Team: lineup.Home, RoleID: "cm", Attributes: strong, Form: lineup.Excellent},
		}
		for name, s := range solvers(t) {
			if got := s.Assign(players, mfOnly, lineup.Home).Slots[0].PlayerID; got != "excellent" {
				t.Errorf("%s placed %q, want excellent", name, got)
			}
		}
	})

	t.Run("then roster order", func(t *testing.T) {
		players := []lineup.Player{
			{ID: "first", Team: lineup.Home, RoleID: "cm"},
			{ID: "second", Team: lineup.Home, RoleID: "cm"},
		}
		g := &Greedy{Scorer: scoring.Default()}
		if got := g.Assign(players, mfOnly, lineup.Home).Slots[0].PlayerID; got != "first" {
			t.Errorf("placed %q, want first", got)
		}
	})
}

func TestAssignCompleteness(t *testing.T) {
	f, err := lineup.Preset("4-4-2")
	if err != nil {
		t.Fatalf("Preset error: %v", err)
	}
	roles := []string{"gk", "cb", "cb", "lb", "rb", "cm", "cdm", "lm", "rm", "st", "cf", "gk", "cam", "lw"}

	for _, n := range []int{0, 3, 11, 14} {
		var players []lineup.Player
		for i := 0; i < n; i++ {
			players = append(players, lineup.Player{ID: roles[i] + string(rune('a'+i)), Team: lineup.Home, RoleID: roles[i]})
		}
		for name, s := range solvers(t) {
			got := s.Assign(players, f, lineup.Home)
			if want := min(n, len(f.Slots)); got.Filled() != want {
				t.Errorf("%s with %d players: Filled() = %d, want %d", name, n, got.Filled(), want)
			}
			seen := make(map[string]bool)
			for _, slot := range got.Slots {
				if slot.Occupied() && seen[slot.PlayerID] {
					t.Errorf("%s: %s assigned twice", name, slot.PlayerID)
				}
				seen[slot.PlayerID] = true
			}
		}
	}
}

func TestAssignDuplicatePlayerIDs(t *testing.T) {
	f := lineup.Formation{Slots: []lineup.Slot{
		{ID: "a", Role: lineup.MF, PreferredRoles: []string{"cm"}},
		{ID: "b", Role: lineup.MF, PreferredRoles: []string{"cm"}},
	}}
	players := []lineup.Player{
		{ID: "x", Team: lineup.Home, RoleID: "cm"},
		{ID: "x", Team: lineup.Home, RoleID: "cm"},
	}
	for name, s := range solvers(t) {
		got := s.Assign(players, f, lineup.Home)
		if got.Filled() != 1 {
			t.Errorf("%s: %v, want x in exactly one slot", name, occupants(got))
		}
	}
}

func TestAssignEmptyInputs(t *testing.T) {
	for name, s := range solvers(t) {
		t.Run(name, func(t *testing.T) {
			got := s.Assign(nil, fourSlots(), lineup.Home)
			if len(got.Slots) != 4 || got.Filled() != 0 {
				t.Errorf("Assign(nil) = %+v", got)
			}
			if empty := s.Assign(squad(), lineup.Formation{}, lineup.Home); len(empty.Slots) != 0 {
				t.Errorf("Assign(empty formation) = %+v", empty)
			}
		})
	}
}

func TestAssignClearsExistingOccupants(t *testing.T) {
	f := fourSlots()
	f.Slots[0].PlayerID = "away-gk"
	f.Slots[2].PlayerID = "ghost"
	for name, s := range solvers(t) {
		got := occupants(s.Assign(squad(), f, lineup.Home))
		if got["gk"] != "gk" || got["mf1"] != "mf" {
			t.Errorf("%s kept stale occupants: %v", name, got)
		}
	}
}

func TestAssignDoesNotMutate(t *testing.T) {
	players := squad()
	f := fourSlots()
	f.Slots[1].PlayerID = "df"

	var playersBefore []lineup.Player
	var formationBefore lineup.Formation
	if err := deepcopy.Copy(&playersBefore, &players); err != nil {
		t.Fatalf("deepcopy error: %v", err)
	}
	if err := deepcopy.Copy(&formationBefore, &f); err != nil {
		t.Fatalf("deepcopy error: %v", err)
	}

	for name, s := range solvers(t) {
		got := s.Assign(players, f, lineup.Home)
		got.Slots[0].PreferredRoles[0] = "changed"
		if !reflect.DeepEqual(players, playersBefore) {
			t.Errorf("%s modified players", name)
		}
		if !reflect.DeepEqual(f, formationBefore) {
			t.Errorf("%s modified the formation", name)
		}
	}
}

func TestAssignDeterministic(t *testing.T) {
	f, _ := lineup.Preset("4-3-3")
	players := []lineup.Player{
		{ID: "a", Team: lineup.Home, RoleID: "cm"},
		{ID: "b", Team: lineup.Home, RoleID: "cm"},
		{ID: "c", Team: lineup.Home, RoleID: "cb"},
		{ID: "d", Team: lineup.Home, RoleID: "cb"},
		{ID: "e", Team: lineup.Home, RoleID: "st"},
		{ID: "f", Team: lineup.Home, RoleID: "st"},
	}
	for name, s := range solvers(t) {
		first := s.Assign(players, f, lineup.Home)
		for i := 0; i < 5; i++ {
			if got := s.Assign(players, f, lineup.Home); !reflect.DeepEqual(got, first) {
				t.Fatalf("%s: run %d differs:\n%v\n%v", name, i, occupants(got), occupants(first))
			}
		}
	}
}

func TestOptimalBeatsGreedy(t *testing.T) {
	// The playmaker is the best fit in mf1 but can also cover df1, where
	// the attacking midfielder is poor.
	f := lineup.Formation{Slots: []lineup.Slot{
		{ID: "mf1", Role: lineup.MF, PreferredRoles: []string{"cm"}},
		{ID: "df1", Role: lineup.DF, PreferredRoles: []string{"cb", "cm"}},
	}}
	players := []lineup.Player{
		{ID: "playmaker", Team: lineup.Home, RoleID: "cm"},
		{ID: "attacker", Team: lineup.Home, RoleID: "cam"},
	}
	sc := scoring.Default()

	greedy := (&Greedy{Scorer: sc}).Assign(players, f, lineup.Home)
	if got := occupants(greedy); got["mf1"] != "playmaker" || got["df1"] != "attacker" {
		t.Errorf("greedy = %v", got)
	}

	optimal := (&Optimal{Scorer: sc}).Assign(players, f, lineup.Home)
	if got := occupants(optimal); got["mf1"] != "attacker" || got["df1"] != "playmaker" {
		t.Errorf("optimal = %v", got)
	}

	if g, o := total(sc, greedy, players), total(sc, optimal, players); o <= g {
		t.Errorf("optimal total %d, greedy total %d", o, g)
	}
}

func TestOptimalMatchesBruteForce(t *testing.T) {
	sc := scoring.Default()
	f := fourSlots()
	players := []lineup.Player{
		{ID: "p1", Team: lineup.Home, RoleID: "lb", Attributes: map[string]int{"speed": 90}},
		{ID: "p2", Team: lineup.Home, RoleID: "cdm", Attributes: map[string]int{"tackling": 70, "passing": 80}},
		{ID: "p3", Team: lineup.Home, RoleID: "ss", Form: lineup.Good},
		{ID: "p4", Team: lineup.Home, RoleID: "sw", Fatigue: 60},
		{ID: "p5", Team: lineup.Home, RoleID: "rw", Availability: &lineup.Availability{Status: lineup.Doubtful}},
	}

	// Try every injective mapping of slots to players.
	m := sc.Matrix(players, f.Slots)
	best := -1
	used := make([]bool, len(players))
	var search func(slot, sum int)
	search = func(slot, sum int) {
		if slot == len(f.Slots) {
			best = max(best, sum)
			return
		}
		for i := range players {
			if used[i] {
				continue
			}
			used[i] = true
			search(slot+1, sum+m[i][slot])
			used[i] = false
		}
	}
	search(0, 0)

	got := (&Optimal{Scorer: sc}).Assign(players, f, lineup.Home)
	if total(sc, got, players) != best {
		t.Errorf("optimal total = %d, brute force = %d", total(sc, got, players), best)
	}
	greedy := (&Greedy{Scorer: sc}).Assign(players, f, lineup.Home)
	if total(sc, greedy, players) > best {
		t.Errorf("greedy total %d exceeds the maximum %d", total(sc, greedy, players), best)
	}
}

func TestHungarian(t *testing.T) {
	cost := [][]int64{
		{4, 1, 3},
		{2, 4, 5},
	}
	rows := hungarian(2, 3, func(r, c int) int64 { return cost[r][c] })
	if rows[0] != 1 || rows[1] != 0 {
		t.Errorf("hungarian() = %v, want [1 0]", rows)
	}
}
