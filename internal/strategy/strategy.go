package strategy

import (
	"fmt"

	"github.com/derekprior/formation/internal/lineup"
	"github.com/derekprior/formation/internal/scoring"
)

// Solver fills the slots of a formation from a roster.
type Solver interface {
	// Assign returns a new formation with PlayerID set on every slot it could
	// fill with a player from team. Existing occupants are discarded. players
	// and f are not modified.
	Assign(players []lineup.Player, f lineup.Formation, team lineup.Team) lineup.Formation
}

// Names lists the registered strategies, default first.
var Names = []string{"greedy", "optimal"}

// Get returns a Solver by name. An empty name selects greedy.
func Get(name string, sc *scoring.Scorer) (Solver, error) {
	if sc == nil {
		sc = scoring.Default()
	}
	switch name {
	case "", "greedy":
		return &Greedy{Scorer: sc}, nil
	case "optimal":
		return &Optimal{Scorer: sc}, nil
	default:
		return nil, fmt.Errorf("unknown strategy: %q", name)
	}
}

// candidate is one (player, slot) pair with its ranking keys.
type candidate struct {
	player    int
	slot      int
	score     int
	available bool
	secondary int
}

func candidates(sc *scoring.Scorer, players []lineup.Player, slots []lineup.Slot) []candidate {
	matrix := sc.Matrix(players, slots)
	out := make([]candidate, 0, len(players)*len(slots))
	for i, p := range players {
		avail := p.IsAvailable()
		sec := sc.Secondary(p)
		for j := range slots {
			out = append(out, candidate{
				player:    i,
				slot:      j,
				score:     matrix[i][j],
				available: avail,
				secondary: sec,
			})
		}
	}
	return out
}

// better orders candidates: higher score, then available players, then
// better form and morale, then roster order, then slot order.
func better(a, b candidate) bool {
	if a.score != b.score {
		return a.score > b.score
	}
	if a.available != b.available {
		return a.available
	}
	if a.secondary != b.secondary {
		return a.secondary > b.secondary
	}
	if a.player != b.player {
		return a.player < b.player
	}
	return a.slot < b.slot
}
