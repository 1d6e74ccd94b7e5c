package strategy

import (
	"sort"

	"github.com/derekprior/formation/internal/lineup"
	"github.com/derekprior/formation/internal/scoring"
)

// Greedy repeatedly takes the best remaining (player, slot) pair. It is not
// a maximum-weight matching, but it is deterministic and fast at squad sizes.
type Greedy struct {
	Scorer *scoring.Scorer
}

func (g *Greedy) Assign(players []lineup.Player, f lineup.Formation, team lineup.Team) lineup.Formation {
	out := f.Cleared()
	eligible := lineup.ForTeam(players, team)
	if len(eligible) == 0 || len(out.Slots) == 0 {
		return out
	}

	// Sorting once and sweeping picks the same pairs as re-selecting the
	// global maximum after every assignment.
	pairs := candidates(g.scorer(), eligible, out.Slots)
	sort.Slice(pairs, func(i, j int) bool {
		return better(pairs[i], pairs[j])
	})

	usedPlayer := make([]bool, len(eligible))
	usedSlot := make([]bool, len(out.Slots))
	remaining := min(len(eligible), len(out.Slots))
	for _, c := range pairs {
		if remaining == 0 {
			break
		}
		if usedPlayer[c.player] || usedSlot[c.slot] {
			continue
		}
		out.Slots[c.slot].PlayerID = eligible[c.player].ID
		usedPlayer[c.player] = true
		usedSlot[c.slot] = true
		remaining--
	}
	return out
}

func (g *Greedy) scorer() *scoring.Scorer {
	if g.Scorer == nil {
		return scoring.Default()
	}
	return g.Scorer
}
