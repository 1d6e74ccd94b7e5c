package strategy

import (
	"math"

	"github.com/derekprior/formation/internal/lineup"
	"github.com/derekprior/formation/internal/scoring"
)

// Optimal finds the assignment with the highest total score using the
// Hungarian method. Ties in total score are broken toward available players
// and then better form and morale, but not by roster order.
type Optimal struct {
	Scorer *scoring.Scorer
}

const (
	availableUnit = 500
	secondaryBias = 100
	// tieCeiling bounds the tie-break part of one pair's weight.
	tieCeiling = availableUnit + 2*secondaryBias
)

func (o *Optimal) Assign(players []lineup.Player, f lineup.Formation, team lineup.Team) lineup.Formation {
	out := f.Cleared()
	eligible := lineup.ForTeam(players, team)
	if len(eligible) == 0 || len(out.Slots) == 0 {
		return out
	}

	sc := o.Scorer
	if sc == nil {
		sc = scoring.Default()
	}

	// weight[i][j] packs the greedy ranking keys into one number so a
	// single maximisation respects them lexicographically. A score point
	// outweighs the tie-breaks of every pair in the lineup combined.
	scoreUnit := int64(min(len(eligible), len(out.Slots))+1) * tieCeiling
	weightCeiling := 101 * scoreUnit
	weight := make([][]int64, len(eligible))
	for _, c := range candidates(sc, eligible, out.Slots) {
		if weight[c.player] == nil {
			weight[c.player] = make([]int64, len(out.Slots))
		}
		w := int64(c.score) * scoreUnit
		if c.available {
			w += availableUnit
		}
		w += int64(c.secondary + secondaryBias)
		weight[c.player][c.slot] = w
	}

	if len(eligible) <= len(out.Slots) {
		for i, j := range hungarian(len(eligible), len(out.Slots), func(r, c int) int64 {
			return weightCeiling - weight[r][c]
		}) {
			out.Slots[j].PlayerID = eligible[i].ID
		}
		return out
	}

	for j, i := range hungarian(len(out.Slots), len(eligible), func(r, c int) int64 {
		return weightCeiling - weight[c][r]
	}) {
		out.Slots[j].PlayerID = eligible[i].ID
	}
	return out
}

// hungarian solves the rectangular assignment problem for an n×m cost
// matrix with n <= m, minimising total cost. It returns, for each row, the
// column it is assigned to.
func hungarian(n, m int, cost func(r, c int) int64) []int {
	const inf = math.MaxInt64 / 4

	u := make([]int64, n+1)
	v := make([]int64, m+1)
	p := make([]int, m+1) // p[j] is the row matched to column j, 1-based
	way := make([]int, m+1)

	for i := 1; i <= n; i++ {
		p[0] = i
		j0 := 0
		minv := make([]int64, m+1)
		used := make([]bool, m+1)
		for j := range minv {
			minv[j] = inf
		}
		for {
			used[j0] = true
			i0 := p[j0]
			delta := int64(inf)
			j1 := 0
			for j := 1; j <= m; j++ {
				if used[j] {
					continue
				}
				cur := cost(i0-1, j-1) - u[i0] - v[j]
				if cur < minv[j] {
					minv[j] = cur
					way[j] = j0
				}
				if minv[j] < delta {
					delta = minv[j]
					j1 = j
				}
			}
			for j := 0; j <= m; j++ {
				if used[j] {
					u[p[j]] += delta
					v[j] -= delta
				} else {
					minv[j] -= delta
				}
			}
			j0 = j1
			if p[j0] == 0 {
				break
			}
		}
		for {
			j1 := way[j0]
			p[j0] = p[j1]
			j0 = j1
			if j0 == 0 {
				break
			}
		}
	}

	rows := make([]int, n)
	for j := 1; j <= m; j++ {
		if p[j] != 0 {
			rows[p[j]-1] = j - 1
		}
	}
	return rows
}
