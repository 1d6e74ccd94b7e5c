package analysis

import (
	"fmt"
	"math"

	"github.com/derekprior/formation/internal/lineup"
	"github.com/derekprior/formation/internal/scoring"
)

// Kind classifies a recommendation.
type Kind string

const (
	EmptySlot     Kind = "empty_slot"
	UnknownPlayer Kind = "unknown_player"
	Unavailable   Kind = "unavailable"
	PoorFit       Kind = "poor_fit"
)

// Recommendation flags one slot that needs attention.
type Recommendation struct {
	SlotID   string
	PlayerID string
	Kind     Kind
	Issue    string
}

// LineSummary aggregates the slots of one category.
type LineSummary struct {
	Role         lineup.Category
	Slots        int
	Filled       int
	AverageScore int
}

// Report is the analysis of one formation.
type Report struct {
	TotalScore      int
	AverageScore    int
	PositionScores  []scoring.Entry
	Recommendations []Recommendation
	Lines           []LineSummary
}

// Analyzer scores a filled or partly filled formation.
type Analyzer struct {
	Scorer *scoring.Scorer
}

// Analyze uses the default scorer.
func Analyze(f lineup.Formation, players []lineup.Player) Report {
	return (&Analyzer{Scorer: scoring.Default()}).Analyze(f, players)
}

// Analyze scores every occupied slot and lists empty slots, unavailable
// occupants and poor fits. Neither argument is modified.
func (a *Analyzer) Analyze(f lineup.Formation, players []lineup.Player) Report {
	sc := a.Scorer
	if sc == nil {
		sc = scoring.Default()
	}
	roster := lineup.Roster(players)

	var r Report
	lineTotals := make(map[lineup.Category]*lineAcc)
	for _, slot := range f.Slots {
		acc := lineTotals[slot.Role]
		if acc == nil {
			acc = &lineAcc{}
			lineTotals[slot.Role] = acc
		}
		acc.slots++

		if !slot.Occupied() {
			r.Recommendations = append(r.Recommendations, Recommendation{
				SlotID: slot.ID,
				Kind:   EmptySlot,
				Issue:  "No player assigned",
			})
			continue
		}

		p, ok := roster[slot.PlayerID]
		if !ok {
			r.Recommendations = append(r.Recommendations, Recommendation{
				SlotID:   slot.ID,
				PlayerID: slot.PlayerID,
				Kind:     UnknownPlayer,
				Issue:    fmt.Sprintf("Player %s is not on the roster", slot.PlayerID),
			})
			continue
		}

		e := sc.Entry(p, slot)
		r.PositionScores = append(r.PositionScores, e)
		r.TotalScore += e.Score
		acc.filled++
		acc.total += e.Score

		if !p.IsAvailable() {
			r.Recommendations = append(r.Recommendations, Recommendation{
				SlotID:   slot.ID,
				PlayerID: p.ID,
				Kind:     Unavailable,
				Issue:    fmt.Sprintf("%s is unavailable (%s)", p.DisplayName(), p.Status()),
			})
		}
		if e.Fitness == scoring.BandPoor {
			r.Recommendations = append(r.Recommendations, Recommendation{
				SlotID:   slot.ID,
				PlayerID: p.ID,
				Kind:     PoorFit,
				Issue:    fmt.Sprintf("%s is a poor fit for %s (score %d)", p.DisplayName(), slot.Role, e.Score),
			})
		}
	}

	r.AverageScore = roundedMean(r.TotalScore, len(r.PositionScores))
	for _, cat := range lineup.Categories {
		if acc, ok := lineTotals[cat]; ok {
			r.Lines = append(r.Lines, acc.summary(cat))
		}
	}
	return r
}

type lineAcc struct {
	slots, filled, total int
}

func (l *lineAcc) summary(cat lineup.Category) LineSummary {
	return LineSummary{
		Role:         cat,
		Slots:        l.slots,
		Filled:       l.filled,
		AverageScore: roundedMean(l.total, l.filled),
	}
}

func roundedMean(total, n int) int {
	if n == 0 {
		return 0
	}
	return int(math.Round(float64(total) / float64(n)))
}
