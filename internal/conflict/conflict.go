// Package conflict suggests how to resolve a move of a player into an
// occupied slot.
package conflict

import (
	"fmt"
	"sort"

	"github.com/derekprior/formation/internal/lineup"
	"github.com/derekprior/formation/internal/scoring"
)

// Action is the kind of a recommendation.
type Action string

const (
	MoveToBench Action = "move_to_bench"
	Swap        Action = "swap"
	Reassign    Action = "reassign"
)

// Recommendation describes one way to make room for the moving player.
// PlayerID is the current occupant of the target slot; FromSlotID and
// ToSlotID describe where that occupant goes ("" for the bench).
type Recommendation struct {
	Action      Action
	Description string
	PlayerID    string
	FromSlotID  string
	ToSlotID    string
	ScoreDelta  int // change of the lineup's total score
}

// Result is the outcome of Resolve. Success is false when an id does not
// refer to a known player or slot.
type Result struct {
	Success         bool
	Recommendations []Recommendation
}

// Resolver ranks conflict resolutions with a scorer.
type Resolver struct {
	Scorer *scoring.Scorer
}

// Resolve uses the default scorer.
func Resolve(sourcePlayerID, targetSlotID, targetPlayerID string, f lineup.Formation, players []lineup.Player) Result {
	return (&Resolver{Scorer: scoring.Default()}).Resolve(sourcePlayerID, targetSlotID, targetPlayerID, f, players)
}

// Resolve lists the ways the source player could take the target slot from
// its occupant, best first. The formation is not modified; applying a
// recommendation is up to the caller.
func (r *Resolver) Resolve(sourcePlayerID, targetSlotID, targetPlayerID string, f lineup.Formation, players []lineup.Player) Result {
	sc := r.Scorer
	if sc == nil {
		sc = scoring.Default()
	}
	roster := lineup.Roster(players)

	source, ok := roster[sourcePlayerID]
	if !ok || sourcePlayerID == "" {
		return Result{}
	}
	ti := f.SlotIndex(targetSlotID)
	if ti < 0 {
		return Result{}
	}
	targetSlot := f.Slots[ti]

	if !targetSlot.Occupied() {
		if targetPlayerID != "" {
			return Result{}
		}
		return Result{Success: true}
	}
	if targetPlayerID == "" || targetPlayerID != targetSlot.PlayerID || targetPlayerID == sourcePlayerID {
		return Result{}
	}
	target, ok := roster[targetPlayerID]
	if !ok {
		return Result{}
	}

	// Every option puts the source into the target slot and vacates the
	// source's current slot, if any.
	base := sc.Score(source, targetSlot) - sc.Score(target, targetSlot)
	si := f.SlotOf(sourcePlayerID)
	if si >= 0 {
		base -= sc.Score(source, f.Slots[si])
	}

	var recs []Recommendation
	recs = append(recs, Recommendation{
		Action:      MoveToBench,
		Description: fmt.Sprintf("Move %s to the bench and put %s in %s", target.DisplayName(), source.DisplayName(), targetSlot.ID),
		PlayerID:    target.ID,
		FromSlotID:  targetSlot.ID,
		ScoreDelta:  base,
	})

	if si >= 0 {
		sourceSlot := f.Slots[si]
		if sc.Compatible(target, sourceSlot) && sc.Compatible(source, targetSlot) {
			recs = append(recs, Recommendation{
				Action: Swap,
				Description: fmt.Sprintf("Swap %s (%s) and %s (%s)",
					source.DisplayName(), sourceSlot.ID, target.DisplayName(), targetSlot.ID),
				PlayerID:   target.ID,
				FromSlotID: targetSlot.ID,
				ToSlotID:   sourceSlot.ID,
				ScoreDelta: base + sc.Score(target, sourceSlot),
			})
		}
	}

	for _, slot := range f.Slots {
		if slot.Occupied() || !sc.Compatible(target, slot) {
			continue
		}
		recs = append(recs, Recommendation{
			Action: Reassign,
			Description: fmt.Sprintf("Move %s from %s to the empty %s slot %s",
				target.DisplayName(), targetSlot.ID, slot.Role, slot.ID),
			PlayerID:   target.ID,
			FromSlotID: targetSlot.ID,
			ToSlotID:   slot.ID,
			ScoreDelta: base + sc.Score(target, slot),
		})
	}

	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].ScoreDelta > recs[j].ScoreDelta
	})
	return Result{Success: true, Recommendations: recs}
}
