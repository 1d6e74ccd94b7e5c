package scoring

import (
	"fmt"
	"math"

	"github.com/derekprior/formation/internal/lineup"
)

// Band is the fitness label derived from a score.
type Band string

const (
	BandExcellent Band = "excellent"
	BandGood      Band = "good"
	BandFair      Band = "fair"
	BandPoor      Band = "poor"
)

// Bands holds the lower bound of each band. Anything under Fair is poor.
type Bands struct {
	Excellent int `yaml:"excellent"`
	Good      int `yaml:"good"`
	Fair      int `yaml:"fair"`
}

func (b Bands) validate() error {
	if !(b.Excellent > b.Good && b.Good > b.Fair && b.Fair > 0 && b.Excellent <= 100) {
		return fmt.Errorf("bands must satisfy 100 >= excellent > good > fair > 0, got %d/%d/%d",
			b.Excellent, b.Good, b.Fair)
	}
	return nil
}

// Weights holds every magnitude the scorer uses.
type Weights struct {
	// PreferredTop is the base for the first preferred role of a slot; each
	// later entry scores PreferredStep less, down to PreferredFloor.
	PreferredTop   int
	PreferredStep  int
	PreferredFloor int

	// CategoryMatch is the base for a role in the slot's own category.
	CategoryMatch int

	// CrossCategoryPenalty[d-1] is deducted from CategoryMatch for a role d
	// adjacency steps away from the slot.
	CrossCategoryPenalty []int

	UnknownRole int

	// AttributeSwing is the largest bonus (or penalty) from key attributes.
	AttributeSwing float64

	// FatigueFactor is the score lost per point of fatigue.
	FatigueFactor float64

	Bands Bands
}

// DefaultWeights returns the standard scoring magnitudes.
func DefaultWeights() Weights {
	return Weights{
		PreferredTop:         100,
		PreferredStep:        2,
		PreferredFloor:       96,
		CategoryMatch:        90,
		CrossCategoryPenalty: []int{30, 55, 80},
		UnknownRole:          40,
		AttributeSwing:       5,
		FatigueFactor:        0.2,
		Bands:                Bands{Excellent: 90, Good: 75, Fair: 60},
	}
}

// Validate checks that the weights keep the relative ordering of fits.
func (w Weights) Validate() error {
	if err := w.Bands.validate(); err != nil {
		return err
	}
	if len(w.CrossCategoryPenalty) != len(lineup.Categories)-1 {
		return fmt.Errorf("cross_category_penalty needs %d entries, got %d",
			len(lineup.Categories)-1, len(w.CrossCategoryPenalty))
	}
	prev := 0
	for _, p := range w.CrossCategoryPenalty {
		if p <= prev || p > w.CategoryMatch {
			return fmt.Errorf("cross_category_penalty must be increasing and at most %d, got %v",
				w.CategoryMatch, w.CrossCategoryPenalty)
		}
		prev = p
	}
	return nil
}

// Scorer rates (player, slot) pairs. A Scorer is read-only after
// construction and safe for concurrent use.
type Scorer struct {
	w Weights
}

// New returns a scorer using w.
func New(w Weights) *Scorer {
	w.CrossCategoryPenalty = append([]int(nil), w.CrossCategoryPenalty...)
	return &Scorer{w: w}
}

// Default returns a scorer with DefaultWeights.
func Default() *Scorer {
	return New(DefaultWeights())
}

// Weights returns a copy of the scorer's magnitudes.
func (s *Scorer) Weights() Weights {
	w := s.w
	w.CrossCategoryPenalty = append([]int(nil), s.w.CrossCategoryPenalty...)
	return w
}

// Score returns the fitness of p for slot in [0,100].
func (s *Scorer) Score(p lineup.Player, slot lineup.Slot) int {
	score := float64(s.Compatibility(p, slot))
	score += s.attributeModifier(p, slot.Role)
	score += float64(s.Secondary(p))
	score -= float64(StatusPenalty(p.Status()))
	score -= float64(clamp(p.Fatigue, 0, 100)) * s.w.FatigueFactor
	return clamp(int(math.Round(score)), 0, 100)
}

// Compatibility is the role-only base score of p in slot.
func (s *Scorer) Compatibility(p lineup.Player, slot lineup.Slot) int {
	role := normalizeRole(p.RoleID)
	for i, pref := range slot.PreferredRoles {
		if normalizeRole(pref) == role && role != "" {
			return max(s.w.PreferredTop-i*s.w.PreferredStep, s.w.PreferredFloor)
		}
	}

	info, ok := roleIndex[role]
	if !ok {
		return s.w.UnknownRole
	}
	base := s.w.CategoryMatch + (info.weight-s.w.CategoryMatch)/2
	if base < s.w.CategoryMatch {
		base = s.w.CategoryMatch
	}
	d := info.category.Distance(slot.Role)
	if d == 0 {
		return base
	}
	return max(s.w.CategoryMatch-s.penalty(d), 0)
}

func (s *Scorer) penalty(steps int) int {
	if len(s.w.CrossCategoryPenalty) == 0 {
		return s.w.CategoryMatch
	}
	if steps > len(s.w.CrossCategoryPenalty) {
		steps = len(s.w.CrossCategoryPenalty)
	}
	return s.w.CrossCategoryPenalty[steps-1]
}

// CompatibleFloor is the lowest compatibility treated as role-compatible:
// the base of a role one category away.
func (s *Scorer) CompatibleFloor() int {
	return s.w.CategoryMatch - s.penalty(1)
}

// Compatible reports whether p can reasonably play in slot.
func (s *Scorer) Compatible(p lineup.Player, slot lineup.Slot) bool {
	return s.Compatibility(p, slot) >= s.CompatibleFloor()
}

// Secondary is the combined form and morale contribution.
func (s *Scorer) Secondary(p lineup.Player) int {
	return LevelValue(p.Form) + LevelValue(p.Morale)
}

// attributeModifier maps the mean of the category's key attributes onto
// [-AttributeSwing, +AttributeSwing]. Missing attributes count as 0.
func (s *Scorer) attributeModifier(p lineup.Player, cat lineup.Category) float64 {
	keys := KeyAttributes[cat]
	if len(keys) == 0 {
		return 0
	}
	total := 0
	for _, k := range keys {
		total += clamp(p.Attributes[k], 0, 100)
	}
	mean := float64(total) / float64(len(keys))
	return (mean - 50) / 50 * s.w.AttributeSwing
}

// Band labels a score.
func (s *Scorer) Band(score int) Band {
	switch {
	case score >= s.w.Bands.Excellent:
		return BandExcellent
	case score >= s.w.Bands.Good:
		return BandGood
	case score >= s.w.Bands.Fair:
		return BandFair
	default:
		return BandPoor
	}
}

// Entry is the score of one player in one slot.
type Entry struct {
	SlotID   string
	PlayerID string
	Score    int
	Fitness  Band
}

// Entry scores p in slot.
func (s *Scorer) Entry(p lineup.Player, slot lineup.Slot) Entry {
	score := s.Score(p, slot)
	return Entry{SlotID: slot.ID, PlayerID: p.ID, Score: score, Fitness: s.Band(score)}
}

// Matrix returns m[i][j], the score of players[i] in slots[j].
func (s *Scorer) Matrix(players []lineup.Player, slots []lineup.Slot) [][]int {
	m := make([][]int, len(players))
	for i, p := range players {
		m[i] = make([]int, len(slots))
		for j, slot := range slots {
			m[i][j] = s.Score(p, slot)
		}
	}
	return m
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
