package validator

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/derekprior/formation/internal/config"
	"github.com/derekprior/formation/internal/excel"
	"github.com/derekprior/formation/internal/lineup"
	"github.com/derekprior/formation/internal/scoring"
)

// Violation represents a problem found in a lineup workbook.
type Violation struct {
	Row     int
	Type    string // "error" or "warning"
	Message string
}

// Validate reads a lineup workbook and checks it against the roster in cfg
// and the slots of f.
func Validate(cfg *config.Config, f lineup.Formation, path string) ([]Violation, error) {
	wb, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer wb.Close()

	rows, err := excel.ReadRows(wb)
	if err != nil {
		return nil, fmt.Errorf("reading lineup: %w", err)
	}

	var violations []Violation

	// Hard rules
	violations = append(violations, checkSlots(f, rows)...)
	violations = append(violations, checkPlayers(cfg, rows)...)
	violations = append(violations, checkDuplicates(rows)...)

	// Guidelines
	violations = append(violations, checkEmptySlots(rows)...)
	violations = append(violations, checkAvailability(cfg, rows)...)
	violations = append(violations, checkFit(cfg, f, rows)...)

	return violations, nil
}

func checkSlots(f lineup.Formation, rows []excel.Row) []Violation {
	var violations []Violation
	seen := make(map[string]bool)
	for _, r := range rows {
		idx := f.SlotIndex(r.SlotID)
		if idx < 0 {
			violations = append(violations, Violation{
				Row:     r.Row,
				Type:    "error",
				Message: fmt.Sprintf("slot %q is not part of formation %q", r.SlotID, f.Name),
			})
			continue
		}
		if seen[r.SlotID] {
			violations = append(violations, Violation{
				Row:     r.Row,
				Type:    "error",
				Message: fmt.Sprintf("slot %q is listed more than once", r.SlotID),
			})
		}
		seen[r.SlotID] = true

		want := f.Slots[idx].Role
		if r.Role != "" && !strings.EqualFold(r.Role, string(want)) {
			violations = append(violations, Violation{
				Row:     r.Row,
				Type:    "error",
				Message: fmt.Sprintf("slot %q has role %s, formation says %s", r.SlotID, r.Role, want),
			})
		}
	}
	for _, s := range f.Slots {
		if !seen[s.ID] {
			violations = append(violations, Violation{
				Type:    "error",
				Message: fmt.Sprintf("slot %q is missing from the lineup", s.ID),
			})
		}
	}
	return violations
}

func checkPlayers(cfg *config.Config, rows []excel.Row) []Violation {
	roster := lineup.Roster(cfg.Players)
	var violations []Violation
	for _, r := range rows {
		if r.PlayerID == "" {
			continue
		}
		p, ok := roster[r.PlayerID]
		if !ok {
			violations = append(violations, Violation{
				Row:     r.Row,
				Type:    "error",
				Message: fmt.Sprintf("%s: player %q is not on the roster", r.SlotID, r.PlayerID),
			})
			continue
		}
		if p.Team != cfg.Team {
			violations = append(violations, Violation{
				Row:     r.Row,
				Type:    "error",
				Message: fmt.Sprintf("%s: %s plays for the %s team, lineup is for %s", r.SlotID, p.DisplayName(), p.Team, cfg.Team),
			})
		}
	}
	return violations
}

func checkDuplicates(rows []excel.Row) []Violation {
	first := make(map[string]excel.Row)
	var violations []Violation
	for _, r := range rows {
		if r.PlayerID == "" {
			continue
		}
		if prev, ok := first[r.PlayerID]; ok {
			violations = append(violations, Violation{
				Row:     r.Row,
				Type:    "error",
				Message: fmt.Sprintf("player %q is in both %s and %s", r.PlayerID, prev.SlotID, r.SlotID),
			})
			continue
		}
		first[r.PlayerID] = r
	}
	return violations
}

func checkEmptySlots(rows []excel.Row) []Violation {
	var violations []Violation
	for _, r := range rows {
		if r.PlayerID == "" {
			violations = append(violations, Violation{
				Row:     r.Row,
				Type:    "warning",
				Message: fmt.Sprintf("%s: no player assigned", r.SlotID),
			})
		}
	}
	return violations
}

func checkAvailability(cfg *config.Config, rows []excel.Row) []Violation {
	roster := lineup.Roster(cfg.Players)
	var violations []Violation
	for _, r := range rows {
		p, ok := roster[r.PlayerID]
		if !ok || p.IsAvailable() {
			continue
		}
		violations = append(violations, Violation{
			Row:     r.Row,
			Type:    "warning",
			Message: fmt.Sprintf("%s: %s is unavailable (%s)", r.SlotID, p.DisplayName(), p.Status()),
		})
	}
	return violations
}

func checkFit(cfg *config.Config, f lineup.Formation, rows []excel.Row) []Violation {
	roster := lineup.Roster(cfg.Players)
	sc := cfg.Scorer()
	var violations []Violation
	for _, r := range rows {
		p, ok := roster[r.PlayerID]
		idx := f.SlotIndex(r.SlotID)
		if !ok || idx < 0 {
			continue
		}
		e := sc.Entry(p, f.Slots[idx])
		if e.Fitness != scoring.BandPoor {
			continue
		}
		violations = append(violations, Violation{
			Row:     r.Row,
			Type:    "warning",
			Message: fmt.Sprintf("%s: %s is a poor fit (score %d)", r.SlotID, p.DisplayName(), e.Score),
		})
	}
	return violations
}
