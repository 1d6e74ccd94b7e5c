package excel

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/derekprior/formation/internal/analysis"
	"github.com/derekprior/formation/internal/lineup"
	"github.com/derekprior/formation/internal/scoring"
)

const (
	LineupSheet   = "Lineup"
	ScoresSheet   = "Scores"
	AnalysisSheet = "Analysis"
)

var lineupHeaders = []string{"Slot", "Role", "X", "Y", "Player ID", "Player", "Score", "Fitness"}

// Column indexes (1-based) the reader depends on.
const (
	slotCol     = 1
	roleCol     = 2
	playerIDCol = 5
)

// Generate creates a workbook with the lineup, the full score matrix and the
// analysis report.
func Generate(f lineup.Formation, players []lineup.Player, report analysis.Report, sc *scoring.Scorer) (*excelize.File, error) {
	wb := excelize.NewFile()
	wb.SetDefaultFont("Arial")

	if err := write(wb, f, players, report, sc); err != nil {
		return nil, err
	}
	if err := wb.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("removing default sheet: %w", err)
	}
	if idx, err := wb.GetSheetIndex(LineupSheet); err == nil && idx >= 0 {
		wb.SetActiveSheet(idx)
	}
	return wb, nil
}

// Update rewrites the lineup scores, the Scores sheet and the Analysis sheet
// of an existing workbook after the lineup was edited by hand.
func Update(path string, f lineup.Formation, players []lineup.Player, report analysis.Report, sc *scoring.Scorer) error {
	wb, err := excelize.OpenFile(path)
	if err != nil {
		return fmt.Errorf("opening file: %w", err)
	}
	defer wb.Close()

	for _, sheet := range []string{ScoresSheet, AnalysisSheet} {
		if idx, err := wb.GetSheetIndex(sheet); err == nil && idx >= 0 {
			if err := wb.DeleteSheet(sheet); err != nil {
				return fmt.Errorf("removing %s sheet: %w", sheet, err)
			}
		}
	}
	if err := write(wb, f, players, report, sc); err != nil {
		return err
	}
	return wb.Save()
}

func write(wb *excelize.File, f lineup.Formation, players []lineup.Player, report analysis.Report, sc *scoring.Scorer) error {
	if err := writeLineupSheet(wb, f, players, report); err != nil {
		return fmt.Errorf("writing lineup sheet: %w", err)
	}
	if err := writeScoresSheet(wb, f, players, sc); err != nil {
		return fmt.Errorf("writing scores sheet: %w", err)
	}
	if err := writeAnalysisSheet(wb, report); err != nil {
		return fmt.Errorf("writing analysis sheet: %w", err)
	}
	return nil
}

type styles struct {
	header int
	cell   int
	center int
}

func newStyles(wb *excelize.File) (styles, error) {
	var s styles
	var err error
	if s.header, err = wb.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 12, Family: "Arial"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#2E7D32"}},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	}); err != nil {
		return s, err
	}
	if s.cell, err = wb.NewStyle(&excelize.Style{
		Font: &excelize.Font{Size: 12, Family: "Arial"},
	}); err != nil {
		return s, err
	}
	s.center, err = wb.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Size: 12, Family: "Arial"},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	return s, err
}

// setRow writes values into consecutive cells starting at column col.
func setRow(wb *excelize.File, sheet string, col, row int, values ...any) error {
	for i, v := range values {
		if err := wb.SetCellValue(sheet, cellRef(col+i, row), v); err != nil {
			return err
		}
	}
	return nil
}

func writeHeader(wb *excelize.File, sheet string, row int, headers []string, style int) error {
	values := make([]any, len(headers))
	for i, h := range headers {
		values[i] = h
	}
	if err := setRow(wb, sheet, 1, row, values...); err != nil {
		return err
	}
	return wb.SetCellStyle(sheet, cellRef(1, row), cellRef(len(headers), row), style)
}

func setWidths(wb *excelize.File, sheet string, widths map[string]float64) error {
	for col, w := range widths {
		if err := wb.SetColWidth(sheet, col, col, w); err != nil {
			return err
		}
	}
	return nil
}

func writeLineupSheet(wb *excelize.File, f lineup.Formation, players []lineup.Player, report analysis.Report) error {
	sheet := LineupSheet
	idx, err := wb.GetSheetIndex(sheet)
	if err != nil {
		return err
	}
	existed := idx >= 0
	if !existed {
		if _, err := wb.NewSheet(sheet); err != nil {
			return err
		}
	}
	st, err := newStyles(wb)
	if err != nil {
		return err
	}
	if err := writeHeader(wb, sheet, 1, lineupHeaders, st.header); err != nil {
		return err
	}

	roster := lineup.Roster(players)
	entries := make(map[string]scoring.Entry)
	for _, e := range report.PositionScores {
		entries[e.SlotID] = e
	}

	for i, slot := range f.Slots {
		row := i + 2
		values := []any{slot.ID, string(slot.Role), slot.DefaultPosition.X, slot.DefaultPosition.Y, slot.PlayerID, "", "", ""}
		if p, ok := roster[slot.PlayerID]; ok {
			values[5] = p.DisplayName()
		}
		if e, ok := entries[slot.ID]; ok {
			values[6] = e.Score
			values[7] = string(e.Fitness)
		}
		if err := setRow(wb, sheet, 1, row, values...); err != nil {
			return err
		}
		if err := wb.SetCellStyle(sheet, cellRef(1, row), cellRef(len(lineupHeaders), row), st.cell); err != nil {
			return err
		}
	}

	if err := setWidths(wb, sheet, map[string]float64{"A": 10, "B": 8, "C": 8, "D": 8, "E": 14, "F": 24, "G": 10, "H": 12}); err != nil {
		return err
	}

	// Poor fits stand out in red. An existing sheet already carries the rule.
	if existed || len(f.Slots) == 0 {
		return nil
	}
	redFill, err := wb.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#FFC7CE"}},
		Font: &excelize.Font{Size: 12, Family: "Arial"},
	})
	if err != nil {
		return err
	}
	lastRow := len(f.Slots) + 1
	return wb.SetConditionalFormat(sheet, fmt.Sprintf("A2:H%d", lastRow), []excelize.ConditionalFormatOptions{
		{
			Type:     "formula",
			Criteria: fmt.Sprintf(`$H2="%s"`, scoring.BandPoor),
			Format:   &redFill,
		},
	})
}

func writeScoresSheet(wb *excelize.File, f lineup.Formation, players []lineup.Player, sc *scoring.Scorer) error {
	sheet := ScoresSheet
	if _, err := wb.NewSheet(sheet); err != nil {
		return err
	}
	st, err := newStyles(wb)
	if err != nil {
		return err
	}

	headers := []string{"Player", "Role", "Status"}
	for _, slot := range f.Slots {
		headers = append(headers, slot.ID)
	}
	if err := writeHeader(wb, sheet, 1, headers, st.header); err != nil {
		return err
	}

	matrix := sc.Matrix(players, f.Slots)
	for i, p := range players {
		row := i + 2
		if err := setRow(wb, sheet, 1, row, p.DisplayName(), p.RoleID, string(p.Status())); err != nil {
			return err
		}
		for j := range f.Slots {
			if err := wb.SetCellValue(sheet, cellRef(j+4, row), matrix[i][j]); err != nil {
				return err
			}
		}
		if len(f.Slots) > 0 {
			if err := wb.SetCellStyle(sheet, cellRef(4, row), cellRef(len(headers), row), st.center); err != nil {
				return err
			}
		}
	}

	return setWidths(wb, sheet, map[string]float64{"A": 24, "C": 14})
}

func writeAnalysisSheet(wb *excelize.File, report analysis.Report) error {
	sheet := AnalysisSheet
	if _, err := wb.NewSheet(sheet); err != nil {
		return err
	}
	st, err := newStyles(wb)
	if err != nil {
		return err
	}

	if err := setRow(wb, sheet, 1, 1, "Total score", report.TotalScore); err != nil {
		return err
	}
	if err := setRow(wb, sheet, 1, 2, "Average score", report.AverageScore); err != nil {
		return err
	}

	row := 4
	if err := writeHeader(wb, sheet, row, []string{"Line", "Slots", "Filled", "Average"}, st.header); err != nil {
		return err
	}
	for _, l := range report.Lines {
		row++
		if err := setRow(wb, sheet, 1, row, string(l.Role), l.Slots, l.Filled, l.AverageScore); err != nil {
			return err
		}
	}

	row += 2
	if err := writeHeader(wb, sheet, row, []string{"Slot", "Player ID", "Kind", "Issue"}, st.header); err != nil {
		return err
	}
	for _, r := range report.Recommendations {
		row++
		if err := setRow(wb, sheet, 1, row, r.SlotID, r.PlayerID, string(r.Kind), r.Issue); err != nil {
			return err
		}
	}

	return setWidths(wb, sheet, map[string]float64{"A": 16, "B": 14, "C": 14, "D": 48})
}

// Row is one slot line read back from the Lineup sheet.
type Row struct {
	Row      int
	SlotID   string
	Role     string
	PlayerID string
}

// ReadRows returns the slot rows of the Lineup sheet.
func ReadRows(wb *excelize.File) ([]Row, error) {
	rows, err := wb.GetRows(LineupSheet)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", LineupSheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s sheet is empty", LineupSheet)
	}

	var out []Row
	for i, cells := range rows {
		if i == 0 {
			continue
		}
		slotID := cell(cells, slotCol)
		if slotID == "" {
			continue
		}
		out = append(out, Row{
			Row:      i + 1,
			SlotID:   slotID,
			Role:     cell(cells, roleCol),
			PlayerID: cell(cells, playerIDCol),
		})
	}
	return out, nil
}

// ReadLineup applies the occupants in the workbook at path to a copy of base.
// Slots missing from the sheet are left empty.
func ReadLineup(path string, base lineup.Formation) (lineup.Formation, error) {
	wb, err := excelize.OpenFile(path)
	if err != nil {
		return lineup.Formation{}, fmt.Errorf("opening file: %w", err)
	}
	defer wb.Close()

	rows, err := ReadRows(wb)
	if err != nil {
		return lineup.Formation{}, err
	}

	out := base.Cleared()
	for _, r := range rows {
		idx := out.SlotIndex(r.SlotID)
		if idx < 0 {
			return lineup.Formation{}, fmt.Errorf("row %d: slot %q is not in formation %q", r.Row, r.SlotID, base.Name)
		}
		out.Slots[idx].PlayerID = r.PlayerID
	}
	return out, nil
}

func cell(cells []string, col int) string {
	if col-1 >= len(cells) {
		return ""
	}
	return strings.TrimSpace(cells[col-1])
}

func cellRef(col, row int) string {
	return fmt.Sprintf("%s%d", colLetter(col), row)
}

func colLetter(col int) string {
	result := ""
	for col > 0 {
		col--
		result = string(rune('A'+col%26)) + result
		col /= 26
	}
	return result
}
