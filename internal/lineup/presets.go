package lineup

import (
	"fmt"
	"strconv"
	"strings"
)

// Presets lists the shapes shipped in the starter config.
var Presets = []string{"4-4-2", "4-3-3", "3-5-2", "4-2-3-1", "5-3-2"}

const (
	goalkeeperY = 5.0
	firstLineY  = 25.0
	lastLineY   = 80.0
)

// Preset builds an empty formation from a shape like "4-3-3". The first line
// is defenders, the last is forwards and any lines between are midfield.
// A goalkeeper slot is always added.
func Preset(shape string) (Formation, error) {
	lines, err := parseShape(shape)
	if err != nil {
		return Formation{}, err
	}

	f := Formation{ID: shape, Name: shape}
	f.Slots = append(f.Slots, Slot{
		ID:              "gk",
		Role:            GK,
		DefaultPosition: Position{X: 50, Y: goalkeeperY},
		PreferredRoles:  []string{"gk"},
	})

	counters := make(map[Category]int)
	for li, n := range lines {
		cat := MF
		switch li {
		case 0:
			cat = DF
		case len(lines) - 1:
			cat = FW
		}

		y := firstLineY + float64(li)*(lastLineY-firstLineY)/float64(len(lines)-1)
		for j := 0; j < n; j++ {
			counters[cat]++
			f.Slots = append(f.Slots, Slot{
				ID:              fmt.Sprintf("%s%d", strings.ToLower(string(cat)), counters[cat]),
				Role:            cat,
				DefaultPosition: Position{X: float64(j+1) * 100 / float64(n+1), Y: y},
				PreferredRoles:  presetRoles(cat, li, len(lines), n, j),
			})
		}
	}
	return f, nil
}

func parseShape(shape string) ([]int, error) {
	parts := strings.Split(strings.TrimSpace(shape), "-")
	if len(parts) < 3 {
		return nil, fmt.Errorf("formation shape %q needs at least three lines", shape)
	}
	var lines []int
	total := 0
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 1 || n > 6 {
			return nil, fmt.Errorf("formation shape %q: invalid line %q", shape, p)
		}
		lines = append(lines, n)
		total += n
	}
	if total != 10 {
		return nil, fmt.Errorf("formation shape %q has %d outfield players, want 10", shape, total)
	}
	return lines, nil
}

// presetRoles picks fine roles for slot j of an n-wide line. Slots are laid
// out left to right.
func presetRoles(cat Category, line, lines, n, j int) []string {
	left, right := j == 0, j == n-1
	wide := n >= 3 && (left || right)

	switch cat {
	case DF:
		switch {
		case n >= 5 && left:
			return []string{"lwb", "lb"}
		case n >= 5 && right:
			return []string{"rwb", "rb"}
		case n == 4 && left:
			return []string{"lb", "lwb"}
		case n == 4 && right:
			return []string{"rb", "rwb"}
		case n == 3 && left:
			return []string{"lcb", "cb"}
		case n == 3 && right:
			return []string{"rcb", "cb"}
		default:
			return []string{"cb"}
		}
	case FW:
		switch {
		case wide && left:
			return []string{"lw", "lf"}
		case wide && right:
			return []string{"rw", "rf"}
		case n == 1:
			return []string{"cf", "st"}
		default:
			return []string{"st", "cf"}
		}
	default:
		advanced := line == lines-2 && lines > 3
		deep := line == 1 && lines > 3
		switch {
		case deep:
			return []string{"cdm", "cm"}
		case advanced && wide && left:
			return []string{"lam", "lm", "lw"}
		case advanced && wide && right:
			return []string{"ram", "rm", "rw"}
		case advanced:
			return []string{"cam", "cm"}
		case n >= 4 && left:
			return []string{"lm", "lwb"}
		case n >= 4 && right:
			return []string{"rm", "rwb"}
		default:
			return []string{"cm", "cdm", "cam"}
		}
	}
}
