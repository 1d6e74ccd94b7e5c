package scoring

import (
	"strings"

	"github.com/derekprior/formation/internal/lineup"
)

// RoleWeight rates how typical a fine role is for its category.
type RoleWeight struct {
	Role   string
	Weight int // 90-100
}

// RoleTable maps each coarse category to the fine roles that belong to it,
// most typical first.
var RoleTable = map[lineup.Category][]RoleWeight{
	lineup.GK: {
		{"gk", 100},
	},
	lineup.DF: {
		{"cb", 100}, {"lcb", 100}, {"rcb", 100},
		{"lb", 95}, {"rb", 95},
		{"lwb", 90}, {"rwb", 90}, {"sw", 90},
	},
	lineup.MF: {
		{"cm", 100}, {"cdm", 100}, {"dm", 100}, {"cam", 95},
		{"lm", 95}, {"rm", 95}, {"lam", 90}, {"ram", 90},
	},
	lineup.FW: {
		{"st", 100}, {"cf", 100},
		{"lw", 95}, {"rw", 95}, {"ss", 95},
		{"lf", 90}, {"rf", 90},
	},
}

var roleIndex = buildRoleIndex()

type roleInfo struct {
	category lineup.Category
	weight   int
}

func buildRoleIndex() map[string]roleInfo {
	idx := make(map[string]roleInfo)
	for _, cat := range lineup.Categories {
		for _, rw := range RoleTable[cat] {
			idx[rw.Role] = roleInfo{category: cat, weight: rw.Weight}
		}
	}
	return idx
}

func normalizeRole(role string) string {
	return strings.ToLower(strings.TrimSpace(role))
}

// CategoryOf returns the coarse category of a fine role id.
func CategoryOf(role string) (lineup.Category, bool) {
	info, ok := roleIndex[normalizeRole(role)]
	return info.category, ok
}

// KnownRole reports whether role appears in RoleTable.
func KnownRole(role string) bool {
	_, ok := roleIndex[normalizeRole(role)]
	return ok
}

// LevelTable is the single numeric mapping for form and morale.
var LevelTable = map[lineup.Level]int{
	lineup.Excellent: 5,
	lineup.Good:      3,
	lineup.Okay:      0,
	lineup.Average:   0,
	lineup.Poor:      -3,
	lineup.VeryPoor:  -5,
	lineup.Terrible:  -8,
}

// LevelValue returns the contribution of a level. Empty and unknown
// levels are neutral.
func LevelValue(l lineup.Level) int {
	for k, v := range LevelTable {
		if strings.EqualFold(string(k), strings.TrimSpace(string(l))) {
			return v
		}
	}
	return 0
}

// KnownLevel reports whether l is empty or in LevelTable.
func KnownLevel(l lineup.Level) bool {
	if strings.TrimSpace(string(l)) == "" {
		return true
	}
	for k := range LevelTable {
		if strings.EqualFold(string(k), strings.TrimSpace(string(l))) {
			return true
		}
	}
	return false
}

// StatusTable holds the score penalty for each availability status, ordered
// by severity.
var StatusTable = map[lineup.Status]int{
	lineup.Available:   0,
	lineup.Doubtful:    10,
	lineup.MinorInjury: 15,
	lineup.MajorInjury: 40,
	lineup.Suspended:   60,
}

// unknownStatusPenalty applies to statuses outside StatusTable.
const unknownStatusPenalty = 10

// StatusPenalty returns the penalty for a status.
func StatusPenalty(s lineup.Status) int {
	for k, v := range StatusTable {
		if strings.EqualFold(string(k), strings.TrimSpace(string(s))) {
			return v
		}
	}
	if strings.TrimSpace(string(s)) == "" {
		return 0
	}
	return unknownStatusPenalty
}

// KnownStatus reports whether s is empty or in StatusTable.
func KnownStatus(s lineup.Status) bool {
	if strings.TrimSpace(string(s)) == "" {
		return true
	}
	for k := range StatusTable {
		if strings.EqualFold(string(k), strings.TrimSpace(string(s))) {
			return true
		}
	}
	return false
}

// KeyAttributes lists the attributes that matter most for each category.
var KeyAttributes = map[lineup.Category][]string{
	lineup.GK: {"positioning", "passing"},
	lineup.DF: {"tackling", "positioning", "speed"},
	lineup.MF: {"passing", "dribbling", "stamina"},
	lineup.FW: {"shooting", "dribbling", "speed"},
}
