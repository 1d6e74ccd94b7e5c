package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/derekprior/formation/internal/lineup"
	"github.com/derekprior/formation/internal/scoring"
	"github.com/derekprior/formation/internal/strategy"
)

// FormationSpec is a formation in the config file: either a preset shape or
// an explicit slot list.
type FormationSpec struct {
	Name   string        `yaml:"name"`
	Preset string        `yaml:"preset"`
	Slots  []lineup.Slot `yaml:"slots"`
}

// Scoring overrides selected scorer magnitudes. Omitted or zero values,
// including single band fields, keep the defaults.
type Scoring struct {
	Bands                *scoring.Bands `yaml:"bands"`
	CrossCategoryPenalty []int          `yaml:"cross_category_penalty"`
	FatigueFactor        *float64       `yaml:"fatigue_factor"`
}

type Config struct {
	Team       lineup.Team     `yaml:"team"`
	Strategy   string          `yaml:"strategy"`
	Formation  string          `yaml:"formation"`
	Players    []lineup.Player `yaml:"players"`
	Formations []FormationSpec `yaml:"formations"`
	Scoring    Scoring         `yaml:"scoring"`

	built map[string]lineup.Formation
}

// LoadFromBytes parses YAML bytes into a Config and validates it.
func LoadFromBytes(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadFromFile reads and parses a YAML config file.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return LoadFromBytes(data)
}

// Weights returns the default scoring weights with the file's overrides.
func (c *Config) Weights() scoring.Weights {
	w := scoring.DefaultWeights()
	if b := c.Scoring.Bands; b != nil {
		if b.Excellent != 0 {
			w.Bands.Excellent = b.Excellent
		}
		if b.Good != 0 {
			w.Bands.Good = b.Good
		}
		if b.Fair != 0 {
			w.Bands.Fair = b.Fair
		}
	}
	if len(c.Scoring.CrossCategoryPenalty) > 0 {
		w.CrossCategoryPenalty = c.Scoring.CrossCategoryPenalty
	}
	if c.Scoring.FatigueFactor != nil {
		w.FatigueFactor = *c.Scoring.FatigueFactor
	}
	return w
}

// Scorer builds a scorer from Weights.
func (c *Config) Scorer() *scoring.Scorer {
	return scoring.New(c.Weights())
}

// Lookup returns a copy of the named formation. An empty name selects the
// active formation.
func (c *Config) Lookup(name string) (lineup.Formation, error) {
	if name == "" {
		name = c.Formation
	}
	f, ok := c.built[name]
	if !ok {
		return lineup.Formation{}, fmt.Errorf("unknown formation %q", name)
	}
	return f.Clone(), nil
}

// FormationNames lists formations in file order.
func (c *Config) FormationNames() []string {
	var names []string
	for _, fs := range c.Formations {
		names = append(names, fs.Name)
	}
	return names
}

func (c *Config) validate() error {
	if c.Team == "" {
		c.Team = lineup.Home
	}
	team, err := lineup.ParseTeam(string(c.Team))
	if err != nil {
		return err
	}
	c.Team = team

	if _, err := strategy.Get(c.Strategy, nil); err != nil {
		return err
	}

	if len(c.Players) == 0 {
		return fmt.Errorf("at least one player is required")
	}
	if len(c.Formations) == 0 {
		return fmt.Errorf("at least one formation is required")
	}

	seen := make(map[string]bool)
	for i := range c.Players {
		p := &c.Players[i]
		if p.ID == "" {
			return fmt.Errorf("player %d has no id", i+1)
		}
		if seen[p.ID] {
			return fmt.Errorf("player id %q appears more than once", p.ID)
		}
		seen[p.ID] = true

		pt, err := lineup.ParseTeam(string(p.Team))
		if err != nil {
			return fmt.Errorf("player %q: %w", p.ID, err)
		}
		p.Team = pt

		if !scoring.KnownRole(p.RoleID) {
			return fmt.Errorf("player %q: unknown role %q", p.ID, p.RoleID)
		}
		if p.Availability != nil && !scoring.KnownStatus(p.Availability.Status) {
			return fmt.Errorf("player %q: unknown availability status %q", p.ID, p.Availability.Status)
		}
		if !scoring.KnownLevel(p.Form) {
			return fmt.Errorf("player %q: unknown form %q", p.ID, p.Form)
		}
		if !scoring.KnownLevel(p.Morale) {
			return fmt.Errorf("player %q: unknown morale %q", p.ID, p.Morale)
		}
		if p.Fatigue < 0 || p.Fatigue > 100 {
			return fmt.Errorf("player %q: fatigue %d outside 0-100", p.ID, p.Fatigue)
		}
		for name, v := range p.Attributes {
			if v < 0 || v > 100 {
				return fmt.Errorf("player %q: attribute %s=%d outside 0-100", p.ID, name, v)
			}
		}
	}

	c.built = make(map[string]lineup.Formation)
	for i, fs := range c.Formations {
		f, err := fs.build()
		if err != nil {
			return fmt.Errorf("formation %d: %w", i+1, err)
		}
		if _, dup := c.built[f.Name]; dup {
			return fmt.Errorf("formation %q appears more than once", f.Name)
		}
		if err := checkFormation(f, seen); err != nil {
			return fmt.Errorf("formation %q: %w", f.Name, err)
		}
		c.Formations[i].Name = f.Name
		c.built[f.Name] = f
	}

	if c.Formation == "" {
		c.Formation = c.Formations[0].Name
	}
	if _, ok := c.built[c.Formation]; !ok {
		return fmt.Errorf("active formation %q is not defined", c.Formation)
	}

	if err := c.Weights().Validate(); err != nil {
		return fmt.Errorf("scoring: %w", err)
	}
	return nil
}

func (fs FormationSpec) build() (lineup.Formation, error) {
	hasPreset := fs.Preset != ""
	hasSlots := len(fs.Slots) > 0
	if hasPreset == hasSlots {
		return lineup.Formation{}, fmt.Errorf("formation %q must have exactly one of 'preset' or 'slots'", fs.Name)
	}

	var f lineup.Formation
	if hasPreset {
		p, err := lineup.Preset(fs.Preset)
		if err != nil {
			return lineup.Formation{}, err
		}
		f = p
	} else {
		f = lineup.Formation{Slots: append([]lineup.Slot(nil), fs.Slots...)}
	}
	if fs.Name != "" {
		f.Name = fs.Name
	}
	if f.Name == "" {
		return lineup.Formation{}, fmt.Errorf("formation with explicit slots needs a name")
	}
	f.ID = f.Name
	return f, nil
}

// checkFormation enforces the structural preconditions the engine assumes.
func checkFormation(f lineup.Formation, players map[string]bool) error {
	slotIDs := make(map[string]bool)
	occupants := make(map[string]string)
	for i := range f.Slots {
		s := &f.Slots[i]
		if s.ID == "" {
			return fmt.Errorf("slot %d has no id", i+1)
		}
		if slotIDs[s.ID] {
			return fmt.Errorf("slot id %q appears more than once", s.ID)
		}
		slotIDs[s.ID] = true

		cat, err := lineup.ParseCategory(string(s.Role))
		if err != nil {
			return fmt.Errorf("slot %q: %w", s.ID, err)
		}
		s.Role = cat

		for _, r := range s.PreferredRoles {
			if !scoring.KnownRole(r) {
				return fmt.Errorf("slot %q: unknown preferred role %q", s.ID, r)
			}
		}
		if s.DefaultPosition.X < 0 || s.DefaultPosition.X > 100 || s.DefaultPosition.Y < 0 || s.DefaultPosition.Y > 100 {
			return fmt.Errorf("slot %q: position outside the 0-100 pitch", s.ID)
		}

		if s.PlayerID == "" {
			continue
		}
		if !players[s.PlayerID] {
			return fmt.Errorf("slot %q: unknown player %q", s.ID, s.PlayerID)
		}
		if prev, ok := occupants[s.PlayerID]; ok {
			return fmt.Errorf("player %q is in both %q and %q", s.PlayerID, prev, s.ID)
		}
		occupants[s.PlayerID] = s.ID
	}
	return nil
}
