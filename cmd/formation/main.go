package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/derekprior/formation/internal/analysis"
	"github.com/derekprior/formation/internal/config"
	"github.com/derekprior/formation/internal/conflict"
	"github.com/derekprior/formation/internal/excel"
	"github.com/derekprior/formation/internal/lineup"
	"github.com/derekprior/formation/internal/strategy"
	"github.com/derekprior/formation/internal/validator"
)

const defaultConfigFile = "formation.yaml"

var log = zerolog.Nop()

func resolveConfigPath(configFlag string) (string, error) {
	if configFlag != "" {
		return configFlag, nil
	}
	if _, err := os.Stat(defaultConfigFile); err == nil {
		return defaultConfigFile, nil
	}
	return "", fmt.Errorf("no config file found. Either create %s in the current directory or pass --config", defaultConfigFile)
}

func setupLogging(level string) error {
	var lvl zerolog.Level
	switch strings.ToUpper(level) {
	case "DEBUG":
		lvl = zerolog.DebugLevel
	case "INFO":
		lvl = zerolog.InfoLevel
	case "WARN":
		lvl = zerolog.WarnLevel
	case "ERROR":
		lvl = zerolog.ErrorLevel
	default:
		return fmt.Errorf("unknown log level %q", level)
	}
	log = zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.Kitchen,
	}).Level(lvl).With().Timestamp().Logger()
	return nil
}

func main() {
	var logLevel string
	rootCmd := &cobra.Command{
		Use:   "formation",
		Short: "Football lineup auto-assignment and analysis",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogging(logLevel)
		},
	}
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Diagnostic log level (debug, info, warn, error)")

	var initOutputPath string
	initCmd := &cobra.Command{
		Use:          "init",
		Short:        "Create a starter formation.yaml in the current directory",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(initOutputPath)
		},
	}
	initCmd.Flags().StringVarP(&initOutputPath, "output", "o", defaultConfigFile, "Output path for the config file")

	lineupCmd := &cobra.Command{
		Use:   "lineup",
		Short: "Assign, analyze, resolve and validate lineups",
	}

	var opts options
	lineupCmd.PersistentFlags().StringVar(&opts.configFile, "config", "", "Path to config file (default: formation.yaml in current directory)")
	lineupCmd.PersistentFlags().StringVar(&opts.formation, "formation", "", "Formation name (default: the config's active formation)")
	lineupCmd.PersistentFlags().StringVar(&opts.team, "team", "", "Team the lineup is for: home or away (default: the config's team)")

	var outputFile string
	assignCmd := &cobra.Command{
		Use:          "assign",
		Short:        "Fill the formation from the roster and write a lineup workbook",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAssign(opts, outputFile)
		},
	}
	assignCmd.Flags().StringVar(&opts.strategy, "strategy", "", "Assignment strategy: "+strings.Join(strategy.Names, ", "))
	assignCmd.Flags().StringVarP(&outputFile, "output", "o", "lineup.xlsx", "Output Excel file path")

	analyzeCmd := &cobra.Command{
		Use:          "analyze <lineup.xlsx>",
		Short:        "Score a lineup workbook and refresh its Analysis sheet",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(opts, args[0])
		},
	}

	var playerID, slotID string
	resolveCmd := &cobra.Command{
		Use:          "resolve <lineup.xlsx>",
		Short:        "Suggest how to move a player into an occupied slot",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResolve(opts, args[0], playerID, slotID)
		},
	}
	resolveCmd.Flags().StringVar(&playerID, "player", "", "Id of the player to move")
	resolveCmd.Flags().StringVar(&slotID, "slot", "", "Id of the target slot")
	resolveCmd.MarkFlagRequired("player")
	resolveCmd.MarkFlagRequired("slot")

	validateCmd := &cobra.Command{
		Use:          "validate <lineup.xlsx>",
		Short:        "Validate a lineup workbook against the roster and formation",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(opts, args[0])
		},
	}

	lineupCmd.AddCommand(assignCmd, analyzeCmd, resolveCmd, validateCmd)
	rootCmd.AddCommand(initCmd, lineupCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

type options struct {
	configFile string
	formation  string
	team       string
	strategy   string
}

func (o options) load() (*config.Config, lineup.Formation, error) {
	path, err := resolveConfigPath(o.configFile)
	if err != nil {
		return nil, lineup.Formation{}, err
	}
	log.Debug().Str("path", path).Msg("loading config")

	cfg, err := config.LoadFromFile(path)
	if err != nil {
		return nil, lineup.Formation{}, fmt.Errorf("loading config: %w", err)
	}
	// --team applies to every lineup command, not just assign.
	if o.team != "" {
		if cfg.Team, err = lineup.ParseTeam(o.team); err != nil {
			return nil, lineup.Formation{}, err
		}
	}
	f, err := cfg.Lookup(o.formation)
	if err != nil {
		return nil, lineup.Formation{}, fmt.Errorf("%w (available: %s)", err, strings.Join(cfg.FormationNames(), ", "))
	}
	log.Debug().Str("formation", f.Name).Int("slots", len(f.Slots)).Int("players", len(cfg.Players)).Msg("config loaded")
	return cfg, f, nil
}

func runInit(outputPath string) error {
	if _, err := os.Stat(outputPath); err == nil {
		return fmt.Errorf("%s already exists; remove it first or use -o to write elsewhere", outputPath)
	}

	if err := os.WriteFile(outputPath, []byte(configTemplate), 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	fmt.Printf("✓ Created %s\n", outputPath)
	return nil
}

func runAssign(opts options, outputPath string) error {
	cfg, f, err := opts.load()
	if err != nil {
		return err
	}

	team := cfg.Team
	name := cfg.Strategy
	if opts.strategy != "" {
		name = opts.strategy
	}

	sc := cfg.Scorer()
	solver, err := strategy.Get(name, sc)
	if err != nil {
		return err
	}

	eligible := lineup.ForTeam(cfg.Players, team)
	fmt.Printf("Assigning %d %s players to %d slots of %s...\n", len(eligible), team, len(f.Slots), f.Name)

	start := time.Now()
	assigned := solver.Assign(cfg.Players, f, team)
	log.Info().Str("strategy", name).Dur("elapsed", time.Since(start)).
		Int("filled", assigned.Filled()).Msg("assignment finished")

	report := (&analysis.Analyzer{Scorer: sc}).Analyze(assigned, cfg.Players)
	printLineup(assigned, cfg.Players, report)

	wb, err := excel.Generate(assigned, eligible, report, sc)
	if err != nil {
		return fmt.Errorf("generating Excel: %w", err)
	}
	if err := wb.SaveAs(outputPath); err != nil {
		return fmt.Errorf("saving file: %w", err)
	}

	fmt.Printf("\n✓ Lineup saved to %s\n", outputPath)
	return nil
}

func runAnalyze(opts options, lineupPath string) error {
	cfg, f, err := opts.load()
	if err != nil {
		return err
	}

	current, err := excel.ReadLineup(lineupPath, f)
	if err != nil {
		return fmt.Errorf("reading lineup: %w", err)
	}

	sc := cfg.Scorer()
	report := (&analysis.Analyzer{Scorer: sc}).Analyze(current, cfg.Players)
	printLineup(current, cfg.Players, report)

	if err := excel.Update(lineupPath, current, lineup.ForTeam(cfg.Players, cfg.Team), report, sc); err != nil {
		return fmt.Errorf("updating workbook: %w", err)
	}
	fmt.Printf("\n✓ Analysis updated in %s\n", lineupPath)
	return nil
}

func runResolve(opts options, lineupPath, playerID, slotID string) error {
	cfg, f, err := opts.load()
	if err != nil {
		return err
	}

	current, err := excel.ReadLineup(lineupPath, f)
	if err != nil {
		return fmt.Errorf("reading lineup: %w", err)
	}

	occupant := ""
	if idx := current.SlotIndex(slotID); idx >= 0 {
		occupant = current.Slots[idx].PlayerID
	}
	log.Debug().Str("player", playerID).Str("slot", slotID).Str("occupant", occupant).Msg("resolving move")

	players := lineup.ForTeam(cfg.Players, cfg.Team)
	result := (&conflict.Resolver{Scorer: cfg.Scorer()}).Resolve(playerID, slotID, occupant, current, players)
	if !result.Success {
		return fmt.Errorf("cannot move %q into %q: unknown player or slot", playerID, slotID)
	}
	if len(result.Recommendations) == 0 {
		fmt.Printf("✓ Slot %s is free; %s can move in directly\n", slotID, playerID)
		return nil
	}

	fmt.Printf("Options for moving %s into %s:\n", playerID, slotID)
	for i, r := range result.Recommendations {
		fmt.Printf("  %d. [%+d] %s\n", i+1, r.ScoreDelta, r.Description)
	}
	return nil
}

func runValidate(opts options, lineupPath string) error {
	cfg, f, err := opts.load()
	if err != nil {
		return err
	}

	violations, err := validator.Validate(cfg, f, lineupPath)
	if err != nil {
		return fmt.Errorf("validating: %w", err)
	}

	errors := 0
	warnings := 0
	for _, v := range violations {
		switch v.Type {
		case "error":
			errors++
			fmt.Printf("✗ Rule violation: %s\n", v.Message)
		case "warning":
			warnings++
			fmt.Printf("⚠ Guideline violation: %s\n", v.Message)
		}
	}

	fmt.Printf("\nValidation complete: %d rule violations, %d guideline violations\n", errors, warnings)
	if errors > 0 {
		return fmt.Errorf("%d rule violations found", errors)
	}
	return nil
}

func printLineup(f lineup.Formation, players []lineup.Player, report analysis.Report) {
	roster := lineup.Roster(players)
	scores := make(map[string]int)
	for _, e := range report.PositionScores {
		scores[e.SlotID] = e.Score
	}

	fmt.Println("\nLineup:")
	fmt.Printf("  %-8s %-4s %-24s %5s\n", "Slot", "Role", "Player", "Score")
	for _, s := range f.Slots {
		name := "-"
		score := ""
		if p, ok := roster[s.PlayerID]; ok {
			name = p.DisplayName()
			score = fmt.Sprint(scores[s.ID])
		} else if s.PlayerID != "" {
			name = s.PlayerID + " (unknown)"
		}
		fmt.Printf("  %-8s %-4s %-24s %5s\n", s.ID, s.Role, name, score)
	}

	fmt.Printf("\nTotal %d, average %d\n", report.TotalScore, report.AverageScore)
	for _, l := range report.Lines {
		fmt.Printf("  %s: %d/%d filled, average %d\n", l.Role, l.Filled, l.Slots, l.AverageScore)
	}

	if len(report.Recommendations) > 0 {
		fmt.Printf("\nRecommendations (%d):\n", len(report.Recommendations))
		for _, r := range report.Recommendations {
			fmt.Printf("  ⚠ %s: %s\n", r.SlotID, r.Issue)
		}
	} else {
		fmt.Println("\n✓ No recommendations")
	}
}

const configTemplate = `# Formation configuration
# =======================
# Roster and formations for the lineup auto-assignment tool.

# Which side "lineup assign" picks players from: home or away.
team: home

# "greedy" takes the best remaining player/slot pair until the formation is
# full. "optimal" maximizes the total score over the whole lineup.
strategy: greedy

# The formation used when --formation is not given.
formation: "4-4-2"

# Players. role is the fine-grained playing role:
#   GK: gk
#   DF: cb, lcb, rcb, lb, rb, lwb, rwb, sw
#   MF: cm, cdm, dm, cam, lm, rm, lam, ram
#   FW: st, cf, lw, rw, ss, lf, rf
# attributes are 0-100 and optional; missing attributes count as 0.
# availability.status: Available, Doubtful, Minor Injury, Major Injury, Suspended
# form / morale: Excellent, Good, Okay, Poor, Very Poor, Terrible
# fatigue: 0 (fresh) to 100 (exhausted)
players:
  - id: h1
    name: Keeper
    team: home
    role: gk
    attributes: {positioning: 82, passing: 70}
  - id: h2
    name: Left Back
    team: home
    role: lb
    attributes: {tackling: 74, positioning: 70, speed: 85}
  - id: h3
    name: Centre Back One
    team: home
    role: cb
    attributes: {tackling: 85, positioning: 80, speed: 65}
    form: Good
  - id: h4
    name: Centre Back Two
    team: home
    role: cb
    attributes: {tackling: 80, positioning: 78, speed: 70}
  - id: h5
    name: Right Back
    team: home
    role: rb
    attributes: {tackling: 72, positioning: 70, speed: 82}
    availability:
      status: Minor Injury
      note: "tight hamstring"
  - id: h6
    name: Left Mid
    team: home
    role: lm
    attributes: {passing: 75, dribbling: 80, stamina: 78}
  - id: h7
    name: Holding Mid
    team: home
    role: cdm
    attributes: {passing: 78, dribbling: 65, stamina: 85}
    morale: Excellent
  - id: h8
    name: Playmaker
    team: home
    role: cm
    attributes: {passing: 88, dribbling: 80, stamina: 75}
  - id: h9
    name: Right Mid
    team: home
    role: rm
    attributes: {passing: 72, dribbling: 82, stamina: 80}
    fatigue: 40
  - id: h10
    name: Striker
    team: home
    role: st
    attributes: {shooting: 86, dribbling: 75, speed: 80}
    form: Excellent
  - id: h11
    name: Target Man
    team: home
    role: cf
    attributes: {shooting: 80, dribbling: 60, speed: 62}
  - id: h12
    name: Utility Back
    team: home
    role: rwb
    attributes: {tackling: 68, positioning: 66, speed: 84}
  - id: a1
    name: Visiting Keeper
    team: away
    role: gk

# Formations. Use a preset shape (4-4-2, 4-3-3, 3-5-2, 4-2-3-1, 5-3-2, or any
# defenders-...-forwards shape adding up to 10) or list slots explicitly:
#
#   - name: Custom
#     slots:
#       - id: keeper
#         role: GK
#         position: {x: 50, y: 5}
#         preferred_roles: [gk]
formations:
  - name: "4-4-2"
    preset: "4-4-2"
  - name: "4-3-3"
    preset: "4-3-3"

# Optional scoring overrides.
scoring:
  bands:
    excellent: 90
    good: 75
    fair: 60
  cross_category_penalty: [30, 55, 80]
`
