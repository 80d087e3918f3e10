// dodger is a falling-object dodging game for the terminal.
//
// Usage:
//
//	dodger menu              - Enter a name, pick a mode, view high scores
//	dodger play              - Play a mode directly
//	dodger scores            - Show the high-score list
//	dodger modes             - List the start modes
//	dodger serve             - Start SSH server for remote play
//	dodger autoplay          - Run a headless game driven by the autopilot
//
// Global flags:
//
//	--seed <value>   - Set RNG seed for reproducible gameplay
//	--db <path>      - Set database path (default: ~/.dodger/scores.db)
//	--store <kind>   - Score backend: sqlite, history or table
//	--config <path>  - Custom game config YAML
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/space-dodger/internal/audio"
	"github.com/vovakirdan/space-dodger/internal/config"
	"github.com/vovakirdan/space-dodger/internal/platform/tui"
	"github.com/vovakirdan/space-dodger/internal/prefs"
	"github.com/vovakirdan/space-dodger/internal/scores"
	"github.com/vovakirdan/space-dodger/internal/storage"
)

// Score backends
const (
	backendSQLite  = "sqlite"
	backendHistory = "history"
	backendTable   = "table"
)

var (
	// Global flags
	flagSeed       int64
	flagDBPath     string
	flagStore      string
	flagPrefsPath  string
	flagConfig     string
	flagLayout     string
	flagDifficulty string
	flagLogFile    string
	flagMute       bool
	flagLat        float64
	flagLng        float64
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "dodger",
	Short: "Space Dodger - steer through falling rocks in your terminal",
	Long: `Space Dodger is a lane-based dodging game. Obstacles and pickups fall
one row per tick; move the ship left and right to avoid the rocks and
collect the stars. Three hits and the run is over.

Available commands:
  menu      - Interactive start menu (default)
  play      - Play a mode directly
  scores    - View high scores
  modes     - List start modes
  serve     - Start SSH server for remote play
  autoplay  - Headless run driven by the autopilot

Examples:
  dodger
  dodger play --mode fast --name Ada
  dodger scores --all
  dodger serve --ssh :2222`,
	SilenceUsage: true,
	RunE:         runMenu,
}

func init() {
	// Global persistent flags
	pf := rootCmd.PersistentFlags()
	pf.Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	pf.StringVar(&flagDBPath, "db", "~/.dodger/scores.db", "Path to scores database")
	pf.StringVar(&flagStore, "store", "", "Score backend: sqlite, history, table (default from config)")
	pf.StringVar(&flagPrefsPath, "prefs", "~/.dodger/prefs.yaml", "Path to preferences file")
	pf.StringVar(&flagConfig, "config", "", "Path to custom game config YAML")
	pf.StringVar(&flagLayout, "layout", "", "Board layout: classic (7x5) or compact (5x3)")
	pf.StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	pf.StringVar(&flagLogFile, "log-file", "", "Write logs to this file (interactive commands log nowhere otherwise)")
	pf.BoolVar(&flagMute, "mute", false, "Disable sound")
	pf.Float64Var(&flagLat, "lat", 0, "Latitude attached to saved runs")
	pf.Float64Var(&flagLng, "lng", 0, "Longitude attached to saved runs")

	// Add subcommands
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(modesCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(autoplayCmd)
}

// loadConfig reads the game config and applies the layout and difficulty flags.
func loadConfig() (config.DodgerConfig, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return config.DodgerConfig{}, err
	}

	switch config.Layout(flagLayout) {
	case "", config.LayoutClassic, config.LayoutCompact:
		config.ApplyLayout(&cfg, config.Layout(flagLayout))
	default:
		return config.DodgerConfig{}, fmt.Errorf("unknown layout %q (expected classic or compact)", flagLayout)
	}

	switch preset := config.DifficultyPreset(flagDifficulty); preset {
	case "", config.DifficultyEasy, config.DifficultyNormal, config.DifficultyHard, config.DifficultyFixed:
		config.ApplyPreset(&cfg, preset)
	default:
		return config.DodgerConfig{}, fmt.Errorf("unknown difficulty %q (expected easy, normal, hard or fixed)", flagDifficulty)
	}

	if err := cfg.Validate(); err != nil {
		return config.DodgerConfig{}, err
	}
	return cfg, nil
}

// newLogger returns a logger for a component. Interactive commands own the
// terminal, so they only log when --log-file is set.
func newLogger(prefix string, interactive bool) (*log.Logger, func()) {
	var w io.Writer = os.Stderr
	closeFn := func() {}

	switch {
	case flagLogFile != "":
		f, err := os.OpenFile(flagLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not open log file: %v\n", err)
			w = io.Discard
			break
		}
		w = f
		closeFn = func() { _ = f.Close() }
	case interactive:
		w = io.Discard
	}

	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
	}), closeFn
}

// openPrefs loads the preferences file. A malformed file is reported and
// replaced by empty preferences.
func openPrefs(logger *log.Logger) *prefs.Prefs {
	p, err := prefs.Open(flagPrefsPath)
	if err != nil {
		if errors.Is(err, prefs.ErrMalformed) {
			logger.Warn("preferences reset", "path", flagPrefsPath, "err", err)
			return p
		}
		logger.Warn("preferences unavailable", "path", flagPrefsPath, "err", err)
		return prefs.New()
	}
	return p
}

// openStore opens the configured score backend. The returned close function
// is never nil.
func openStore(cfg config.DodgerConfig, p *prefs.Prefs) (scores.Store, func(), error) {
	backend := cfg.Scores.Backend
	if flagStore != "" {
		backend = flagStore
	}

	switch backend {
	case "", backendSQLite:
		store, err := storage.Open(flagDBPath, storage.Options{
			Limit:  cfg.Scores.Limit,
			Retain: storage.Retention(cfg.Scores.Retain),
		})
		if err != nil {
			return nil, func() {}, err
		}
		return store, func() { _ = store.Close() }, nil
	case backendHistory:
		return scores.NewHistoryStore(p, cfg.Scores.Limit), func() {}, nil
	case backendTable:
		return scores.NewTableStore(p, cfg.Scores.Limit), func() {}, nil
	}
	return nil, func() {}, fmt.Errorf("unknown score backend %q (expected sqlite, history or table)", backend)
}

// location returns the position given on the command line, if any.
func location(cmd *cobra.Command) tui.Location {
	flags := cmd.Flags()
	if !flags.Changed("lat") && !flags.Changed("lng") {
		return tui.Location{}
	}
	return tui.Location{Lat: flagLat, Lng: flagLng, OK: true}
}

// terminalSize returns the size of stdout, or 80x24.
func terminalSize() (int, int) {
	width, height := 80, 24 // Defaults
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}
	return width, height
}

// session bundles what an interactive command needs.
type session struct {
	env     *tui.Env
	cleanup func()
}

// newSession builds the environment shared by menu and play. A store that
// cannot be opened is reported and the game runs without saving.
func newSession(cmd *cobra.Command) (*session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	logger, closeLog := newLogger("dodger", true)
	p := openPrefs(logger)

	store, closeStore, err := openStore(cfg, p)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open scores: %v\n", err)
		logger.Error("score store unavailable", "err", err)
		store = nil
	}

	env := &tui.Env{
		Config:   cfg,
		Store:    store,
		Prefs:    p,
		Cues:     audio.New(flagMute, logger),
		Logger:   logger,
		Seed:     flagSeed,
		Location: location(cmd),
	}
	return &session{
		env: env,
		cleanup: func() {
			closeStore()
			closeLog()
		},
	}, nil
}
