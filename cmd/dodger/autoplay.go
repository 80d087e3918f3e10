package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/space-dodger/internal/audio"
	"github.com/vovakirdan/space-dodger/internal/config"
	"github.com/vovakirdan/space-dodger/internal/core"
	"github.com/vovakirdan/space-dodger/internal/dodger"
	"github.com/vovakirdan/space-dodger/internal/input"
	"github.com/vovakirdan/space-dodger/internal/loop"
	"github.com/vovakirdan/space-dodger/internal/scores"
)

var (
	flagAutoTicks   int
	flagAutoMode    string
	flagAutoName    string
	flagAutoFeed    string
	flagAutoSpeedup float64
	flagAutoSave    bool
)

var autoplayCmd = &cobra.Command{
	Use:   "autoplay",
	Short: "Run a headless game driven by the autopilot",
	Long: `Play a run without a terminal UI. The autopilot steers the ship and
every event is logged. In sensor mode a recorded feed of "x,y" samples
can drive the tilt adapter instead.

Examples:
  dodger autoplay --ticks 500
  dodger autoplay --mode fast --speedup 0 --seed 42
  dodger autoplay --mode tilt --feed ./tilt.csv --speedup 1
  dodger autoplay --save --name bot`,
	RunE: runAutoplay,
}

func init() {
	f := autoplayCmd.Flags()
	f.IntVar(&flagAutoTicks, "ticks", 1000, "Stop after this many ticks (0 = until game over)")
	f.StringVar(&flagAutoMode, "mode", "fast", "Start mode (see 'dodger modes')")
	f.StringVar(&flagAutoName, "name", "autopilot", "Name recorded with --save")
	f.StringVar(&flagAutoFeed, "feed", "", "CSV feed of tilt samples (sensor mode)")
	f.Float64Var(&flagAutoSpeedup, "speedup", 10, "Clock multiplier (0 = no delay between ticks)")
	f.BoolVar(&flagAutoSave, "save", false, "Record the final score")
}

func runAutoplay(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	mode, ok := cfg.Mode(flagAutoMode)
	if !ok {
		return fmt.Errorf("unknown mode %q, run 'dodger modes' to see available modes", flagAutoMode)
	}

	logger, closeLog := newLogger("autoplay", false)
	defer closeLog()

	seed := flagSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	session := dodger.NewSession(cfg, mode, seed)
	session.Subscribe(dodger.ObserverFunc(func(e dodger.Event) {
		logger.Info(e.Kind.String(),
			"tick", e.Tick, "lane", e.Lane, "score", e.Score,
			"lives", e.Lives, "interval", e.Interval)
	}))
	session.Subscribe(audio.New(flagMute, logger))

	// A feed drives the lane through the tilt adapter; without one the
	// autopilot steers.
	steer := true
	if flagAutoFeed != "" {
		if mode.Input != config.InputTilt {
			return fmt.Errorf("--feed needs a sensor mode, %q uses %s", mode.ID, mode.Input)
		}
		feed, err := input.OpenFeed(flagAutoFeed, cfg.Tilt.SamplePeriod())
		if err != nil {
			return err
		}
		logger.Info("replaying feed", "path", flagAutoFeed, "samples", feed.Len())
		session.AttachSource(feed)
		steer = false
	}

	pilot := dodger.Autopilot{}
	step := func() bool {
		if flagAutoTicks > 0 && session.State().Ticks >= uint64(flagAutoTicks) {
			return false
		}
		if steer {
			if d := pilot.Decide(session.Snapshot()); d != 0 {
				session.Move(d)
			}
		}
		session.Advance()
		return session.Running()
	}
	interval := func() time.Duration {
		if flagAutoSpeedup <= 0 {
			return 0
		}
		return time.Duration(float64(session.NextInterval()) / flagAutoSpeedup)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("run started", "mode", mode.ID, "seed", seed, "lanes", cfg.Grid.Cols, "lives", cfg.Lives)
	sched := loop.New(step, interval)
	runErr := sched.Run(ctx)
	session.Stop()

	snap := session.Snapshot()
	logger.Info("run finished",
		"ticks", snap.Tick, "score", snap.Score, "lives", snap.Lives,
		"game_over", snap.GameOver, "interval", snap.Interval)

	w, h := dodger.BoardSize(cfg.Grid.Rows, cfg.Grid.Cols)
	scr := core.NewScreen(max(w, 40), h+4)
	dodger.Render(scr, snap, "")
	fmt.Println(scr.String())
	fmt.Printf("Score %d after %d ticks (%d/%d lives)\n", snap.Score, snap.Tick, snap.Lives, snap.MaxLives)

	if flagAutoSave {
		if err := saveAutoplay(cfg, mode, snap, cmd); err != nil {
			logger.Error("could not save score", "err", err)
			return err
		}
		logger.Info("score saved", "name", flagAutoName, "score", snap.Score)
	}

	if runErr != nil && ctx.Err() == nil {
		return runErr
	}
	return nil
}

func saveAutoplay(cfg config.DodgerConfig, mode config.ModeConfig, snap dodger.Snapshot, cmd *cobra.Command) error {
	logger, closeLog := newLogger("store", false)
	defer closeLog()

	store, closeStore, err := openStore(cfg, openPrefs(logger))
	if err != nil {
		return err
	}
	defer closeStore()

	loc := location(cmd)
	entry := scores.Entry{
		Name:        flagAutoName,
		Score:       snap.Score,
		Mode:        mode.ID,
		Lat:         loc.Lat,
		Lng:         loc.Lng,
		HasLocation: loc.OK,
		CreatedAt:   time.Now(),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return store.Record(ctx, entry)
}
