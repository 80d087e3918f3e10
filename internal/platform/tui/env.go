package tui

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/space-dodger/internal/audio"
	"github.com/vovakirdan/space-dodger/internal/config"
	"github.com/vovakirdan/space-dodger/internal/prefs"
	"github.com/vovakirdan/space-dodger/internal/scores"
)

// Preference keys
const (
	prefLastName = "last_name"
)

// Location is the position attached to runs started from this terminal.
type Location struct {
	Lat, Lng float64
	OK       bool
}

// Env carries the dependencies shared by every screen of one terminal
// session (local or SSH).
type Env struct {
	Config   config.DodgerConfig
	Store    scores.Store // May be nil: runs are not saved
	Prefs    *prefs.Prefs
	Cues     *audio.Cues // May be nil: silent
	Logger   *log.Logger
	Seed     int64 // 0 means time-based
	Location Location

	mu     sync.Mutex
	active *run
}

func (e *Env) logger() *log.Logger {
	if e.Logger == nil {
		e.Logger = log.New(io.Discard)
	}
	return e.Logger
}

func (e *Env) prefs() *prefs.Prefs {
	if e.Prefs == nil {
		e.Prefs = prefs.New()
	}
	return e.Prefs
}

func (e *Env) seed() int64 {
	if e.Seed != 0 {
		return e.Seed
	}
	return time.Now().UnixNano()
}

// lastName returns the remembered player name.
func (e *Env) lastName() string {
	return e.prefs().GetString(prefLastName, "")
}

// rememberName stores name for the next session. Best-effort.
func (e *Env) rememberName(name string) {
	p := e.prefs()
	p.PutString(prefLastName, name)
	if err := p.Save(); err != nil {
		e.logger().Warn("could not save preferences", "err", err)
	}
}

// topScores loads the best runs, or nil when no store is configured.
func (e *Env) topScores(n int) []scores.Entry {
	if e.Store == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	entries, err := e.Store.Load(ctx)
	if err != nil {
		e.logger().Error("could not load scores", "err", err)
		return nil
	}
	return scores.TopN(entries, n)
}

func (e *Env) track(r *run) {
	e.mu.Lock()
	prev := e.active
	e.active = r
	e.mu.Unlock()

	if prev != nil && prev != r {
		prev.stop()
	}
}

// Close stops the run in progress, if any. Call it when the terminal
// session ends.
func (e *Env) Close() {
	e.mu.Lock()
	r := e.active
	e.active = nil
	e.mu.Unlock()

	if r != nil {
		r.stop()
	}
}
