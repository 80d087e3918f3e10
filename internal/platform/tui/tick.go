// Package tui provides the Bubble Tea integration for the game.
// It handles the terminal UI loop, input mapping, and screen flow.
package tui

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/space-dodger/internal/config"
	"github.com/vovakirdan/space-dodger/internal/dodger"
	"github.com/vovakirdan/space-dodger/internal/input"
	"github.com/vovakirdan/space-dodger/internal/loop"
)

// frameRate is the redraw rate between game ticks (toasts, tilt moves).
const frameRate = 20

// generation tags messages with the run that produced them, so messages
// from a stopped run are dropped after a restart.
var generation atomic.Uint64

// frameMsg triggers a redraw.
type frameMsg struct{ gen uint64 }

// tickMsg reports one game tick and its events.
type tickMsg struct {
	gen    uint64
	events []dodger.Event
}

// frameCmd returns a Bubble Tea command that sends a frame message after one frame.
func frameCmd(gen uint64) tea.Cmd {
	return tea.Tick(time.Second/frameRate, func(time.Time) tea.Msg {
		return frameMsg{gen: gen}
	})
}

// run is one session driven by a scheduler goroutine. The scheduler hands
// every tick to the UI through ticks; the UI reads snapshots for drawing.
type run struct {
	gen      uint64
	session  *dodger.Session
	sched    *loop.Scheduler
	tilt     *input.VirtualTilt
	ctx      context.Context
	cancel   context.CancelFunc
	ticks    chan tickMsg
	stopOnce sync.Once
}

func startRun(env *Env, mode config.ModeConfig) *run {
	ctx, cancel := context.WithCancel(context.Background())
	r := &run{
		gen:     generation.Add(1),
		session: dodger.NewSession(env.Config, mode, env.seed()),
		ctx:     ctx,
		cancel:  cancel,
		ticks:   make(chan tickMsg, 1),
	}
	if env.Cues != nil {
		r.session.Subscribe(env.Cues)
	}
	if mode.Input == config.InputTilt {
		r.tilt = input.NewVirtualTilt(env.Config.Tilt)
		r.session.AttachSource(r.tilt)
	}

	r.sched = loop.New(r.step, r.session.NextInterval)
	r.sched.Start(ctx)
	env.track(r)
	return r
}

func (r *run) step() bool {
	events := r.session.Advance()
	select {
	case r.ticks <- tickMsg{gen: r.gen, events: events}:
	case <-r.ctx.Done():
		return false
	}
	return r.session.Running()
}

// listen waits for the next tick of this run.
func (r *run) listen() tea.Cmd {
	return func() tea.Msg {
		select {
		case msg := <-r.ticks:
			return msg
		case <-r.ctx.Done():
			return nil
		}
	}
}

// stop ends the session and waits for the scheduler to exit.
func (r *run) stop() {
	r.stopOnce.Do(func() {
		r.session.Stop()
		r.cancel()
		r.sched.Stop()
	})
}
