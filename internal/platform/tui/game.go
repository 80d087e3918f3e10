package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/space-dodger/internal/config"
	"github.com/vovakirdan/space-dodger/internal/core"
	"github.com/vovakirdan/space-dodger/internal/dodger"
	"github.com/vovakirdan/space-dodger/internal/scores"
)

// toastDuration is how long an event notice stays on screen.
const toastDuration = 1200 * time.Millisecond

// scoreSavedMsg reports the result of persisting a finished run.
type scoreSavedMsg struct {
	gen uint64
	err error
}

// GameModel plays one mode until the player quits or goes back to the menu.
type GameModel struct {
	env        *Env
	mode       config.ModeConfig
	name       string
	location   Location
	run        *run
	screen     *core.Screen
	keyMapper  *KeyMapper
	help       help.Model
	toast      string
	toastUntil time.Time
	saved      bool
	saveErr    error
	quitting   bool
	backToMenu bool
}

// NewGameModel starts a run for the named player. The location is captured
// now and attached to the saved entry.
func NewGameModel(env *Env, mode config.ModeConfig, name string, width, height int) GameModel {
	h := help.New()
	h.Width = width

	return GameModel{
		env:       env,
		mode:      mode,
		name:      name,
		location:  env.Location,
		run:       startRun(env, mode),
		screen:    core.NewScreen(width, max(height-2, 1)),
		keyMapper: NewKeyMapper(),
		help:      h,
	}
}

// Init starts listening for ticks and redrawing.
func (m GameModel) Init() tea.Cmd {
	return tea.Batch(m.run.listen(), frameCmd(m.run.gen))
}

// Update handles messages and updates the model state.
func (m GameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.screen.Resize(msg.Width, max(msg.Height-2, 1))
		m.help.Width = msg.Width
		return m, nil

	case tickMsg:
		if msg.gen != m.run.gen {
			return m, nil
		}
		return m.handleTick(msg)

	case frameMsg:
		if msg.gen != m.run.gen || m.quitting || m.backToMenu {
			return m, nil
		}
		if m.toast != "" && time.Now().After(m.toastUntil) {
			m.toast = ""
		}
		return m, frameCmd(msg.gen)

	case scoreSavedMsg:
		if msg.gen == m.run.gen {
			m.saved = msg.err == nil
			m.saveErr = msg.err
		}
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m GameModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	action, isQuit := m.keyMapper.MapKey(msg)
	if isQuit {
		m.run.stop()
		m.quitting = true
		return m, tea.Quit
	}

	snap := m.run.session.Snapshot()

	switch action {
	case core.ActionLeft, core.ActionRight:
		if m.run.tilt != nil {
			m.run.tilt.Push(action, time.Now())
		} else if action == core.ActionLeft {
			m.run.session.Move(-1)
		} else {
			m.run.session.Move(1)
		}

	case core.ActionUp, core.ActionDown:
		if m.run.tilt != nil {
			m.run.tilt.Push(action, time.Now())
		}

	case core.ActionPause:
		m.run.session.TogglePause()

	case core.ActionMute:
		if m.env.Cues != nil {
			m.env.Cues.SetMuted(!m.env.Cues.Muted())
		}

	case core.ActionRestart:
		if snap.GameOver {
			return m.restart()
		}

	case core.ActionBack:
		if snap.GameOver || snap.Paused {
			m.run.stop()
			m.backToMenu = true
		}
	}

	return m, nil
}

func (m GameModel) restart() (tea.Model, tea.Cmd) {
	m.run.stop()
	m.run = startRun(m.env, m.mode)
	m.location = m.env.Location
	m.toast = ""
	m.saved = false
	m.saveErr = nil
	return m, m.Init()
}

// handleTick turns events into notices and saves the run when it ends.
func (m GameModel) handleTick(msg tickMsg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	for _, e := range msg.events {
		switch e.Kind {
		case dodger.EventCollision:
			m.showToast("IMPACT")
		case dodger.EventPickup:
			m.showToast(fmt.Sprintf("+%d", m.env.Config.Scoring.PickupBonus))
		case dodger.EventSpeedUp:
			m.showToast("SPEED UP")
		case dodger.EventGameOver:
			m.toast = ""
			cmds = append(cmds, m.saveCmd(e.Score))
		}
	}

	if m.run.session.Running() {
		cmds = append(cmds, m.run.listen())
	}
	return m, tea.Batch(cmds...)
}

func (m *GameModel) showToast(text string) {
	m.toast = text
	m.toastUntil = time.Now().Add(toastDuration)
}

// saveCmd records the finished run off the UI goroutine.
func (m GameModel) saveCmd(score int) tea.Cmd {
	store, logger, gen := m.env.Store, m.env.logger(), m.run.gen
	entry := scores.Entry{
		Name:        m.name,
		Score:       score,
		Mode:        m.mode.ID,
		Lat:         m.location.Lat,
		Lng:         m.location.Lng,
		HasLocation: m.location.OK,
		CreatedAt:   time.Now(),
	}

	return func() tea.Msg {
		if store == nil {
			return scoreSavedMsg{gen: gen}
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		err := store.Record(ctx, entry)
		if err != nil {
			logger.Error("could not save score", "name", entry.Name, "score", entry.Score, "err", err)
		} else {
			logger.Info("score saved", "name", entry.Name, "score", entry.Score, "mode", entry.Mode)
		}
		return scoreSavedMsg{gen: gen, err: err}
	}
}

// View renders the board, status and help bar.
func (m GameModel) View() string {
	if m.quitting {
		return ""
	}

	snap := m.run.session.Snapshot()
	m.screen.Clear()
	dodger.Render(m.screen, snap, m.toast)

	status := fmt.Sprintf("%s  |  %s  |  %s", m.name, m.mode.Title, tickRate(snap))
	switch {
	case snap.GameOver && m.saveErr != nil:
		status = noticeStyle.Render("Score not saved: " + m.saveErr.Error())
	case snap.GameOver && m.saved:
		status = fmt.Sprintf("Score %d saved for %s", snap.Score, m.name)
	}

	return RenderScreen(m.screen) + "\n" +
		centerText(dimStyle.Render(status), m.screen.Width()) + "\n" +
		dimStyle.Render(m.help.View(gameHelpKeys{tilt: m.run.tilt != nil}))
}

func tickRate(snap dodger.Snapshot) string {
	d := time.Duration(float64(snap.Interval) * snap.TiltFactor)
	return fmt.Sprintf("tick %dms", d.Milliseconds())
}

// IsQuitting returns true if user requested to quit entirely.
func (m GameModel) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m GameModel) BackToMenu() bool {
	return m.backToMenu
}

// Snapshot returns the current run state.
func (m GameModel) Snapshot() dodger.Snapshot {
	return m.run.session.Snapshot()
}
