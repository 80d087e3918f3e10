package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/space-dodger/internal/config"
)

type screenID int

const (
	screenMenu screenID = iota
	screenGame
	screenScores
)

// AppModel manages the full session flow: menu -> game or scores -> menu.
// It is the top-level model for both local and SSH sessions.
type AppModel struct {
	env         *Env
	defaultName string
	width       int
	height      int
	screen      screenID
	menu        MenuModel
	game        GameModel
	board       ScoreboardModel
	quitting    bool
}

// NewAppModel creates a session that opens on the menu.
func NewAppModel(env *Env, defaultName string, width, height int) AppModel {
	return AppModel{
		env:         env,
		defaultName: defaultName,
		width:       width,
		height:      height,
		screen:      screenMenu,
		menu:        NewMenuModel(env, defaultName, width, height),
	}
}

// NewAppModelPlaying creates a session that starts straight into a run.
func NewAppModelPlaying(env *Env, mode config.ModeConfig, name string, width, height int) AppModel {
	env.rememberName(name)
	return AppModel{
		env:         env,
		defaultName: name,
		width:       width,
		height:      height,
		screen:      screenGame,
		game:        NewGameModel(env, mode, name, width, height),
	}
}

// Init initializes the current screen.
func (m AppModel) Init() tea.Cmd {
	switch m.screen {
	case screenGame:
		return m.game.Init()
	case screenScores:
		return m.board.Init()
	}
	return m.menu.Init()
}

// Update handles messages for the session.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Handle window resize globally
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = wsm.Width
		m.height = wsm.Height
	}

	switch m.screen {
	case screenGame:
		return m.updateGame(msg)
	case screenScores:
		return m.updateScores(msg)
	}
	return m.updateMenu(msg)
}

// updateMenu handles updates when in menu mode.
func (m AppModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	newMenu, cmd := m.menu.Update(msg)
	if menuModel, ok := newMenu.(MenuModel); ok {
		m.menu = menuModel
	}

	if m.menu.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if m.menu.WantsScoreboard() {
		m.board = NewScoreboardModel(m.env, m.width, m.height)
		m.screen = screenScores
		return m, m.board.Init()
	}

	if selected := m.menu.Selected(); selected != nil {
		m.defaultName = m.menu.Name()
		m.game = NewGameModel(m.env, selected.Mode, m.defaultName, m.width, m.height)
		m.screen = screenGame
		return m, m.game.Init()
	}

	return m, cmd
}

// updateGame handles updates when in game mode.
func (m AppModel) updateGame(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.game.Update(msg)
	if gameModel, ok := newModel.(GameModel); ok {
		m.game = gameModel
	}

	if m.game.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if m.game.BackToMenu() {
		return m.toMenu()
	}

	return m, cmd
}

// updateScores handles updates when the scoreboard is open.
func (m AppModel) updateScores(msg tea.Msg) (tea.Model, tea.Cmd) {
	newBoard, cmd := m.board.Update(msg)
	if board, ok := newBoard.(ScoreboardModel); ok {
		m.board = board
	}

	if m.board.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if m.board.IsGoingBack() {
		return m.toMenu()
	}

	return m, cmd
}

func (m AppModel) toMenu() (tea.Model, tea.Cmd) {
	m.screen = screenMenu
	m.menu = NewMenuModel(m.env, m.defaultName, m.width, m.height)
	return m, m.menu.Init()
}

// View renders the current view.
func (m AppModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.screen {
	case screenGame:
		return m.game.View()
	case screenScores:
		return m.board.View()
	}
	return m.menu.View()
}

// Run starts a local session on the menu and blocks until the player quits.
func Run(env *Env, defaultName string, width, height int) error {
	return runProgram(env, NewAppModel(env, defaultName, width, height))
}

// Play starts a local session straight into a run of mode.
func Play(env *Env, mode config.ModeConfig, name string, width, height int) error {
	return runProgram(env, NewAppModelPlaying(env, mode, name, width, height))
}

func runProgram(env *Env, model AppModel) error {
	defer env.Close()

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	_, err := p.Run()
	return err
}
