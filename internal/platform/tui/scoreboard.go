package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/space-dodger/internal/scores"
)

// Scoreboard layout constants
const (
	tableWidth      = 48                         // Rank + name + score + location + padding
	minWidthForSide = tableWidth + MapWidth + 10 // Table and map side by side
	maxHistory      = 500                        // Max runs shown in history view
)

// ScoreboardKeyMap defines the key bindings for the scoreboard.
type ScoreboardKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	History key.Binding
	Back    key.Binding
	Quit    key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k ScoreboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.History, k.Back, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k ScoreboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.History},
		{k.Back, k.Quit},
	}
}

// DefaultScoreboardKeyMap returns default key bindings.
func DefaultScoreboardKeyMap() ScoreboardKeyMap {
	return ScoreboardKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "prev run"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "next run"),
		),
		History: key.NewBinding(
			key.WithKeys("a", "tab"),
			key.WithHelp("a", "top/all runs"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ScoreboardModel lists the best runs next to a map of where they were
// played. Moving through the table notifies the selection observers; the map
// is one of them.
type ScoreboardModel struct {
	env       *Env
	entries   []scores.Entry
	table     table.Model
	help      help.Model
	keys      ScoreboardKeyMap
	worldMap  *WorldMap
	observers []SelectionObserver
	showAll   bool
	loadErr   error
	width     int
	height    int
	quitting  bool
	goingBack bool
}

// NewScoreboardModel creates a new scoreboard model and loads the top runs.
func NewScoreboardModel(env *Env, width, height int) ScoreboardModel {
	h := help.New()
	h.ShowAll = false
	h.Width = width

	wm := NewWorldMap(env.Config.Map.CenterLat, env.Config.Map.CenterLng)
	m := ScoreboardModel{
		env:      env,
		keys:     DefaultScoreboardKeyMap(),
		help:     h,
		worldMap: wm,
		width:    width,
		height:   height,
	}
	m.Subscribe(wm)

	m.table = m.createTable()
	m.loadScores()
	return m
}

// Subscribe registers an observer for table selection changes.
func (m *ScoreboardModel) Subscribe(o SelectionObserver) {
	m.observers = append(m.observers, o)
}

// createTable creates a new table with appropriate columns.
func (m *ScoreboardModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "Rank", Width: 5},
		{Title: "Name", Width: 14},
		{Title: "Score", Width: 8},
		{Title: "Location", Width: 16},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(m.tableHeight(), 3)),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

func (m *ScoreboardModel) tableHeight() int {
	if m.width >= minWidthForSide {
		return m.height - 8 // Title, help, borders
	}
	return m.height - MapHeight - 10 // Map stacked below
}

// loadScores loads the top list, or the full history when toggled and the
// store keeps one.
func (m *ScoreboardModel) loadScores() {
	m.entries = nil
	m.loadErr = nil

	if m.env.Store != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var entries []scores.Entry
		var err error
		if hist, ok := m.env.Store.(scores.HistoryLoader); ok && m.showAll {
			entries, err = hist.History(ctx)
			entries = scores.TopN(entries, maxHistory)
		} else {
			entries, err = m.env.Store.Load(ctx)
		}
		if err != nil {
			m.env.logger().Error("could not load scores", "err", err)
			m.loadErr = err
		}
		m.entries = entries
	}

	m.worldMap.SetEntries(m.entries)
	m.updateTableRows()
	m.notifySelection()
}

// updateTableRows updates the table with current scores.
func (m *ScoreboardModel) updateTableRows() {
	rows := make([]table.Row, len(m.entries))
	for i, e := range m.entries {
		rows[i] = table.Row{
			fmt.Sprintf("#%d", i+1),
			e.Name,
			fmt.Sprintf("%d", e.Score),
			scores.FormatLocation(e),
		}
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

func (m *ScoreboardModel) notifySelection() {
	c := m.table.Cursor()
	if c < 0 || c >= len(m.entries) {
		// Nothing selected: rest on the default center
		for _, o := range m.observers {
			o.OnSelect(scores.Entry{})
		}
		return
	}
	for _, o := range m.observers {
		o.OnSelect(m.entries[c])
	}
}

// Init initializes the scoreboard model.
func (m ScoreboardModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the scoreboard.
func (m ScoreboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, nil

		case key.Matches(msg, m.keys.History):
			m.showAll = !m.showAll
			m.loadScores()
			return m, nil

		case key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.Down):
			before := m.table.Cursor()
			m.table, cmd = m.table.Update(msg)
			if m.table.Cursor() != before {
				m.notifySelection()
			}
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		cursor := m.table.Cursor()
		m.table = m.createTable()
		m.updateTableRows()
		m.table.SetCursor(cursor)
		m.help.Width = msg.Width
		return m, nil
	}

	return m, nil
}

// View renders the scoreboard.
func (m ScoreboardModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	var b strings.Builder

	title := "HIGH SCORES"
	if m.showAll {
		title = "ALL RUNS"
	}
	b.WriteString(titleStyle.Render(centerText(title, m.width)))
	b.WriteString("\n\n")

	tableBox := boxStyle.Render(m.renderTableContent())
	mapBox := boxStyle.Render(m.worldMap.View())
	if m.width >= minWidthForSide {
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, tableBox, "  ", mapBox))
	} else {
		b.WriteString(lipgloss.JoinVertical(lipgloss.Left, tableBox, mapBox))
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.help.View(m.keys)))

	return b.String()
}

// renderTableContent renders the table or empty message.
func (m ScoreboardModel) renderTableContent() string {
	if m.loadErr != nil {
		return noticeStyle.Render("Could not load scores: " + m.loadErr.Error())
	}
	if len(m.entries) == 0 {
		emptyStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true).
			Padding(2, 4)
		return emptyStyle.Render("No scores recorded yet.\nPlay a round to set a high score!")
	}

	return m.table.View()
}

// Selected returns the highlighted entry, if any.
func (m ScoreboardModel) Selected() (scores.Entry, bool) {
	c := m.table.Cursor()
	if c < 0 || c >= len(m.entries) {
		return scores.Entry{}, false
	}
	return m.entries[c], true
}

// Map returns the map view that follows the selection.
func (m ScoreboardModel) Map() *WorldMap {
	return m.worldMap
}

// IsGoingBack returns true if user wants to go back to menu.
func (m ScoreboardModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m ScoreboardModel) IsQuitting() bool {
	return m.quitting
}
