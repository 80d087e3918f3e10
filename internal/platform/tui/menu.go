package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/space-dodger/internal/config"
)

// menuTopScores is the number of scores previewed under the menu.
const menuTopScores = 5

type itemKind int

const (
	itemMode itemKind = iota
	itemScores
	itemQuit
)

// MenuItem represents a selectable entry in the menu.
type MenuItem struct {
	Kind  itemKind
	Title string
	Mode  config.ModeConfig
}

// MenuModel is the Bubble Tea model for the start menu: player name, mode
// buttons and a short high-score list.
type MenuModel struct {
	env            *Env
	items          []MenuItem
	cursor         int
	name           textinput.Model
	editing        bool
	notice         string
	top            []string
	width          int
	height         int
	keyMapper      *KeyMapper
	quitting       bool
	selected       *MenuItem
	openScoreboard bool
}

// NewMenuModel creates a new menu model. The name field is prefilled with
// the remembered name, or fallbackName when none is stored.
func NewMenuModel(env *Env, fallbackName string, width, height int) MenuModel {
	items := make([]MenuItem, 0, len(env.Config.Modes)+2)
	for _, mode := range env.Config.Modes {
		items = append(items, MenuItem{Kind: itemMode, Title: mode.Title, Mode: mode})
	}
	items = append(items,
		MenuItem{Kind: itemScores, Title: "High Scores"},
		MenuItem{Kind: itemQuit, Title: "Quit"},
	)

	name := textinput.New()
	name.Placeholder = "your name"
	name.CharLimit = 20
	name.Width = 20
	name.Prompt = ""
	if last := env.lastName(); last != "" {
		name.SetValue(last)
	} else {
		name.SetValue(fallbackName)
	}

	m := MenuModel{
		env:       env,
		items:     items,
		name:      name,
		width:     width,
		height:    height,
		keyMapper: NewKeyMapper(),
	}
	if strings.TrimSpace(name.Value()) == "" {
		m.editing = true
		m.name.Focus()
	}

	for i, e := range env.topScores(menuTopScores) {
		m.top = append(m.top, fmt.Sprintf("%d. %-12s %6d", i+1, e.Name, e.Score))
	}
	return m
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	if m.editing {
		return textinput.Blink
	}
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.editing {
			return m.handleNameKey(msg)
		}
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}

	if m.editing {
		var cmd tea.Cmd
		m.name, cmd = m.name.Update(msg)
		return m, cmd
	}
	return m, nil
}

// handleNameKey edits the name until the player leaves the field.
func (m MenuModel) handleNameKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	case "enter", "tab", "down", "esc":
		m.editing = false
		m.name.Blur()
		return m, nil
	}

	m.notice = ""
	var cmd tea.Cmd
	m.name, cmd = m.name.Update(msg)
	return m, cmd
}

// handleKey processes keyboard input for menu navigation.
func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.keyMapper.MapKeyToMenuAction(msg) {
	case MenuActionQuit:
		m.quitting = true
		return m, tea.Quit

	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		} else {
			return m.editName()
		}

	case MenuActionDown:
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}

	case MenuActionEditName:
		return m.editName()

	case MenuActionSelect:
		return m.selectItem()
	}

	return m, nil
}

func (m MenuModel) editName() (tea.Model, tea.Cmd) {
	m.editing = true
	return m, m.name.Focus()
}

func (m MenuModel) selectItem() (tea.Model, tea.Cmd) {
	item := m.items[m.cursor]

	switch item.Kind {
	case itemQuit:
		m.quitting = true
		return m, tea.Quit

	case itemScores:
		m.openScoreboard = true
		return m, nil
	}

	name := m.Name()
	if name == "" {
		m.notice = "Enter name!"
		return m.editName()
	}
	m.env.rememberName(name)
	m.selected = &item
	return m, nil
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(titleStyle.Render(centerText("S P A C E   D O D G E R", m.width)))
	b.WriteString("\n\n")

	field := m.name.View()
	if !m.editing {
		field = m.name.Value()
		if field == "" {
			field = dimStyle.Render(m.name.Placeholder)
		}
	}
	nameLine := "Name: " + field
	if m.editing {
		nameLine = selectedStyle.Render("Name:") + " " + field
	}
	b.WriteString(centerText(nameLine, m.width))
	b.WriteString("\n")
	if m.notice != "" {
		b.WriteString(centerText(noticeStyle.Render(m.notice), m.width))
	}
	b.WriteString("\n\n")

	for i, item := range m.items {
		line := "  " + item.Title + "  "
		if i == m.cursor && !m.editing {
			line = selectedStyle.Render(item.Title)
		}
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}

	if len(m.top) > 0 {
		b.WriteString("\n")
		b.WriteString(centerText(titleStyle.Render("High Scores"), m.width))
		b.WriteString("\n")
		for _, line := range m.top {
			b.WriteString(centerText(line, m.width))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	controls := "Up/Down: Navigate  |  Enter: Select  |  Tab: Edit name  |  Q: Quit"
	if m.editing {
		controls = "Type your name  |  Enter: Done"
	}
	b.WriteString(centerText(dimStyle.Render(controls), m.width))
	b.WriteString("\n")

	return b.String()
}

// Name returns the trimmed player name.
func (m MenuModel) Name() string {
	return strings.TrimSpace(m.name.Value())
}

// Selected returns the selected menu item, or nil if none selected.
func (m MenuModel) Selected() *MenuItem {
	return m.selected
}

// IsQuitting returns true if user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// WantsScoreboard returns true if user requested scoreboard.
func (m MenuModel) WantsScoreboard() bool {
	return m.openScoreboard
}
