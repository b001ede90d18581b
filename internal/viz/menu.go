package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/circlesim/internal/config"
	"github.com/san-kum/circlesim/internal/experiment"
)

var sceneInfo = map[string]string{
	"random": "ten circles flying around",
	"drop":   "one circle falling to the floor",
	"pair":   "head-on collision",
	"stack":  "a resting column",
	"rain":   "a grid of drops",
}

var (
	menuTitle  = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)
	menuCursor = lipgloss.NewStyle().Foreground(lipgloss.Color("213")).Bold(true)
	menuDim    = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
)

// Menu lets the user pick a scene, then hands over to the live Model.
type Menu struct {
	registry *experiment.Registry
	base     *config.Config
	scenes   []string
	cursor   int
	live     *Model
	err      error
}

// NewMenu lists every registered scene. base supplies everything but the
// scene name.
func NewMenu(registry *experiment.Registry, base *config.Config) Menu {
	return Menu{
		registry: registry,
		base:     base,
		scenes:   registry.ListScenes(),
	}
}

func (m Menu) Err() error { return m.err }

func (m Menu) Init() tea.Cmd { return nil }

func (m Menu) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.live != nil {
		next, cmd := m.live.Update(msg)
		live := next.(Model)
		m.live = &live
		m.err = live.Err()
		return m, cmd
	}

	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.scenes)-1 {
			m.cursor++
		}
	case "enter", " ":
		cfg := m.base.Clone()
		cfg.Scene = m.scenes[m.cursor]
		live, err := NewModel(m.registry, cfg)
		if err != nil {
			m.err = err
			return m, tea.Quit
		}
		m.live = &live
		return m, live.Init()
	}
	return m, nil
}

func (m Menu) View() string {
	if m.live != nil {
		return m.live.View()
	}

	var b strings.Builder
	b.WriteString(menuTitle.Render("CIRCLESIM") + "\n\n")
	for i, name := range m.scenes {
		line := fmt.Sprintf("%-8s %s", name, menuDim.Render(sceneInfo[name]))
		if i == m.cursor {
			b.WriteString(menuCursor.Render("> ") + line + "\n")
		} else {
			b.WriteString("  " + line + "\n")
		}
	}
	b.WriteString("\n" + menuDim.Render("↑↓ select · enter run · q quit"))
	return b.String()
}
