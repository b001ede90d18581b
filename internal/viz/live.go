package viz

import (
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/circlesim/internal/config"
	"github.com/san-kum/circlesim/internal/dynamo"
	"github.com/san-kum/circlesim/internal/experiment"
	"github.com/san-kum/circlesim/internal/physics"
)

const (
	width           = 80
	height          = 24
	historyCapacity = 600
)

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Model steps a world once per tick and draws it.
type Model struct {
	registry *experiment.Registry
	cfg      *config.Config
	world    *physics.World
	rng      *rand.Rand

	t, dt         float64
	steps         int
	contacts      int
	width, height int
	canvas        *Canvas
	running       bool
	energyHistory []float64
	theme         Theme
	styles        styles
	showHelp      bool
	err           error
}

// NewModel builds the configured scene. Spawned circles draw from a source
// seeded with cfg.Seed+1 so a session replays identically.
func NewModel(registry *experiment.Registry, cfg *config.Config) (Model, error) {
	w, err := registry.BuildWorld(cfg)
	if err != nil {
		return Model{}, err
	}

	return Model{
		registry:      registry,
		cfg:           cfg,
		world:         w,
		rng:           rand.New(rand.NewSource(cfg.Seed + 1)),
		dt:            cfg.Dt,
		width:         width,
		height:        height,
		canvas:        NewCanvas(width, height),
		running:       true,
		energyHistory: make([]float64, 0, historyCapacity),
		theme:         Themes[0],
		styles:        newStyles(Themes[0]),
	}, nil
}

func (m Model) World() *physics.World { return m.world }
func (m Model) Err() error            { return m.err }

func (m Model) Init() tea.Cmd {
	return tick()
}

// Update handles input events and steps the simulation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.reset()
		case "s":
			m.spawn()
		case "t":
			m.theme = nextTheme(m.theme)
			m.styles = newStyles(m.theme)
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if m.running {
			if err := m.step(); err != nil {
				m.err = err
				return m, tea.Quit
			}
		}
		return m, tick()
	}
	return m, nil
}

func (m *Model) step() error {
	if err := m.world.Step(m.dt); err != nil {
		return err
	}
	m.t += m.dt
	m.steps++
	m.contacts += len(m.world.Contacts())

	m.energyHistory = append(m.energyHistory, m.world.Energy())
	if len(m.energyHistory) > historyCapacity {
		m.energyHistory = m.energyHistory[1:]
	}
	return nil
}

// spawn queues a random circle in the top quarter of the world. It joins
// the world on the next step.
func (m *Model) spawn() {
	w, h := m.world.Width(), m.world.Height()
	pos := dynamo.V(m.rng.Float64()*w, m.rng.Float64()*h/4)
	c, err := experiment.RandomCircle(m.rng, pos, m.cfg.Spawn)
	if err != nil {
		m.err = err
		return
	}
	m.world.Spawn(c)
}

func (m *Model) reset() {
	w, err := m.registry.BuildWorld(m.cfg)
	if err != nil {
		m.err = err
		return
	}
	m.world = w
	m.rng = rand.New(rand.NewSource(m.cfg.Seed + 1))
	m.t, m.steps, m.contacts = 0, 0, 0
	m.energyHistory = m.energyHistory[:0]
}

// View renders the TUI interface.
func (m Model) View() string {
	m.draw()
	st := m.styles

	var s strings.Builder
	s.WriteString(st.header.Render(strings.ToUpper(m.cfg.Scene)) + "\n")
	if m.running {
		s.WriteString("RUNNING\n\n")
	} else {
		s.WriteString(st.paused.Render("PAUSED") + "\n\n")
	}

	if len(m.energyHistory) > 1 {
		chart := asciigraph.Plot(m.energyHistory, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Energy"))
		s.WriteString(st.graph.Render(chart) + "\n\n")
	}

	row := func(label, value string) {
		s.WriteString(st.label.Render(label) + st.value.Render(value) + "\n")
	}
	row("Time", fmt.Sprintf("%.2fs", m.t))
	row("Steps", fmt.Sprintf("%d", m.steps))
	row("Bodies", fmt.Sprintf("%d", m.world.Len()))
	if n := m.world.Pending(); n > 0 {
		row("Queued", fmt.Sprintf("%d", n))
	}
	row("Contacts", fmt.Sprintf("%d", m.contacts))
	row("Energy", fmt.Sprintf("%.4g", m.world.Energy()))
	row("Integrator", m.cfg.Integrator)
	row("Theme", m.theme.Name)

	s.WriteString(st.help.Render("─────────────────────\nSP:Pause S:Spawn R:Reset\nT:Theme  ?:Help   Q:Quit"))

	mainView := lipgloss.JoinHorizontal(lipgloss.Top,
		st.canvas.Render(m.canvas.String()),
		st.stats.Render(s.String()))

	if m.showHelp {
		return helpOverlay + "\n\n" + mainView
	}
	return mainView
}

const helpOverlay = `
╔══════════════════════════════════════╗
║           KEYBOARD SHORTCUTS         ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume simulation  ║
║  S        - Spawn a random circle    ║
║  R        - Rebuild the scene        ║
║  T        - Cycle themes             ║
║  ?        - Toggle this help         ║
║  Q        - Quit                     ║
╚══════════════════════════════════════╝`

// project maps world coordinates to canvas dots, keeping the aspect ratio.
func (m *Model) project() (scale float64, offX, offY int) {
	cw, ch := m.canvas.Dots()
	scale = math.Min(float64(cw-1)/m.world.Width(), float64(ch-1)/m.world.Height())
	offX = (cw - 1 - int(m.world.Width()*scale)) / 2
	offY = (ch - 1 - int(m.world.Height()*scale)) / 2
	return scale, offX, offY
}

func (m *Model) draw() {
	m.canvas.Clear()
	scale, ox, oy := m.project()

	m.canvas.DrawRect(ox, oy, ox+int(m.world.Width()*scale), oy+int(m.world.Height()*scale))
	for _, s := range m.world.Bodies() {
		switch c := s.(type) {
		case *physics.Circle:
			m.canvas.DrawCircle(
				ox+int(math.Round(c.Position.X*scale)),
				oy+int(math.Round(c.Position.Y*scale)),
				int(math.Round(c.Radius()*scale)),
			)
		}
	}
}
