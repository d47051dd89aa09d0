// Package tui is the interactive commit-history explorer: a bubbletea
// program owning one meta engine and driving it from the keyboard.
package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Sumatoshi-tech/codefolio/internal/terminal"
	"github.com/Sumatoshi-tech/codefolio/internal/watch"
	"github.com/Sumatoshi-tech/codefolio/pkg/meta"
	"github.com/Sumatoshi-tech/codefolio/pkg/scene"
)

// Defaults.
const (
	DefaultStep      = 5.0
	DefaultBandHours = 3.0
)

const barPadding = 4

var (
	docStyle    = lipgloss.NewStyle().Margin(1, 2)
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#64748B")).Italic(true)
	brushStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F87171"))
)

// SnapshotMsg carries a reloaded change log into the program.
type SnapshotMsg struct {
	Snapshot *watch.Snapshot
}

// Model is the bubbletea model of the explorer.
type Model struct {
	engine    *meta.Engine
	sceneOpts []scene.Option
	term      terminal.Config

	keys KeyMap
	help help.Model
	bar  progress.Model

	step      float64
	bandHours float64
	band      int
	brushOn   bool
	reloads   int
}

// Option configures a Model.
type Option func(*Model)

// WithStep sets how far ←/→ move the progress slider, in percent.
func WithStep(step float64) Option {
	return func(m *Model) {
		if step > 0 {
			m.step = step
		}
	}
}

// WithBandHours sets the height of the hour band the brush covers.
func WithBandHours(hours float64) Option {
	return func(m *Model) {
		if hours > 0 && hours <= scene.HourMax {
			m.bandHours = hours
		}
	}
}

// WithTerminal sets the text renderer used for the body.
func WithTerminal(cfg terminal.Config) Option {
	return func(m *Model) {
		m.term = cfg
	}
}

// WithSceneOptions keeps the scene options so reloads build the same scene.
func WithSceneOptions(opts ...scene.Option) Option {
	return func(m *Model) {
		m.sceneOpts = opts
	}
}

// New returns an explorer over eng.
func New(eng *meta.Engine, opts ...Option) Model {
	m := Model{
		engine:    eng,
		term:      terminal.Config{Width: terminal.DefaultWidth},
		keys:      DefaultKeyMap(),
		help:      help.New(),
		bar:       progress.New(progress.WithDefaultGradient(), progress.WithWidth(terminal.DefaultWidth-barPadding)),
		step:      DefaultStep,
		bandHours: DefaultBandHours,
	}

	for _, opt := range opts {
		opt(&m)
	}

	m.band = m.bands() / 2

	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		h, _ := docStyle.GetFrameSize()
		width := min(max(msg.Width-h, terminal.MinWidth), terminal.MaxWidth)
		m.term.Width = width
		m.bar.Width = width - barPadding
		m.help.Width = width

	case SnapshotMsg:
		progressNow := m.engine.Scene().Progress()
		m.engine = meta.NewEngine(msg.Snapshot.Commits, m.sceneOpts...)
		m.reloads++
		m.apply(progressNow)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	progressNow := m.engine.Scene().Progress()

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Earlier):
		m.apply(progressNow - m.step)

	case key.Matches(msg, m.keys.Later):
		m.apply(progressNow + m.step)

	case key.Matches(msg, m.keys.Up):
		m.band = min(m.band+1, m.bands()-1)
		m.apply(progressNow)

	case key.Matches(msg, m.keys.Down):
		m.band = max(m.band-1, 0)
		m.apply(progressNow)

	case key.Matches(msg, m.keys.Brush):
		m.brushOn = !m.brushOn
		m.apply(progressNow)

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}

	return m, nil
}

// apply replays progress and, when enabled, the band brush. The engine
// clears the brush on every progress change so it is always re-applied.
func (m *Model) apply(p float64) {
	q := meta.Query{Progress: &p}

	if m.brushOn {
		r := m.BrushRect()
		q.Brush = &r
	}

	m.engine.Apply(q)
}

func (m Model) bands() int {
	// The last band may be short; Band clamps it to the top of the axis.
	n := int(math.Ceil((scene.HourMax - scene.HourMin) / m.bandHours))

	return max(n, 1)
}

// Band returns the hour range the brush covers.
func (m Model) Band() (from, to float64) {
	from = scene.HourMin + float64(m.band)*m.bandHours

	return from, min(from+m.bandHours, scene.HourMax)
}

// BrushRect returns the scene rectangle spanning the full time axis over
// the current hour band.
func (m Model) BrushRect() scene.Rect {
	s := m.engine.Scene()
	area := s.Layout().Usable()
	from, to := m.Band()

	return scene.Rect{
		X0: area.X0,
		Y0: s.YScale().Map(to),
		X1: area.X1,
		Y1: s.YScale().Map(from),
	}.Normalize()
}

// Engine returns the engine driven by the model.
func (m Model) Engine() *meta.Engine { return m.engine }

// BrushOn reports whether the band brush is active.
func (m Model) BrushOn() bool { return m.brushOn }

// View implements tea.Model.
func (m Model) View() string {
	model := m.engine.Model()

	var b strings.Builder

	err := m.term.RenderMeta(&b, model)
	if err != nil {
		return docStyle.Render(errorStyle.Render(err.Error()))
	}

	body := b.String()

	var head strings.Builder

	head.WriteString(m.bar.ViewAs(model.Progress / scene.MaxProgress))
	head.WriteString("\n")

	if m.brushOn {
		from, to := m.Band()
		head.WriteString(brushStyle.Render(fmt.Sprintf("brush %s–%s", clock(from), clock(to))))
	} else {
		head.WriteString(statusStyle.Render("brush off"))
	}

	if m.reloads > 0 {
		head.WriteString(statusStyle.Render(fmt.Sprintf("  reloaded %d×", m.reloads)))
	}

	head.WriteString("\n\n")

	return docStyle.Render(head.String() + body + "\n" + m.help.View(m.keys))
}

// clock formats a fractional hour as HH:MM.
func clock(hour float64) string {
	minutes := int(hour*60 + 0.5)

	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
