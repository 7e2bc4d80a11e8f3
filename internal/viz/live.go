package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/ravik-m/ivpsim/internal/ivp"
)

const (
	chartWidth      = 70
	chartHeight     = 12
	historyCapacity = 600
	stepsPerTick    = 4
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(2)
)

type TickMsg time.Time

// Model steps an integration on a timer and charts the recent history of
// the first state component.
type Model struct {
	sys       ivp.System
	stepper   ivp.Stepper
	params    ivp.Params
	state     ivp.State
	initState ivp.State
	t, t0, dt float64
	modelName string
	history   []float64
	running   bool
	stepErr   error
}

func NewModel(sys ivp.System, st ivp.Stepper, p ivp.Params, x0 ivp.State, t0, dt float64, modelName string) Model {
	return Model{
		sys:       sys,
		stepper:   st,
		params:    p,
		state:     x0.Clone(),
		initState: x0.Clone(),
		t:         t0,
		t0:        t0,
		dt:        dt,
		modelName: modelName,
		history:   make([]float64, 0, historyCapacity),
		running:   true,
	}
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return TickMsg(t) })
}

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
		}
	case TickMsg:
		if m.running && m.stepErr == nil {
			for i := 0; i < stepsPerTick; i++ {
				m.step()
			}
		}
		return m, tick()
	}
	return m, nil
}

func (m *Model) step() {
	next, err := m.stepper.Step(m.sys, m.state, m.params, m.t, m.dt)
	if err == nil && !next.IsValid() {
		err = ivp.ErrNonFinite
	}
	if err != nil {
		m.stepErr = err
		m.running = false
		return
	}

	m.state = next
	m.t += m.dt
	m.history = append(m.history, m.state[0])
	if len(m.history) > historyCapacity {
		m.history = m.history[1:]
	}
}

func (m *Model) reset() {
	m.state = m.initState.Clone()
	m.t = m.t0
	m.history = m.history[:0]
	m.stepErr = nil
	m.running = true
}

func (m Model) View() string {
	var s strings.Builder
	s.WriteString(headerStyle.Render(strings.ToUpper(m.modelName)) + "\n")

	status := "RUNNING"
	if m.stepErr != nil {
		status = errStyle.Render("HALTED: " + m.stepErr.Error())
	} else if !m.running {
		status = "PAUSED"
	}
	s.WriteString(status + "\n")

	if len(m.history) > 1 {
		chart := asciigraph.Plot(m.history,
			asciigraph.Height(chartHeight),
			asciigraph.Width(chartWidth),
			asciigraph.Caption("x0"),
		)
		s.WriteString(graphStyle.Render(chart) + "\n")
	}

	s.WriteString(labelStyle.Render("Time") + valueStyle.Render(fmt.Sprintf("%.3f", m.t)) + "\n")
	for i, v := range m.state {
		s.WriteString(labelStyle.Render(fmt.Sprintf("x%d", i)) + valueStyle.Render(fmt.Sprintf("%.4f", v)) + "\n")
	}
	s.WriteString(labelStyle.Render("dt") + valueStyle.Render(fmt.Sprintf("%.4g", m.dt)) + "\n")

	s.WriteString(helpStyle.Render("SP:Pause  R:Reset  Q:Quit"))
	return s.String()
}

// RunLive starts the live view and blocks until the user quits.
func RunLive(sys ivp.System, st ivp.Stepper, p ivp.Params, x0 ivp.State, t0, dt float64, modelName string) error {
	prog := tea.NewProgram(NewModel(sys, st, p, x0, t0, dt, modelName))
	_, err := prog.Run()
	return err
}
