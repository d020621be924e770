package viz

import (
	"fmt"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/oscsim/internal/analysis"
	"github.com/san-kum/oscsim/internal/dynamo"
	"github.com/san-kum/oscsim/internal/oscillator"
)

const (
	canvasWidth     = 60
	canvasHeight    = 16
	historyCapacity = 600
)

type TickMsg time.Time

// Model is the live terminal view: the simulation advances on a timer while
// parameter keys adjust the oscillator in place.
type Model struct {
	osc           *oscillator.Oscillator
	integ         dynamo.Integrator
	state         dynamo.State
	t, dt         float64
	running       bool
	showHelp      bool
	initialState  dynamo.State
	initialParams map[string]float64
	params        map[string]float64
	paramKeys     []string
	selected      int
	phaseHistory  []struct{ X, Y float64 }
	qHistory      []float64
	energyHistory []float64
}

func NewModel(osc *oscillator.Oscillator, integ dynamo.Integrator, x0 dynamo.State, dt float64) Model {
	params := osc.GetParams()
	initialParams := make(map[string]float64, len(params))
	keys := make([]string, 0, len(params))
	for k, v := range params {
		keys = append(keys, k)
		initialParams[k] = v
	}
	sort.Strings(keys)

	return Model{
		osc:           osc,
		integ:         integ,
		state:         x0.Clone(),
		dt:            dt,
		running:       true,
		initialState:  x0.Clone(),
		initialParams: initialParams,
		params:        params,
		paramKeys:     keys,
		phaseHistory:  make([]struct{ X, Y float64 }, 0, historyCapacity),
		qHistory:      make([]float64, 0, historyCapacity),
		energyHistory: make([]float64, 0, historyCapacity),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
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
		case "tab":
			m.cycleParam()
		case "up", "k":
			m.adjustParam(1.05)
		case "down", "j":
			m.adjustParam(1 / 1.05)
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if m.running {
			m.step()
		}
		return m, tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
	}
	return m, nil
}

func (m *Model) cycleParam() {
	if len(m.paramKeys) == 0 {
		return
	}
	m.selected = (m.selected + 1) % len(m.paramKeys)
}

func (m *Model) adjustParam(factor float64) {
	if len(m.paramKeys) == 0 {
		return
	}
	key := m.paramKeys[m.selected]
	val := m.params[key]
	newVal := val * factor
	if newVal == 0 {
		newVal = 1e-3
	}
	if err := m.osc.SetParam(key, newVal); err != nil {
		return
	}
	m.params[key] = newVal
}

func (m *Model) step() {
	m.state = m.integ.Step(m.osc, m.state, m.t, m.dt)
	m.t += m.dt

	m.phaseHistory = append(m.phaseHistory, struct{ X, Y float64 }{m.state[0], m.state[1]})
	if len(m.phaseHistory) > historyCapacity {
		m.phaseHistory = m.phaseHistory[1:]
	}

	m.qHistory = append(m.qHistory, m.state[0])
	if len(m.qHistory) > historyCapacity {
		m.qHistory = m.qHistory[1:]
	}

	m.energyHistory = append(m.energyHistory, m.osc.Energy(m.state))
	if len(m.energyHistory) > historyCapacity {
		m.energyHistory = m.energyHistory[1:]
	}
}

func (m *Model) reset() {
	m.t = 0
	m.state = m.initialState.Clone()
	m.phaseHistory = m.phaseHistory[:0]
	m.qHistory = m.qHistory[:0]
	m.energyHistory = m.energyHistory[:0]
	for k, v := range m.initialParams {
		m.osc.SetParam(k, v)
		m.params[k] = v
	}
}

func (m Model) View() string {
	var s strings.Builder

	s.WriteString(headerStyle.Render("DRIVEN DAMPED OSCILLATOR") + "\n")

	status := "RUNNING"
	if !m.running {
		status = "PAUSED"
	}
	s.WriteString(fmt.Sprintf("%s  t=%.2fs\n", status, m.t))

	portrait := &analysis.PhasePortrait{Points: m.phaseHistory}
	s.WriteString(canvasStyle.Render(Portrait(portrait, canvasWidth, canvasHeight).String()))
	s.WriteString("\n")

	if len(m.qHistory) > 1 {
		graph := asciigraph.Plot(m.qHistory,
			asciigraph.Height(6),
			asciigraph.Width(DefaultPlotWidth),
			asciigraph.Caption("displacement"),
		)
		s.WriteString(graphStyle.Render(graph) + "\n")
	}
	if len(m.energyHistory) > 1 {
		graph := asciigraph.Plot(m.energyHistory,
			asciigraph.Height(6),
			asciigraph.Width(DefaultPlotWidth),
			asciigraph.Caption("total energy"),
		)
		s.WriteString(graphStyle.Render(graph) + "\n")
	}

	s.WriteString("\n")
	for i, key := range m.paramKeys {
		line := labelStyle.Render(key) + valueStyle.Render(fmt.Sprintf("%.4f", m.params[key]))
		if i == m.selected {
			line = activeParamStyle.Render("> ") + line
		} else {
			line = "  " + line
		}
		s.WriteString(line + "\n")
	}

	if m.showHelp {
		s.WriteString(helpStyle.Render("space pause · r reset · tab select param · up/down adjust · q quit"))
	} else {
		s.WriteString(helpStyle.Render("? help"))
	}

	return s.String()
}
