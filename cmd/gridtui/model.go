package main

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"lazygrid/pkg/lazygrid"
	"lazygrid/pkg/scenario"
)

const (
	idleDelay  = 16 * time.Millisecond
	idleBudget = 4 * time.Millisecond
)

// predictMsg asks the model to spend an idle slice on prediction.
type predictMsg struct{}

func idleCmd() tea.Cmd {
	return tea.Tick(idleDelay, func(time.Time) tea.Msg { return predictMsg{} })
}

// model is the Bubble Tea state of the viewer.
type model struct {
	session *scenario.Session
	props   lazygrid.Props
	keys    keyMap

	width  int
	height int
	ready  bool

	offset     float64
	frame      scenario.Frame
	idleRounds int
	now        func() time.Time
}

func newModel(session *scenario.Session) model {
	m := model{
		session: session,
		props:   session.Props(),
		keys:    defaultKeyMap(),
		now:     time.Now,
	}
	m.frame = session.Apply(scenario.Step{})
	return m
}

// Init implements tea.Model.
func (m model) Init() tea.Cmd {
	return idleCmd()
}

// Update implements tea.Model.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		return m, nil

	case predictMsg:
		return m.handlePredict()
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	page := m.props.RealMainSize
	step := max(page/10, 1)

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		return m.scrollTo(m.offset-step, lazygrid.EdgeStart)
	case key.Matches(msg, m.keys.Down):
		return m.scrollTo(m.offset+step, lazygrid.EdgeStart)
	case key.Matches(msg, m.keys.PageUp):
		return m.scrollTo(m.offset-page, lazygrid.EdgeStart)
	case key.Matches(msg, m.keys.PageDown):
		return m.scrollTo(m.offset+page, lazygrid.EdgeStart)
	case key.Matches(msg, m.keys.Top):
		return m.scrollTo(0, lazygrid.EdgeStart)
	case key.Matches(msg, m.keys.Bottom):
		return m.scrollTo(0, lazygrid.EdgeEnd)
	case key.Matches(msg, m.keys.Relayout):
		m.session.Grid().Reset()
		return m.scrollTo(m.offset, lazygrid.EdgeStart)
	}
	return m, nil
}

// scrollTo runs a synchronous pass only; prediction is left to idle ticks.
func (m model) scrollTo(offset float64, edge lazygrid.Edge) (tea.Model, tea.Cmd) {
	if edge == lazygrid.EdgeStart {
		offset = min(offset, m.session.MaxOffset())
	}
	m.frame = m.session.Apply(scenario.Step{Offset: max(offset, 0), Edge: edge})
	m.offset = m.frame.Offset
	m.idleRounds = 0
	return m, idleCmd()
}

func (m model) handlePredict() (tea.Model, tea.Cmd) {
	g := m.session.Grid()
	if !g.NeedPredict() {
		m.frame.Settled = true
		return m, nil
	}
	g.Predict(m.session.Tree(), m.now().Add(idleBudget))
	m.idleRounds++
	m.frame.Placements = g.Placements()
	m.frame.Diagnostics = g.Dump()
	m.frame.Settled = !g.NeedPredict()
	if m.frame.Settled {
		return m, nil
	}
	return m, idleCmd()
}
