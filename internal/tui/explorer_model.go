package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rshade/cargofocus/internal/emissions"
	"github.com/rshade/cargofocus/internal/engine"
	"github.com/rshade/cargofocus/internal/provider"
)

// ExplorerState represents the current state of the scenario explorer.
type ExplorerState int

const (
	// ExplorerStateLoading indicates shipments are being fetched.
	ExplorerStateLoading ExplorerState = iota
	// ExplorerStateReady indicates a result is on screen.
	ExplorerStateReady
	// ExplorerStateError indicates a fetch or simulation failure.
	ExplorerStateError
	// ExplorerStateQuitting indicates the program is exiting.
	ExplorerStateQuitting
)

// Default dimensions before the first WindowSizeMsg arrives.
const (
	explorerDefaultWidth  = 80
	explorerDefaultHeight = 24
)

// routeViewportHeight is the scrollable route table's height in rows.
const routeViewportHeight = 8

// recordsLoadedMsg is sent when the provider fetch completes.
type recordsLoadedMsg struct {
	records []emissions.ShipmentRecord
	err     error
}

// simulateDoneMsg is sent when a scenario evaluation completes.
type simulateDoneMsg struct {
	result *engine.ScenarioResult
	err    error
}

// keyMap defines the explorer's key bindings. Bindings implement
// help.KeyMap so the footer renders itself.
type keyMap struct {
	CycleSource key.Binding
	CycleTarget key.Binding
	Blanket     key.Binding
	Strict      key.Binding
	Rerun       key.Binding
	Scroll      key.Binding
	Quit        key.Binding
}

// ShortHelp returns the footer help entries.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.CycleSource, k.CycleTarget, k.Blanket, k.Strict, k.Rerun, k.Quit}
}

// FullHelp returns the expanded help entries.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.CycleSource, k.CycleTarget, k.Blanket, k.Strict},
		{k.Rerun, k.Scroll, k.Quit},
	}
}

// defaultKeyMap builds the explorer bindings.
func defaultKeyMap() keyMap {
	return keyMap{
		CycleSource: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "source mode"),
		),
		CycleTarget: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "target mode"),
		),
		Blanket: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "blanket optimize"),
		),
		Strict: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "strict selection"),
		),
		Rerun: key.NewBinding(
			key.WithKeys("enter", "r"),
			key.WithHelp("enter/r", "re-run"),
		),
		Scroll: key.NewBinding(
			key.WithKeys("up", "down"),
			key.WithHelp("↑/↓", "scroll routes"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ExplorerModel is the Bubble Tea model for the interactive scenario
// explorer. The record set is fetched once at startup; every key-driven
// request change triggers a fresh simulation off the UI goroutine.
type ExplorerModel struct {
	ctx context.Context
	sim *engine.Simulator
	src provider.Provider

	// Scenario under construction. source/target cycle through
	// none → air → sea → land.
	source  *emissions.TransportMode
	target  *emissions.TransportMode
	blanket bool
	strict  bool

	records []emissions.ShipmentRecord
	result  *engine.ScenarioResult

	state      ExplorerState
	simulating bool
	err        error

	routes viewport.Model
	help   help.Model
	keys   keyMap

	width  int
	height int
}

// NewExplorerModel creates an explorer over the given simulator and
// shipment source. The initial scenario is "all → best" (blanket
// optimization), the most informative default view.
func NewExplorerModel(ctx context.Context, sim *engine.Simulator, src provider.Provider) *ExplorerModel {
	vp := viewport.New(explorerDefaultWidth, routeViewportHeight)
	return &ExplorerModel{
		ctx:     ctx,
		sim:     sim,
		src:     src,
		blanket: true,
		state:   ExplorerStateLoading,
		routes:  vp,
		help:    help.New(),
		keys:    defaultKeyMap(),
		width:   explorerDefaultWidth,
		height:  explorerDefaultHeight,
	}
}

// Init fetches the shipment set.
func (m *ExplorerModel) Init() tea.Cmd {
	ctx, src := m.ctx, m.src
	return func() tea.Msg {
		records, err := src.FetchShipments(ctx)
		return recordsLoadedMsg{records: records, err: err}
	}
}

// Update handles messages and updates the model state.
func (m *ExplorerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.routes.Width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case recordsLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.state = ExplorerStateError
			return m, nil
		}
		m.records = msg.records
		m.state = ExplorerStateReady
		return m, m.simulate()

	case simulateDoneMsg:
		return m.handleSimulateDone(msg)

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	}

	return m, nil
}

// handleKeyMsg processes keyboard input.
func (m *ExplorerModel) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.state = ExplorerStateQuitting
		return m, tea.Quit

	case m.state != ExplorerStateReady:
		// Only quit is honored while loading or in error state.
		return m, nil

	case key.Matches(msg, m.keys.CycleSource):
		m.source = cycleMode(m.source)
		m.blanket = false
		return m, m.simulate()

	case key.Matches(msg, m.keys.CycleTarget):
		m.target = cycleMode(m.target)
		m.blanket = false
		return m, m.simulate()

	case key.Matches(msg, m.keys.Blanket):
		m.blanket = !m.blanket
		if m.blanket {
			m.source = nil
			m.target = nil
		}
		return m, m.simulate()

	case key.Matches(msg, m.keys.Strict):
		m.strict = !m.strict
		return m, m.simulate()

	case key.Matches(msg, m.keys.Rerun):
		return m, m.simulate()
	}

	// Remaining keys drive the route viewport.
	var cmd tea.Cmd
	m.routes, cmd = m.routes.Update(msg)
	return m, cmd
}

// cycleMode advances nil → air → sea → land → nil.
func cycleMode(current *emissions.TransportMode) *emissions.TransportMode {
	modes := emissions.AllModes()
	if current == nil {
		first := modes[0]
		return &first
	}
	for i, mode := range modes {
		if mode == *current {
			if i == len(modes)-1 {
				return nil
			}
			next := modes[i+1]
			return &next
		}
	}
	return nil
}

// request assembles the scenario request from the explorer's toggles.
func (m *ExplorerModel) request() engine.ScenarioRequest {
	req := engine.ScenarioRequest{
		Source:    m.source,
		Target:    m.target,
		SourceAll: m.blanket,
	}
	if m.strict {
		req.EmptySelection = engine.SelectionStrict
	}
	return req
}

// simulate runs the current scenario off the UI goroutine.
func (m *ExplorerModel) simulate() tea.Cmd {
	m.simulating = true

	sim, records, req := m.sim, m.records, m.request()
	return func() tea.Msg {
		result, err := sim.Simulate(records, req)
		return simulateDoneMsg{result: result, err: err}
	}
}

// handleSimulateDone applies a completed simulation.
func (m *ExplorerModel) handleSimulateDone(msg simulateDoneMsg) (tea.Model, tea.Cmd) {
	m.simulating = false

	if msg.err != nil {
		m.err = msg.err
		m.state = ExplorerStateError
		return m, nil
	}

	m.result = msg.result
	m.state = ExplorerStateReady
	m.routes.SetContent(renderRouteTable(msg.result.Affected))
	m.routes.GotoTop()
	return m, nil
}

// Result returns the most recent scenario result, nil before the first
// simulation completes.
func (m *ExplorerModel) Result() *engine.ScenarioResult {
	return m.result
}
