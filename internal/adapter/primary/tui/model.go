package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"volpanel/internal/core"
	"volpanel/internal/domain"
)

const sliderCells = 40

// Model is the bubbletea model for the volume panel. The View it renders
// is owned by the model and only changed inside Update.
type Model struct {
	ctx    context.Context
	bridge core.Bridge

	view     core.View
	keys     KeyMap
	help     help.Model
	inFlight int
}

// stateMsg carries a state returned by a bridge call.
type stateMsg struct{ state domain.AudioState }

// failedMsg reports a mutation whose failure was already logged.
type failedMsg struct{ effect core.Effect }

// observedMsg carries a state pushed by the backend's event stream.
type observedMsg struct{ state domain.AudioState }

// Observed wraps a pushed state for tea.Program.Send.
func Observed(s domain.AudioState) tea.Msg {
	return observedMsg{state: s}
}

// NewModel creates the panel model. ctx bounds every bridge call.
func NewModel(ctx context.Context, b core.Bridge) Model {
	return Model{
		ctx:    ctx,
		bridge: b,
		view:   core.NewView(),
		keys:   DefaultKeyMap(),
		help:   help.New(),
	}
}

// Panel returns the current view.
func (m Model) Panel() core.View {
	return m.view
}

func (m Model) Init() tea.Cmd {
	_, cmd := m.dispatch(core.RefreshClick)
	return cmd
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case stateMsg:
		m.settle()
		return m.dispatch(core.StateLoaded(msg.state))

	case failedMsg:
		m.settle()
		return m, nil

	case observedMsg:
		return m.dispatch(core.StateLoaded(msg.state))
	}
	return m, nil
}

// settle marks one bridge call as answered. The call issued by Init is not
// counted, so the counter never goes below zero.
func (m *Model) settle() {
	if m.inFlight > 0 {
		m.inFlight--
	}
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.BigLeft):
		return m.dispatch(core.SliderInput(domain.StepVolume(m.view.SliderValue, -10)))
	case key.Matches(msg, m.keys.BigRight):
		return m.dispatch(core.SliderInput(domain.StepVolume(m.view.SliderValue, 10)))
	case key.Matches(msg, m.keys.Left):
		return m.dispatch(core.SliderInput(domain.StepVolume(m.view.SliderValue, -1)))
	case key.Matches(msg, m.keys.Right):
		return m.dispatch(core.SliderInput(domain.StepVolume(m.view.SliderValue, 1)))
	case key.Matches(msg, m.keys.Commit):
		return m.dispatch(core.SliderChange(m.view.SliderValue))
	case key.Matches(msg, m.keys.Mute):
		return m.dispatch(core.MuteClick)
	case key.Matches(msg, m.keys.Refresh):
		return m.dispatch(core.RefreshClick)
	}
	return m, nil
}

// dispatch applies an event and turns each effect into a command. Commands
// run concurrently; whichever answer arrives last is rendered last.
func (m Model) dispatch(e core.Event) (Model, tea.Cmd) {
	next, effects, err := core.HandleEvent(m.view, e)
	if err != nil {
		return m, nil
	}
	m.view = next

	cmds := make([]tea.Cmd, 0, len(effects))
	for _, eff := range effects {
		cmds = append(cmds, m.execute(eff))
	}
	m.inFlight += len(cmds)
	return m, tea.Batch(cmds...)
}

func (m Model) execute(eff core.Effect) tea.Cmd {
	ctx, b := m.ctx, m.bridge
	return func() tea.Msg {
		state, ok := core.Execute(ctx, b, eff)
		if !ok {
			return failedMsg{effect: eff}
		}
		return stateMsg{state: state}
	}
}

func (m Model) View() string {
	v := m.view
	var b strings.Builder

	header := v.VolumeText
	if header == "" {
		header = "Volume: --%"
	}
	b.WriteString(headerStyle.Render(header))
	b.WriteString("\n")

	b.WriteString(renderSlider(v.FillWidth, v.FillMuted))
	b.WriteString(valueStyle.Render(v.VolumeValue))
	b.WriteString("\n\n")

	status := unmutedStatusStyle
	if v.Muted() {
		status = mutedStatusStyle
	}
	row := lipgloss.JoinHorizontal(lipgloss.Center,
		buttonStyle.Render(v.MuteButton),
		status.Render(v.MuteStatus),
	)
	b.WriteString(row)
	b.WriteString("\n")

	if m.inFlight > 0 {
		b.WriteString(syncStyle.Render("syncing…"))
	}
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))

	return panelStyle.Render(b.String())
}

// renderSlider draws the track with width percent filled.
func renderSlider(width int, muted bool) string {
	filled := domain.ClampVolume(width) * sliderCells / 100
	fill := fillStyle
	if muted {
		fill = fillMutedStyle
	}
	return fill.Render(strings.Repeat("█", filled)) +
		trackStyle.Render(strings.Repeat("░", sliderCells-filled))
}
