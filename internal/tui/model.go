package tui

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	apperrors "github.com/agbru/sircompare/internal/errors"
	"github.com/agbru/sircompare/internal/orchestration"
)

// Options configures the viewer.
type Options struct {
	// Place is shown in the header.
	Place string
	// Version is shown next to the title.
	Version string
	// Details starts the viewer with solver statistics visible.
	Details bool
	// ErrOut receives viewer failures (os.Stderr when nil).
	ErrOut io.Writer

	programOptions []tea.ProgramOption
}

// ContextCancelledMsg is sent when the parent context ends.
type ContextCancelledMsg struct {
	Err error
}

// LayoutManager holds terminal dimensions and provides layout calculations.
type LayoutManager struct {
	width  int
	height int
}

// Layout constants for the viewer.
const (
	headerHeight  = 1
	footerHeight  = 1
	minBodyHeight = 12
)

// bodyHeight returns the available height for the panels.
func (l LayoutManager) bodyHeight() int {
	return max(l.height-headerHeight-footerHeight, minBodyHeight)
}

// panelWidth returns the width of each of n side-by-side panels.
func (l LayoutManager) panelWidth(n int) int {
	if n <= 0 {
		return l.width
	}
	return l.width / n
}

// Model is the root bubbletea model of the viewer.
type Model struct {
	header HeaderModel
	panels []PanelModel
	footer FooterModel

	keymap  KeyMap
	series  Series
	details bool

	LayoutManager

	ctx      context.Context
	exitCode int
}

// NewModel creates a viewer for the successful results.
func NewModel(ctx context.Context, results []orchestration.ScenarioResult, opts Options) Model {
	var panels []PanelModel
	for _, res := range results {
		if res.Err == nil && res.Trajectory != nil {
			p := NewPanelModel(res)
			p.SetDetails(opts.Details)
			panels = append(panels, p)
		}
	}
	km := DefaultKeyMap()
	return Model{
		header:   NewHeaderModel(opts.Place, opts.Version),
		panels:   panels,
		footer:   NewFooterModel(km.ShortHelp()),
		keymap:   km,
		details:  opts.Details,
		ctx:      ctx,
		exitCode: apperrors.ExitSuccess,
	}
}

// Init starts watching the parent context.
func (m Model) Init() tea.Cmd {
	return watchContextCmd(m.ctx)
}

// Update handles all incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layoutPanels()
		return m, nil

	case ContextCancelledMsg:
		m.exitCode = apperrors.ExitCodeFor(msg.Err)
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keymap.Next):
		m.series = m.series.Next()
	case key.Matches(msg, m.keymap.Prev):
		m.series = m.series.Prev()
	case key.Matches(msg, m.keymap.Details):
		m.details = !m.details
		for i := range m.panels {
			m.panels[i].SetDetails(m.details)
		}
	}
	m.header.SetSeries(m.series)
	return m, nil
}

// sharedPeak returns the largest value of the selected series across
// panels, so every panel uses the same vertical scale.
func (m Model) sharedPeak() float64 {
	var peak float64
	for _, p := range m.panels {
		peak = max(peak, p.Peak(m.series))
	}
	return peak
}

// View renders the whole viewer.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}
	if len(m.panels) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, m.header.View(), " No scenario to display.", m.footer.View())
	}

	peak := m.sharedPeak()
	views := make([]string, len(m.panels))
	for i, p := range m.panels {
		views[i] = p.View(m.series, peak)
	}
	body := lipgloss.JoinHorizontal(lipgloss.Top, views...)
	return lipgloss.JoinVertical(lipgloss.Left, m.header.View(), body, m.footer.View())
}

func (m *Model) layoutPanels() {
	m.header.SetWidth(m.width)
	m.footer.SetWidth(m.width)
	w := m.panelWidth(len(m.panels))
	for i := range m.panels {
		m.panels[i].SetSize(w, m.bodyHeight())
	}
}

// ExitCode returns the code the viewer finished with.
func (m Model) ExitCode() int {
	return m.exitCode
}

// Run opens the viewer on the results and blocks until it is closed or ctx
// ends. It returns the process exit code.
func Run(ctx context.Context, results []orchestration.ScenarioResult, opts Options) int {
	// Rebuild styles from the current ui theme (set by app.Run via InitTheme).
	initTUIStyles()

	model := NewModel(ctx, results, opts)
	p := tea.NewProgram(model, append([]tea.ProgramOption{tea.WithAltScreen()}, opts.programOptions...)...)

	finalModel, err := p.Run()
	if err != nil {
		errOut := opts.ErrOut
		if errOut == nil {
			errOut = os.Stderr
		}
		fmt.Fprintf(errOut, "Error running viewer: %v\n", err)
		return apperrors.ExitErrorGeneric
	}
	if m, ok := finalModel.(Model); ok {
		return m.exitCode
	}
	return apperrors.ExitSuccess
}

// watchContextCmd waits for context cancellation and sends a message.
func watchContextCmd(ctx context.Context) tea.Cmd {
	return func() tea.Msg {
		<-ctx.Done()
		return ContextCancelledMsg{Err: ctx.Err()}
	}
}
