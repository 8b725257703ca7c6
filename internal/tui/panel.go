package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/sircompare/internal/analysis"
	"github.com/agbru/sircompare/internal/format"
	"github.com/agbru/sircompare/internal/orchestration"
)

// Series selects the curve plotted in every panel.
type Series int

const (
	SeriesInfected Series = iota
	SeriesSusceptible
	SeriesRecovered
	SeriesDeaths

	seriesCount
)

var seriesNames = [seriesCount]string{"Infected", "Susceptible", "Recovered", "Estimated Deaths"}

func (s Series) String() string {
	if s < 0 || s >= seriesCount {
		return fmt.Sprintf("Series(%d)", int(s))
	}
	return seriesNames[s]
}

// Next returns the following series, wrapping around.
func (s Series) Next() Series { return (s + 1) % seriesCount }

// Prev returns the preceding series, wrapping around.
func (s Series) Prev() Series { return (s + seriesCount - 1) % seriesCount }

// PanelModel shows one scenario: the selected curve and its summary.
type PanelModel struct {
	result  orchestration.ScenarioResult
	series  [seriesCount][]float64
	details bool
	width   int
	height  int
}

// NewPanelModel prepares the curves of one successful result.
func NewPanelModel(res orchestration.ScenarioResult) PanelModel {
	p := PanelModel{result: res}
	if tr := res.Trajectory; tr != nil {
		p.series[SeriesSusceptible] = tr.Susceptible()
		p.series[SeriesInfected] = tr.Infected()
		p.series[SeriesRecovered] = tr.Recovered()
		p.series[SeriesDeaths] = analysis.EstimatedDeaths(tr, res.Scenario.FatalityRatio)
	}
	return p
}

// SetSize updates dimensions, borders included.
func (p *PanelModel) SetSize(w, h int) {
	p.width = w
	p.height = h
}

// SetDetails toggles the solver statistics lines.
func (p *PanelModel) SetDetails(on bool) {
	p.details = on
}

// Peak returns the largest value of series s.
func (p PanelModel) Peak(s Series) float64 {
	var m float64
	for _, v := range p.series[s] {
		m = max(m, v)
	}
	return m
}

// summaryLines renders the statistics shown under the chart.
func (p PanelModel) summaryLines() []string {
	s := p.result.Summary
	sc := p.result.Scenario
	lines := []string{
		metricLine("Total infected", format.FormatCount(s.TotalInfected)),
		metricLine(fmt.Sprintf("Deaths (%s%%)", format.FormatPercent(sc.FatalityRatio)), format.FormatCount(s.TotalDeaths)),
		metricLine("Peak day", fmt.Sprintf("%.0f", s.PeakDay)),
		metricLine("Peak infected", format.FormatCount(s.PeakInfected)),
		metricLine("Deaths at peak", format.FormatCount(s.DeathsAtPeak)),
	}
	if p.details && p.result.Trajectory != nil {
		st := p.result.Trajectory.Stats()
		lines = append(lines,
			metricLine("R0", fmt.Sprintf("%.2f", sc.Params.R0())),
			metricLine("Solver steps", fmt.Sprintf("%d (%d rejected)", st.Steps, st.Rejected)),
			metricLine("Evaluations", fmt.Sprintf("%d", st.Evaluations)),
		)
	}
	return lines
}

func metricLine(label, value string) string {
	return metricLabelStyle.Render(fmt.Sprintf("%-15s", label)) + " " + metricValueStyle.Render(value)
}

// View renders the panel with series s scaled against maxValue.
func (p PanelModel) View(s Series, maxValue float64) string {
	inner := max(p.width-4, 1)
	summary := p.summaryLines()

	title := titleStyle.Render(p.result.Scenario.DisplayName)
	axis := axisStyle.Render(axisLabel(p.result, inner))
	chartRows := max(p.height-2-len(summary)-3, 1)

	var b strings.Builder
	b.WriteString(title)
	b.WriteString("\n")
	for _, row := range RenderBrailleChart(p.series[s], maxValue, inner, chartRows) {
		b.WriteString(seriesStyles[s].Render(row))
		b.WriteString("\n")
	}
	b.WriteString(axis)
	b.WriteString("\n")
	b.WriteString(strings.Join(summary, "\n"))

	return panelStyle.
		Width(max(p.width-2, 0)).
		Render(b.String())
}

// axisLabel renders "day <start>" and "day <end>" at both ends of width.
func axisLabel(res orchestration.ScenarioResult, width int) string {
	if res.Trajectory == nil || res.Trajectory.Len() == 0 {
		return ""
	}
	tr := res.Trajectory
	left := fmt.Sprintf("day %.0f", tr.Time(0))
	right := fmt.Sprintf("day %.0f", tr.Time(tr.Len()-1))
	return left + spaces(width-lipgloss.Width(left)-lipgloss.Width(right)) + right
}
