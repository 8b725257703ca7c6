package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

// HeaderModel renders the top bar: title, place and version.
type HeaderModel struct {
	place   string
	version string
	series  Series
	width   int
}

// NewHeaderModel creates a new header.
func NewHeaderModel(place, version string) HeaderModel {
	return HeaderModel{place: place, version: version}
}

// SetWidth updates the available width.
func (h *HeaderModel) SetWidth(w int) {
	h.width = w
}

// SetSeries records the series currently plotted.
func (h *HeaderModel) SetSeries(s Series) {
	h.series = s
}

// View renders the header.
func (h HeaderModel) View() string {
	titleText := "SIR Comparison"
	if h.place != "" {
		titleText += " · " + h.place
	}
	left := titleStyle.Render(titleText)
	if h.version != "" && h.version != "dev" {
		left += versionStyle.Render(" " + h.version)
	}
	right := seriesStyles[h.series].Render(fmt.Sprintf("[%s]", h.series))

	gap := h.width - 2 - lipgloss.Width(left) - lipgloss.Width(right)
	return headerStyle.Render(left + spaces(gap) + right)
}

// FooterModel renders the key help line.
type FooterModel struct {
	bindings []key.Binding
	width    int
}

// NewFooterModel creates a footer listing bindings.
func NewFooterModel(bindings []key.Binding) FooterModel {
	return FooterModel{bindings: bindings}
}

// SetWidth updates the available width.
func (f *FooterModel) SetWidth(w int) {
	f.width = w
}

// View renders the footer.
func (f FooterModel) View() string {
	parts := make([]string, 0, len(f.bindings))
	for _, b := range f.bindings {
		h := b.Help()
		parts = append(parts, footerKeyStyle.Render(h.Key)+" "+footerDescStyle.Render(h.Desc))
	}
	return " " + strings.Join(parts, footerDescStyle.Render("  •  "))
}

// spaces returns a string of n space characters.
func spaces(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat(" ", n)
}
