package ui

import (
	"os"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Theme defines a color scheme for CLI output.
// Each field contains an ANSI escape code for the corresponding color category.
type Theme struct {
	// Name is the identifier of the theme.
	Name string
	// Warning is used for caution messages or non-critical issues.
	Warning string
	// Error indicates failures or critical issues.
	Error string
	// Info is used for informational messages.
	Info string
	// Reset clears all formatting.
	Reset string
}

var (
	// DarkTheme is optimized for dark terminal backgrounds.
	DarkTheme = Theme{
		Name:    "dark",
		Warning: "\033[38;5;220m", // Yellow
		Error:   "\033[38;5;196m", // Red
		Info:    "\033[38;5;141m", // Purple
		Reset:   "\033[0m",
	}

	// NoColorTheme disables all color output.
	// Used when NO_COLOR is set or --no-color flag is provided.
	NoColorTheme = Theme{Name: "none"}

	currentTheme = DarkTheme
	themeMutex   sync.RWMutex
)

// TUITheme defines lipgloss-compatible colors for the interactive viewer.
// The compartment colors follow the chart: susceptible blue, infected red,
// recovered green, deaths grey.
type TUITheme struct {
	Text        lipgloss.TerminalColor
	Border      lipgloss.TerminalColor
	Accent      lipgloss.TerminalColor
	Dim         lipgloss.TerminalColor
	Susceptible lipgloss.TerminalColor
	Infected    lipgloss.TerminalColor
	Recovered   lipgloss.TerminalColor
	Deaths      lipgloss.TerminalColor
}

var (
	// DarkTUITheme is the default viewer palette.
	DarkTUITheme = TUITheme{
		Text:        lipgloss.Color("#E0E0E0"),
		Border:      lipgloss.Color("#4488FF"),
		Accent:      lipgloss.Color("#FF8C00"),
		Dim:         lipgloss.Color("#666666"),
		Susceptible: lipgloss.Color("#4488FF"),
		Infected:    lipgloss.Color("#FF4444"),
		Recovered:   lipgloss.Color("#9ece6a"),
		Deaths:      lipgloss.Color("#BBBBBB"),
	}

	// NoColorTUITheme renders everything in the terminal's default colors.
	NoColorTUITheme = TUITheme{
		Text:        lipgloss.NoColor{},
		Border:      lipgloss.NoColor{},
		Accent:      lipgloss.NoColor{},
		Dim:         lipgloss.NoColor{},
		Susceptible: lipgloss.NoColor{},
		Infected:    lipgloss.NoColor{},
		Recovered:   lipgloss.NoColor{},
		Deaths:      lipgloss.NoColor{},
	}
)

// GetCurrentTUITheme returns the TUI theme matching the currently active theme.
func GetCurrentTUITheme() TUITheme {
	themeMutex.RLock()
	defer themeMutex.RUnlock()

	if currentTheme.Name == NoColorTheme.Name {
		return NoColorTUITheme
	}
	return DarkTUITheme
}

// GetCurrentTheme returns the currently active theme in a thread-safe manner.
func GetCurrentTheme() Theme {
	themeMutex.RLock()
	defer themeMutex.RUnlock()
	return currentTheme
}

// SetCurrentTheme sets the currently active theme in a thread-safe manner.
// This is primarily used for testing purposes to restore state.
func SetCurrentTheme(t Theme) {
	themeMutex.Lock()
	defer themeMutex.Unlock()
	currentTheme = t
}

// InitTheme initializes the theme based on the noColor flag and environment.
// It respects the NO_COLOR environment variable (https://no-color.org/).
//
// Parameters:
//   - noColor: If true, disables all color output regardless of environment.
func InitTheme(noColor bool) {
	themeMutex.Lock()
	defer themeMutex.Unlock()

	if noColor {
		currentTheme = NoColorTheme
		return
	}
	if _, exists := os.LookupEnv("NO_COLOR"); exists {
		currentTheme = NoColorTheme
		return
	}
	currentTheme = DarkTheme
}

// ColorReset returns the reset escape code of the active theme.
func ColorReset() string { return GetCurrentTheme().Reset }

// ColorRed returns the error color of the active theme.
func ColorRed() string { return GetCurrentTheme().Error }

// ColorYellow returns the warning color of the active theme.
func ColorYellow() string { return GetCurrentTheme().Warning }

// ColorCyan returns the info color of the active theme.
func ColorCyan() string { return GetCurrentTheme().Info }
