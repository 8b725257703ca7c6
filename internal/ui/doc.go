// Package ui holds the color themes shared by the command-line report, the
// progress spinner and the interactive viewer. ANSI themes serve the CLI;
// TUI themes carry the lipgloss colors of each SIR compartment.
package ui
