package tui

import "github.com/charmbracelet/lipgloss"

// Styles contains all the lipgloss styles for the TUI.
type Styles struct {
	App lipgloss.Style

	Title    lipgloss.Style
	Subtitle lipgloss.Style

	MenuItem         lipgloss.Style
	MenuItemSelected lipgloss.Style
	MenuItemDim      lipgloss.Style

	StatusOnline  lipgloss.Style
	StatusOffline lipgloss.Style

	Label   lipgloss.Style
	Value   lipgloss.Style
	Muted   lipgloss.Style
	Error   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style

	Help lipgloss.Style
}

// DefaultStyles returns the default color scheme, built around Nordic blue.
func DefaultStyles() Styles {
	accent := lipgloss.AdaptiveColor{Light: "#0077C8", Dark: "#00A9CE"}
	dim := lipgloss.AdaptiveColor{Light: "#9B9B9B", Dark: "#5C5C5C"}
	text := lipgloss.AdaptiveColor{Light: "#343433", Dark: "#C1C6B2"}
	good := lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}
	bad := lipgloss.Color("#FF6B6B")

	return Styles{
		App: lipgloss.NewStyle().Padding(1, 2),

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(accent).
			Padding(0, 1),
		Subtitle: lipgloss.NewStyle().Foreground(dim),

		MenuItem: lipgloss.NewStyle(),
		MenuItemSelected: lipgloss.NewStyle().
			Foreground(accent).
			Bold(true),
		MenuItemDim: lipgloss.NewStyle().
			Foreground(dim).
			PaddingLeft(4),

		StatusOnline:  lipgloss.NewStyle().Foreground(good).Bold(true),
		StatusOffline: lipgloss.NewStyle().Foreground(bad).Bold(true),

		Label:   lipgloss.NewStyle().Foreground(dim).Width(18),
		Value:   lipgloss.NewStyle().Foreground(text),
		Muted:   lipgloss.NewStyle().Foreground(dim),
		Error:   lipgloss.NewStyle().Foreground(bad),
		Success: lipgloss.NewStyle().Foreground(good),
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("#FFCC00")),

		Help: lipgloss.NewStyle().Foreground(dim).MarginTop(1),
	}
}
