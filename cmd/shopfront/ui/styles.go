// Package ui provides the interactive terminal storefront: shop
// browser, cart, auth, and the checkout wizard. Pages are Bubble Tea
// models; all domain state lives in the internal containers, the pages
// only render and dispatch.
package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Color palette for the storefront.
var (
	colorPrimary = lipgloss.Color("#2196F3") // blue
	colorAccent  = lipgloss.Color("#8BC34A") // green
	colorWarn    = lipgloss.Color("#FFC107") // yellow
	colorError   = lipgloss.Color("#E53935") // red
	colorMuted   = lipgloss.Color("243")
	colorFaint   = lipgloss.Color("238")
)

// Styles holds the shared lipgloss styles for all pages.
type Styles struct {
	Header    lipgloss.Style
	Title     lipgloss.Style
	Subtle    lipgloss.Style
	Selected  lipgloss.Style
	Price     lipgloss.Style
	Rating    lipgloss.Style
	Error     lipgloss.Style
	Success   lipgloss.Style
	Badge     lipgloss.Style
	FieldErr  lipgloss.Style
	Help      lipgloss.Style
	Box       lipgloss.Style
	StepOn    lipgloss.Style
	StepOff   lipgloss.Style
	StatusBar lipgloss.Style
}

// DefaultStyles builds the storefront style set.
func DefaultStyles() Styles {
	return Styles{
		Header: lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).
			BorderStyle(lipgloss.NormalBorder()).BorderBottom(true).BorderForeground(colorFaint),
		Title:    lipgloss.NewStyle().Bold(true),
		Subtle:   lipgloss.NewStyle().Foreground(colorMuted),
		Selected: lipgloss.NewStyle().Bold(true).Foreground(colorAccent),
		Price:    lipgloss.NewStyle().Foreground(colorAccent),
		Rating:   lipgloss.NewStyle().Foreground(colorWarn),
		Error:    lipgloss.NewStyle().Foreground(colorError),
		Success:  lipgloss.NewStyle().Bold(true).Foreground(colorAccent),
		Badge: lipgloss.NewStyle().Foreground(lipgloss.Color("231")).
			Background(colorPrimary).Padding(0, 1),
		FieldErr: lipgloss.NewStyle().Foreground(colorError).Italic(true),
		Help:     lipgloss.NewStyle().Foreground(colorFaint),
		Box: lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(colorFaint).Padding(0, 1),
		StepOn:    lipgloss.NewStyle().Bold(true).Foreground(colorPrimary),
		StepOff:   lipgloss.NewStyle().Foreground(colorFaint),
		StatusBar: lipgloss.NewStyle().Foreground(colorMuted),
	}
}
