// Package tui renders dashboards and leaderboards for the terminal, either as
// static lipgloss boxes or as an interactive Bubble Tea table.
package tui

import "github.com/charmbracelet/lipgloss"

// Layout defaults used before the first WindowSizeMsg arrives.
const (
	defaultWidth  = 80
	defaultHeight = 24
	borderPadding = 2
	// chromeHeight is the number of rows taken by the title and help line.
	chromeHeight = 6
)

// Key bindings.
const (
	keyQuit  = "q"
	keyCtrlC = "ctrl+c"
	keyEnter = "enter"
	keyEsc   = "esc"
)

// Shared color palette.
var (
	colorTitle   = lipgloss.Color("39")
	colorBorder  = lipgloss.Color("240")
	colorSubtle  = lipgloss.Color("245")
	colorOK      = lipgloss.Color("42")
	colorWarning = lipgloss.Color("214")
	colorBad     = lipgloss.Color("196")
)

// Styles shared by the static views and the interactive model.
//
//nolint:gochecknoglobals // lipgloss styles are immutable values.
var (
	HeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(colorTitle)
	LabelStyle  = lipgloss.NewStyle().Foreground(colorSubtle)
	ValueStyle  = lipgloss.NewStyle().Bold(true)
	SubtleStyle = lipgloss.NewStyle().Foreground(colorSubtle).Italic(true)
	InfoStyle   = lipgloss.NewStyle().Foreground(colorTitle)
	OKStyle     = lipgloss.NewStyle().Foreground(colorOK)
	WarnStyle   = lipgloss.NewStyle().Foreground(colorWarning)
	BadStyle    = lipgloss.NewStyle().Foreground(colorBad).Bold(true)

	BoxStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1)

	TableHeaderStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.NormalBorder()).
				BorderForeground(colorBorder).
				BorderBottom(true).
				Bold(true)
	TableSelectedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("229")).
				Background(lipgloss.Color("57")).
				Bold(false)
)

// ProgressStyle picks a color for a daily goal percentage.
func ProgressStyle(percent int, exceeded bool) lipgloss.Style {
	switch {
	case exceeded:
		return BadStyle
	case percent >= 80: //nolint:mnd // Warning threshold.
		return WarnStyle
	default:
		return OKStyle
	}
}
