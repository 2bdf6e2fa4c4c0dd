// Package tui implements the interactive scenario explorer: a Bubble Tea
// program that loads the configured shipment set once and re-runs what-if
// simulations as the user cycles source/target modes.
package tui

import "github.com/charmbracelet/lipgloss"

// Shared palette. Adaptive colors keep the explorer readable on both light
// and dark terminals.
var (
	ColorHeader    = lipgloss.AdaptiveColor{Light: "60", Dark: "105"}
	ColorLabel     = lipgloss.AdaptiveColor{Light: "243", Dark: "246"}
	ColorValue     = lipgloss.AdaptiveColor{Light: "235", Dark: "252"}
	ColorOK        = lipgloss.AdaptiveColor{Light: "28", Dark: "42"}
	ColorWarning   = lipgloss.AdaptiveColor{Light: "130", Dark: "214"}
	ColorDanger    = lipgloss.AdaptiveColor{Light: "124", Dark: "196"}
	ColorMuted     = lipgloss.AdaptiveColor{Light: "248", Dark: "240"}
	ColorBorder    = lipgloss.AdaptiveColor{Light: "250", Dark: "238"}
	ColorHighlight = lipgloss.AdaptiveColor{Light: "26", Dark: "39"}
)

// Directional icons used in the delta banner and route table.
const (
	IconArrowUp    = "↑"
	IconArrowDown  = "↓"
	IconArrowRight = "→"
)

// Shared styles.
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorHeader).
			Border(lipgloss.NormalBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1)

	labelStyle = lipgloss.NewStyle().Foreground(ColorLabel)
	valueStyle = lipgloss.NewStyle().Foreground(ColorValue).Bold(true)
	mutedStyle = lipgloss.NewStyle().Foreground(ColorMuted)
	noteStyle  = lipgloss.NewStyle().Foreground(ColorMuted).Italic(true)
)

// Score band boundaries, mirroring the CLI's table coloring.
const (
	scoreBandGood = 80.0
	scoreBandFair = 50.0
)

// scoreStyle returns the banner style for a 0-100 health score.
func scoreStyle(score float64) lipgloss.Style {
	color := ColorDanger
	switch {
	case score >= scoreBandGood:
		color = ColorOK
	case score >= scoreBandFair:
		color = ColorWarning
	}
	return lipgloss.NewStyle().Bold(true).Foreground(color)
}

// deltaStyle returns icon, sign, and style for a kg CO2e delta. Negative
// deltas are improvements and render in the OK color.
func deltaStyle(deltaKG float64) (icon, sign string, style lipgloss.Style) {
	switch {
	case deltaKG > 0:
		return IconArrowUp, "+", lipgloss.NewStyle().Foreground(ColorWarning).Bold(true)
	case deltaKG < 0:
		return IconArrowDown, "", lipgloss.NewStyle().Foreground(ColorOK).Bold(true)
	default:
		return IconArrowRight, "", lipgloss.NewStyle().Foreground(ColorMuted).Bold(true)
	}
}
