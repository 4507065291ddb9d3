package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Palette follows the watermark: the yellow divider bar leads
var (
	ColorPrimary   = lipgloss.Color("#F5B700")
	ColorSecondary = lipgloss.Color("#38BDF8")
	ColorSuccess   = lipgloss.Color("#10B981")
	ColorWarning   = lipgloss.Color("#F97316")
	ColorError     = lipgloss.Color("#EF4444")
	ColorMuted     = lipgloss.Color("#6B7280")
	ColorText      = lipgloss.Color("#F9FAFB")
	ColorInk       = lipgloss.Color("#111827")
)

var (
	TitleStyle   = lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary)
	SuccessStyle = lipgloss.NewStyle().Foreground(ColorSuccess)
	WarningStyle = lipgloss.NewStyle().Foreground(ColorWarning)
	ErrorStyle   = lipgloss.NewStyle().Bold(true).Foreground(ColorError)
	MutedStyle   = lipgloss.NewStyle().Foreground(ColorMuted)

	CodeStyle = lipgloss.NewStyle().Foreground(ColorSecondary).Background(lipgloss.Color("#1F2937")).Padding(0, 1)

	// PanelStyle frames the endpoints of a running preview
	PanelStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(ColorPrimary).Padding(0, 1)
)

// Watermark values
var (
	CornerStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorSecondary)
	PathStyle   = lipgloss.NewStyle().Foreground(ColorText)

	// AccentStyle draws a swatch in the divider bar color
	AccentStyle = lipgloss.NewStyle().Bold(true).Background(ColorPrimary).Foreground(ColorInk)
)

func Title(text string) string {
	return TitleStyle.Render(text)
}

func Success(text string) string {
	return SuccessStyle.Render("✓ " + text)
}

func Warning(text string) string {
	return WarningStyle.Render("! " + text)
}

func Error(text string) string {
	return ErrorStyle.Render("✗ " + text)
}

func Muted(text string) string {
	return MutedStyle.Render(text)
}

// Code renders a command the user can copy
func Code(text string) string {
	return CodeStyle.Render(text)
}
