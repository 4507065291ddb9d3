package ui

import (
	"fmt"
	"image"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/pleimann/stampcam/internal/utils"
	"github.com/pleimann/stampcam/internal/watermark"
)

// Example is one line of a command's examples section
type Example struct {
	Cmd  string
	Desc string
}

var nameStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary)

// Banner renders the program name with its version
func Banner(version string) string {
	versionTag := MutedStyle.Render("v" + version)
	return fmt.Sprintf("%s %s\n%s", nameStyle.Render(utils.ExecutableName()), versionTag, Muted("Timestamp watermark camera"))
}

// Examples renders rows with aligned descriptions. Commands are prefixed with the executable name.
func Examples(rows ...Example) string {
	cmdStyle := lipgloss.NewStyle().Foreground(ColorSecondary)

	exe := utils.ExecutableName()
	maxLen := 0
	for _, ex := range rows {
		if n := len(exe) + 1 + len(ex.Cmd); n > maxLen {
			maxLen = n
		}
	}

	lines := make([]string, len(rows))
	for i, ex := range rows {
		cmd := strings.TrimSpace(exe + " " + ex.Cmd)
		padding := strings.Repeat(" ", maxLen-len(cmd)+2)
		lines[i] = fmt.Sprintf("  %s%s%s", cmdStyle.Render(cmd), padding, Muted(ex.Desc))
	}
	return strings.Join(lines, "\n")
}

// VersionTemplate is the cobra template for --version
func VersionTemplate(version string) string {
	return fmt.Sprintf("%s %s\n", nameStyle.Render(utils.ExecutableName()), SuccessStyle.Render("v"+version))
}

// PrintWarning displays a styled warning that does not stop the command
func PrintWarning(message string) {
	fmt.Println(Warning(message))
}

// PrintFatalError displays a styled fatal error message with context
func PrintFatalError(context, message string) {
	fmt.Println()
	fmt.Println(Error(context))
	fmt.Printf("  %s\n", Muted(message))
	fmt.Println()
}

// PrintProgress prints one step of a longer operation
func PrintProgress(message string) {
	fmt.Printf("  %s %s\n", Muted("→"), message)
}

// PrintCaptureSaved shows where a capture was written
func PrintCaptureSaved(path string, size image.Point, corner watermark.Corner, elapsed time.Duration) {
	fmt.Println()
	fmt.Println(Success("Photo saved"))
	fmt.Println()
	fmt.Printf("  %s %s\n", Muted("File:  "), PathStyle.Render(path))
	fmt.Printf("  %s %dx%d\n", Muted("Size:  "), size.X, size.Y)
	fmt.Printf("  %s %s\n", Muted("Corner:"), CornerStyle.Render(corner.String()))
	fmt.Printf("  %s %s\n", Muted("Took:  "), elapsed.Round(time.Millisecond))
	fmt.Println()
}

// PrintServing shows the preview endpoints
func PrintServing(addr string, preview image.Point) {
	base := addr
	if strings.HasPrefix(base, ":") {
		base = "localhost" + base
	}
	lines := []string{
		Title("Preview running"),
		fmt.Sprintf("%s %s", Muted("Stream: "), PathStyle.Render("http://"+base+"/preview.mjpg")),
		fmt.Sprintf("%s %s", Muted("Capture:"), Code("curl -X POST -OJ http://"+base+"/capture")),
		fmt.Sprintf("%s %dx%d", Muted("Surface:"), preview.X, preview.Y),
	}
	fmt.Println(PanelStyle.Render(strings.Join(lines, "\n")))
}
