package ui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/pleimann/stampcam/internal/watermark"
)

// cornerSelectModel wraps huh form in Bubble Tea for proper escape handling
type cornerSelectModel struct {
	form    *huh.Form
	aborted bool
}

func (m cornerSelectModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m cornerSelectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc", "q":
			m.aborted = true
			return m, tea.Quit
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		return m, tea.Quit
	}

	return m, cmd
}

func (m cornerSelectModel) View() string {
	if m.form.State == huh.StateCompleted {
		return ""
	}
	return m.form.View()
}

// cornerGlyphs sketch where the block lands in the frame
var cornerGlyphs = map[watermark.Corner]string{
	watermark.TopLeft:     "▛  ",
	watermark.TopRight:    "  ▜",
	watermark.BottomLeft:  "▙  ",
	watermark.BottomRight: "  ▟",
}

// SelectCorner asks which corner the watermark block is anchored to. It returns nil when the
// user cancels.
func SelectCorner(current watermark.Corner) (*watermark.Corner, error) {
	corners := watermark.Corners()
	options := make([]huh.Option[watermark.Corner], len(corners))
	for i, c := range corners {
		label := fmt.Sprintf("%s  %s", AccentStyle.Render(cornerGlyphs[c]), CornerStyle.Render(c.String()))
		options[i] = huh.NewOption(label, c).Selected(c == current)
	}

	selected := current

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[watermark.Corner]().
				Title("Watermark Corner").
				Description("Where the time and address block sits (esc to cancel)").
				Options(options...).
				Value(&selected),
		),
	).WithTheme(customTheme()).WithShowHelp(false)

	p := tea.NewProgram(cornerSelectModel{form: form})
	finalModel, err := p.Run()
	if err != nil {
		return nil, err
	}

	if finalModel.(cornerSelectModel).aborted {
		return nil, nil
	}

	return &selected, nil
}

// PrintCornerUpdated shows a success message after changing the corner in a config file
func PrintCornerUpdated(configPath string, corner watermark.Corner) {
	fmt.Println()
	fmt.Println(Success("Watermark corner updated"))
	fmt.Println()
	fmt.Printf("  %s %s\n", Muted("Config:"), configPath)
	fmt.Printf("  %s %s\n", Muted("Corner:"), CornerStyle.Render(corner.String()))
	fmt.Println()
}

// PrintConfigCreated shows a success message after writing a new config file
func PrintConfigCreated(configPath string, corner watermark.Corner) {
	fmt.Println()
	fmt.Println(Success("Configuration created"))
	fmt.Println()
	fmt.Printf("  %s %s\n", Muted("Config:"), configPath)
	fmt.Printf("  %s %s\n", Muted("Corner:"), CornerStyle.Render(corner.String()))
	fmt.Println()
	fmt.Println(Muted("Edit the address and logo, then run the preview command."))
}

// customTheme returns a custom huh theme matching our style palette
func customTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = t.Focused.Title.Foreground(ColorPrimary).Bold(true)
	t.Focused.Description = t.Focused.Description.Foreground(ColorMuted)
	t.Focused.SelectedOption = t.Focused.SelectedOption.Foreground(ColorPrimary)
	t.Focused.UnselectedOption = t.Focused.UnselectedOption.Foreground(ColorText)
	t.Focused.SelectSelector = t.Focused.SelectSelector.Foreground(ColorPrimary)

	return t
}
