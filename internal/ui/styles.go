package ui

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
)

// Styles bundles every lipgloss style the board uses. Built from a Theme so
// a toggle swaps the whole set at once.
type Styles struct {
	Title    lipgloss.Style
	Muted    lipgloss.Style
	Accent   lipgloss.Style
	Success  lipgloss.Style
	Error    lipgloss.Style
	Pending  lipgloss.Style
	Help     lipgloss.Style
	Selected lipgloss.Style

	Lane        lipgloss.Style // column frame
	LaneDrop    lipgloss.Style // column frame while a carried card targets it
	LaneHeader  lipgloss.Style
	Card        lipgloss.Style
	CardCursor  lipgloss.Style
	CardCarried lipgloss.Style
	Pill        lipgloss.Style
	PillPoints  lipgloss.Style
	Panel       lipgloss.Style // inline edit panel frame
}

func buildStyles(t Theme) Styles {
	frame := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(t.Border)).
		Padding(0, 1)

	return Styles{
		Title:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(t.Title)),
		Muted:    lipgloss.NewStyle().Foreground(lipgloss.Color(t.Muted)),
		Accent:   lipgloss.NewStyle().Foreground(lipgloss.Color(t.Accent)),
		Success:  lipgloss.NewStyle().Foreground(lipgloss.Color(t.Success)),
		Error:    lipgloss.NewStyle().Foreground(lipgloss.Color(t.Error)).Bold(true),
		Pending:  lipgloss.NewStyle().Foreground(lipgloss.Color(t.Pending)),
		Help:     lipgloss.NewStyle().Faint(true),
		Selected: lipgloss.NewStyle().Bold(true).Reverse(true),

		Lane:        frame,
		LaneDrop:    frame.BorderForeground(lipgloss.Color(t.Accent)),
		LaneHeader:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(t.Title)),
		Card:        lipgloss.NewStyle().PaddingLeft(1),
		CardCursor:  lipgloss.NewStyle().PaddingLeft(1).Bold(true).Foreground(lipgloss.Color(t.Accent)),
		CardCarried: lipgloss.NewStyle().PaddingLeft(1).Faint(true).Italic(true),
		Pill:        lipgloss.NewStyle().Foreground(lipgloss.Color(t.Muted)),
		PillPoints:  lipgloss.NewStyle().Foreground(lipgloss.Color(t.Pending)),
		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(t.Accent)).
			Padding(0, 1),
	}
}

// OK prints a success line to stdout.
func OK(s Styles, msg string) {
	fmt.Println(s.Success.Render("✔ " + msg))
}

// Fail prints an error line to stderr.
func Fail(s Styles, msg string) {
	fmt.Fprintln(os.Stderr, s.Error.Render("✖ "+msg))
}
