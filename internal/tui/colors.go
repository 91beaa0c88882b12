package tui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// InitColors picks the color profile for the session. Colors are dropped
// when NO_COLOR is set or stdout is not a terminal.
func InitColors() {
	if os.Getenv("NO_COLOR") != "" || !isatty.IsTerminal(os.Stdout.Fd()) {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
}

func colored(color, text string) string {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(color)).
		Render(text)
}

// ColorRed colors text red
func ColorRed(text string) string { return colored("1", text) }

// ColorGreen colors text green
func ColorGreen(text string) string { return colored("2", text) }

// ColorYellow colors text yellow
func ColorYellow(text string) string { return colored("3", text) }

// ColorCyan colors text cyan
func ColorCyan(text string) string { return colored("6", text) }

// ColorDim makes text dim/gray
func ColorDim(text string) string { return colored("8", text) }

// Bold renders text in bold
func Bold(text string) string {
	return lipgloss.NewStyle().Bold(true).Render(text)
}

// ColorBranchName colors a branch name, highlighting the current one
func ColorBranchName(name string, isCurrent bool) string {
	if isCurrent {
		return lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true).Render(name)
	}
	return ColorCyan(name)
}

// ColorPRState colors pull request state text
func ColorPRState(state string, isDraft bool) string {
	switch {
	case isDraft:
		return ColorDim("draft")
	case state == "open":
		return ColorGreen(state)
	case state == "closed":
		return ColorRed(state)
	default:
		return colored("5", state)
	}
}
