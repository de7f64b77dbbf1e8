package output

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// Color palette: named constants for all ANSI 256 colors used in the CLI.
// These are the single source of truth; never use inline lipgloss.Color literals.
var (
	// ColorCyan is used for identifiable nouns: archive entry names, module
	// names, application names.
	ColorCyan = lipgloss.Color("14")

	// ColorGreenCheck is used for the completion checkmark (✔).
	ColorGreenCheck = lipgloss.Color("10")

	// ColorDimGray is used for structural chrome: sizes, separators.
	ColorDimGray = lipgloss.Color("240")
)

// Semantic styles that map domain concepts to visual presentation.
var (
	// StyleNoun styles identifiable nouns (entry names, application names).
	StyleNoun = lipgloss.NewStyle().Foreground(ColorCyan)

	// StyleDim styles structural chrome (sizes, chunk lists, separators).
	StyleDim = lipgloss.NewStyle().Faint(true)

	// StyleSummary styles completion and summary lines.
	StyleSummary = lipgloss.NewStyle().Bold(true)
)

// minEntryColumnWidth is the minimum width for the entry name column before
// the size suffix, so sizes align consistently in listings.
const minEntryColumnWidth = 40

// FormatEntryLine renders an archive entry name with a right-aligned,
// dimmed size and detail suffix.
func FormatEntryLine(name string, size int, detail string) string {
	padding := minEntryColumnWidth - len(name)
	if padding < 2 {
		padding = 2
	}

	line := StyleNoun.Render(name)
	for i := 0; i < padding; i++ {
		line += " "
	}
	line += StyleDim.Render(fmt.Sprintf("%8d", size))
	if detail != "" {
		line += "  " + StyleDim.Render(detail)
	}
	return line
}

// FormatCheckmark renders a green checkmark with a message for stdout output.
func FormatCheckmark(msg string) string {
	check := lipgloss.NewStyle().Foreground(ColorGreenCheck).Render("✔")
	return check + " " + msg
}
