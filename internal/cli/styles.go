package cli

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles decorate output on a terminal. Scripted sessions and one-shot
// commands print plain text.
type Styles struct {
	Title lipgloss.Style
	Error lipgloss.Style
}

// NewStyles returns the shell's terminal styles.
func NewStyles() *Styles {
	return &Styles{
		Title: lipgloss.NewStyle().Bold(true),
		Error: lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	}
}

// renderLines applies style to text, keeping its trailing newline.
func renderLines(style lipgloss.Style, text string) string {
	return style.Render(strings.TrimSuffix(text, "\n")) + "\n"
}
