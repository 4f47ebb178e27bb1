// Package ui provides lipgloss styles for terminal output.
package ui

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Styles groups the renderers used by the tag tree and enumerate preview.
type Styles struct {
	Branch    lipgloss.Style
	Tag       lipgloss.Style
	Group     lipgloss.Style
	Match     lipgloss.Style
	Marker    lipgloss.Style
	Counter   lipgloss.Style
	Separator lipgloss.Style
	Heading   lipgloss.Style
	Dim       lipgloss.Style
}

// NewStyles returns colored styles, or plain pass-through styles when color is off.
func NewStyles(color bool) *Styles {
	if !color {
		plain := lipgloss.NewStyle()
		return &Styles{
			Branch:    plain,
			Tag:       plain,
			Group:     plain,
			Match:     plain,
			Marker:    plain,
			Counter:   plain,
			Separator: plain,
			Heading:   plain,
			Dim:       plain,
		}
	}
	return &Styles{
		Branch:    lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Tag:       lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		Group:     lipgloss.NewStyle().Foreground(lipgloss.Color("7")),
		Match:     lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),
		Marker:    lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Counter:   lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		Separator: lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Heading:   lipgloss.NewStyle().Bold(true),
		Dim:       lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Italic(true),
	}
}

// ColorEnabled resolves a --color mode ("auto", "always", "never") for w.
// Auto enables color only for terminals and honours NO_COLOR.
func ColorEnabled(mode string, w io.Writer) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
