// Package theme provides the color palette used by the painters. Gitstage
// has one visual identity, not a theme picker.
package theme

import "github.com/charmbracelet/lipgloss"

// Palette defines the colors used across the application UI.
type Palette struct {
	Accent    lipgloss.Color
	AccentFg  lipgloss.Color
	AccentDim lipgloss.Color
	Border    lipgloss.Color
	MutedFg   lipgloss.Color
	TextFg    lipgloss.Color
	SuccessFg lipgloss.Color
	WarnFg    lipgloss.Color
	ErrorFg   lipgloss.Color
}

// Default returns gitstage's sole palette, a balanced dark theme.
func Default() *Palette {
	return &Palette{
		Accent:    lipgloss.Color("#41ADFF"),
		AccentFg:  lipgloss.Color("#0D1117"),
		AccentDim: lipgloss.Color("#1A2230"),
		Border:    lipgloss.Color("#30363D"),
		MutedFg:   lipgloss.Color("#6E7681"),
		TextFg:    lipgloss.Color("#C9D1D9"),
		SuccessFg: lipgloss.Color("#3FB950"),
		WarnFg:    lipgloss.Color("#D29922"),
		ErrorFg:   lipgloss.Color("#F85149"),
	}
}

// Head returns the style for the head summary line.
func (p *Palette) Head() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(p.TextFg)
}

// SectionTitle returns the style for an unselected section header.
func (p *Palette) SectionTitle() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Underline(true).Foreground(p.MutedFg)
}

// Selected returns the style for the row under the cursor.
func (p *Palette) Selected() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(p.AccentFg).Background(p.Accent)
}

// StatusLabel returns the style for a FileEntry's status label, colored by
// the parsed change kind.
func (p *Palette) StatusLabel(name string) lipgloss.Style {
	switch name {
	case "added", "untracked":
		return lipgloss.NewStyle().Foreground(p.SuccessFg)
	case "deleted":
		return lipgloss.NewStyle().Foreground(p.ErrorFg)
	case "renamed", "type_change", "copied":
		return lipgloss.NewStyle().Foreground(p.WarnFg)
	default:
		return lipgloss.NewStyle().Foreground(p.TextFg)
	}
}
