package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Color palette
var (
	ColorPrimary   = lipgloss.Color("#7C3AED") // Purple
	ColorSecondary = lipgloss.Color("#6B7280") // Gray
	ColorSuccess   = lipgloss.Color("#10B981") // Green
	ColorWarning   = lipgloss.Color("#F59E0B") // Amber
	ColorDanger    = lipgloss.Color("#EF4444") // Red
	ColorMuted     = lipgloss.Color("#9CA3AF") // Light gray
	ColorBlue      = lipgloss.Color("#3B82F6") // Blue
)

// GenreColors groups genres into a handful of colors.
var GenreColors = map[string]lipgloss.Color{
	"ACTION":    ColorDanger,
	"ADVENTURE": ColorWarning,
	"THRILLER":  ColorDanger,
	"HORROR":    ColorDanger,
	"BIOGRAPHY": ColorBlue,
	"HISTORY":   ColorBlue,
	"COMEDY":    ColorSuccess,
	"ROMANCE":   ColorSuccess,
	"DRAMA":     ColorPrimary,
	"MYSTERY":   ColorPrimary,
	"FANTASY":   ColorWarning,
	"SCIFI":     ColorBlue,
}

// Text styles
var (
	Bold      = lipgloss.NewStyle().Bold(true)
	Muted     = lipgloss.NewStyle().Foreground(ColorMuted)
	Primary   = lipgloss.NewStyle().Foreground(ColorPrimary)
	Success   = lipgloss.NewStyle().Foreground(ColorSuccess)
	Warning   = lipgloss.NewStyle().Foreground(ColorWarning)
	Danger    = lipgloss.NewStyle().Foreground(ColorDanger)
	Secondary = lipgloss.NewStyle().Foreground(ColorSecondary)
)

// ID style - distinctive for document IDs
var ID = lipgloss.NewStyle().
	Foreground(ColorPrimary).
	Bold(true)

// TreeLine styles the connectors drawn by RenderTree.
var TreeLine = lipgloss.NewStyle().Foreground(ColorSecondary)

// RenderGenre returns genre text colored by genre. Unknown genres are muted.
func RenderGenre(genre string) string {
	if c, ok := GenreColors[genre]; ok {
		return lipgloss.NewStyle().Foreground(c).Render(genre)
	}
	return Muted.Render(genre)
}
