package render

import (
	"github.com/charmbracelet/lipgloss"

	prefsservice "github.com/redjax/wx/internal/services/prefsService"
	weatherservice "github.com/redjax/wx/internal/services/weatherService"
)

// Palette is the set of colours for one theme.
type Palette struct {
	Text   lipgloss.Color
	Muted  lipgloss.Color
	Border lipgloss.Color
	Error  lipgloss.Color
	Accent map[weatherservice.Category]lipgloss.Color
}

var palettes = map[prefsservice.Theme]Palette{
	prefsservice.ThemeLight: {
		Text:   lipgloss.Color("#1A1A1A"),
		Muted:  lipgloss.Color("#6B6B6B"),
		Border: lipgloss.Color("#B3261E"),
		Error:  lipgloss.Color("#B3261E"),
		Accent: map[weatherservice.Category]lipgloss.Color{
			weatherservice.CategoryClear: lipgloss.Color("#C2410C"),
			weatherservice.CategoryCloud: lipgloss.Color("#4B5563"),
			weatherservice.CategoryRain:  lipgloss.Color("#1D4ED8"),
			weatherservice.CategorySnow:  lipgloss.Color("#0E7490"),
		},
	},
	prefsservice.ThemeDark: {
		Text:   lipgloss.Color("#F5F5F5"),
		Muted:  lipgloss.Color("#9CA3AF"),
		Border: lipgloss.Color("#F87171"),
		Error:  lipgloss.Color("#FF5F87"),
		Accent: map[weatherservice.Category]lipgloss.Color{
			weatherservice.CategoryClear: lipgloss.Color("#FBBF24"),
			weatherservice.CategoryCloud: lipgloss.Color("#D1D5DB"),
			weatherservice.CategoryRain:  lipgloss.Color("#60A5FA"),
			weatherservice.CategorySnow:  lipgloss.Color("#A5F3FC"),
		},
	},
}

// PaletteFor returns the palette of theme, light when unknown.
func PaletteFor(theme prefsservice.Theme) Palette {
	if p, ok := palettes[theme]; ok {
		return p
	}
	return palettes[prefsservice.ThemeLight]
}

// Styles are the lipgloss styles derived from a palette and a condition
// category.
type Styles struct {
	Title   lipgloss.Style
	Text    lipgloss.Style
	Muted   lipgloss.Style
	Accent  lipgloss.Style
	Panel   lipgloss.Style
	Error   lipgloss.Style
	Active  lipgloss.Style
	Palette Palette
}

// NewStyles builds the styles for theme and category.
func NewStyles(theme prefsservice.Theme, category weatherservice.Category) Styles {
	p := PaletteFor(theme)
	accent, ok := p.Accent[category]
	if !ok {
		accent = p.Accent[weatherservice.CategoryCloud]
	}

	return Styles{
		Title:  lipgloss.NewStyle().Bold(true).Foreground(p.Text),
		Text:   lipgloss.NewStyle().Foreground(p.Text),
		Muted:  lipgloss.NewStyle().Foreground(p.Muted),
		Accent: lipgloss.NewStyle().Bold(true).Foreground(accent),
		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Border).
			Padding(0, 1),
		Error: lipgloss.NewStyle().
			Foreground(p.Error).
			Border(lipgloss.NormalBorder()).
			BorderForeground(p.Error).
			Padding(0, 1),
		Active:  lipgloss.NewStyle().Bold(true).Underline(true).Foreground(accent),
		Palette: p,
	}
}
