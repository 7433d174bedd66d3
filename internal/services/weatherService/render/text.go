package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	prefsservice "github.com/redjax/wx/internal/services/prefsService"
)

// CurrentPanel renders the current-conditions panel.
func CurrentPanel(v View, st Styles) string {
	if v.Empty {
		return st.Panel.Render(st.Muted.Render("No place selected."))
	}

	lines := []string{
		st.Title.Render(v.Location),
		fmt.Sprintf("%s  %s", v.Icon, st.Text.Render(v.Condition)),
		st.Accent.Render(v.Temperature) + st.Muted.Render("  humidity ") + st.Text.Render(v.Humidity),
		st.Muted.Render(fmt.Sprintf("sunrise %s  sunset %s", v.Sunrise, v.Sunset)),
		st.Muted.Render(v.Updated),
	}
	return st.Panel.Render(strings.Join(lines, "\n"))
}

// ForecastPanel renders up to MaxForecastDays lines of "date icon low · high".
func ForecastPanel(v View, st Styles) string {
	if v.Empty || len(v.Forecast) == 0 {
		return ""
	}
	lines := make([]string, 0, len(v.Forecast))
	for _, d := range v.Forecast {
		lines = append(lines, fmt.Sprintf("%-12s %s  %s · %s  %s",
			d.Date, d.Icon, d.Low, d.High, st.Muted.Render(d.Condition)))
	}
	return st.Panel.Render(strings.Join(lines, "\n"))
}

// UnitToggle renders the C/F control with the active unit highlighted.
func UnitToggle(v View, st Styles) string {
	c, f := st.Muted.Render("°C"), st.Muted.Render("°F")
	if v.Unit == prefsservice.UnitFahrenheit {
		f = st.Active.Render("°F")
	} else {
		c = st.Active.Render("°C")
	}
	return c + st.Muted.Render(" | ") + f
}

// ThemeToggle renders the theme control label.
func ThemeToggle(v View, st Styles) string {
	if v.Theme == prefsservice.ThemeDark {
		return st.Text.Render("🌙 Dark")
	}
	return st.Text.Render("☀️ Light")
}

// Text renders the complete view for non-interactive output.
func Text(v View) string {
	st := NewStyles(v.Theme, v.Category)
	parts := []string{CurrentPanel(v, st)}
	if fp := ForecastPanel(v, st); fp != "" {
		parts = append(parts, fp)
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}
