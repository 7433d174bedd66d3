package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/redjax/wx/internal/services/weatherService/render"
)

func (m UIModel) View() string {
	v := render.Build(m.snap.Place, m.snap.Weather, m.preferences)
	st := render.NewStyles(v.Theme, v.Category)
	st.Panel = m.layout.SectionStyle(st.Panel)

	sections := []string{
		st.Title.Render("wx") + "   " + render.ThemeToggle(v, st) + "   " + render.UnitToggle(v, st),
		m.input.View(),
	}
	if line := m.statusLine(st); line != "" {
		sections = append(sections, line)
	}
	if len(m.snap.Results) > 0 {
		sections = append(sections, m.resultsView(st))
	}
	if m.snap.ErrorPanel != "" {
		sections = append(sections, st.Error.Render(m.snap.ErrorPanel))
	}
	if m.errMsg != "" {
		sections = append(sections, st.Error.Render("Error: "+m.errMsg))
	}

	sections = append(sections, render.CurrentPanel(v, st))
	if !v.Empty && len(v.Forecast) > 0 {
		sections = append(sections, buildForecastTable(v, st, m.layout.ContentWidth()).View())
	}
	if !m.layout.Compact() || m.help.ShowAll {
		sections = append(sections, m.help.View(m.keys))
	}

	return m.layout.Truncate(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func (m UIModel) statusLine(st render.Styles) string {
	status := m.snap.Status
	if m.snap.Loading {
		if status == "" {
			status = "Loading…"
		}
		return m.spinner.View() + " " + st.Muted.Render(status)
	}
	if status == "" {
		return ""
	}
	return st.Muted.Render(status)
}

// resultsReserved is roughly the number of lines the rest of the view needs.
const resultsReserved = 16

func (m UIModel) resultsView(st render.Styles) string {
	results := m.snap.Results
	start, end := visibleRange(len(results), m.cursor, m.layout.MaxRows(resultsReserved))

	var b strings.Builder
	for i := start; i < end; i++ {
		p := results[i]
		cursor := "  "
		name := st.Text.Render(p.Name)
		if i == m.cursor {
			cursor = "=>"
			name = st.Active.Render(p.Name)
		}
		line := fmt.Sprintf("%s %s", cursor, name)
		if sub := p.Subtitle(); sub != "" {
			line += "  " + st.Muted.Render(sub)
		}
		b.WriteString(line)
		if i < end-1 {
			b.WriteString("\n")
		}
	}
	if hidden := len(results) - (end - start); hidden > 0 {
		b.WriteString("\n" + st.Muted.Render(fmt.Sprintf("   … %d more", hidden)))
	}
	return b.String()
}

// visibleRange returns the window of rows rows that keeps cursor in view.
func visibleRange(n, cursor, rows int) (int, int) {
	if n <= rows {
		return 0, n
	}
	start := 0
	if cursor >= rows {
		start = cursor - rows + 1
	}
	return start, start + rows
}
