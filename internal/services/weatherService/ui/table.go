package ui

import (
	"github.com/charmbracelet/lipgloss"
	t "github.com/evertras/bubble-table/table"

	"github.com/redjax/wx/internal/services/weatherService/render"
)

const (
	colDate      = "date"
	colIcon      = "icon"
	colCondition = "condition"
	colLow       = "low"
	colHigh      = "high"
)

// buildForecastTable lays the forecast out as a static table sized to width.
func buildForecastTable(v render.View, st render.Styles, width int) t.Model {
	cols := []t.Column{
		t.NewColumn(colDate, "Day", 12),
		t.NewColumn(colIcon, "", 4),
		t.NewFlexColumn(colCondition, "Condition", 1),
		t.NewColumn(colLow, "Low", 7),
		t.NewColumn(colHigh, "High", 7),
	}

	rows := make([]t.Row, 0, len(v.Forecast))
	for _, d := range v.Forecast {
		rows = append(rows, t.NewRow(t.RowData{
			colDate:      d.Date,
			colIcon:      d.Icon,
			colCondition: d.Condition,
			colLow:       d.Low,
			colHigh:      d.High,
		}))
	}

	return t.New(cols).
		WithRows(rows).
		WithTargetWidth(width).
		WithBaseStyle(lipgloss.NewStyle().Foreground(st.Palette.Text).Align(lipgloss.Left)).
		HeaderStyle(st.Muted).
		BorderRounded()
}
