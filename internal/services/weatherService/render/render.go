// Package render projects the current place, weather snapshot and
// preferences onto display strings. Nothing in here performs I/O; every call
// recomputes the whole view.
package render

import (
	"fmt"
	"math"
	"time"

	"github.com/sixdouglas/suncalc"

	prefsservice "github.com/redjax/wx/internal/services/prefsService"
	weatherservice "github.com/redjax/wx/internal/services/weatherService"
)

// MaxForecastDays is how many daily entries are displayed.
const MaxForecastDays = 5

// Placeholder is shown for values that are absent.
const Placeholder = "—"

// View is the fully formatted display state.
type View struct {
	Empty bool
	Theme prefsservice.Theme
	Unit  prefsservice.Unit

	Location    string
	Icon        string
	Condition   string
	Category    weatherservice.Category
	Updated     string
	Temperature string
	Humidity    string
	Sunrise     string
	Sunset      string

	Forecast []DayView
}

// DayView is one formatted forecast entry.
type DayView struct {
	Date      string
	Icon      string
	Condition string
	Low       string
	High      string
}

// Build formats place and snap for prefs. A nil place or snapshot yields an
// empty view that still carries the preferences.
func Build(place *weatherservice.Place, snap *weatherservice.WeatherSnapshot, prefs prefsservice.Preferences) View {
	v := View{Theme: prefs.Theme, Unit: prefs.Unit}
	if place == nil || snap == nil {
		v.Empty = true
		return v
	}

	cond := weatherservice.LookupCondition(snap.ConditionCode)
	v.Location = place.DisplayName()
	v.Icon = cond.Icon
	v.Condition = cond.Label
	v.Category = cond.Category
	v.Updated = "Updated " + snap.ObservedAt.Format("Jan 2, 2006, 3:04 PM")
	v.Temperature = FormatTemp(snap.TemperatureC, prefs.Unit)
	v.Humidity = Placeholder
	if snap.HumidityPercent != nil {
		v.Humidity = fmt.Sprintf("%d%%", RoundHalfUp(*snap.HumidityPercent))
	}
	v.Sunrise, v.Sunset = sunTimes(place, snap.ObservedAt)

	days := snap.Daily
	if len(days) > MaxForecastDays {
		days = days[:MaxForecastDays]
	}
	for _, d := range days {
		dc := weatherservice.LookupCondition(d.ConditionCode)
		v.Forecast = append(v.Forecast, DayView{
			Date:      FormatDate(d.Date),
			Icon:      dc.Icon,
			Condition: dc.Label,
			Low:       FormatTemp(d.MinTempC, prefs.Unit),
			High:      FormatTemp(d.MaxTempC, prefs.Unit),
		})
	}
	return v
}

// ToFahrenheit converts degrees Celsius.
func ToFahrenheit(c float64) float64 {
	return c*9/5 + 32
}

// ToCelsius converts degrees Fahrenheit.
func ToCelsius(f float64) float64 {
	return (f - 32) * 5 / 9
}

// RoundHalfUp rounds .5 toward positive infinity, so -2.5 becomes -2.
func RoundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}

// FormatTemp renders a Celsius value in unit, rounded to an integer.
func FormatTemp(c float64, unit prefsservice.Unit) string {
	if unit == prefsservice.UnitFahrenheit {
		return fmt.Sprintf("%d°F", RoundHalfUp(ToFahrenheit(c)))
	}
	return fmt.Sprintf("%d°C", RoundHalfUp(c))
}

// FormatDate renders a forecast date like "Mon, Jun 3".
func FormatDate(t time.Time) string {
	return t.Format("Mon, Jan 2")
}

func sunTimes(place *weatherservice.Place, at time.Time) (string, string) {
	loc := at.Location()
	noon := time.Date(at.Year(), at.Month(), at.Day(), 12, 0, 0, 0, loc)
	times := suncalc.GetTimes(noon, place.Latitude, place.Longitude)

	format := func(t time.Time) string {
		if t.IsZero() {
			return Placeholder
		}
		return t.In(loc).Format("15:04")
	}
	return format(times["sunrise"].Value), format(times["sunset"].Value)
}
