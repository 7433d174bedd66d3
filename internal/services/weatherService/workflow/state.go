package workflow

import (
	weatherservice "github.com/redjax/wx/internal/services/weatherService"
)

// State is the selection workflow's current activity.
type State int

const (
	Idle State = iota
	Searching
	ResultsShown
	LoadingWeather
	WeatherShown
	Error
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Searching:
		return "searching"
	case ResultsShown:
		return "results_shown"
	case LoadingWeather:
		return "loading_weather"
	case WeatherShown:
		return "weather_shown"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// Trigger names what asked for a refresh.
type Trigger string

const (
	TriggerManual     Trigger = "manual"
	TriggerVisibility Trigger = "visibility"
	TriggerTimer      Trigger = "timer"
)

// User-facing status lines.
const (
	StatusSearching     = "Searching…"
	StatusNoResults     = "No results."
	StatusSearchFailed  = "Could not search right now."
	StatusLoading       = "Loading weather…"
	StatusLoadFailed    = "Failed to load weather data. Please try again later."
	StatusRefreshing    = "Refreshing…"
	StatusRefreshFailed = "Refresh failed. Will try again later."

	ErrorPanelText = "Unable to load weather right now. Check your connection or try a different city."
)

// Snapshot is a copy of the workflow state handed to subscribers. Version
// increases with every mutation; consumers ignore versions older than the
// last one they applied.
type Snapshot struct {
	Version    uint64
	State      State
	Query      string
	Results    []weatherservice.Place
	Place      *weatherservice.Place
	Weather    *weatherservice.WeatherSnapshot
	Loading    bool
	Status     string
	ErrorPanel string
}

// HasWeather reports whether a place and its weather are available to render.
func (s Snapshot) HasWeather() bool {
	return s.Place != nil && s.Weather != nil
}
