package weatherservice

import (
	"strings"
	"time"
)

// Place is a named location returned by the geocoding service.
type Place struct {
	ID        int64   `json:"id,omitempty"`
	Name      string  `json:"name"`
	Admin1    string  `json:"admin1,omitempty"`
	Country   string  `json:"country,omitempty"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Timezone  string  `json:"timezone,omitempty"`
}

// DisplayName joins name, region and country, skipping the empty parts.
func (p Place) DisplayName() string {
	parts := []string{p.Name}
	for _, s := range []string{p.Admin1, p.Country} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, ", ")
}

// Subtitle is the region/country line shown under a search result.
func (p Place) Subtitle() string {
	var parts []string
	for _, s := range []string{p.Admin1, p.Country} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, ", ")
}

// Coordinates is a latitude/longitude pair.
type Coordinates struct {
	Latitude  float64
	Longitude float64
}

// DailyForecast is one day of the multi-day outlook.
type DailyForecast struct {
	Date          time.Time
	ConditionCode int
	MinTempC      float64
	MaxTempC      float64
}

// WeatherSnapshot is one fetched bundle of current conditions and forecast.
// Snapshots are replaced wholesale on every fetch.
type WeatherSnapshot struct {
	ObservedAt      time.Time
	Timezone        string
	ConditionCode   int
	TemperatureC    float64
	HumidityPercent *float64
	Daily           []DailyForecast
}
