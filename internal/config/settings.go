package config

import (
	"time"

	"github.com/redjax/wx/internal/utils/path"
)

type Settings struct {
	API      APISettings      `koanf:"api"`
	Geo      GeoSettings      `koanf:"geo"`
	Workflow WorkflowSettings `koanf:"workflow"`
	Prefs    PrefsSettings    `koanf:"prefs"`
	Log      LogSettings      `koanf:"log"`
	Metrics  MetricsSettings  `koanf:"metrics"`
}

type APISettings struct {
	GeocodingURL string        `koanf:"geocoding_url" validate:"required,url"`
	ForecastURL  string        `koanf:"forecast_url" validate:"required,url"`
	Language     string        `koanf:"language" validate:"required"`
	Timeout      time.Duration `koanf:"timeout" validate:"gt=0"`
	SearchCount  int           `koanf:"search_count" validate:"min=1,max=100"`

	BreakerFailures    uint32        `koanf:"breaker_failures" validate:"min=1"`
	BreakerInterval    time.Duration `koanf:"breaker_interval" validate:"gte=0"`
	BreakerTimeout     time.Duration `koanf:"breaker_timeout" validate:"gt=0"`
	BreakerMaxRequests uint32        `koanf:"breaker_max_requests" validate:"min=1"`
}

// GeoSettings selects how the device location is found. Fixed coordinates
// take priority over the IP lookup.
type GeoSettings struct {
	Enabled   bool          `koanf:"enabled"`
	URL       string        `koanf:"url" validate:"omitempty,url"`
	Timeout   time.Duration `koanf:"timeout" validate:"gt=0"`
	MaxAge    time.Duration `koanf:"max_age" validate:"gte=0"`
	Latitude  *float64      `koanf:"latitude" validate:"omitempty,gte=-90,lte=90"`
	Longitude *float64      `koanf:"longitude" validate:"omitempty,gte=-180,lte=180"`
}

// HasFixedPosition reports whether both coordinates are configured.
func (g GeoSettings) HasFixedPosition() bool {
	return g.Latitude != nil && g.Longitude != nil
}

type WorkflowSettings struct {
	DefaultPlace    string        `koanf:"default_place" validate:"required"`
	Debounce        time.Duration `koanf:"debounce" validate:"gte=0"`
	RefreshInterval time.Duration `koanf:"refresh_interval" validate:"gte=1s"`
	ReselectByQuery bool          `koanf:"reselect_by_query"`
}

type PrefsSettings struct {
	DBPath string `koanf:"db_path" validate:"required"`
}

type LogSettings struct {
	File  string `koanf:"file"`
	Level string `koanf:"level" validate:"oneof=debug info warn warning error"`
}

type MetricsSettings struct {
	Addr string `koanf:"addr" validate:"omitempty,hostname_port"`
}

func (s *Settings) expandPaths() error {
	var err error
	if s.Prefs.DBPath != "" && s.Prefs.DBPath != ":memory:" {
		if s.Prefs.DBPath, err = path.ExpandPath(s.Prefs.DBPath); err != nil {
			return err
		}
	}
	if s.Log.File != "" {
		if s.Log.File, err = path.ExpandPath(s.Log.File); err != nil {
			return err
		}
	}
	return nil
}
