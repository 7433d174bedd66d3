package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/dotenv"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/redjax/wx/internal/utils/path"
)

// EnvPrefix is stripped from environment variables; the first underscore
// after it separates section from key, so WX_API_SEARCH_COUNT sets
// api.search_count.
const EnvPrefix = "WX_"

// K holds the merged configuration of the last LoadConfig call.
var K = koanf.New(".")

// flagKeys maps command-line flag names to config keys. Only flags set on
// the command line override lower layers.
var flagKeys = map[string]string{
	"language":      "api.language",
	"timeout":       "api.timeout",
	"db":            "prefs.db_path",
	"log-file":      "log.file",
	"log-level":     "log.level",
	"default-place": "workflow.default_place",
	"interval":      "workflow.refresh_interval",
	"metrics-addr":  "metrics.addr",
	"lat":           "geo.latitude",
	"lon":           "geo.longitude",
}

// LoadConfig merges defaults, configFile, WX_ environment variables and the
// flags in flagSet (lowest to highest precedence), then validates the result.
func LoadConfig(flagSet *pflag.FlagSet, configFile string) (*Settings, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	// Load from config file if provided
	if configFile != "" {
		configFile, err := path.ExpandPath(configFile)
		if err != nil {
			return nil, err
		}
		parser, err := parserForFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("unsupported config file format: %w", err)
		}
		if err := k.Load(file.Provider(configFile), parser); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", configFile, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading environment: %w", err)
	}

	// Load from command-line flags (highest precedence)
	if flagSet != nil {
		if err := k.Load(posflag.ProviderWithFlag(flagSet, ".", k, flagKey(flagSet)), nil); err != nil {
			return nil, fmt.Errorf("loading flags: %w", err)
		}
		if f := flagSet.Lookup("debug"); f != nil && f.Changed && f.Value.String() == "true" {
			if err := k.Set("log.level", "debug"); err != nil {
				return nil, err
			}
		}
		if f := flagSet.Lookup("no-geo"); f != nil && f.Changed && f.Value.String() == "true" {
			if err := k.Set("geo.enabled", false); err != nil {
				return nil, err
			}
		}
	}

	var s Settings
	if err := k.Unmarshal("", &s); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := s.expandPaths(); err != nil {
		return nil, err
	}
	if err := Validate(&s); err != nil {
		return nil, err
	}

	K = k
	return &s, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks s against its validate tags.
func Validate(s *Settings) error {
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if (s.Geo.Latitude == nil) != (s.Geo.Longitude == nil) {
		return fmt.Errorf("invalid config: geo.latitude and geo.longitude must be set together")
	}
	return nil
}

func envKey(s string) string {
	return strings.Replace(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "_", ".", 1)
}

func flagKey(fs *pflag.FlagSet) func(*pflag.Flag) (string, interface{}) {
	return func(f *pflag.Flag) (string, interface{}) {
		key, ok := flagKeys[f.Name]
		if !ok || !f.Changed {
			return "", nil
		}
		return key, posflag.FlagVal(fs, f)
	}
}

func defaults() map[string]interface{} {
	return map[string]interface{}{
		"api.geocoding_url":        "https://geocoding-api.open-meteo.com/v1",
		"api.forecast_url":         "https://api.open-meteo.com/v1/forecast",
		"api.language":             "en",
		"api.timeout":              10 * time.Second,
		"api.search_count":         8,
		"api.breaker_failures":     5,
		"api.breaker_interval":     time.Minute,
		"api.breaker_timeout":      30 * time.Second,
		"api.breaker_max_requests": 1,

		"geo.enabled": true,
		"geo.url":     "https://wttr.in/?format=j1",
		"geo.timeout": 7 * time.Second,
		"geo.max_age": 5 * time.Minute,

		"workflow.default_place":     "Manila",
		"workflow.debounce":          300 * time.Millisecond,
		"workflow.refresh_interval":  5 * time.Minute,
		"workflow.reselect_by_query": true,

		"prefs.db_path": filepath.Join(userDir(os.UserConfigDir), "wx", "prefs.db"),
		"log.file":      filepath.Join(userDir(os.UserCacheDir), "wx", "wx.log"),
		"log.level":     "info",
		"metrics.addr":  "",
	}
}

func userDir(fn func() (string, error)) string {
	if dir, err := fn(); err == nil {
		return dir
	}
	return "."
}

func parserForFile(path string) (koanf.Parser, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		return yaml.Parser(), nil
	case ".json":
		return json.Parser(), nil
	case ".toml":
		return toml.Parser(), nil
	case ".env":
		return dotenv.Parser(), nil
	default:
		return nil, fmt.Errorf("unknown file extension: %s", ext)
	}
}
