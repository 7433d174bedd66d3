package weathercommand

import (
	"fmt"
	"log/slog"

	"github.com/charmbracelet/lipgloss"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/redjax/wx/internal/config"
	"github.com/redjax/wx/internal/observability"
	prefsservice "github.com/redjax/wx/internal/services/prefsService"
	weatherservice "github.com/redjax/wx/internal/services/weatherService"
	"github.com/redjax/wx/internal/services/weatherService/workflow"
)

// App is everything a weather command needs, built from the merged config.
type App struct {
	Settings *config.Settings
	Logger   *slog.Logger
	Registry *prometheus.Registry
	Metrics  *observability.Metrics
	Client   *weatherservice.Client
	Workflow *workflow.Workflow
	DB       *prefsservice.SQLiteService
	Prefs    *prefsservice.Store

	closeLog func() error
}

// NewApp loads configuration from cmd's flags and wires the services.
// Call Close when done.
func NewApp(cmd *cobra.Command) (*App, error) {
	configFile, _ := cmd.Flags().GetString("config")
	settings, err := config.LoadConfig(cmd.Flags(), configFile)
	if err != nil {
		return nil, err
	}
	return newApp(settings, lipgloss.HasDarkBackground)
}

func newApp(settings *config.Settings, prefersDark func() bool) (*App, error) {
	logger, closeLog, err := observability.NewLogger(settings.Log.File, settings.Log.Level)
	if err != nil {
		return nil, err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := observability.NewMetrics(reg)

	client, err := weatherservice.NewClient(weatherservice.ClientOptions{
		GeocodingURL:       settings.API.GeocodingURL,
		ForecastURL:        settings.API.ForecastURL,
		Language:           settings.API.Language,
		Timeout:            settings.API.Timeout,
		BreakerMaxRequests: settings.API.BreakerMaxRequests,
		BreakerInterval:    settings.API.BreakerInterval,
		BreakerTimeout:     settings.API.BreakerTimeout,
		BreakerFailures:    settings.API.BreakerFailures,
		Metrics:            metrics,
		Logger:             logger,
	})
	if err != nil {
		_ = closeLog()
		return nil, err
	}

	db, err := prefsservice.NewSQLiteService(settings.Prefs.DBPath)
	if err != nil {
		_ = closeLog()
		return nil, fmt.Errorf("opening preferences: %w", err)
	}

	wf := workflow.New(workflow.Options{
		API:             client,
		Locator:         newLocator(settings.Geo, metrics, logger),
		DefaultPlace:    settings.Workflow.DefaultPlace,
		Debounce:        settings.Workflow.Debounce,
		SearchCount:     settings.API.SearchCount,
		ReselectByQuery: settings.Workflow.ReselectByQuery,
		Metrics:         metrics,
		Logger:          logger,
	})

	logger.Debug("app ready", "db", settings.Prefs.DBPath, "language", settings.API.Language)

	return &App{
		Settings: settings,
		Logger:   logger,
		Registry: reg,
		Metrics:  metrics,
		Client:   client,
		Workflow: wf,
		DB:       db,
		Prefs:    prefsservice.NewStore(db, prefersDark),
		closeLog: closeLog,
	}, nil
}

func newLocator(geo config.GeoSettings, metrics *observability.Metrics, logger *slog.Logger) weatherservice.Locator {
	switch {
	case geo.HasFixedPosition():
		return weatherservice.StaticLocator{Position: weatherservice.Coordinates{
			Latitude:  *geo.Latitude,
			Longitude: *geo.Longitude,
		}}
	case !geo.Enabled:
		return weatherservice.UnsupportedLocator{}
	default:
		return weatherservice.NewIPLocator(weatherservice.IPLocatorOptions{
			URL:     geo.URL,
			Timeout: geo.Timeout,
			MaxAge:  geo.MaxAge,
			Metrics: metrics,
			Logger:  logger,
		})
	}
}

// Close stops background work and releases the database and log file.
func (a *App) Close() error {
	a.Workflow.Close()
	dbErr := a.DB.Close()
	logErr := a.closeLog()
	if dbErr != nil {
		return dbErr
	}
	return logErr
}
