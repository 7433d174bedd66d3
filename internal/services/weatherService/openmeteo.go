package weatherservice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redjax/wx/internal/observability"
	"github.com/sony/gobreaker"
	"golang.org/x/text/language"
)

const (
	DefaultGeocodingURL = "https://geocoding-api.open-meteo.com/v1"
	DefaultForecastURL  = "https://api.open-meteo.com/v1/forecast"
)

// ClientOptions configures a Client. Zero values fall back to defaults.
type ClientOptions struct {
	GeocodingURL string
	ForecastURL  string
	Language     string
	Timeout      time.Duration

	// Circuit breaker settings.
	BreakerMaxRequests uint32
	BreakerInterval    time.Duration
	BreakerTimeout     time.Duration
	BreakerFailures    uint32

	HTTPClient *http.Client
	Metrics    *observability.Metrics
	Logger     *slog.Logger
}

// Client talks to the Open-Meteo geocoding and forecast APIs. Every
// request is cache-busted; nothing is stored between calls.
type Client struct {
	httpClient   *http.Client
	geocodingURL string
	forecastURL  string
	language     string
	breaker      *gobreaker.CircuitBreaker
	token        func() string
	metrics      *observability.Metrics
	logger       *slog.Logger
}

// NewClient creates an Open-Meteo client.
func NewClient(opts ClientOptions) (*Client, error) {
	lang := "en"
	if opts.Language != "" {
		tag, err := language.Parse(opts.Language)
		if err != nil {
			return nil, fmt.Errorf("invalid language %q: %w", opts.Language, err)
		}
		base, _ := tag.Base()
		lang = base.String()
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	failures := opts.BreakerFailures
	if failures == 0 {
		failures = 5
	}
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "openmeteo",
		MaxRequests: opts.BreakerMaxRequests,
		Interval:    opts.BreakerInterval,
		Timeout:     opts.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		// A superseded request is cancelled on purpose and says nothing
		// about the health of the service.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
	})

	c := &Client{
		httpClient:   httpClient,
		geocodingURL: orDefault(opts.GeocodingURL, DefaultGeocodingURL),
		forecastURL:  orDefault(opts.ForecastURL, DefaultForecastURL),
		language:     lang,
		breaker:      breaker,
		token:        uuid.NewString,
		metrics:      opts.Metrics,
		logger:       opts.Logger,
	}
	if c.metrics == nil {
		c.metrics = observability.NewMetricsForTesting()
	}
	if c.logger == nil {
		c.logger = observability.DiscardLogger()
	}
	return c, nil
}

// SetBaseURLs points the client at other endpoints (useful for testing).
func (c *Client) SetBaseURLs(geocodingURL, forecastURL string) {
	c.geocodingURL = geocodingURL
	c.forecastURL = forecastURL
}

// SearchPlaces returns up to count places matching query. Zero matches is
// an empty slice, not an error.
func (c *Client) SearchPlaces(ctx context.Context, query string, count int) ([]Place, error) {
	if count <= 0 {
		count = 1
	}
	params := url.Values{}
	params.Set("name", query)
	params.Set("count", strconv.Itoa(count))
	params.Set("language", c.language)
	params.Set("format", "json")

	var resp geocodingResponse
	if err := c.getJSON(ctx, "search", c.geocodingURL+"/search", params, &resp); err != nil {
		return nil, err
	}
	if len(resp.Results) == 0 {
		c.metrics.APIRequests.WithLabelValues("search", "empty").Inc()
		return []Place{}, nil
	}
	c.metrics.APIRequests.WithLabelValues("search", "success").Inc()
	return resp.Results, nil
}

// ReverseGeocode returns the place nearest to the coordinates, or nil when
// the service has no match.
func (c *Client) ReverseGeocode(ctx context.Context, lat, lon float64) (*Place, error) {
	params := url.Values{}
	params.Set("latitude", formatFloat(lat))
	params.Set("longitude", formatFloat(lon))
	params.Set("language", c.language)
	params.Set("format", "json")

	var resp geocodingResponse
	if err := c.getJSON(ctx, "reverse", c.geocodingURL+"/reverse", params, &resp); err != nil {
		return nil, err
	}
	if len(resp.Results) == 0 {
		c.metrics.APIRequests.WithLabelValues("reverse", "empty").Inc()
		return nil, nil
	}
	c.metrics.APIRequests.WithLabelValues("reverse", "success").Inc()
	place := resp.Results[0]
	return &place, nil
}

// FetchWeather fetches current conditions, hourly humidity and the daily
// outlook. An empty timezone asks the service to resolve it.
func (c *Client) FetchWeather(ctx context.Context, lat, lon float64, timezone string) (*WeatherSnapshot, error) {
	if timezone == "" {
		timezone = "auto"
	}
	params := url.Values{}
	params.Set("latitude", formatFloat(lat))
	params.Set("longitude", formatFloat(lon))
	params.Set("current_weather", "true")
	params.Set("hourly", "relative_humidity_2m")
	params.Set("daily", "weathercode,temperature_2m_max,temperature_2m_min")
	params.Set("timezone", timezone)

	var resp forecastResponse
	if err := c.getJSON(ctx, "forecast", c.forecastURL, params, &resp); err != nil {
		return nil, err
	}

	snap, err := resp.snapshot()
	if err != nil {
		c.metrics.APIRequests.WithLabelValues("forecast", "error").Inc()
		return nil, &NetworkError{Operation: "forecast", Err: err}
	}
	c.metrics.APIRequests.WithLabelValues("forecast", "success").Inc()
	return snap, nil
}

// getJSON issues an uncached GET through the circuit breaker and decodes
// the body into out.
func (c *Client) getJSON(ctx context.Context, op, endpoint string, params url.Values, out any) error {
	params.Set("_", c.token())
	reqURL := endpoint + "?" + params.Encode()

	start := time.Now()
	defer func() {
		c.metrics.APIDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	}()

	result, err := c.breaker.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("Cache-Control", "no-cache, no-store")
		req.Header.Set("Pragma", "no-cache")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, &NetworkError{Operation: op, Err: err}
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			return nil, &NetworkError{Operation: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("%s", body)}
		}

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, &NetworkError{Operation: op, Err: fmt.Errorf("read response body: %w", err)}
		}
		return body, nil
	})
	if err != nil {
		c.metrics.APIRequests.WithLabelValues(op, "error").Inc()
		c.logger.Warn("open-meteo request failed", "operation", op, "error", err)
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return &NetworkError{Operation: op, Err: err}
		}
		var ne *NetworkError
		if errors.As(err, &ne) {
			return ne
		}
		return &NetworkError{Operation: op, Err: err}
	}

	body, _ := result.([]byte)
	if len(body) == 0 {
		c.metrics.APIRequests.WithLabelValues(op, "error").Inc()
		return &NetworkError{Operation: op, Err: errEmptyResponse}
	}
	if err := json.Unmarshal(body, out); err != nil {
		c.metrics.APIRequests.WithLabelValues(op, "error").Inc()
		return &NetworkError{Operation: op, Err: fmt.Errorf("decode response: %w", err)}
	}
	c.logger.Debug("open-meteo request", "operation", op, "duration", time.Since(start))
	return nil
}

// Open-Meteo API response types.

type geocodingResponse struct {
	Results []Place `json:"results"`
}

type forecastResponse struct {
	Timezone       string `json:"timezone"`
	CurrentWeather struct {
		Time        string  `json:"time"`
		Temperature float64 `json:"temperature"`
		WeatherCode int     `json:"weathercode"`
	} `json:"current_weather"`
	Hourly struct {
		Time             []string   `json:"time"`
		RelativeHumidity []*float64 `json:"relative_humidity_2m"`
	} `json:"hourly"`
	Daily struct {
		Time           []string  `json:"time"`
		WeatherCode    []int     `json:"weathercode"`
		TemperatureMax []float64 `json:"temperature_2m_max"`
		TemperatureMin []float64 `json:"temperature_2m_min"`
	} `json:"daily"`
}

const (
	localMinuteLayout = "2006-01-02T15:04"
	dateLayout        = "2006-01-02"
)

func (r forecastResponse) snapshot() (*WeatherSnapshot, error) {
	loc := time.UTC
	if r.Timezone != "" {
		if l, err := time.LoadLocation(r.Timezone); err == nil {
			loc = l
		}
	}

	observed, err := time.ParseInLocation(localMinuteLayout, r.CurrentWeather.Time, loc)
	if err != nil {
		return nil, fmt.Errorf("parse current_weather.time %q: %w", r.CurrentWeather.Time, err)
	}

	snap := &WeatherSnapshot{
		ObservedAt:      observed,
		Timezone:        r.Timezone,
		ConditionCode:   r.CurrentWeather.WeatherCode,
		TemperatureC:    r.CurrentWeather.Temperature,
		HumidityPercent: r.humidityAt(r.CurrentWeather.Time),
	}

	d := r.Daily
	for i, day := range d.Time {
		if i >= len(d.WeatherCode) || i >= len(d.TemperatureMin) || i >= len(d.TemperatureMax) {
			break
		}
		date, err := time.ParseInLocation(dateLayout, day, loc)
		if err != nil {
			return nil, fmt.Errorf("parse daily.time %q: %w", day, err)
		}
		snap.Daily = append(snap.Daily, DailyForecast{
			Date:          date,
			ConditionCode: d.WeatherCode[i],
			MinTempC:      d.TemperatureMin[i],
			MaxTempC:      d.TemperatureMax[i],
		})
	}
	return snap, nil
}

// humidityAt picks the hourly humidity matching the observation time,
// falling back to the first hourly value.
func (r forecastResponse) humidityAt(observed string) *float64 {
	values := r.Hourly.RelativeHumidity
	for i, t := range r.Hourly.Time {
		if t == observed && i < len(values) && values[i] != nil {
			v := *values[i]
			return &v
		}
	}
	if len(values) > 0 && values[0] != nil {
		v := *values[0]
		return &v
	}
	return nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
