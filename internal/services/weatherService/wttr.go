package weatherservice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/redjax/wx/internal/observability"
)

// DefaultLocateURL asks wttr.in for the area nearest to the caller's IP.
const DefaultLocateURL = "https://wttr.in/?format=j1"

// wttrJSON is the subset of the wttr.in j1 payload used for locating.
type wttrJSON struct {
	NearestArea []struct {
		AreaName []struct {
			Value string `json:"value"`
		} `json:"areaName"`
		Latitude  string `json:"latitude"`
		Longitude string `json:"longitude"`
	} `json:"nearest_area"`
}

// IPLocatorOptions configures an IPLocator.
type IPLocatorOptions struct {
	URL string
	// Timeout bounds how long a single lookup may take.
	Timeout time.Duration
	// MaxAge is how long a previous fix may be reused.
	MaxAge time.Duration

	HTTPClient *http.Client
	Clock      clockwork.Clock
	Metrics    *observability.Metrics
	Logger     *slog.Logger
}

// IPLocator approximates the device position from its public IP via wttr.in.
type IPLocator struct {
	url        string
	timeout    time.Duration
	maxAge     time.Duration
	httpClient *http.Client
	clock      clockwork.Clock
	metrics    *observability.Metrics
	logger     *slog.Logger

	mu      sync.Mutex
	last    Coordinates
	fixedAt time.Time
}

// NewIPLocator creates an IPLocator.
func NewIPLocator(opts IPLocatorOptions) *IPLocator {
	l := &IPLocator{
		url:        orDefault(opts.URL, DefaultLocateURL),
		timeout:    opts.Timeout,
		maxAge:     opts.MaxAge,
		httpClient: opts.HTTPClient,
		clock:      opts.Clock,
		metrics:    opts.Metrics,
		logger:     opts.Logger,
	}
	if l.timeout <= 0 {
		l.timeout = 7 * time.Second
	}
	if l.httpClient == nil {
		l.httpClient = &http.Client{}
	}
	if l.clock == nil {
		l.clock = clockwork.NewRealClock()
	}
	if l.metrics == nil {
		l.metrics = observability.NewMetricsForTesting()
	}
	if l.logger == nil {
		l.logger = observability.DiscardLogger()
	}
	return l
}

// Locate returns the cached fix when it is younger than MaxAge, otherwise
// performs a bounded lookup.
func (l *IPLocator) Locate(ctx context.Context) (Coordinates, error) {
	l.mu.Lock()
	if !l.fixedAt.IsZero() && l.maxAge > 0 && l.clock.Since(l.fixedAt) < l.maxAge {
		pos := l.last
		l.mu.Unlock()
		return pos, nil
	}
	l.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	pos, err := l.lookup(ctx)
	if err != nil {
		l.metrics.APIRequests.WithLabelValues("locate", "error").Inc()
		l.logger.Info("geolocation failed", "error", err)
		return Coordinates{}, err
	}
	l.metrics.APIRequests.WithLabelValues("locate", "success").Inc()

	l.mu.Lock()
	l.last = pos
	l.fixedAt = l.clock.Now()
	l.mu.Unlock()
	return pos, nil
}

func (l *IPLocator) lookup(ctx context.Context) (Coordinates, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.url, nil)
	if err != nil {
		return Coordinates{}, &GeolocationError{Reason: GeolocationUnsupported, Err: err}
	}
	// wttr.in answers HTML to browsers
	req.Header.Set("User-Agent", "curl")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := l.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return Coordinates{}, &GeolocationError{Reason: GeolocationTimeout, Err: err}
		}
		return Coordinates{}, &GeolocationError{Reason: GeolocationDenied, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Coordinates{}, &GeolocationError{
			Reason: GeolocationDenied,
			Err:    fmt.Errorf("wttr.in returned status %d", resp.StatusCode),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Coordinates{}, &GeolocationError{Reason: GeolocationDenied, Err: err}
	}

	var w wttrJSON
	if err := json.Unmarshal(body, &w); err != nil {
		return Coordinates{}, &GeolocationError{Reason: GeolocationDenied, Err: err}
	}
	if len(w.NearestArea) == 0 {
		return Coordinates{}, &GeolocationError{
			Reason: GeolocationDenied,
			Err:    errors.New("no location info from wttr.in JSON response"),
		}
	}

	area := w.NearestArea[0]
	lat, err := strconv.ParseFloat(area.Latitude, 64)
	if err != nil {
		return Coordinates{}, &GeolocationError{Reason: GeolocationDenied, Err: fmt.Errorf("latitude: %w", err)}
	}
	lon, err := strconv.ParseFloat(area.Longitude, 64)
	if err != nil {
		return Coordinates{}, &GeolocationError{Reason: GeolocationDenied, Err: fmt.Errorf("longitude: %w", err)}
	}

	if len(area.AreaName) > 0 {
		l.logger.Debug("located via wttr.in", "area", area.AreaName[0].Value, "lat", lat, "lon", lon)
	}
	return Coordinates{Latitude: lat, Longitude: lon}, nil
}
