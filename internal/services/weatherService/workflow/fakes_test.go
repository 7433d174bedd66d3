package workflow

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/redjax/wx/internal/observability"
	weatherservice "github.com/redjax/wx/internal/services/weatherService"
)

var errBoom = &weatherservice.NetworkError{Operation: "test", Err: errors.New("boom")}

var (
	springfieldIL = weatherservice.Place{Name: "Springfield", Admin1: "Illinois", Country: "United States", Latitude: 39.80, Longitude: -89.64, Timezone: "America/Chicago"}
	springfieldMO = weatherservice.Place{Name: "Springfield", Admin1: "Missouri", Country: "United States", Latitude: 37.21, Longitude: -93.29, Timezone: "America/Chicago"}
	springfieldMA = weatherservice.Place{Name: "Springfield", Admin1: "Massachusetts", Country: "United States", Latitude: 42.10, Longitude: -72.59, Timezone: "America/New_York"}
	manila        = weatherservice.Place{Name: "Manila", Admin1: "Metro Manila", Country: "Philippines", Latitude: 14.60, Longitude: 120.98, Timezone: "Asia/Manila"}
	oslo          = weatherservice.Place{Name: "Oslo", Country: "Norway", Latitude: 59.91, Longitude: 10.75, Timezone: "Europe/Oslo"}
)

type searchCall struct {
	Query string
	Count int
}

type fetchCall struct {
	Lat, Lon float64
	Timezone string
}

// fakeAPI records calls and delegates to the configured funcs.
type fakeAPI struct {
	mu       sync.Mutex
	searches []searchCall
	reverses []weatherservice.Coordinates
	fetches  []fetchCall

	search  func(ctx context.Context, query string, count int, call int) ([]weatherservice.Place, error)
	reverse func(ctx context.Context, lat, lon float64) (*weatherservice.Place, error)
	fetch   func(ctx context.Context, lat, lon float64, tz string, call int) (*weatherservice.WeatherSnapshot, error)
}

func (f *fakeAPI) SearchPlaces(ctx context.Context, query string, count int) ([]weatherservice.Place, error) {
	f.mu.Lock()
	f.searches = append(f.searches, searchCall{Query: query, Count: count})
	n := len(f.searches)
	f.mu.Unlock()

	if f.search == nil {
		return []weatherservice.Place{}, nil
	}
	return f.search(ctx, query, count, n)
}

func (f *fakeAPI) ReverseGeocode(ctx context.Context, lat, lon float64) (*weatherservice.Place, error) {
	f.mu.Lock()
	f.reverses = append(f.reverses, weatherservice.Coordinates{Latitude: lat, Longitude: lon})
	f.mu.Unlock()

	if f.reverse == nil {
		return nil, nil
	}
	return f.reverse(ctx, lat, lon)
}

func (f *fakeAPI) FetchWeather(ctx context.Context, lat, lon float64, tz string) (*weatherservice.WeatherSnapshot, error) {
	f.mu.Lock()
	f.fetches = append(f.fetches, fetchCall{Lat: lat, Lon: lon, Timezone: tz})
	n := len(f.fetches)
	f.mu.Unlock()

	if f.fetch == nil {
		return weatherFor(lat, 0), nil
	}
	return f.fetch(ctx, lat, lon, tz, n)
}

func (f *fakeAPI) searchCalls() []searchCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]searchCall(nil), f.searches...)
}

func (f *fakeAPI) fetchCalls() []fetchCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]fetchCall(nil), f.fetches...)
}

func (f *fakeAPI) reverseCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.reverses)
}

// weatherFor builds a snapshot whose temperature encodes lat so tests can
// tell which place a snapshot belongs to.
func weatherFor(lat float64, offset float64) *weatherservice.WeatherSnapshot {
	humidity := 70.0
	observed := time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)
	snap := &weatherservice.WeatherSnapshot{
		ObservedAt:      observed,
		Timezone:        "UTC",
		ConditionCode:   1,
		TemperatureC:    lat/10 + offset,
		HumidityPercent: &humidity,
	}
	for i := 0; i < 7; i++ {
		snap.Daily = append(snap.Daily, weatherservice.DailyForecast{
			Date:          observed.AddDate(0, 0, i),
			ConditionCode: 3,
			MinTempC:      10 + float64(i),
			MaxTempC:      20 + float64(i),
		})
	}
	return snap
}

func placesFor(places ...weatherservice.Place) func(context.Context, string, int, int) ([]weatherservice.Place, error) {
	return func(_ context.Context, _ string, count int, _ int) ([]weatherservice.Place, error) {
		if count < len(places) {
			return places[:count], nil
		}
		return places, nil
	}
}

func newTestWorkflow(t *testing.T, api *fakeAPI, mutate func(*Options)) (*Workflow, *clockwork.FakeClock) {
	t.Helper()
	clock := clockwork.NewFakeClock()
	opts := Options{
		API:             api,
		Locator:         weatherservice.UnsupportedLocator{},
		Clock:           clock,
		ReselectByQuery: true,
		Metrics:         observability.NewMetricsForTesting(),
	}
	if mutate != nil {
		mutate(&opts)
	}
	w := New(opts)
	t.Cleanup(w.Close)
	return w, clock
}

// typeAndSettle enters text and lets the debounce fire.
func typeAndSettle(w *Workflow, clock *clockwork.FakeClock, text string) {
	w.Input(text)
	clock.Advance(DefaultDebounce)
	w.Wait()
}

// recorder collects every published snapshot.
type recorder struct {
	mu    sync.Mutex
	snaps []Snapshot
}

func record(w *Workflow) *recorder {
	r := &recorder{}
	w.Subscribe(func(s Snapshot) {
		r.mu.Lock()
		r.snaps = append(r.snaps, s)
		r.mu.Unlock()
	})
	return r
}

func (r *recorder) states() []State {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]State, 0, len(r.snaps))
	for _, s := range r.snaps {
		out = append(out, s.State)
	}
	return out
}
