package weatherservice

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	contentTypeJSON   = "application/json"
	headerContentType = "Content-Type"
)

const forecastJSON = `{
  "timezone": "Asia/Manila",
  "current_weather": {"time": "2024-06-01T14:00", "temperature": 31.6, "weathercode": 2},
  "hourly": {
    "time": ["2024-06-01T13:00", "2024-06-01T14:00", "2024-06-01T15:00"],
    "relative_humidity_2m": [70, 66, 64]
  },
  "daily": {
    "time": ["2024-06-01", "2024-06-02", "2024-06-03", "2024-06-04", "2024-06-05", "2024-06-06", "2024-06-07"],
    "weathercode": [2, 61, 95, 3, 0, 1, 80],
    "temperature_2m_max": [33.1, 31.0, 29.5, 32.2, 34.0, 33.3, 30.9],
    "temperature_2m_min": [26.0, 25.5, 24.9, 25.1, 26.4, 26.0, 25.2]
  }
}`

func testClient(t *testing.T, srv *httptest.Server) *Client {
	t.Helper()
	c, err := NewClient(ClientOptions{HTTPClient: srv.Client()})
	require.NoError(t, err)
	c.SetBaseURLs(srv.URL+"/v1", srv.URL+"/v1/forecast")
	return c
}

func TestClient_SearchPlaces_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/search", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "Springfield", q.Get("name"))
		assert.Equal(t, "8", q.Get("count"))
		assert.Equal(t, "en", q.Get("language"))
		assert.Equal(t, "json", q.Get("format"))
		assert.NotEmpty(t, q.Get("_"))
		assert.Contains(t, r.Header.Get("Cache-Control"), "no-cache")

		w.Header().Set(headerContentType, contentTypeJSON)
		_, _ = w.Write([]byte(`{"results":[
			{"id":1,"name":"Springfield","admin1":"Illinois","country":"United States","latitude":39.8,"longitude":-89.64,"timezone":"America/Chicago"},
			{"id":2,"name":"Springfield","admin1":"Missouri","country":"United States","latitude":37.2,"longitude":-93.29,"timezone":"America/Chicago"}
		]}`))
	}))
	defer srv.Close()

	places, err := testClient(t, srv).SearchPlaces(context.Background(), "Springfield", 8)
	require.NoError(t, err)
	require.Len(t, places, 2)
	assert.Equal(t, "Springfield, Illinois, United States", places[0].DisplayName())
	assert.Equal(t, "Missouri, United States", places[1].Subtitle())
	assert.Equal(t, "America/Chicago", places[1].Timezone)
}

func TestClient_SearchPlaces_NoResultsIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set(headerContentType, contentTypeJSON)
		_, _ = w.Write([]byte(`{"generationtime_ms":0.5}`))
	}))
	defer srv.Close()

	places, err := testClient(t, srv).SearchPlaces(context.Background(), "zzzzqqq", 5)
	require.NoError(t, err)
	assert.NotNil(t, places)
	assert.Empty(t, places)
}

func TestClient_SearchPlaces_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := testClient(t, srv).SearchPlaces(context.Background(), "Paris", 5)
	require.Error(t, err)

	var ne *NetworkError
	require.True(t, errors.As(err, &ne))
	assert.Equal(t, "search", ne.Operation)
	assert.Equal(t, http.StatusBadGateway, ne.StatusCode)
	assert.True(t, IsNetworkError(err))
}

func TestClient_SearchPlaces_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	c := testClient(t, srv)
	srv.Close()

	_, err := c.SearchPlaces(context.Background(), "Paris", 5)
	assert.True(t, IsNetworkError(err))
}

func TestClient_SearchPlaces_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"results": [`))
	}))
	defer srv.Close()

	_, err := testClient(t, srv).SearchPlaces(context.Background(), "Paris", 5)
	assert.True(t, IsNetworkError(err))
}

func TestClient_EveryRequestCarriesAFreshToken(t *testing.T) {
	var (
		mu     sync.Mutex
		tokens []string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		tokens = append(tokens, r.URL.Query().Get("_"))
		mu.Unlock()
		_, _ = w.Write([]byte(`{"results":[]}`))
	}))
	defer srv.Close()

	c := testClient(t, srv)
	for i := 0; i < 3; i++ {
		_, err := c.SearchPlaces(context.Background(), "Oslo", 1)
		require.NoError(t, err)
	}

	require.Len(t, tokens, 3)
	assert.NotEqual(t, tokens[0], tokens[1])
	assert.NotEqual(t, tokens[1], tokens[2])
}

func TestClient_ReverseGeocode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/reverse", r.URL.Path)
		assert.Equal(t, "14.5995", r.URL.Query().Get("latitude"))
		assert.Equal(t, "120.9842", r.URL.Query().Get("longitude"))
		_, _ = w.Write([]byte(`{"results":[{"name":"Manila","country":"Philippines","latitude":14.6,"longitude":120.98,"timezone":"Asia/Manila"}]}`))
	}))
	defer srv.Close()

	place, err := testClient(t, srv).ReverseGeocode(context.Background(), 14.5995, 120.9842)
	require.NoError(t, err)
	require.NotNil(t, place)
	assert.Equal(t, "Manila", place.Name)
	assert.Equal(t, "Asia/Manila", place.Timezone)
}

func TestClient_ReverseGeocode_NoMatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	place, err := testClient(t, srv).ReverseGeocode(context.Background(), 0, 0)
	require.NoError(t, err)
	assert.Nil(t, place)
}

func TestClient_FetchWeather(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/forecast", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "true", q.Get("current_weather"))
		assert.Equal(t, "relative_humidity_2m", q.Get("hourly"))
		assert.Equal(t, "weathercode,temperature_2m_max,temperature_2m_min", q.Get("daily"))
		assert.Equal(t, "Asia/Manila", q.Get("timezone"))
		assert.NotEmpty(t, q.Get("_"))
		w.Header().Set(headerContentType, contentTypeJSON)
		_, _ = w.Write([]byte(forecastJSON))
	}))
	defer srv.Close()

	snap, err := testClient(t, srv).FetchWeather(context.Background(), 14.6, 120.98, "Asia/Manila")
	require.NoError(t, err)

	assert.Equal(t, 2, snap.ConditionCode)
	assert.InDelta(t, 31.6, snap.TemperatureC, 0.0001)
	require.NotNil(t, snap.HumidityPercent)
	assert.InDelta(t, 66, *snap.HumidityPercent, 0.0001)
	assert.Equal(t, "Asia/Manila", snap.Timezone)
	assert.Equal(t, 14, snap.ObservedAt.Hour())
	_, offset := snap.ObservedAt.Zone()
	assert.Equal(t, 8*3600, offset)

	require.Len(t, snap.Daily, 7)
	assert.Equal(t, 61, snap.Daily[1].ConditionCode)
	assert.InDelta(t, 25.5, snap.Daily[1].MinTempC, 0.0001)
	assert.InDelta(t, 31.0, snap.Daily[1].MaxTempC, 0.0001)
	assert.Equal(t, "2024-06-02", snap.Daily[1].Date.Format("2006-01-02"))
}

func TestClient_FetchWeather_DefaultsToAutoTimezone(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "auto", r.URL.Query().Get("timezone"))
		_, _ = w.Write([]byte(forecastJSON))
	}))
	defer srv.Close()

	_, err := testClient(t, srv).FetchWeather(context.Background(), 1, 2, "")
	require.NoError(t, err)
}

func TestClient_FetchWeather_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	snap, err := testClient(t, srv).FetchWeather(context.Background(), 1, 2, "UTC")
	assert.Nil(t, snap)
	assert.True(t, IsNetworkError(err))
}

func TestForecastResponse_HumidityFallsBackToFirstValue(t *testing.T) {
	h1, h2 := 55.0, 60.0
	r := forecastResponse{}
	r.Hourly.Time = []string{"2024-06-01T00:00", "2024-06-01T01:00"}
	r.Hourly.RelativeHumidity = []*float64{&h1, &h2}

	got := r.humidityAt("2024-06-01T09:00")
	require.NotNil(t, got)
	assert.InDelta(t, 55, *got, 0.0001)

	r.Hourly.RelativeHumidity = nil
	assert.Nil(t, r.humidityAt("2024-06-01T00:00"))
}

func TestNewClient_InvalidLanguage(t *testing.T) {
	_, err := NewClient(ClientOptions{Language: "not a language!"})
	assert.Error(t, err)

	c, err := NewClient(ClientOptions{Language: "de-AT"})
	require.NoError(t, err)
	assert.Equal(t, "de", c.language)
}

func TestClient_BreakerOpensAfterConsecutiveFailures(t *testing.T) {
	var (
		mu    sync.Mutex
		calls int
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		mu.Lock()
		calls++
		mu.Unlock()
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c, err := NewClient(ClientOptions{HTTPClient: srv.Client(), BreakerFailures: 2})
	require.NoError(t, err)
	c.SetBaseURLs(srv.URL+"/v1", srv.URL+"/v1/forecast")

	for i := 0; i < 4; i++ {
		_, err := c.SearchPlaces(context.Background(), "Lima", 1)
		assert.True(t, IsNetworkError(err))
	}

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 2, calls, "open breaker must short-circuit further requests")
}
