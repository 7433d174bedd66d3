package workflow

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redjax/wx/internal/observability"
	prefsservice "github.com/redjax/wx/internal/services/prefsService"
	weatherservice "github.com/redjax/wx/internal/services/weatherService"
	"github.com/redjax/wx/internal/services/weatherService/render"
)

func newTestMetrics(t *testing.T) *observability.Metrics {
	t.Helper()
	return observability.NewMetricsForTesting()
}

func renderSnapshot(s Snapshot, prefs prefsservice.Preferences) string {
	return render.Text(render.Build(s.Place, s.Weather, prefs))
}

func TestRefresh_FailureLeavesRenderUntouched(t *testing.T) {
	api := &fakeAPI{fetch: func(_ context.Context, lat, _ float64, _ string, call int) (*weatherservice.WeatherSnapshot, error) {
		if call == 1 {
			return weatherFor(lat, 0), nil
		}
		return nil, errBoom
	}}
	metrics := newTestMetrics(t)
	w, _ := newTestWorkflow(t, api, func(o *Options) { o.Metrics = metrics })
	prefs := prefsservice.DefaultPreferences()

	w.Select(context.Background(), manila)
	before := w.Snapshot()
	beforeText := renderSnapshot(before, prefs)

	w.Refresh(context.Background(), TriggerManual)

	after := w.Snapshot()
	assert.Equal(t, beforeText, renderSnapshot(after, prefs))
	assert.Equal(t, WeatherShown, after.State)
	assert.Equal(t, StatusRefreshFailed, after.Status)
	assert.Empty(t, after.ErrorPanel)
	assert.Same(t, before.Weather, after.Weather)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Refreshes.WithLabelValues("manual", "error")))
}

func TestRefresh_SuccessReplacesSnapshot(t *testing.T) {
	api := &fakeAPI{fetch: func(_ context.Context, lat, _ float64, _ string, call int) (*weatherservice.WeatherSnapshot, error) {
		return weatherFor(lat, float64(call)), nil
	}}
	w, _ := newTestWorkflow(t, api, nil)
	rec := record(w)

	w.Select(context.Background(), oslo)
	w.Refresh(context.Background(), TriggerManual)

	snap := w.Snapshot()
	assert.InDelta(t, oslo.Latitude/10+2, snap.Weather.TemperatureC, 1e-9)
	assert.Empty(t, snap.Status)
	assert.Equal(t, oslo, *snap.Place)
	assert.Equal(t, []fetchCall{
		{Lat: oslo.Latitude, Lon: oslo.Longitude, Timezone: oslo.Timezone},
		{Lat: oslo.Latitude, Lon: oslo.Longitude, Timezone: oslo.Timezone},
	}, api.fetchCalls())

	rec.mu.Lock()
	defer rec.mu.Unlock()
	require.GreaterOrEqual(t, len(rec.snaps), 2)
	assert.Equal(t, StatusRefreshing, rec.snaps[len(rec.snaps)-2].Status)
}

func TestRefresh_WithoutPlaceRunsInitialLoad(t *testing.T) {
	api := &fakeAPI{search: placesFor(manila)}
	metrics := newTestMetrics(t)
	w, _ := newTestWorkflow(t, api, func(o *Options) { o.Metrics = metrics })

	w.Refresh(context.Background(), TriggerManual)

	assert.Equal(t, manila, *w.Snapshot().Place)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Refreshes.WithLabelValues("manual", "initial")))
}

func TestRefresh_DroppedWhenPlaceWasReplaced(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	api := &fakeAPI{fetch: func(_ context.Context, lat, _ float64, _ string, call int) (*weatherservice.WeatherSnapshot, error) {
		if call == 2 {
			close(started)
			<-release
		}
		return weatherFor(lat, 0), nil
	}}
	metrics := newTestMetrics(t)
	w, _ := newTestWorkflow(t, api, func(o *Options) { o.Metrics = metrics })

	w.Select(context.Background(), oslo)

	done := make(chan struct{})
	go func() {
		defer close(done)
		w.Refresh(context.Background(), TriggerTimer)
	}()
	<-started

	w.Select(context.Background(), manila)
	close(release)
	<-done

	snap := w.Snapshot()
	assert.Equal(t, manila, *snap.Place)
	assert.InDelta(t, manila.Latitude/10, snap.Weather.TemperatureC, 1e-9)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.StaleDrops.WithLabelValues("refresh")))
}

func TestVisibilityChanged_RefreshesWhenShownAgain(t *testing.T) {
	api := &fakeAPI{}
	w, _ := newTestWorkflow(t, api, nil)
	w.Select(context.Background(), oslo)

	w.VisibilityChanged(true)
	w.Wait()
	assert.Len(t, api.fetchCalls(), 1, "already visible")

	w.VisibilityChanged(false)
	w.Wait()
	assert.Len(t, api.fetchCalls(), 1, "hiding does not refresh")

	w.VisibilityChanged(true)
	w.Wait()
	assert.Len(t, api.fetchCalls(), 2)
}

func TestRefresher_RefreshesOnSchedule(t *testing.T) {
	var fetches atomic.Int32
	api := &fakeAPI{fetch: func(_ context.Context, lat, _ float64, _ string, _ int) (*weatherservice.WeatherSnapshot, error) {
		fetches.Add(1)
		return weatherFor(lat, 0), nil
	}}
	w, _ := newTestWorkflow(t, api, nil)
	w.Select(context.Background(), oslo)

	r := NewRefresher(w, 20*time.Millisecond)
	require.NoError(t, r.Start())
	t.Cleanup(r.Stop)

	assert.Eventually(t, func() bool {
		return fetches.Load() >= 3
	}, 2*time.Second, 10*time.Millisecond)
}

func TestNewRefresher_DefaultInterval(t *testing.T) {
	w, _ := newTestWorkflow(t, &fakeAPI{}, nil)
	r := NewRefresher(w, 0)
	assert.Equal(t, DefaultRefreshInterval, r.interval)
}
