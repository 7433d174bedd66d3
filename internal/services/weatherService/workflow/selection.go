package workflow

import (
	"context"

	weatherservice "github.com/redjax/wx/internal/services/weatherService"
)

// Select makes place current once its weather has loaded. Results are
// cleared straight away. A later Select cancels this one and its response is
// discarded. On failure the previous place and weather stay as they were and
// the error panel is shown.
func (w *Workflow) Select(ctx context.Context, place weatherservice.Place) {
	w.mu.Lock()
	w.supersedeSearchLocked()
	if w.selectCancel != nil {
		w.selectCancel()
	}
	w.selectGen++
	gen := w.selectGen
	sctx, cancel := context.WithCancel(ctx)
	defer cancel()
	w.selectCancel = cancel

	w.results = nil
	w.loading = true
	w.panel = ""
	w.status = StatusLoading
	w.setStateLocked(LoadingWeather)
	deliver := w.publishLocked()
	w.mu.Unlock()
	deliver()

	w.logger.Info("loading weather", "place", place.DisplayName(), "lat", place.Latitude, "lon", place.Longitude)
	snap, err := w.api.FetchWeather(sctx, place.Latitude, place.Longitude, place.Timezone)

	w.mu.Lock()
	if gen != w.selectGen {
		w.mu.Unlock()
		w.staleDrop("select")
		return
	}
	w.selectCancel = nil
	w.loading = false

	if err != nil {
		w.logger.Warn("weather fetch failed", "place", place.DisplayName(), "error", err)
		w.status = StatusLoadFailed
		w.panel = ErrorPanelText
		w.setStateLocked(Error)
	} else {
		p := place
		w.place = &p
		w.weather = snap
		w.placeGen++
		w.status = ""
		w.panel = ""
		w.setStateLocked(WeatherShown)
	}
	deliver = w.publishLocked()
	w.mu.Unlock()
	deliver()
}

// InitialLoad resolves a starting place: the device location, reverse
// geocoded, then the default place by name. A weather failure after a place
// is resolved is reported like any selection. If nothing resolves the
// workflow stays empty and quiet.
func (w *Workflow) InitialLoad(ctx context.Context) {
	w.mu.Lock()
	if w.initialising {
		w.mu.Unlock()
		w.logger.Debug("initial load already running")
		return
	}
	w.initialising = true
	w.loading = true
	since := w.selectGen
	deliver := w.publishLocked()
	w.mu.Unlock()
	deliver()

	defer func() {
		w.mu.Lock()
		w.initialising = false
		if w.state != LoadingWeather {
			w.loading = false
		}
		deliver := w.publishLocked()
		w.mu.Unlock()
		deliver()
	}()

	place, err := w.locatePlace(ctx)
	if err == nil {
		w.selectUnlessChosen(ctx, since, place)
		return
	}
	w.logger.Info("device location unavailable, using default place", "default", w.defaultPlace, "error", err)

	list, err := w.api.SearchPlaces(ctx, w.defaultPlace, 1)
	if err != nil {
		w.logger.Warn("default place search failed", "default", w.defaultPlace, "error", err)
		return
	}
	if len(list) == 0 {
		w.logger.Warn("default place not found", "default", w.defaultPlace)
		return
	}
	w.selectUnlessChosen(ctx, since, list[0])
}

// selectUnlessChosen selects place only if no selection started after
// generation since; a place the user picked meanwhile wins.
func (w *Workflow) selectUnlessChosen(ctx context.Context, since uint64, place weatherservice.Place) {
	w.mu.Lock()
	chosen := w.selectGen != since
	w.mu.Unlock()
	if chosen {
		w.staleDrop("initial")
		return
	}
	w.Select(ctx, place)
}

func (w *Workflow) locatePlace(ctx context.Context) (weatherservice.Place, error) {
	pos, err := w.locator.Locate(ctx)
	if err != nil {
		return weatherservice.Place{}, err
	}

	place, err := w.api.ReverseGeocode(ctx, pos.Latitude, pos.Longitude)
	if err != nil {
		return weatherservice.Place{}, err
	}
	if place == nil {
		return weatherservice.YourLocation(pos), nil
	}
	return *place, nil
}
