package workflow

import (
	"context"
)

// Refresh re-fetches weather for the current place, or runs InitialLoad when
// nothing is selected yet. A failed refresh only sets a status line; the
// shown weather and state are left alone. The result is dropped if another
// place became current while it was in flight.
func (w *Workflow) Refresh(ctx context.Context, trigger Trigger) {
	w.mu.Lock()
	if w.place == nil {
		busy := w.initialising
		w.mu.Unlock()
		if busy {
			w.countRefresh(trigger, "skipped")
			return
		}
		w.countRefresh(trigger, "initial")
		w.InitialLoad(ctx)
		return
	}

	place := *w.place
	gen := w.placeGen
	// A selection in flight owns the status line.
	if w.state != LoadingWeather {
		w.status = StatusRefreshing
	}
	deliver := w.publishLocked()
	w.mu.Unlock()
	deliver()

	w.logger.Debug("refreshing weather", "trigger", string(trigger), "place", place.DisplayName())
	snap, err := w.api.FetchWeather(ctx, place.Latitude, place.Longitude, place.Timezone)

	w.mu.Lock()
	if gen != w.placeGen {
		w.mu.Unlock()
		w.staleDrop("refresh")
		return
	}
	if err != nil {
		w.logger.Warn("refresh failed", "trigger", string(trigger), "error", err)
		if w.state != LoadingWeather {
			w.status = StatusRefreshFailed
		}
		w.countRefresh(trigger, "error")
	} else {
		w.weather = snap
		if w.status == StatusRefreshing || w.status == StatusRefreshFailed {
			w.status = ""
		}
		w.countRefresh(trigger, "success")
	}
	deliver = w.publishLocked()
	w.mu.Unlock()
	deliver()
}

// RefreshAsync starts Refresh in the background.
func (w *Workflow) RefreshAsync(trigger Trigger) {
	w.background(func(ctx context.Context) {
		w.Refresh(ctx, trigger)
	})
}

// VisibilityChanged records whether the display is visible. Becoming
// visible again after being hidden starts a background refresh.
func (w *Workflow) VisibilityChanged(visible bool) {
	w.mu.Lock()
	wasHidden := w.hidden
	w.hidden = !visible
	w.mu.Unlock()

	if visible && wasHidden {
		w.RefreshAsync(TriggerVisibility)
	}
}
