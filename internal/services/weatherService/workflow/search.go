package workflow

import (
	"context"
	"strings"
)

// Input records the search box contents. Blank input clears the results
// immediately without any network call; anything else (re)starts the
// debounce timer, and the search runs once typing pauses.
func (w *Workflow) Input(text string) {
	query := strings.TrimSpace(text)

	w.mu.Lock()
	w.query = query
	gen := w.supersedeSearchLocked()

	if query == "" {
		w.results = nil
		if w.state == Searching || w.state == ResultsShown || w.state == Error {
			w.status = ""
		}
		if w.state != LoadingWeather {
			w.setStateLocked(Idle)
		}
		deliver := w.publishLocked()
		w.mu.Unlock()
		deliver()
		return
	}

	w.pending.Add(1)
	w.timer = w.clock.AfterFunc(w.debounce, func() {
		defer w.pending.Done()
		w.runSearch(gen, query)
	})
	w.mu.Unlock()
}

// runSearch performs the debounced search for generation gen.
func (w *Workflow) runSearch(gen uint64, query string) {
	w.mu.Lock()
	if gen != w.searchGen {
		w.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(w.ctx)
	defer cancel()
	w.searchCancel = cancel
	w.timer = nil
	w.setStateLocked(Searching)
	w.status = StatusSearching
	deliver := w.publishLocked()
	w.mu.Unlock()
	deliver()

	list, err := w.api.SearchPlaces(ctx, query, w.searchCount)

	w.mu.Lock()
	if gen != w.searchGen {
		w.mu.Unlock()
		w.staleDrop("search")
		return
	}
	w.searchCancel = nil

	if err != nil {
		w.logger.Warn("search failed", "query", query, "error", err)
		w.failSearchLocked()
		return
	}

	w.results = list
	if len(list) == 0 {
		w.status = StatusNoResults
		w.setStateLocked(Idle)
	} else {
		w.status = ""
		w.setStateLocked(ResultsShown)
	}
	deliver = w.publishLocked()
	w.mu.Unlock()
	deliver()
}

// failSearchLocked publishes the transient Error state and settles back to
// Idle. It releases the lock.
func (w *Workflow) failSearchLocked() {
	w.results = nil
	w.status = StatusSearchFailed
	w.setStateLocked(Error)
	first := w.publishLocked()
	w.setStateLocked(Idle)
	second := w.publishLocked()
	w.mu.Unlock()
	first()
	second()
}

// Submit searches the current query for its single best match and selects
// it.
func (w *Workflow) Submit(ctx context.Context) {
	w.mu.Lock()
	query := w.query
	if query == "" {
		w.mu.Unlock()
		return
	}
	gen := w.supersedeSearchLocked()
	sctx, cancel := context.WithCancel(ctx)
	defer cancel()
	w.searchCancel = cancel
	w.setStateLocked(Searching)
	w.status = StatusSearching
	deliver := w.publishLocked()
	w.mu.Unlock()
	deliver()

	list, err := w.api.SearchPlaces(sctx, query, 1)

	w.mu.Lock()
	if gen != w.searchGen {
		w.mu.Unlock()
		w.staleDrop("search")
		return
	}
	w.searchCancel = nil

	if err != nil {
		w.logger.Warn("submit search failed", "query", query, "error", err)
		w.failSearchLocked()
		return
	}
	if len(list) == 0 {
		w.results = nil
		w.status = StatusNoResults
		w.setStateLocked(Idle)
		deliver = w.publishLocked()
		w.mu.Unlock()
		deliver()
		return
	}
	w.mu.Unlock()

	w.Select(ctx, list[0])
}

// SelectIndex selects the result at position i. With ReselectByQuery the
// current query is searched again and i indexes the new result set, since
// the service does not promise a stable order between calls. An index out of
// range is ignored.
func (w *Workflow) SelectIndex(ctx context.Context, i int) {
	w.mu.Lock()
	query := w.query
	held := w.results
	w.mu.Unlock()

	if i < 0 {
		return
	}

	list := held
	if w.reselect {
		if query == "" {
			return
		}
		var err error
		list, err = w.api.SearchPlaces(ctx, query, w.searchCount)
		if err != nil {
			w.logger.Warn("reselect search failed", "query", query, "error", err)
			w.mu.Lock()
			w.status = StatusSearchFailed
			deliver := w.publishLocked()
			w.mu.Unlock()
			deliver()
			return
		}
	}

	if i >= len(list) {
		return
	}
	w.Select(ctx, list[i])
}
