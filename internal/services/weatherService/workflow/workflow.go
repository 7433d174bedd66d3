// Package workflow owns the place-selection and weather-refresh state
// machine: debounced search, selection, initial location resolution and the
// refresh triggers. All state lives in a single Workflow value; callers
// observe it through Snapshot and Subscribe.
package workflow

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/redjax/wx/internal/observability"
	weatherservice "github.com/redjax/wx/internal/services/weatherService"
)

const (
	DefaultPlace       = "Manila"
	DefaultDebounce    = 300 * time.Millisecond
	DefaultSearchCount = 8
)

// API is the subset of the Open-Meteo client the workflow calls.
type API interface {
	SearchPlaces(ctx context.Context, query string, count int) ([]weatherservice.Place, error)
	ReverseGeocode(ctx context.Context, lat, lon float64) (*weatherservice.Place, error)
	FetchWeather(ctx context.Context, lat, lon float64, timezone string) (*weatherservice.WeatherSnapshot, error)
}

type Options struct {
	API     API
	Locator weatherservice.Locator
	Clock   clockwork.Clock

	// DefaultPlace is searched when the device location cannot be resolved.
	DefaultPlace string
	Debounce     time.Duration
	SearchCount  int

	// ReselectByQuery makes SelectIndex re-issue the current query and pick
	// the index from the fresh result set. When false the index refers to
	// the results already shown.
	ReselectByQuery bool

	Metrics *observability.Metrics
	Logger  *slog.Logger
}

type Workflow struct {
	api     API
	locator weatherservice.Locator
	clock   clockwork.Clock
	metrics *observability.Metrics
	logger  *slog.Logger

	defaultPlace string
	debounce     time.Duration
	searchCount  int
	reselect     bool

	// ctx bounds work the workflow starts on its own (debounced searches,
	// passive refreshes). Close cancels it.
	ctx    context.Context
	cancel context.CancelFunc

	// pending tracks scheduled debounce timers and background goroutines.
	pending sync.WaitGroup

	mu      sync.Mutex
	version uint64
	state   State
	query   string
	results []weatherservice.Place
	place   *weatherservice.Place
	weather *weatherservice.WeatherSnapshot
	loading bool
	status  string
	panel   string
	hidden  bool

	initialising bool

	searchGen    uint64
	selectGen    uint64
	placeGen     uint64
	searchCancel context.CancelFunc
	selectCancel context.CancelFunc
	timer        clockwork.Timer

	listeners map[int]func(Snapshot)
	nextID    int
}

// New builds an idle workflow with nothing selected.
func New(opts Options) *Workflow {
	if opts.Locator == nil {
		opts.Locator = weatherservice.UnsupportedLocator{}
	}
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if strings.TrimSpace(opts.DefaultPlace) == "" {
		opts.DefaultPlace = DefaultPlace
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.SearchCount <= 0 {
		opts.SearchCount = DefaultSearchCount
	}
	if opts.Logger == nil {
		opts.Logger = observability.DiscardLogger()
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Workflow{
		api:          opts.API,
		locator:      opts.Locator,
		clock:        opts.Clock,
		metrics:      opts.Metrics,
		logger:       opts.Logger.With("component", "workflow"),
		defaultPlace: strings.TrimSpace(opts.DefaultPlace),
		debounce:     opts.Debounce,
		searchCount:  opts.SearchCount,
		reselect:     opts.ReselectByQuery,
		ctx:          ctx,
		cancel:       cancel,
		listeners:    map[int]func(Snapshot){},
	}
}

// Snapshot returns the current state without bumping the version.
func (w *Workflow) Snapshot() Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.snapshotLocked()
}

// Subscribe registers fn to receive a Snapshot after every mutation. fn is
// called without the workflow lock held, possibly from several goroutines.
func (w *Workflow) Subscribe(fn func(Snapshot)) func() {
	w.mu.Lock()
	id := w.nextID
	w.nextID++
	w.listeners[id] = fn
	w.mu.Unlock()

	return func() {
		w.mu.Lock()
		delete(w.listeners, id)
		w.mu.Unlock()
	}
}

// Wait blocks until scheduled searches and background refreshes have
// finished.
func (w *Workflow) Wait() {
	w.pending.Wait()
}

// Close cancels background work and waits for it to drain.
func (w *Workflow) Close() {
	w.mu.Lock()
	w.stopTimerLocked()
	if w.searchCancel != nil {
		w.searchCancel()
	}
	if w.selectCancel != nil {
		w.selectCancel()
	}
	w.mu.Unlock()

	w.cancel()
	w.pending.Wait()
}

// background runs fn on its own goroutine, tracked by Wait.
func (w *Workflow) background(fn func(ctx context.Context)) {
	w.pending.Add(1)
	go func() {
		defer w.pending.Done()
		fn(w.ctx)
	}()
}

func (w *Workflow) snapshotLocked() Snapshot {
	s := Snapshot{
		Version:    w.version,
		State:      w.state,
		Query:      w.query,
		Weather:    w.weather,
		Loading:    w.loading,
		Status:     w.status,
		ErrorPanel: w.panel,
	}
	if len(w.results) > 0 {
		s.Results = append([]weatherservice.Place(nil), w.results...)
	}
	if w.place != nil {
		p := *w.place
		s.Place = &p
	}
	return s
}

// publishLocked bumps the version and returns a func that delivers the new
// snapshot. Call it after releasing the lock.
func (w *Workflow) publishLocked() func() {
	w.version++
	snap := w.snapshotLocked()
	fns := make([]func(Snapshot), 0, len(w.listeners))
	for _, fn := range w.listeners {
		fns = append(fns, fn)
	}
	return func() {
		for _, fn := range fns {
			fn(snap)
		}
	}
}

func (w *Workflow) setStateLocked(s State) {
	if w.state != s {
		w.logger.Debug("state transition", "from", w.state.String(), "to", s.String())
	}
	w.state = s
	if w.metrics != nil {
		w.metrics.Transitions.WithLabelValues(s.String()).Inc()
	}
}

// stopTimerLocked cancels a pending debounce. A timer that already fired
// releases its own pending slot.
func (w *Workflow) stopTimerLocked() {
	if w.timer == nil {
		return
	}
	if w.timer.Stop() {
		w.pending.Done()
	}
	w.timer = nil
}

// supersedeSearchLocked invalidates any scheduled or in-flight search.
func (w *Workflow) supersedeSearchLocked() uint64 {
	w.stopTimerLocked()
	w.searchGen++
	if w.searchCancel != nil {
		w.searchCancel()
		w.searchCancel = nil
	}
	return w.searchGen
}

func (w *Workflow) staleDrop(operation string) {
	w.logger.Debug("discarding stale response", "operation", operation)
	if w.metrics != nil {
		w.metrics.StaleDrops.WithLabelValues(operation).Inc()
	}
}

func (w *Workflow) countRefresh(trigger Trigger, outcome string) {
	if w.metrics != nil {
		w.metrics.Refreshes.WithLabelValues(string(trigger), outcome).Inc()
	}
}
