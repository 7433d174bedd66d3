package workflow

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"
)

// DefaultRefreshInterval is how often the Refresher refreshes the current place.
const DefaultRefreshInterval = 5 * time.Minute

// Refresher periodically refreshes a workflow regardless of visibility.
type Refresher struct {
	scheduler *gocron.Scheduler
	workflow  *Workflow
	interval  time.Duration
	logger    *slog.Logger
}

// NewRefresher creates a Refresher; a non-positive interval uses
// DefaultRefreshInterval.
func NewRefresher(w *Workflow, interval time.Duration) *Refresher {
	if interval <= 0 {
		interval = DefaultRefreshInterval
	}
	return &Refresher{
		scheduler: gocron.NewScheduler(time.UTC),
		workflow:  w,
		interval:  interval,
		logger:    w.logger.With("component", "refresher"),
	}
}

// Start schedules the refresh job and starts the scheduler. The first run
// happens one interval from now.
func (r *Refresher) Start() error {
	_, err := r.scheduler.Every(r.interval).WaitForSchedule().Do(func() {
		r.logger.Debug("running scheduled refresh")
		r.workflow.Refresh(r.workflow.ctx, TriggerTimer)
	})
	if err != nil {
		return fmt.Errorf("scheduling refresh every %s: %w", r.interval, err)
	}

	r.scheduler.StartAsync()
	r.logger.Info("scheduled refresh started", "interval", r.interval.String())
	return nil
}

// Stop stops the scheduler and cancels any future runs.
func (r *Refresher) Stop() {
	if r.scheduler != nil {
		r.scheduler.Stop()
	}
}
