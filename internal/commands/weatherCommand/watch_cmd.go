package weathercommand

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/redjax/wx/internal/services/weatherService/workflow"
)

func NewWatchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [place]",
		Short: "Keep printing the weather as it refreshes",
		Long: `Load a place and print its weather every time a scheduled refresh lands.
Stop with Ctrl+C.

With --metrics-addr a Prometheus /metrics endpoint is served while watching.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := NewApp(cmd)
			if err != nil {
				return err
			}
			defer app.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return watch(ctx, app, strings.Join(args, " "), cmd.OutOrStdout())
		},
	}

	cmd.Flags().Duration("interval", workflow.DefaultRefreshInterval, "Refresh interval")
	cmd.Flags().String("metrics-addr", "", "Serve Prometheus metrics on this address, e.g. :9090")

	return cmd
}

func watch(ctx context.Context, app *App, query string, out io.Writer) error {
	if addr := app.Settings.Metrics.Addr; addr != "" {
		srv := &http.Server{
			Addr:              addr,
			Handler:           metricsMux(app),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				app.Logger.Error("metrics server failed", "addr", addr, "error", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
		app.Logger.Info("serving metrics", "addr", addr)
	}

	snap, err := loadPlace(ctx, app.Workflow, query)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, renderSnapshot(app, snap))

	// Subscribers wait for room in updates; cancelling subCtx releases any
	// that are still blocked once the loop below has stopped reading.
	subCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	updates := make(chan workflow.Snapshot, 8)
	unsubscribe := app.Workflow.Subscribe(sendUntil(subCtx, updates))
	defer unsubscribe()

	refresher := workflow.NewRefresher(app.Workflow, app.Settings.Workflow.RefreshInterval)
	if err := refresher.Start(); err != nil {
		return err
	}
	defer func() {
		cancel()
		refresher.Stop()
	}()

	last := snap
	for {
		select {
		case <-ctx.Done():
			return nil
		case s := <-updates:
			if s.Version <= last.Version {
				continue
			}
			if s.Status == workflow.StatusRefreshFailed && s.Status != last.Status {
				fmt.Fprintln(out, s.Status)
			}
			if s.HasWeather() && s.Weather != last.Weather {
				fmt.Fprintln(out, renderSnapshot(app, s))
			}
			last = s
		}
	}
}

// sendUntil returns a subscriber that delivers every snapshot to updates,
// waiting for room rather than dropping, until ctx is done.
func sendUntil(ctx context.Context, updates chan<- workflow.Snapshot) func(workflow.Snapshot) {
	return func(s workflow.Snapshot) {
		select {
		case updates <- s:
		case <-ctx.Done():
		}
	}
}

func metricsMux(app *App) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(app.Registry, promhttp.HandlerOpts{}))
	return mux
}
