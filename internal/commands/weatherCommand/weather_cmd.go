package weathercommand

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/redjax/wx/internal/services/weatherService/render"
	"github.com/redjax/wx/internal/services/weatherService/ui"
	"github.com/redjax/wx/internal/services/weatherService/workflow"
	"github.com/redjax/wx/internal/utils/spinner"
)

// AddCommands attaches the weather subcommands to root.
func AddCommands(root *cobra.Command) {
	root.AddCommand(NewSearchCommand())
	root.AddCommand(NewNowCommand())
	root.AddCommand(NewWatchCommand())
}

// RunTUI launches the interactive weather view.
func RunTUI(cmd *cobra.Command, args []string) error {
	app, err := NewApp(cmd)
	if err != nil {
		return err
	}
	defer app.Close()

	ctx := cmd.Context()
	refresher := workflow.NewRefresher(app.Workflow, app.Settings.Workflow.RefreshInterval)
	if err := refresher.Start(); err != nil {
		return err
	}
	defer refresher.Stop()

	app.Logger.Info("starting interactive view")
	return ui.Run(ctx, app.Workflow, app.Prefs)
}

// loadPlace resolves query (or the device/default place when empty) and
// waits for its weather.
func loadPlace(ctx context.Context, wf *workflow.Workflow, query string) (workflow.Snapshot, error) {
	query = strings.TrimSpace(query)

	stop := spinner.StartSpinner(os.Stderr, "Loading weather…")
	if query == "" {
		wf.InitialLoad(ctx)
	} else {
		wf.Input(query)
		wf.Submit(ctx)
	}
	stop()

	snap := wf.Snapshot()
	switch {
	case snap.State == workflow.Error:
		return snap, errors.New(snap.ErrorPanel)
	case !snap.HasWeather() && query != "":
		if snap.Status != "" {
			return snap, fmt.Errorf("%s: %s", query, snap.Status)
		}
		return snap, fmt.Errorf("no weather for %q", query)
	case !snap.HasWeather():
		return snap, errors.New("could not determine a location; pass a place name")
	}
	return snap, nil
}

func renderSnapshot(app *App, snap workflow.Snapshot) string {
	return render.Text(render.Build(snap.Place, snap.Weather, app.Prefs.Preferences()))
}
