// The root command for the CLI.
// Running wx with no subcommand opens the interactive weather view.
package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	prefscommand "github.com/redjax/wx/internal/commands/prefsCommand"
	weathercommand "github.com/redjax/wx/internal/commands/weatherCommand"
	"github.com/redjax/wx/internal/version"
)

// NewRootCmd builds the wx command tree. Global flags override the config
// file and WX_ environment variables.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "wx",
		Short: "Current conditions and a short forecast for any place",
		Long: `Search for a place and see its current weather and a five day forecast.

With no arguments wx opens an interactive view that starts at your approximate
location (or a default place) and refreshes every few minutes.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          weathercommand.RunTUI,
	}

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (json, yaml, toml or .env)")
	pf.BoolP("debug", "D", false, "Enable debug logging")
	pf.String("log-file", "", "Write logs to this file")
	pf.String("log-level", "", "Log level (debug, info, warn, error)")
	pf.String("db", "", "Preferences database path")
	pf.String("language", "", "Language for place names")
	pf.Duration("timeout", 0, "Per-request timeout for the weather service")
	pf.String("default-place", "", "Place shown when the location is unknown")
	pf.Bool("no-geo", false, "Do not look up the device location")
	pf.Float64("lat", 0, "Fixed latitude instead of the IP lookup (requires --lon)")
	pf.Float64("lon", 0, "Fixed longitude instead of the IP lookup (requires --lat)")

	weathercommand.AddCommands(rootCmd)
	rootCmd.AddCommand(prefscommand.NewPrefsCmd())
	rootCmd.AddCommand(version.NewSelfCommand())

	return rootCmd
}

// Execute runs the root command until it returns or the process is
// interrupted.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
