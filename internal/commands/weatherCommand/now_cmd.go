package weathercommand

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func NewNowCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "now [place]",
		Short: "Print current conditions and the forecast once",
		Long: `Print current conditions and a 5 day forecast, then exit.

Without a place the device location is used, falling back to the configured
default place.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := NewApp(cmd)
			if err != nil {
				return err
			}
			defer app.Close()

			snap, err := loadPlace(cmd.Context(), app.Workflow, strings.Join(args, " "))
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderSnapshot(app, snap))
			return nil
		},
	}

	return cmd
}
