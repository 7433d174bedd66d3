package weathercommand

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	weatherservice "github.com/redjax/wx/internal/services/weatherService"
)

func NewSearchCommand() *cobra.Command {
	var count int

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search places by name",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := NewApp(cmd)
			if err != nil {
				return err
			}
			defer app.Close()

			if count <= 0 {
				count = app.Settings.API.SearchCount
			}
			query := strings.Join(args, " ")
			places, err := app.Client.SearchPlaces(cmd.Context(), query, count)
			if err != nil {
				return err
			}
			if len(places) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No results.")
				return nil
			}

			fmt.Fprintln(cmd.OutOrStdout(), placesTable(places))
			return nil
		},
	}

	cmd.Flags().IntVarP(&count, "count", "n", 0, "Maximum number of results (default from config)")

	return cmd
}

func placesTable(places []weatherservice.Place) string {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"#", "Name", "Region", "Country", "Latitude", "Longitude", "Timezone"})
	for i, p := range places {
		t.AppendRow(table.Row{
			i,
			p.Name,
			p.Admin1,
			p.Country,
			fmt.Sprintf("%.4f", p.Latitude),
			fmt.Sprintf("%.4f", p.Longitude),
			p.Timezone,
		})
	}
	return t.Render()
}
