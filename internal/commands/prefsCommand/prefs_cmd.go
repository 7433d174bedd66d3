package prefscommand

import (
	"fmt"
	"io"
	"sort"

	"github.com/charmbracelet/lipgloss"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/redjax/wx/internal/config"
	prefsservice "github.com/redjax/wx/internal/services/prefsService"
)

func NewPrefsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prefs",
		Short: "Show or change display preferences",
		Long:  "Theme and temperature unit are stored in a small SQLite database and survive restarts.",
	}
	cmd.AddCommand(newShowCmd())
	cmd.AddCommand(newSetCmd())
	cmd.AddCommand(newResetCmd())
	return cmd
}

// openStore opens the preference database named by the merged config.
func openStore(cmd *cobra.Command) (*prefsservice.SQLiteService, *prefsservice.Store, error) {
	configFile, _ := cmd.Flags().GetString("config")
	settings, err := config.LoadConfig(cmd.Flags(), configFile)
	if err != nil {
		return nil, nil, err
	}
	db, err := prefsservice.NewSQLiteService(settings.Prefs.DBPath)
	if err != nil {
		return nil, nil, err
	}
	return db, prefsservice.NewStore(db, lipgloss.HasDarkBackground), nil
}

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective preferences",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, store, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer db.Close()

			stored, err := db.All()
			if err != nil {
				return err
			}
			return printPrefs(cmd.OutOrStdout(), store.Preferences(), stored)
		},
	}
}

func printPrefs(w io.Writer, prefs prefsservice.Preferences, stored map[string]string) error {
	title := cases.Title(language.English)
	source := func(key string) string {
		if _, ok := stored[key]; ok {
			return "saved"
		}
		return "default"
	}

	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"Preference", "Value", "Source"})
	t.AppendRow(table.Row{"Theme", title.String(string(prefs.Theme)), source(prefsservice.ThemeKey)})
	t.AppendRow(table.Row{"Unit", "°" + string(prefs.Unit), source(prefsservice.UnitKey)})

	// Anything else in the table was written by something other than wx.
	var extra []string
	for k := range stored {
		if k != prefsservice.ThemeKey && k != prefsservice.UnitKey {
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)
	for _, k := range extra {
		t.AppendRow(table.Row{k, stored[k], "saved"})
	}

	_, err := fmt.Fprintln(w, t.Render())
	return err
}

func newSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "set <theme|unit> <value>",
		Short:     "Persist a preference",
		Example:   "  wx prefs set theme dark\n  wx prefs set unit F",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{"theme", "unit"},
		RunE: func(cmd *cobra.Command, args []string) error {
			db, store, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer db.Close()

			switch args[0] {
			case "theme":
				t, err := prefsservice.ParseTheme(args[1])
				if err != nil {
					return err
				}
				if err := store.SetTheme(t); err != nil {
					return err
				}
			case "unit":
				u, err := prefsservice.ParseUnit(args[1])
				if err != nil {
					return err
				}
				if err := store.SetUnit(u); err != nil {
					return err
				}
			default:
				return fmt.Errorf("unknown preference %q (want theme or unit)", args[0])
			}

			stored, err := db.All()
			if err != nil {
				return err
			}
			return printPrefs(cmd.OutOrStdout(), store.Preferences(), stored)
		},
	}
}

func newResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Forget saved preferences and go back to the defaults",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer db.Close()

			for _, key := range []string{prefsservice.ThemeKey, prefsservice.UnitKey} {
				if err := db.Delete(key); err != nil {
					return err
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Preferences reset.")
			return nil
		},
	}
}
