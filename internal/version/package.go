package version

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/redjax/wx/internal/config"
)

func showPackageInfo(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	pkgInfo := GetPackageInfo()

	fmt.Fprintf(out,
		"Program: %s\nOwner: %s\nRepository Name: %s\nRepository URL: %s\nVersion: %s\nCommit: %s\nRelease Date: %s\n",
		pkgInfo.PackageName,
		pkgInfo.RepoUser,
		pkgInfo.RepoName,
		pkgInfo.RepoUrl,
		pkgInfo.PackageVersion,
		pkgInfo.PackageCommit,
		pkgInfo.PackageReleaseDate,
	)

	showConfig, _ := cmd.Flags().GetBool("config-values")
	if !showConfig {
		return nil
	}

	configFile, _ := cmd.Flags().GetString("config")
	if _, err := config.LoadConfig(cmd.Flags(), configFile); err != nil {
		return err
	}
	fmt.Fprintln(out)
	return printConfig(out, config.K.All())
}

// printConfig writes the merged config as a key/value table, sorted by key.
func printConfig(w io.Writer, values map[string]interface{}) error {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Key", "Value"})
	for k, v := range values {
		t.AppendRow(table.Row{k, v})
	}
	t.SortBy([]table.SortBy{{Name: "Key", Mode: table.Asc}})
	_, err := fmt.Fprintln(w, t.Render())
	return err
}
