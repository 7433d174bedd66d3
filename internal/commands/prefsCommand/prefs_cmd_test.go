package prefscommand

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	prefsservice "github.com/redjax/wx/internal/services/prefsService"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := &cobra.Command{Use: "wx"}
	root.PersistentFlags().String("config", "", "")
	root.AddCommand(NewPrefsCmd())

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func setupDB(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "prefs.db")
	t.Setenv("WX_PREFS_DB_PATH", dbPath)
	t.Setenv("WX_LOG_FILE", filepath.Join(dir, "wx.log"))
	return dbPath
}

func TestPrefsSetAndShow(t *testing.T) {
	dbPath := setupDB(t)

	out, err := run(t, "prefs", "set", "unit", "fahrenheit")
	require.NoError(t, err)
	assert.Contains(t, out, "°F")

	_, err = run(t, "prefs", "set", "theme", "Dark")
	require.NoError(t, err)

	out, err = run(t, "prefs", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "Dark")
	assert.Contains(t, out, "°F")
	assert.NotContains(t, out, "default")

	db, err := prefsservice.NewSQLiteService(dbPath)
	require.NoError(t, err)
	defer db.Close()
	v, ok, err := db.Get(prefsservice.UnitKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "F", v)
}

func TestPrefsSet_Invalid(t *testing.T) {
	setupDB(t)

	_, err := run(t, "prefs", "set", "unit", "kelvin")
	assert.Error(t, err)

	_, err = run(t, "prefs", "set", "colour", "red")
	assert.ErrorContains(t, err, "unknown preference")
}

func TestPrefsReset(t *testing.T) {
	setupDB(t)

	_, err := run(t, "prefs", "set", "unit", "F")
	require.NoError(t, err)

	out, err := run(t, "prefs", "reset")
	require.NoError(t, err)
	assert.Contains(t, out, "Preferences reset.")

	out, err = run(t, "prefs", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "°C")
	assert.Contains(t, out, "default")
}

func TestPrintPrefs_ShowsForeignKeys(t *testing.T) {
	var out bytes.Buffer
	prefs := prefsservice.Preferences{Theme: prefsservice.ThemeLight, Unit: prefsservice.UnitCelsius}

	require.NoError(t, printPrefs(&out, prefs, map[string]string{"other-key": "42"}))
	assert.Contains(t, out.String(), "other-key")
	assert.Contains(t, out.String(), "Light")
}
