package version

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	cmd := NewVersionCommand()
	cmd.SetOut(&out)
	cmd.SetArgs(nil)
	require.NoError(t, cmd.Execute())

	assert.Equal(t, "package: wx version:dev commit:none date:unknown\n", out.String())
}

func TestInfoCommand_ConfigValues(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("WX_PREFS_DB_PATH", filepath.Join(dir, "prefs.db"))
	t.Setenv("WX_WORKFLOW_DEFAULT_PLACE", "Oslo")

	var out bytes.Buffer
	cmd := NewPackageInfoCommand()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--config-values"})
	require.NoError(t, cmd.Execute())

	assert.Contains(t, out.String(), "Repository URL: https://github.com/redjax/wx")
	assert.Contains(t, out.String(), "workflow.default_place")
	assert.Contains(t, out.String(), "Oslo")
}

func TestInfoCommand_WithoutConfig(t *testing.T) {
	var out bytes.Buffer
	cmd := NewPackageInfoCommand()
	cmd.SetOut(&out)
	cmd.SetArgs(nil)
	require.NoError(t, cmd.Execute())

	assert.Contains(t, out.String(), "Program: wx")
	assert.NotContains(t, out.String(), "workflow.default_place")
}
