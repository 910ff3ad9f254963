package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adithya151/DCF---racker/internal/config"
)

// writeOverlay writes YAML content to a temp file and returns its path.
func writeOverlay(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "overlay.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestShallowMergeYAML_SingleKeyOverride(t *testing.T) {
	t.Setenv("DCFTRACKER_HOME", t.TempDir())
	target := config.Default()
	overlay := writeOverlay(t, `
output:
  default_format: json
`)

	require.NoError(t, config.ShallowMergeYAML(target, overlay))
	assert.Equal(t, "json", target.Output.DefaultFormat)
	// Whole section is replaced, so precision falls back to zero.
	assert.Equal(t, 0, target.Output.Precision)
	// Other sections untouched.
	assert.Equal(t, 10, target.Leaderboard.Size)
}

func TestShallowMergeYAML_MultipleSections(t *testing.T) {
	t.Setenv("DCFTRACKER_HOME", t.TempDir())
	target := config.Default()
	overlay := writeOverlay(t, `
advisor:
  drive_share: 0.5
  emails: 10
  commits: 20
store:
  driver: memory
unknown_section:
  anything: true
`)

	require.NoError(t, config.ShallowMergeYAML(target, overlay))
	assert.InDelta(t, 0.5, target.Advisor.DriveShare, 1e-12)
	assert.Equal(t, 10, target.Advisor.Emails)
	assert.Equal(t, config.StoreDriverMemory, target.Store.Driver)
	assert.Empty(t, target.Store.Path)
}

func TestShallowMergeYAML_EmptyFile(t *testing.T) {
	t.Setenv("DCFTRACKER_HOME", t.TempDir())
	target := config.Default()
	before := *target

	require.NoError(t, config.ShallowMergeYAML(target, writeOverlay(t, "# nothing here\n")))
	assert.Equal(t, before, *target)
}

func TestShallowMergeYAML_Errors(t *testing.T) {
	require.Error(t, config.ShallowMergeYAML(nil, "x"))
	require.Error(t, config.ShallowMergeYAML(config.Default(), filepath.Join(t.TempDir(), "missing.yaml")))
	require.Error(t, config.ShallowMergeYAML(config.Default(), writeOverlay(t, "output: [oops")))
	require.Error(t, config.ShallowMergeYAML(config.Default(), writeOverlay(t, "forecast:\n  horizon: soon\n")))
}
