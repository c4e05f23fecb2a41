package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_StringAndStructEntries(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
version: 1
lsSuppress:
  maxBlocks: 10
  maxEntries: 500
postToolUse:
  - ls-suppress
  - name: other-hook
    matcher: Shell
    enabled: false
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.Version)
	require.NotNil(t, cfg.LsSuppress)
	assert.Equal(t, 10, cfg.LsSuppress.MaxBlocks)
	assert.Equal(t, 500, cfg.LsSuppress.MaxEntries)

	require.Len(t, cfg.PostToolUse, 2)
	assert.Equal(t, "ls-suppress", cfg.PostToolUse[0].Name)
	assert.True(t, cfg.PostToolUse[0].Included())
	assert.Equal(t, "other-hook", cfg.PostToolUse[1].Name)
	assert.Equal(t, "Shell", cfg.PostToolUse[1].Matcher)
	assert.False(t, cfg.PostToolUse[1].Included())
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	cfg := &Config{
		Version:     1,
		LsSuppress:  &Thresholds{MaxBlocks: 3},
		PostToolUse: []HookEntry{{Name: "ls-suppress", Matcher: "Shell"}},
	}
	require.NoError(t, Save(path, cfg))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.Version, got.Version)
	require.NotNil(t, got.LsSuppress)
	assert.Equal(t, 3, got.LsSuppress.MaxBlocks)
	require.Len(t, got.PostToolUse, 1)
	assert.Equal(t, "ls-suppress", got.PostToolUse[0].Name)
}

func TestEnvMap_ThresholdsAndPrecedence(t *testing.T) {
	cfg := &Config{
		LsSuppress: &Thresholds{MaxBlocks: 20, MaxEntries: 800},
		Env:        map[string]string{"LS_SUPPRESS_MAX_BLOCKS": "99", "EXTRA": "1"},
	}
	env := cfg.EnvMap()
	assert.Equal(t, "99", env["LS_SUPPRESS_MAX_BLOCKS"], "explicit env wins over thresholds")
	assert.Equal(t, "800", env["LS_SUPPRESS_MAX_ENTRIES"])
	assert.Equal(t, "1", env["EXTRA"])
}

func TestEnvMap_ZeroThresholdsOmitted(t *testing.T) {
	cfg := &Config{LsSuppress: &Thresholds{}}
	assert.Empty(t, cfg.EnvMap())
}

func TestLoadHookEnv_LoadsWithoutOverriding(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".cursor"), 0755))
	envFile := "LS_SUPPRESS_MAX_BLOCKS=77\nLS_SUPPRESS_MAX_ENTRIES=123\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".cursor", "hooks.env"), []byte(envFile), 0644))
	chdir(t, dir)

	// Registers cleanup, then simulate "unset" so the file value applies.
	t.Setenv("LS_SUPPRESS_MAX_BLOCKS", "5")
	t.Setenv("LS_SUPPRESS_MAX_ENTRIES", "x")
	os.Unsetenv("LS_SUPPRESS_MAX_ENTRIES")

	LoadHookEnv()
	assert.Equal(t, "5", os.Getenv("LS_SUPPRESS_MAX_BLOCKS"), "process env must win")
	assert.Equal(t, "123", os.Getenv("LS_SUPPRESS_MAX_ENTRIES"))
}

func TestLoadHookEnv_NoFileIsNoOp(t *testing.T) {
	chdir(t, t.TempDir())
	LoadHookEnv()
}

// chdir stands in for t.Chdir, which requires Go 1.24.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(old) })
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "bin"), ExpandHome("~/bin"))
	assert.Equal(t, "/usr/local/bin", ExpandHome("/usr/local/bin"))
	assert.Equal(t, home, ExpandHome("~"))
}
