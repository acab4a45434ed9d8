package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestLoadSettingsMissingFile(t *testing.T) {
	settings, err := LoadSettings(t.TempDir())
	require.NoError(t, err)
	if diff := cmp.Diff(DefaultSettings(), settings); diff != "" {
		t.Fatalf("defaults mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadSettingsPartialFile(t *testing.T) {
	dir := t.TempDir()
	data := "python: [python3.11]\ncommand_timeout: 5s\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, SettingsFile), []byte(data), 0o644))

	settings, err := LoadSettings(dir)
	require.NoError(t, err)
	require.Equal(t, []string{"python3.11"}, settings.PythonCandidates)
	require.Equal(t, 5*time.Second, settings.CommandTimeout.Std())
	// Unset fields come from defaults.
	require.Equal(t, DefaultSettings().CLIEntrypoints, settings.CLIEntrypoints)
	require.Equal(t, ".env", settings.EnvFile)
}

func TestLoadSettingsMalformed(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, SettingsFile), []byte("python: [unclosed"), 0o644))

	if _, err := LoadSettings(dir); err == nil {
		t.Fatal("expected parse error for malformed YAML")
	}
}

func TestCandidatesDisplayOrdering(t *testing.T) {
	settings := DefaultSettings()

	withDisplay := settings.Candidates(true)
	require.Equal(t, []string{"gui.py", "main.py", "run.py"}, withDisplay)

	headless := settings.Candidates(false)
	require.Equal(t, []string{"main.py", "run.py"}, headless)
}

func TestEnvPath(t *testing.T) {
	settings := DefaultSettings()
	require.Equal(t, filepath.Join("app", ".env"), settings.EnvPath("app"))
}
