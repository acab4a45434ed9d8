package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// SettingsFile is the launcher's own config, looked up in the app
// directory. It is optional; a missing file means defaults.
const SettingsFile = "mblaunch.yaml"

// Duration wraps time.Duration so "15s" style values work in YAML.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var text string
	if err := node.Decode(&text); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(text)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Settings tunes how the launcher probes and starts the checker. The
// credential file (.env) is the checker's config; this is ours.
type Settings struct {
	// PythonCandidates are interpreter names tried in order on PATH.
	PythonCandidates []string `yaml:"python"`

	// GUIEntrypoints are launch files preferred when a display is
	// available, in priority order.
	GUIEntrypoints []string `yaml:"gui_entrypoints"`

	// CLIEntrypoints are launch files usable without a display, in
	// priority order.
	CLIEntrypoints []string `yaml:"cli_entrypoints"`

	// EnvFile is the credential file name, relative to the app dir.
	EnvFile string `yaml:"env_file"`

	// CommandTimeout bounds every probing/selftest subprocess.
	CommandTimeout Duration `yaml:"command_timeout"`
}

// DefaultSettings mirrors the file layout the checker ships with.
func DefaultSettings() Settings {
	return Settings{
		PythonCandidates: []string{"python3", "python"},
		GUIEntrypoints:   []string{"gui.py"},
		CLIEntrypoints:   []string{"main.py", "run.py"},
		EnvFile:          ".env",
		CommandTimeout:   Duration(15 * time.Second),
	}
}

// LoadSettings reads dir/mblaunch.yaml, falling back to defaults when
// the file does not exist. Unset fields are filled from defaults so a
// partial file stays usable; malformed YAML is a real error.
func LoadSettings(dir string) (Settings, error) {
	settings := DefaultSettings()

	data, err := os.ReadFile(filepath.Join(dir, SettingsFile))
	if errors.Is(err, os.ErrNotExist) {
		return settings, nil
	}
	if err != nil {
		return settings, fmt.Errorf("read %s: %w", SettingsFile, err)
	}

	if err := yaml.Unmarshal(data, &settings); err != nil {
		return DefaultSettings(), fmt.Errorf("parse %s: %w", SettingsFile, err)
	}
	return settings.normalized(), nil
}

// normalized backfills fields an explicit file left empty.
func (s Settings) normalized() Settings {
	defaults := DefaultSettings()
	if len(s.PythonCandidates) == 0 {
		s.PythonCandidates = defaults.PythonCandidates
	}
	if len(s.GUIEntrypoints) == 0 && len(s.CLIEntrypoints) == 0 {
		s.GUIEntrypoints = defaults.GUIEntrypoints
		s.CLIEntrypoints = defaults.CLIEntrypoints
	}
	if s.EnvFile == "" {
		s.EnvFile = defaults.EnvFile
	}
	if s.CommandTimeout <= 0 {
		s.CommandTimeout = defaults.CommandTimeout
	}
	return s
}

// Candidates returns the launch-file priority order for the gate. GUI
// entry points lead only when a display is present; CLI entry points are
// always included so a headless machine still launches.
func (s Settings) Candidates(displayAvailable bool) []string {
	var candidates []string
	if displayAvailable {
		candidates = append(candidates, s.GUIEntrypoints...)
	}
	candidates = append(candidates, s.CLIEntrypoints...)
	return candidates
}

// EnvPath resolves the credential file inside the app directory.
func (s Settings) EnvPath(dir string) string {
	return filepath.Join(dir, s.EnvFile)
}
