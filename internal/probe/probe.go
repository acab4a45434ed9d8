// Package probe gathers the environment snapshot the readiness gate
// classifies. All per-check failures degrade to "absent/invalid" facts;
// Collect never fails because of one broken probe.
package probe

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"runtime"
	"strconv"

	"github.com/go-rod/rod/lib/launcher"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"mblaunch/internal/config"
	"mblaunch/internal/gate"
)

// Facts is the gate snapshot plus the auxiliary observations the CLI
// uses for presentation and launch-mode selection.
type Facts struct {
	Snapshot gate.Snapshot

	// PythonPath is the resolved interpreter, empty when none worked.
	PythonPath string

	// RawConfig is the credential file content ("" when absent).
	RawConfig     string
	ConfigPresent bool

	// Display reports whether a graphical session is available. It
	// shapes candidate ordering, not the verdict.
	Display bool

	// Interactive reports whether stdout is a terminal.
	Interactive bool

	// BrowserPath is a usable Chromium/Chrome binary for the scraper,
	// empty when none was found. Warn-only: the gate ignores it.
	BrowserPath string
}

// Collector probes one app directory. The function fields exist so
// tests can substitute the process-touching pieces.
type Collector struct {
	Dir      string
	Settings config.Settings
	Logger   *zap.Logger

	lookPath      func(name string) (string, error)
	versionOutput func(ctx context.Context, path string) (string, error)
	browserLookup func() (string, bool)
	getenv        func(key string) string
	stdoutIsTTY   func() bool
}

// New returns a collector wired to the real host.
func New(dir string, settings config.Settings, logger *zap.Logger) *Collector {
	c := &Collector{
		Dir:      dir,
		Settings: settings,
		Logger:   logger,
		lookPath: exec.LookPath,
		browserLookup: func() (string, bool) {
			return launcher.LookPath()
		},
		getenv: os.Getenv,
		stdoutIsTTY: func() bool {
			return term.IsTerminal(int(os.Stdout.Fd()))
		},
	}
	c.versionOutput = func(ctx context.Context, path string) (string, error) {
		ctx, cancel := context.WithTimeout(ctx, settings.CommandTimeout.Std())
		defer cancel()
		// Python 2 prints its version to stderr, so capture both.
		out, err := exec.CommandContext(ctx, path, "--version").CombinedOutput()
		return string(out), err
	}
	return c
}

// Collect probes the host and assembles the facts. The independent
// checks run concurrently; each one only writes its own fields.
func (c *Collector) Collect(ctx context.Context) Facts {
	facts := Facts{
		Display:     c.detectDisplay(),
		Interactive: c.stdoutIsTTY(),
	}
	candidates := c.Settings.Candidates(facts.Display)

	var (
		interpreter gate.Version
		present     map[string]bool
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		facts.PythonPath, interpreter = c.pythonVersion(gctx)
		return nil
	})
	g.Go(func() error {
		present = c.statCandidates(candidates)
		return nil
	})
	g.Go(func() error {
		facts.RawConfig, facts.ConfigPresent = config.Load(c.Settings.EnvPath(c.Dir))
		return nil
	})
	g.Go(func() error {
		if path, found := c.browserLookup(); found {
			facts.BrowserPath = path
		}
		return nil
	})
	_ = g.Wait() // probes never return errors, they degrade

	facts.Snapshot = gate.Snapshot{
		Interpreter: interpreter,
		Candidates:  candidates,
		Present:     present,
		ConfigValid: facts.ConfigPresent && config.Validate(facts.RawConfig),
	}

	c.Logger.Debug("environment probed",
		zap.String("python", facts.PythonPath),
		zap.String("python_version", interpreter.String()),
		zap.Bool("display", facts.Display),
		zap.Bool("config_present", facts.ConfigPresent),
		zap.Bool("config_valid", facts.Snapshot.ConfigValid),
		zap.String("browser", facts.BrowserPath))

	return facts
}

// pythonVersion tries each interpreter candidate on PATH and returns the
// first that reports a parseable version. Every failure mode collapses
// to the zero Version, which the gate reads as "too old".
func (c *Collector) pythonVersion(ctx context.Context) (string, gate.Version) {
	for _, name := range c.Settings.PythonCandidates {
		path, err := c.lookPath(name)
		if err != nil {
			continue
		}
		out, err := c.versionOutput(ctx, path)
		if err != nil {
			c.Logger.Debug("interpreter probe failed",
				zap.String("path", path), zap.Error(err))
			continue
		}
		version, err := ParseVersion(out)
		if err != nil {
			c.Logger.Debug("unparseable interpreter banner",
				zap.String("path", path), zap.String("output", out))
			continue
		}
		return path, version
	}
	return "", gate.Version{}
}

func (c *Collector) statCandidates(candidates []string) map[string]bool {
	present := make(map[string]bool, len(candidates))
	for _, name := range candidates {
		info, err := os.Stat(filepath.Join(c.Dir, name))
		if err == nil && !info.IsDir() {
			present[name] = true
		}
	}
	return present
}

// detectDisplay reports whether a graphical session is reachable. macOS
// and Windows always have one; on Linux and the BSDs it depends on the
// session environment.
func (c *Collector) detectDisplay() bool {
	switch runtime.GOOS {
	case "darwin", "windows":
		return true
	default:
		return c.getenv("DISPLAY") != "" || c.getenv("WAYLAND_DISPLAY") != ""
	}
}

var versionRe = regexp.MustCompile(`Python (\d+)\.(\d+)(?:\.(\d+))?`)

// ParseVersion extracts the version from a "Python X.Y.Z" banner.
func ParseVersion(banner string) (gate.Version, error) {
	m := versionRe.FindStringSubmatch(banner)
	if m == nil {
		return gate.Version{}, &UnparseableBannerError{Banner: banner}
	}
	major, _ := strconv.Atoi(m[1])
	minor, _ := strconv.Atoi(m[2])
	patch := 0
	if m[3] != "" {
		patch, _ = strconv.Atoi(m[3])
	}
	return gate.Version{Major: major, Minor: minor, Patch: patch}, nil
}

// UnparseableBannerError reports a --version output that did not look
// like a Python banner.
type UnparseableBannerError struct {
	Banner string
}

func (e *UnparseableBannerError) Error() string {
	return "unparseable interpreter banner: " + e.Banner
}
