// Package report turns probed facts and a gate verdict into the doctor
// output. Building the report is pure data work; rendering is separate
// so the logic stays testable without a terminal.
package report

import (
	"fmt"
	"strings"

	"mblaunch/internal/config"
	"mblaunch/internal/gate"
	"mblaunch/internal/probe"
)

// Status orders check severities; the report summary is the worst one.
type Status int

const (
	Pass Status = iota
	Warn
	Fail
)

func (s Status) String() string {
	switch s {
	case Pass:
		return "pass"
	case Warn:
		return "warn"
	case Fail:
		return "fail"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Check is one readiness finding.
type Check struct {
	Name    string
	Status  Status
	Message string
	// Fix is a remediation hint shown for warn/fail checks.
	Fix string
}

// Report is the full doctor result.
type Report struct {
	Checks  []Check
	Verdict gate.Verdict
}

// Build derives the check list from the probed facts. The verdict comes
// from the gate; the extra checks (display, browser) are advisory and
// never fail the report on their own.
func Build(facts probe.Facts) Report {
	verdict := gate.Classify(facts.Snapshot)

	checks := []Check{
		interpreterCheck(facts),
		launchTargetCheck(facts, verdict),
		configCheck(facts),
		displayCheck(facts),
		browserCheck(facts),
	}

	return Report{Checks: checks, Verdict: verdict}
}

// Summary is the worst status across all checks.
func (r Report) Summary() Status {
	worst := Pass
	for _, check := range r.Checks {
		if check.Status > worst {
			worst = check.Status
		}
	}
	return worst
}

func interpreterCheck(facts probe.Facts) Check {
	v := facts.Snapshot.Interpreter
	if facts.PythonPath == "" {
		return Check{
			Name:    "python interpreter",
			Status:  Fail,
			Message: "no working python interpreter found on PATH",
			Fix:     "install Python 3.8 or newer from https://www.python.org/downloads/",
		}
	}
	if v.Before(gate.MinInterpreter) {
		return Check{
			Name:   "python interpreter",
			Status: Fail,
			Message: fmt.Sprintf("%s is Python %s, need %d.%d or newer",
				facts.PythonPath, v, gate.MinInterpreter.Major, gate.MinInterpreter.Minor),
			Fix: "upgrade Python, then re-run: mblaunch doctor",
		}
	}
	return Check{
		Name:    "python interpreter",
		Status:  Pass,
		Message: fmt.Sprintf("%s (Python %s)", facts.PythonPath, v),
	}
}

func launchTargetCheck(facts probe.Facts, verdict gate.Verdict) Check {
	if verdict.Decision == gate.Ready {
		return Check{
			Name:    "launch target",
			Status:  Pass,
			Message: verdict.Target,
		}
	}
	var found string
	for _, name := range facts.Snapshot.Candidates {
		if facts.Snapshot.Present[name] {
			found = name
			break
		}
	}
	if found != "" {
		return Check{Name: "launch target", Status: Pass, Message: found}
	}
	return Check{
		Name:   "launch target",
		Status: Fail,
		Message: fmt.Sprintf("none of %s exist in the app directory",
			strings.Join(facts.Snapshot.Candidates, ", ")),
		Fix: "run the launcher from the assignment checker's directory, or point --dir at it",
	}
}

func configCheck(facts probe.Facts) Check {
	if !facts.ConfigPresent {
		return Check{
			Name:    "credentials",
			Status:  Fail,
			Message: "no credential file found",
			Fix:     "run: mblaunch setup",
		}
	}
	if facts.Snapshot.ConfigValid {
		return Check{Name: "credentials", Status: Pass, Message: "credential file complete"}
	}

	problems := config.Inspect(facts.RawConfig)
	if len(problems) == 0 {
		// The substring gate flagged something the strict parser did
		// not locate per-key, e.g. a placeholder in an unrelated field.
		return Check{
			Name:    "credentials",
			Status:  Fail,
			Message: "credential file still contains a template placeholder",
			Fix:     "run: mblaunch setup",
		}
	}
	parts := make([]string, len(problems))
	for i, p := range problems {
		parts[i] = p.String()
	}
	return Check{
		Name:    "credentials",
		Status:  Fail,
		Message: strings.Join(parts, "; "),
		Fix:     "run: mblaunch setup",
	}
}

func displayCheck(facts probe.Facts) Check {
	if facts.Display {
		return Check{Name: "display", Status: Pass, Message: "graphical session available"}
	}
	return Check{
		Name:    "display",
		Status:  Warn,
		Message: "no graphical session, GUI entry points are skipped",
	}
}

func browserCheck(facts probe.Facts) Check {
	if facts.BrowserPath != "" {
		return Check{Name: "browser", Status: Pass, Message: facts.BrowserPath}
	}
	return Check{
		Name:    "browser",
		Status:  Warn,
		Message: "no Chromium/Chrome found; the checker needs one to scrape ManageBac",
		Fix:     "install Chromium or Google Chrome",
	}
}

// Remediation is the next-step text for a verdict, shown after the
// check list.
func Remediation(verdict gate.Verdict) string {
	switch verdict.Decision {
	case gate.Ready:
		return fmt.Sprintf("Ready. Launch target: %s", verdict.Target)
	case gate.NeedsSetup:
		return "Setup is unfinished. Run: mblaunch setup"
	case gate.VersionTooOld:
		return fmt.Sprintf("Python %d.%d or newer is required.",
			gate.MinInterpreter.Major, gate.MinInterpreter.Minor)
	case gate.NoLaunchTarget:
		return "No launch files found. Run mblaunch inside the assignment checker's directory."
	default:
		return verdict.Decision.String()
	}
}
