// Package gate decides whether the assignment checker is safe to launch.
//
// The gate is a pure classifier: it takes a snapshot of the environment
// that the caller already gathered (interpreter version, launch file
// candidates, configuration validity) and returns a verdict. It performs
// no I/O, never starts a process, and never prompts the user. Collecting
// the snapshot lives in internal/probe; acting on the verdict lives in
// the CLI layer.
package gate

import "fmt"

// MinInterpreter is the oldest Python runtime the checker scripts support.
var MinInterpreter = Version{Major: 3, Minor: 8}

// Version identifies the interpreter that will execute the launch target.
type Version struct {
	Major int
	Minor int
	Patch int
}

// Before reports whether v is older than min. Patch is ignored: the
// support floor is defined on major.minor only.
func (v Version) Before(min Version) bool {
	if v.Major != min.Major {
		return v.Major < min.Major
	}
	return v.Minor < min.Minor
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Decision is the action the caller should take next.
type Decision int

const (
	// Ready means the selected launch target can be started directly.
	Ready Decision = iota
	// NeedsSetup means the configuration is missing or still carries
	// template placeholder values; the caller should run the setup flow.
	NeedsSetup
	// VersionTooOld means the interpreter is below the support floor.
	VersionTooOld
	// NoLaunchTarget means none of the candidate entry points exist.
	NoLaunchTarget
)

func (d Decision) String() string {
	switch d {
	case Ready:
		return "ready"
	case NeedsSetup:
		return "needs-setup"
	case VersionTooOld:
		return "version-too-old"
	case NoLaunchTarget:
		return "no-launch-target"
	default:
		return fmt.Sprintf("decision(%d)", int(d))
	}
}

// Snapshot is the environment state the gate classifies. It is computed
// fresh on every invocation and never persisted. Any failure while
// gathering a field must be mapped by the caller to "absent/invalid"
// (zero Version, missing Present entry, ConfigValid=false), never passed
// in as an error.
type Snapshot struct {
	// Interpreter is the resolved Python runtime version. The zero
	// value classifies as VersionTooOld, which is the intended mapping
	// for "no interpreter found".
	Interpreter Version

	// Candidates lists launch-file names in priority order.
	Candidates []string

	// Present records which candidates exist on disk.
	Present map[string]bool

	// ConfigValid is the configuration document's validity as computed
	// by config.Validate (or false when the file is absent).
	ConfigValid bool
}

// Verdict is the gate's classification. Target is set only for Ready.
type Verdict struct {
	Decision Decision
	Target   string
}

// Classify maps a snapshot to a verdict. First match wins:
//
//  1. interpreter below the floor -> VersionTooOld. Checked before
//     everything else; a too-old runtime makes later checks unreliable.
//  2. no candidate exists on disk -> NoLaunchTarget.
//  3. configuration invalid -> NeedsSetup.
//  4. otherwise Ready with the first existing candidate.
func Classify(snap Snapshot) Verdict {
	if snap.Interpreter.Before(MinInterpreter) {
		return Verdict{Decision: VersionTooOld}
	}

	target := ""
	for _, name := range snap.Candidates {
		if snap.Present[name] {
			target = name
			break
		}
	}
	if target == "" {
		return Verdict{Decision: NoLaunchTarget}
	}

	if !snap.ConfigValid {
		return Verdict{Decision: NeedsSetup}
	}

	return Verdict{Decision: Ready, Target: target}
}
