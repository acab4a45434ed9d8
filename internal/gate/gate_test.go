package gate

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func snapshot(v Version, valid bool, present ...string) Snapshot {
	onDisk := make(map[string]bool, len(present))
	for _, name := range present {
		onDisk[name] = true
	}
	return Snapshot{
		Interpreter: v,
		Candidates:  []string{"gui.py", "main.py", "run.py"},
		Present:     onDisk,
		ConfigValid: valid,
	}
}

func TestClassifyVersionFloor(t *testing.T) {
	cases := []struct {
		name string
		v    Version
		want Decision
	}{
		{"major too old", Version{Major: 2, Minor: 7, Patch: 18}, VersionTooOld},
		{"minor too old", Version{Major: 3, Minor: 7}, VersionTooOld},
		{"zero value (no interpreter)", Version{}, VersionTooOld},
		{"exact floor", Version{Major: 3, Minor: 8}, Ready},
		{"newer minor", Version{Major: 3, Minor: 12, Patch: 1}, Ready},
		{"newer major", Version{Major: 4, Minor: 0}, Ready},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Classify(snapshot(tc.v, true, "main.py"))
			if got.Decision != tc.want {
				t.Fatalf("Classify(%s) = %s, want %s", tc.v, got.Decision, tc.want)
			}
		})
	}
}

func TestClassifyVersionCheckedFirst(t *testing.T) {
	// A too-old interpreter wins even when everything else is broken too.
	snap := Snapshot{Interpreter: Version{Major: 3, Minor: 7}}
	if got := Classify(snap); got.Decision != VersionTooOld {
		t.Fatalf("expected version-too-old, got %s", got.Decision)
	}
}

func TestClassifyNoLaunchTarget(t *testing.T) {
	v := Version{Major: 3, Minor: 11}

	if got := Classify(snapshot(v, true)); got.Decision != NoLaunchTarget {
		t.Fatalf("no files on disk: got %s", got.Decision)
	}

	// Empty candidate list behaves the same as nothing found.
	snap := Snapshot{Interpreter: v, ConfigValid: true}
	if got := Classify(snap); got.Decision != NoLaunchTarget {
		t.Fatalf("empty candidates: got %s", got.Decision)
	}

	// A file on disk that is not a candidate does not count.
	snap = snapshot(v, true)
	snap.Present["other.py"] = true
	if got := Classify(snap); got.Decision != NoLaunchTarget {
		t.Fatalf("non-candidate file: got %s", got.Decision)
	}
}

func TestClassifyNeedsSetup(t *testing.T) {
	got := Classify(snapshot(Version{Major: 3, Minor: 10}, false, "main.py"))
	want := Verdict{Decision: NeedsSetup}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("verdict mismatch (-want +got):\n%s", diff)
	}
}

func TestClassifyPriorityOrder(t *testing.T) {
	// The first existing candidate in priority order is selected, not
	// the first name in the on-disk set.
	got := Classify(snapshot(Version{Major: 3, Minor: 9}, true, "run.py", "main.py"))
	want := Verdict{Decision: Ready, Target: "main.py"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("verdict mismatch (-want +got):\n%s", diff)
	}
}

func TestClassifyReady(t *testing.T) {
	got := Classify(snapshot(Version{Major: 3, Minor: 8}, true, "gui.py", "main.py"))
	if got.Decision != Ready || got.Target != "gui.py" {
		t.Fatalf("got %s/%q, want ready/gui.py", got.Decision, got.Target)
	}
}

func TestClassifyDeterministic(t *testing.T) {
	snap := snapshot(Version{Major: 3, Minor: 9}, true, "main.py")
	first := Classify(snap)
	for i := 0; i < 10; i++ {
		if got := Classify(snap); got != first {
			t.Fatalf("classification changed on call %d: %+v vs %+v", i, got, first)
		}
	}
}

func TestDecisionString(t *testing.T) {
	if Ready.String() != "ready" || NeedsSetup.String() != "needs-setup" {
		t.Fatalf("unexpected decision strings: %s %s", Ready, NeedsSetup)
	}
}
