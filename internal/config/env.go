// Package config handles the two configuration surfaces of the launcher:
// the assignment checker's .env credential file and the launcher's own
// settings.yaml. The .env validity check feeds the readiness gate; the
// strict parser exists only for diagnostics and the setup flow.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// RequiredKeys must all be present in the credential file before the
// checker can log in.
var RequiredKeys = []string{
	"MANAGEBAC_URL",
	"MANAGEBAC_EMAIL",
	"MANAGEBAC_PASSWORD",
}

// Placeholders are the example values shipped in the template. Any of
// them appearing anywhere in the document means setup never finished.
var Placeholders = []string{
	"your.email@example.com",
	"your_password",
	"your-school.managebac.cn",
}

// Validate reports whether the raw document is complete: every required
// key appears as the literal substring "KEY=" and no placeholder value
// appears anywhere in the text.
//
// This is intentionally a substring check, not a parse. A key name inside
// a comment followed by "=" satisfies it, and a placeholder in an
// unrelated field still fails the whole document. The conservative
// whole-document placeholder scan is the point: any leftover template
// value means the user is not done. Inspect provides the strict per-key
// view for diagnostics.
func Validate(raw string) bool {
	for _, key := range RequiredKeys {
		if !strings.Contains(raw, key+"=") {
			return false
		}
	}
	for _, placeholder := range Placeholders {
		if strings.Contains(raw, placeholder) {
			return false
		}
	}
	return true
}

// Load reads the credential file. Absent or unreadable files come back
// as ok=false rather than an error: the gate treats every read failure
// as "configuration invalid".
func Load(path string) (raw string, ok bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", false
	}
	return string(data), true
}

// ProblemKind classifies a per-key finding from Inspect.
type ProblemKind int

const (
	ProblemMissing ProblemKind = iota
	ProblemEmpty
	ProblemPlaceholder
)

func (k ProblemKind) String() string {
	switch k {
	case ProblemMissing:
		return "missing"
	case ProblemEmpty:
		return "empty"
	case ProblemPlaceholder:
		return "placeholder"
	default:
		return fmt.Sprintf("problem(%d)", int(k))
	}
}

// Problem describes why a required key is not usable.
type Problem struct {
	Key  string
	Kind ProblemKind
}

func (p Problem) String() string {
	return fmt.Sprintf("%s: %s", p.Key, p.Kind)
}

// Values parses the document strictly via godotenv. Unparseable input
// yields an empty map; comments and malformed lines are skipped.
func Values(raw string) map[string]string {
	values, err := godotenv.Unmarshal(raw)
	if err != nil {
		return map[string]string{}
	}
	return values
}

// Inspect reports one finding per broken required key, in RequiredKeys
// order, using the strict parse. It is the diagnostic companion to
// Validate and does not influence the gate verdict.
func Inspect(raw string) []Problem {
	values := Values(raw)

	var problems []Problem
	for _, key := range RequiredKeys {
		value, present := values[key]
		switch {
		case !present:
			problems = append(problems, Problem{Key: key, Kind: ProblemMissing})
		case strings.TrimSpace(value) == "":
			problems = append(problems, Problem{Key: key, Kind: ProblemEmpty})
		case IsPlaceholder(value):
			problems = append(problems, Problem{Key: key, Kind: ProblemPlaceholder})
		}
	}
	return problems
}

// IsPlaceholder reports whether a single value still carries a template
// sentinel.
func IsPlaceholder(value string) bool {
	for _, placeholder := range Placeholders {
		if strings.Contains(value, placeholder) {
			return true
		}
	}
	return false
}

// envTemplate is the commented starter file written by "mblaunch setup
// --template". It deliberately fails Validate until the user replaces
// the placeholder values.
const envTemplate = `# ManageBac assignment checker credentials.
# Replace every example value, then re-run: mblaunch doctor
MANAGEBAC_URL=https://your-school.managebac.cn
MANAGEBAC_EMAIL=your.email@example.com
MANAGEBAC_PASSWORD=your_password

# Optional extras understood by the checker (ignored by the launcher):
# AI_ASSIST_ENABLED=false
# OPENAI_API_KEY=
`

// WriteTemplate writes the commented starter file. It refuses to
// clobber an existing file.
func WriteTemplate(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists, refusing to overwrite", path)
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if err := os.WriteFile(path, []byte(envTemplate), 0o600); err != nil {
		return fmt.Errorf("write template: %w", err)
	}
	return nil
}

// Save writes completed setup values as the credential file. Values are
// checked for placeholders first so setup can never persist an invalid
// document.
func Save(path string, values map[string]string) error {
	for _, key := range RequiredKeys {
		value, present := values[key]
		if !present || strings.TrimSpace(value) == "" {
			return fmt.Errorf("refusing to save: %s is empty", key)
		}
		if IsPlaceholder(value) {
			return fmt.Errorf("refusing to save: %s still has a placeholder value", key)
		}
	}
	if err := godotenv.Write(values, path); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	// godotenv.Write creates world-readable files; credentials should
	// not be.
	if err := os.Chmod(path, 0o600); err != nil {
		return fmt.Errorf("chmod %s: %w", path, err)
	}
	return nil
}
