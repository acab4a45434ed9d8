package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"mblaunch/cmd/mblaunch/ui"
	"mblaunch/internal/config"
)

var templateOnly bool

// setupCmd collects credentials and writes the .env file.
var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Create the credential file interactively",
	Long: `Prompts for the ManageBac URL, login email and password, validates
them against the known template placeholders, and writes the .env file
the checker reads. On a terminal this is a small form; when stdin is a
pipe it falls back to plain line prompts.

Use --template to only write the commented starter file instead.`,
	RunE: runSetup,
}

func init() {
	setupCmd.Flags().BoolVar(&templateOnly, "template", false, "Write the commented template and exit")
}

func runSetup(cmd *cobra.Command, args []string) error {
	dir := resolveDir()
	settings, err := config.LoadSettings(dir)
	if err != nil {
		return err
	}
	envPath := settings.EnvPath(dir)

	if templateOnly {
		if err := config.WriteTemplate(envPath); err != nil {
			return err
		}
		fmt.Printf("Template written to %s — edit it, then run: mblaunch doctor\n", envPath)
		return nil
	}

	return runSetupFlow(dir, settings)
}

// runSetupFlow drives the wizard (or plain prompts) and saves the
// result. Also used by "run --setup".
func runSetupFlow(dir string, settings config.Settings) error {
	envPath := settings.EnvPath(dir)

	// Prefill from whatever is already there; placeholders are dropped
	// by the wizard itself.
	existing := map[string]string{}
	if raw, ok := config.Load(envPath); ok {
		existing = config.Values(raw)
	}

	var values map[string]string
	if term.IsTerminal(int(os.Stdin.Fd())) {
		wizardValues, ok, err := ui.RunSetup(existing)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("setup cancelled")
		}
		values = wizardValues
	} else {
		promptValues, err := promptCredentials(bufio.NewReader(os.Stdin), os.Stdout, existing)
		if err != nil {
			return err
		}
		values = promptValues
	}

	// Keep optional keys the checker understands (AI toggles etc.)
	// that setup does not ask about.
	for key, value := range existing {
		if _, asked := values[key]; !asked {
			values[key] = value
		}
	}

	if err := config.Save(envPath, values); err != nil {
		return err
	}
	fmt.Printf("Credentials saved to %s\n", envPath)
	fmt.Println("Verify with: mblaunch doctor")
	return nil
}

// promptCredentials is the non-TTY fallback: one line per field,
// re-asking until the value validates.
func promptCredentials(reader *bufio.Reader, out io.Writer, existing map[string]string) (map[string]string, error) {
	prompts := []struct {
		key      string
		label    string
		validate func(string) error
	}{
		{"MANAGEBAC_URL", "ManageBac URL", ui.ValidateURL},
		{"MANAGEBAC_EMAIL", "Login email", ui.ValidateEmail},
		{"MANAGEBAC_PASSWORD", "Password", ui.ValidatePassword},
	}

	values := make(map[string]string, len(prompts))
	for _, p := range prompts {
		current := existing[p.key]
		if config.IsPlaceholder(current) {
			current = ""
		}
		for {
			if current != "" {
				fmt.Fprintf(out, "%s [%s]: ", p.label, current)
			} else {
				fmt.Fprintf(out, "%s: ", p.label)
			}
			line, err := reader.ReadString('\n')
			if err != nil && line == "" {
				return nil, fmt.Errorf("read input: %w", err)
			}
			value := strings.TrimRight(line, "\r\n")
			if value == "" {
				value = current
			}
			if verr := p.validate(value); verr != nil {
				fmt.Fprintf(out, "  %v\n", verr)
				continue
			}
			values[p.key] = value
			break
		}
	}
	return values, nil
}
