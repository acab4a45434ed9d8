package main

import (
	"context"
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"mblaunch/internal/config"
	"mblaunch/internal/gate"
	"mblaunch/internal/launch"
	"mblaunch/internal/probe"
)

// selftestCmd tries the dependency installers in order, then compiles
// the launch target, and reports which attempts worked.
var selftestCmd = &cobra.Command{
	Use:   "selftest",
	Short: "Install checker dependencies and smoke-test the entry point",
	Long: `Works through the installer fallback chain (python -m pip, pip3, pip)
until one succeeds, then byte-compiles the selected entry point without
running it. Prints every attempt so a broken machine is easy to debug.`,
	RunE: runSelftest,
}

func runSelftest(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	dir := resolveDir()
	settings, err := config.LoadSettings(dir)
	if err != nil {
		return err
	}

	facts := probe.New(dir, settings, logger).Collect(ctx)

	runner := &launch.Runner{Dir: dir, Timeout: timeout, Logger: logger}
	chain := launch.Chain{Runner: runner, Logger: logger}

	fmt.Println("Installing checker dependencies...")
	winner, outcomes := chain.Run(ctx, launch.InstallerStrategies(facts.PythonPath))
	printOutcomes(outcomes)
	if winner < 0 {
		return fmt.Errorf("every installer strategy failed")
	}

	verdict := gate.Classify(facts.Snapshot)
	if verdict.Decision != gate.Ready {
		fmt.Printf("\nSkipping smoke test: %s\n", verdict.Decision)
		return nil
	}

	fmt.Printf("\nSmoke-testing %s...\n", verdict.Target)
	smokeWinner, smokeOutcomes := chain.Run(ctx, []launch.Strategy{
		launch.SmokeTestStrategy(facts.PythonPath, verdict.Target),
	})
	printOutcomes(smokeOutcomes)
	if smokeWinner < 0 {
		return fmt.Errorf("smoke test failed")
	}

	fmt.Println("\nSelf-test passed. Launch with: mblaunch run")
	return nil
}

func printOutcomes(outcomes []launch.Outcome) {
	for _, outcome := range outcomes {
		mark := "✗"
		detail := ""
		switch {
		case outcome.Succeeded():
			mark = "✓"
		case outcome.Err != nil:
			detail = outcome.Err.Error()
		case outcome.Result.TimedOut:
			detail = "timed out"
		default:
			detail = fmt.Sprintf("exit code %d", outcome.Result.ExitCode)
			if stderr := strings.TrimSpace(outcome.Result.Stderr); stderr != "" {
				lines := strings.Split(stderr, "\n")
				detail += ": " + lines[len(lines)-1]
			}
		}
		if detail != "" {
			detail = " (" + detail + ")"
		}
		fmt.Printf("  %s %s%s\n", mark, outcome.Strategy.Name, detail)
	}
}
