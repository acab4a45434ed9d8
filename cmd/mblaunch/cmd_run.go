package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"mblaunch/internal/config"
	"mblaunch/internal/gate"
	"mblaunch/internal/launch"
	"mblaunch/internal/probe"
	"mblaunch/internal/report"
	"mblaunch/internal/watch"
)

var (
	waitForConfig bool
	setupOnDemand bool
)

// runCmd probes the environment and launches the checker.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Probe the environment and launch the checker",
	Long: `Collects an environment snapshot (Python runtime, entry-point files,
credential file, display), classifies it, and acts on the verdict:

  ready            launch the selected entry point
  needs-setup      explain, or start setup with --setup, or block with --wait
  version-too-old  print the upgrade hint and exit non-zero
  no-launch-target print the missing-files hint and exit non-zero`,
	RunE: runLaunch,
}

func init() {
	runCmd.Flags().BoolVar(&waitForConfig, "wait", false, "Wait until the credential file becomes valid")
	runCmd.Flags().BoolVar(&setupOnDemand, "setup", false, "Start the setup wizard when credentials are incomplete")
}

func runLaunch(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		<-sigCh
		cancel()
	}()

	dir := resolveDir()
	settings, err := config.LoadSettings(dir)
	if err != nil {
		return err
	}

	collector := probe.New(dir, settings, logger)
	facts := collector.Collect(ctx)
	verdict := gate.Classify(facts.Snapshot)

	if verdict.Decision == gate.NeedsSetup {
		switch {
		case setupOnDemand:
			if err := runSetupFlow(dir, settings); err != nil {
				return err
			}
		case waitForConfig:
			if err := watch.UntilValid(ctx, logger, settings.EnvPath(dir)); err != nil {
				if errors.Is(err, context.Canceled) {
					return fmt.Errorf("cancelled while waiting for credentials")
				}
				return err
			}
		}
		// Re-probe after setup/wait; without either flag the switch
		// below prints the remediation and fails.
		if setupOnDemand || waitForConfig {
			facts = collector.Collect(ctx)
			verdict = gate.Classify(facts.Snapshot)
		}
	}

	if verdict.Decision != gate.Ready {
		fmt.Println(report.Render(report.Build(facts), facts.Interactive))
		return fmt.Errorf("not ready: %s", verdict.Decision)
	}

	return launch.Start(ctx, logger, dir, facts.PythonPath, verdict.Target)
}
