package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"mblaunch/internal/config"
	"mblaunch/internal/probe"
	"mblaunch/internal/report"
)

// doctorCmd prints the readiness report without launching anything.
var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check whether this machine can run the checker",
	Long: `Runs every readiness probe and prints the findings with fix hints.
The exit code is non-zero when any check fails, so the command works in
scripts too.`,
	RunE: runDoctor,
}

func runDoctor(cmd *cobra.Command, args []string) error {
	dir := resolveDir()
	settings, err := config.LoadSettings(dir)
	if err != nil {
		return err
	}

	facts := probe.New(dir, settings, logger).Collect(context.Background())
	result := report.Build(facts)

	fmt.Print(report.Render(result, facts.Interactive))

	if result.Summary() == report.Fail {
		return fmt.Errorf("readiness check failed")
	}
	return nil
}
