package launch

import (
	"context"
	"fmt"
	"os"
	"os/exec"

	"go.uber.org/zap"
)

// Start hands the terminal to the checker: `<python> <target>` wired to
// the user's stdio, no capture, no timeout. Called only after a Ready
// verdict; the launcher's job ends when the child exits.
func Start(ctx context.Context, logger *zap.Logger, dir, python, target string) error {
	logger.Info("launching checker",
		zap.String("python", python),
		zap.String("target", target),
		zap.String("dir", dir))

	cmd := exec.CommandContext(ctx, python, target)
	cmd.Dir = dir
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%s %s: %w", python, target, err)
	}
	return nil
}
