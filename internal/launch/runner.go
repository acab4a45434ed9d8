// Package launch runs subprocesses for the launcher: bounded, captured
// probe/selftest commands and the final hand-off to the checker itself.
package launch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Runner executes captured commands with a timeout and output caps.
type Runner struct {
	// Dir is the working directory for every command.
	Dir string

	// Timeout bounds each command; zero means DefaultTimeout.
	Timeout time.Duration

	// MaxOutputBytes caps captured stdout and stderr each; zero means
	// DefaultMaxOutput.
	MaxOutputBytes int64

	Logger *zap.Logger
}

const (
	DefaultTimeout   = 15 * time.Second
	DefaultMaxOutput = 256 * 1024
)

// Result describes one finished (or failed-to-start) command.
type Result struct {
	// RunID correlates the result with its log lines.
	RunID string

	Binary string
	Args   []string

	// ExitCode is -1 when the process never ran.
	ExitCode int
	Stdout   string
	Stderr   string

	// TimedOut is set when the deadline killed the process.
	TimedOut bool

	// Truncated is set when output hit the cap.
	Truncated bool

	Duration time.Duration
}

// Succeeded reports a clean zero exit.
func (r *Result) Succeeded() bool {
	return r != nil && !r.TimedOut && r.ExitCode == 0
}

// Run executes binary with args, capturing output. The returned error is
// non-nil only when the process could not be started; a non-zero exit or
// a timeout is reported through the Result.
func (r *Runner) Run(ctx context.Context, binary string, args ...string) (*Result, error) {
	timeout := r.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	maxOutput := r.MaxOutputBytes
	if maxOutput <= 0 {
		maxOutput = DefaultMaxOutput
	}

	result := &Result{
		RunID:    uuid.NewString(),
		Binary:   binary,
		Args:     args,
		ExitCode: -1,
	}

	logger := r.Logger.With(
		zap.String("run_id", result.RunID),
		zap.String("binary", binary),
		zap.Strings("args", args))
	logger.Debug("running command")

	execCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(execCtx, binary, args...)
	cmd.Dir = r.Dir

	var stdout, stderr bytes.Buffer
	stdoutCap := &cappedWriter{w: &stdout, max: maxOutput}
	stderrCap := &cappedWriter{w: &stderr, max: maxOutput}
	cmd.Stdout = stdoutCap
	cmd.Stderr = stderrCap

	started := time.Now()
	err := cmd.Run()
	result.Duration = time.Since(started)
	result.Stdout = stdout.String()
	result.Stderr = stderr.String()
	result.Truncated = stdoutCap.truncated || stderrCap.truncated

	switch {
	case err == nil:
		result.ExitCode = 0
	case errors.Is(execCtx.Err(), context.DeadlineExceeded):
		result.TimedOut = true
		logger.Warn("command timed out", zap.Duration("after", timeout))
	default:
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
		} else {
			// Could not start at all (missing binary, permissions).
			logger.Debug("command failed to start", zap.Error(err))
			return result, fmt.Errorf("start %s: %w", binary, err)
		}
	}

	logger.Debug("command finished",
		zap.Int("exit_code", result.ExitCode),
		zap.Bool("timed_out", result.TimedOut),
		zap.Duration("duration", result.Duration))
	return result, nil
}

// cappedWriter discards everything past max while reporting full writes,
// so the child process never sees a short-write error.
type cappedWriter struct {
	w         io.Writer
	max       int64
	written   int64
	truncated bool
}

func (cw *cappedWriter) Write(p []byte) (int, error) {
	n := len(p)
	if cw.written >= cw.max {
		cw.truncated = true
		return n, nil
	}
	remaining := cw.max - cw.written
	if int64(n) > remaining {
		cw.truncated = true
		written, err := cw.w.Write(p[:remaining])
		cw.written += int64(written)
		return n, err
	}
	written, err := cw.w.Write(p)
	cw.written += int64(written)
	return written, err
}
