package launch

import (
	"context"

	"go.uber.org/zap"
)

// Strategy is one way to accomplish a step (install dependencies, smoke
// test an entry point). Strategies in a chain are interchangeable; the
// first one that succeeds wins.
type Strategy struct {
	Name   string
	Binary string
	Args   []string
}

// Outcome records one attempted strategy.
type Outcome struct {
	Strategy Strategy
	Result   *Result
	Err      error
}

// Succeeded reports whether the attempt worked end to end.
func (o Outcome) Succeeded() bool {
	return o.Err == nil && o.Result.Succeeded()
}

// Chain tries strategies in order until one succeeds.
type Chain struct {
	Runner *Runner
	Logger *zap.Logger
}

// Run attempts each strategy in order. It returns the index of the
// winner (-1 when all failed) and every outcome for reporting.
func (c Chain) Run(ctx context.Context, strategies []Strategy) (winner int, outcomes []Outcome) {
	winner = -1
	for i, strategy := range strategies {
		if ctx.Err() != nil {
			break
		}
		result, err := c.Runner.Run(ctx, strategy.Binary, strategy.Args...)
		outcome := Outcome{Strategy: strategy, Result: result, Err: err}
		outcomes = append(outcomes, outcome)

		if outcome.Succeeded() {
			c.Logger.Info("strategy succeeded", zap.String("strategy", strategy.Name))
			winner = i
			break
		}
		c.Logger.Debug("strategy failed, trying next",
			zap.String("strategy", strategy.Name),
			zap.Error(err))
	}
	return winner, outcomes
}

// InstallerStrategies is the dependency-install fallback chain: the
// module-style pip invocation first, then the standalone binaries.
func InstallerStrategies(python string) []Strategy {
	strategies := []Strategy{}
	if python != "" {
		strategies = append(strategies, Strategy{
			Name:   "python -m pip",
			Binary: python,
			Args:   []string{"-m", "pip", "install", "-r", "requirements.txt"},
		})
	}
	strategies = append(strategies,
		Strategy{
			Name:   "pip3",
			Binary: "pip3",
			Args:   []string{"install", "-r", "requirements.txt"},
		},
		Strategy{
			Name:   "pip",
			Binary: "pip",
			Args:   []string{"install", "-r", "requirements.txt"},
		},
	)
	return strategies
}

// SmokeTestStrategy compiles the launch target without running it, which
// catches syntax errors and a wrong interpreter before the real launch.
func SmokeTestStrategy(python, target string) Strategy {
	return Strategy{
		Name:   "compile " + target,
		Binary: python,
		Args:   []string{"-m", "py_compile", target},
	}
}
