package gate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/gobwas/glob"

	"github.com/cargokit/cargokit/toolchain"
)

// Sentinel errors returned by the gate.
var (
	ErrBadPattern  = errors.New("invalid source pattern")
	ErrTestsFailed = errors.New("tests failed")
	ErrLintFailed  = errors.New("lint failed")
)

// Gate decides whether a commit may proceed.
//
// Create instances with [Config.NewGate].
type Gate struct {
	tests    toolchain.Runner
	lint     toolchain.Runner
	logger   *slog.Logger
	patterns []glob.Glob
}

// Option configures a [Gate].
type Option func(*Gate)

// WithTestRunner replaces the test suite Runner.
func WithTestRunner(r toolchain.Runner) Option {
	return func(g *Gate) {
		g.tests = r
	}
}

// WithLinter replaces the lint Runner.
func WithLinter(r toolchain.Runner) Option {
	return func(g *Gate) {
		g.lint = r
	}
}

// WithLogger sets the logger for status lines.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Gate) {
		g.logger = logger
	}
}

// NewGate creates a [Gate] from this [Config]. Unless overridden by options,
// the test and lint tools are exec-backed Runners built from the configured
// argv vectors.
func (c *Config) NewGate(opts ...Option) (*Gate, error) {
	g := &Gate{
		logger: slog.Default(),
	}

	for _, p := range c.SourcePatterns {
		compiled, err := glob.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %w", ErrBadPattern, p, err)
		}

		g.patterns = append(g.patterns, compiled)
	}

	for _, opt := range opts {
		opt(g)
	}

	if g.tests == nil {
		cmd, err := toolchain.New(c.Test)
		if err != nil {
			return nil, fmt.Errorf("creating test runner: %w", err)
		}

		g.tests = cmd
	}

	if g.lint == nil {
		cmd, err := toolchain.New(c.Lint)
		if err != nil {
			return nil, fmt.Errorf("creating linter: %w", err)
		}

		g.lint = cmd
	}

	return g, nil
}

// Evaluate runs the gate against the given staged paths.
//
// When no path matches a source pattern it returns nil without invoking any
// tool. Otherwise the test suite runs first and, only on success, the lint
// suite. The first failure is returned immediately with the tool's exit code
// preserved in the error chain.
func (g *Gate) Evaluate(ctx context.Context, staged []string) error {
	matched := g.filter(staged)
	if len(matched) == 0 {
		g.logger.Info("no staged source files, nothing to do")

		return nil
	}

	g.logger.Info("staged source files detected",
		"count", len(matched),
		"first", matched[0],
	)

	g.logger.Info("running test suite")

	_, err := g.tests.Run(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrTestsFailed, err)
	}

	g.logger.Info("running lint suite")

	_, err = g.lint.Run(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrLintFailed, err)
	}

	g.logger.Info("all checks passed")

	return nil
}

// filter returns the staged paths matching any source pattern, preserving
// order.
func (g *Gate) filter(staged []string) []string {
	var matched []string

	for _, path := range staged {
		for _, p := range g.patterns {
			if p.Match(path) {
				matched = append(matched, path)

				break
			}
		}
	}

	return matched
}
