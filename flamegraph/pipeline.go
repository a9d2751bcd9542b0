package flamegraph

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/cargokit/cargokit/toolchain"
)

// Sentinel errors returned by the pipeline.
var (
	ErrNoTarget       = errors.New("no target name")
	ErrBuildFailed    = errors.New("build failed")
	ErrSampleFailed   = errors.New("sampling failed")
	ErrNoTrace        = errors.New("no raw trace produced")
	ErrCollapseFailed = errors.New("stack collapse failed")
	ErrRenderFailed   = errors.New("render failed")
)

// Stage identifies one step of the pipeline.
type Stage string

// Pipeline stages, in execution order.
const (
	StageBuild    Stage = "build"
	StageSample   Stage = "sample"
	StageCollapse Stage = "collapse"
	StageRender   Stage = "render"
	StageCleanup  Stage = "cleanup"
)

// Stages returns all pipeline stages in execution order.
func Stages() []Stage {
	return []Stage{StageBuild, StageSample, StageCollapse, StageRender, StageCleanup}
}

// Status reports the state of a stage to an observer.
type Status int

// Stage states delivered to observers.
const (
	StatusRunning Status = iota
	StatusDone
	StatusFailed
)

// Pipeline produces a flame-graph image for one build target.
//
// Create instances with [Config.NewPipeline].
type Pipeline struct {
	build    toolchain.Runner
	sample   toolchain.Runner
	script   toolchain.Runner
	collapse toolchain.Runner
	render   toolchain.Runner

	logger  *slog.Logger
	observe func(Stage, Status)

	dir        string
	binDir     string
	rawFile    string
	rawPattern string
	collapsed  string
	output     string
}

// Option configures a [Pipeline].
type Option func(*Pipeline)

// WithBuilder replaces the build Runner.
func WithBuilder(r toolchain.Runner) Option {
	return func(p *Pipeline) {
		p.build = r
	}
}

// WithSampler replaces the sampling profiler Runner.
func WithSampler(r toolchain.Runner) Option {
	return func(p *Pipeline) {
		p.sample = r
	}
}

// WithScripter replaces the trace-dump Runner that turns the raw trace into
// text for the collapser.
func WithScripter(r toolchain.Runner) Option {
	return func(p *Pipeline) {
		p.script = r
	}
}

// WithCollapser replaces the stack-collapse Runner.
func WithCollapser(r toolchain.Runner) Option {
	return func(p *Pipeline) {
		p.collapse = r
	}
}

// WithRenderer replaces the flame-graph render Runner.
func WithRenderer(r toolchain.Runner) Option {
	return func(p *Pipeline) {
		p.render = r
	}
}

// WithLogger sets the logger for status lines.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithObserver sets a callback invoked as each stage starts, finishes, or
// fails.
func WithObserver(fn func(Stage, Status)) Option {
	return func(p *Pipeline) {
		p.observe = fn
	}
}

// NewPipeline creates a [Pipeline] from this [Config]. Unless overridden by
// options, every stage is an exec-backed Runner built from the configured
// argv vectors, running in the configured directory.
func (c *Config) NewPipeline(opts ...Option) (*Pipeline, error) {
	p := &Pipeline{
		logger:     slog.Default(),
		observe:    func(Stage, Status) {},
		dir:        c.Dir,
		binDir:     c.BinDir,
		rawFile:    c.RawFile,
		rawPattern: c.RawPattern,
		collapsed:  c.Collapsed,
		output:     c.Output,
	}

	if p.dir == "" {
		p.dir = "."
	}

	for _, opt := range opts {
		opt(p)
	}

	stages := []struct {
		dst  *toolchain.Runner
		name string
		argv []string
	}{
		{&p.build, "build", c.Build},
		{&p.sample, "sample", c.Sample},
		{&p.script, "script", c.Script},
		{&p.collapse, "collapse", c.Collapse},
		{&p.render, "render", c.Render},
	}

	for _, s := range stages {
		if *s.dst != nil {
			continue
		}

		cmd, err := toolchain.New(s.argv, toolchain.WithDir(p.dir))
		if err != nil {
			return nil, fmt.Errorf("creating %s runner: %w", s.name, err)
		}

		*s.dst = cmd
	}

	return p, nil
}

// Check verifies that every exec-backed stage tool can be resolved on PATH.
// Fake Runners injected for tests are skipped.
func (p *Pipeline) Check() error {
	runners := []toolchain.Runner{p.build, p.sample, p.script, p.collapse, p.render}

	for _, r := range runners {
		cmd, ok := r.(interface{ LookPath() error })
		if !ok {
			continue
		}

		err := cmd.LookPath()
		if err != nil {
			return err
		}
	}

	return nil
}

// Profile builds target in release mode, samples its execution, and writes
// the flame graph to the configured output path.
//
// A build failure aborts before any profiling artifact exists. From the
// sampling stage onward, intermediate files are removed on every exit path;
// only the output image and the built binary persist.
func (p *Pipeline) Profile(ctx context.Context, target string) (err error) {
	if target == "" {
		return ErrNoTarget
	}

	err = p.runStage(ctx, StageBuild, func() error {
		p.logger.Info("building release target", "target", target)

		_, buildErr := p.build.Run(ctx, nil, target)
		if buildErr != nil {
			return fmt.Errorf("%w: %w", ErrBuildFailed, buildErr)
		}

		return nil
	})
	if err != nil {
		return err
	}

	// Sampling may create trace files even when it fails, so from here on
	// intermediates are cleaned up regardless of how we exit.
	defer func() {
		cleanupErr := p.cleanup()
		if cleanupErr == nil {
			return
		}

		if err == nil {
			err = cleanupErr
		} else {
			p.logger.Warn("cleanup failed", "error", cleanupErr)
		}
	}()

	err = p.runStage(ctx, StageSample, func() error {
		return p.sampleStage(ctx, target)
	})
	if err != nil {
		return err
	}

	err = p.runStage(ctx, StageCollapse, func() error {
		return p.collapseStage(ctx)
	})
	if err != nil {
		return err
	}

	err = p.runStage(ctx, StageRender, func() error {
		return p.renderStage(ctx)
	})
	if err != nil {
		return err
	}

	p.logger.Info("flame graph written", "path", p.path(p.output))

	return nil
}

// runStage wraps one stage with observer notifications.
func (p *Pipeline) runStage(ctx context.Context, stage Stage, fn func() error) error {
	if ctx.Err() != nil {
		return fmt.Errorf("%s: %w", stage, ctx.Err())
	}

	p.observe(stage, StatusRunning)

	err := fn()
	if err != nil {
		p.observe(stage, StatusFailed)

		return err
	}

	p.observe(stage, StatusDone)

	return nil
}

// sampleStage runs the built binary under the sampling profiler and verifies
// that a raw trace was produced.
func (p *Pipeline) sampleStage(ctx context.Context, target string) error {
	binPath := filepath.Join(p.binDir, target)

	p.logger.Info("sampling execution", "binary", binPath)

	_, err := p.sample.Run(ctx, nil, binPath)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSampleFailed, err)
	}

	_, err = os.Stat(p.path(p.rawFile))
	if err != nil {
		return fmt.Errorf("%w: %s", ErrNoTrace, p.rawFile)
	}

	return nil
}

// collapseStage turns the raw trace into the collapsed stack-count file.
func (p *Pipeline) collapseStage(ctx context.Context) error {
	p.logger.Info("collapsing stack samples")

	trace, err := p.script.Run(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrCollapseFailed, err)
	}

	collapsed, err := p.collapse.Run(ctx, trace)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrCollapseFailed, err)
	}

	err = os.WriteFile(p.path(p.collapsed), collapsed, 0o644)
	if err != nil {
		return fmt.Errorf("%w: writing %s: %w", ErrCollapseFailed, p.collapsed, err)
	}

	return nil
}

// renderStage renders the collapsed file into the output image.
func (p *Pipeline) renderStage(ctx context.Context) error {
	p.logger.Info("rendering flame graph")

	svg, err := p.render.Run(ctx, nil, p.collapsed)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRenderFailed, err)
	}

	err = os.WriteFile(p.path(p.output), svg, 0o644)
	if err != nil {
		return fmt.Errorf("%w: writing %s: %w", ErrRenderFailed, p.output, err)
	}

	return nil
}

// cleanup removes the collapsed intermediate file and any raw trace files
// matching the configured pattern.
func (p *Pipeline) cleanup() error {
	p.observe(StageCleanup, StatusRunning)

	var errs []error

	err := os.Remove(p.path(p.collapsed))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		errs = append(errs, err)
	}

	matches, err := filepath.Glob(p.path(p.rawPattern))
	if err != nil {
		errs = append(errs, err)
	}

	for _, m := range matches {
		err := os.Remove(m)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			errs = append(errs, err)
		}
	}

	joined := errors.Join(errs...)
	if joined != nil {
		p.observe(StageCleanup, StatusFailed)

		return fmt.Errorf("removing intermediates: %w", joined)
	}

	p.observe(StageCleanup, StatusDone)

	return nil
}

// path resolves an artifact name against the working directory.
func (p *Pipeline) path(name string) string {
	return filepath.Join(p.dir, name)
}
