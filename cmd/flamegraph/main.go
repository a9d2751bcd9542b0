// Package main provides the CLI entry point for flamegraph, which builds a
// release binary, samples it under perf, and renders a flame-graph image.
//
// # Usage
//
//	flamegraph [flags] <target>
//
// The target must name a buildable binary target. On success the working
// directory contains profile.svg and no intermediate files. When standard
// output is a terminal a live stage view is shown; pass --no-tui (or
// redirect output) for plain logs.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	tea "charm.land/bubbletea/v2"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/cargokit/cargokit/config"
	"github.com/cargokit/cargokit/flamegraph"
	"github.com/cargokit/cargokit/log"
	"github.com/cargokit/cargokit/prof"
	"github.com/cargokit/cargokit/toolchain"
	"github.com/cargokit/cargokit/tui"
	"github.com/cargokit/cargokit/version"
)

var errAborted = errors.New("aborted")

func main() {
	rootCmd, profiler := newRootCmd()

	err := rootCmd.Execute()

	stopErr := profiler.Stop()
	if stopErr != nil {
		fmt.Fprintf(os.Stderr, "stop profiler: %v\n", stopErr)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(toolchain.ExitCode(err))
	}
}

func newRootCmd() (*cobra.Command, *prof.Profiler) {
	logCfg := log.NewConfig()
	pipeCfg := flamegraph.NewConfig()
	profCfg := prof.NewConfig()

	var (
		configPath  string
		printSchema bool
		noTUI       bool
	)

	profiler := profCfg.NewProfiler()

	rootCmd := &cobra.Command{
		Use:   "flamegraph [flags] <target>",
		Short: "Render a flame graph of a release binary's execution",
		Long: `flamegraph builds the named target in release mode, runs it to completion
under a sampling profiler, and renders the collected call stacks into a
flame-graph image. Intermediate files are removed on every exit path; only
the image and the built binary remain.`,
		Args:          cobra.MaximumNArgs(1),
		Version:       version.String(),
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return profiler.Start()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if printSchema {
				return printConfigSchema(cmd.OutOrStdout())
			}

			if len(args) != 1 {
				return fmt.Errorf("%w: expected exactly one target argument", flamegraph.ErrNoTarget)
			}

			return run(cmd.Context(), logCfg, pipeCfg, configPath, args[0], noTUI)
		},
	}

	flags := rootCmd.Flags()
	logCfg.RegisterFlags(flags)
	pipeCfg.RegisterFlags(flags)
	profCfg.RegisterFlags(flags)
	flags.StringVar(&configPath, "config", "",
		fmt.Sprintf("config file path (default %s)", config.DefaultPath))
	flags.BoolVar(&printSchema, "print-schema", false,
		"print the config file JSON schema and exit")
	flags.BoolVar(&noTUI, "no-tui", false,
		"disable the live stage view")

	completionErr := errors.Join(
		logCfg.RegisterCompletions(rootCmd),
		pipeCfg.RegisterCompletions(rootCmd),
	)
	if completionErr != nil {
		fmt.Fprintf(os.Stderr, "register completions: %v\n", completionErr)
	}

	return rootCmd, profiler
}

func run(ctx context.Context, logCfg *log.Config, pipeCfg *flamegraph.Config, configPath, target string, noTUI bool) error {
	fileCfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	fileCfg.ApplyProfile(pipeCfg)

	if noTUI || !term.IsTerminal(int(os.Stdout.Fd())) {
		return runPlain(ctx, logCfg, pipeCfg, target)
	}

	return runTUI(ctx, logCfg, pipeCfg, target)
}

// runPlain executes the pipeline with structured logs on stderr.
func runPlain(ctx context.Context, logCfg *log.Config, pipeCfg *flamegraph.Config, target string) error {
	handler, err := logCfg.NewHandler(os.Stderr)
	if err != nil {
		return err
	}

	p, err := pipeCfg.NewPipeline(flamegraph.WithLogger(slog.New(handler)))
	if err != nil {
		return err
	}

	err = p.Check()
	if err != nil {
		return err
	}

	return p.Profile(ctx, target)
}

// runTUI executes the pipeline behind a live stage view, with log output
// fanned into the view's tail.
func runTUI(ctx context.Context, logCfg *log.Config, pipeCfg *flamegraph.Config, target string) error {
	pub := log.NewPublisher()

	handler, err := logCfg.NewHandler(pub)
	if err != nil {
		return err
	}

	model := tui.New(target, pub.Subscribe())
	prog := tea.NewProgram(model)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p, err := pipeCfg.NewPipeline(
		flamegraph.WithLogger(slog.New(handler)),
		flamegraph.WithObserver(func(stage flamegraph.Stage, status flamegraph.Status) {
			prog.Send(tui.StageMsg{Stage: stage, Status: status})
		}),
	)
	if err != nil {
		return err
	}

	err = p.Check()
	if err != nil {
		return err
	}

	done := make(chan error, 1)

	go func() {
		profileErr := p.Profile(ctx, target)
		done <- profileErr
		prog.Send(tui.DoneMsg{Err: profileErr})
	}()

	finalModel, runErr := prog.Run()

	// Quitting the view cancels the pipeline's child processes.
	cancel()

	profileErr := <-done

	closeErr := pub.Close()
	if closeErr != nil {
		fmt.Fprintf(os.Stderr, "close log publisher: %v\n", closeErr)
	}

	if runErr != nil {
		return runErr
	}

	if m, ok := finalModel.(*tui.Model); ok && m.Aborted() {
		return errAborted
	}

	return profileErr
}

func loadConfig(path string) (*config.File, error) {
	if path == "" {
		return config.LoadIfPresent(config.DefaultPath)
	}

	return config.Load(path)
}

func printConfigSchema(w io.Writer) error {
	schema, err := config.Schema()
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling schema: %w", err)
	}

	out = append(out, '\n')

	_, err = w.Write(out)
	if err != nil {
		return fmt.Errorf("writing schema: %w", err)
	}

	return nil
}
