// Package main provides the CLI entry point for commitgate, a pre-commit
// hook that runs the test and lint suites when staged compiled sources
// change.
//
// Install it as .git/hooks/pre-commit (or call it from there). It exits 0
// when no staged file matches the source patterns; otherwise it runs the
// configured test suite and then the lint suite, exiting with the first
// failing tool's status so git aborts the commit.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/cargokit/cargokit/config"
	"github.com/cargokit/cargokit/gate"
	"github.com/cargokit/cargokit/gitstage"
	"github.com/cargokit/cargokit/log"
	"github.com/cargokit/cargokit/prof"
	"github.com/cargokit/cargokit/toolchain"
	"github.com/cargokit/cargokit/version"
)

func main() {
	logCfg := log.NewConfig()
	gateCfg := gate.NewConfig()
	profCfg := prof.NewConfig()

	var (
		configPath  string
		printSchema bool
	)

	profiler := profCfg.NewProfiler()

	rootCmd := &cobra.Command{
		Use:   "commitgate",
		Short: "Run tests and lints before a commit touching compiled sources",
		Long: `commitgate is meant to run from git's pre-commit hook. When the staged file
set contains no compiled source files it exits immediately with success;
otherwise it runs the test suite and then the lint suite with warnings treated
as errors, aborting the commit on the first failure.`,
		Args:          cobra.NoArgs,
		Version:       version.String(),
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return profiler.Start()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			if printSchema {
				return printConfigSchema(os.Stdout)
			}

			return run(cmd.Context(), logCfg, gateCfg, configPath)
		},
	}

	flags := rootCmd.Flags()
	logCfg.RegisterFlags(flags)
	gateCfg.RegisterFlags(flags)
	profCfg.RegisterFlags(flags)
	flags.StringVar(&configPath, "config", "",
		fmt.Sprintf("config file path (default %s)", config.DefaultPath))
	flags.BoolVar(&printSchema, "print-schema", false,
		"print the config file JSON schema and exit")

	completionErr := errors.Join(
		logCfg.RegisterCompletions(rootCmd),
		gateCfg.RegisterCompletions(rootCmd),
	)
	if completionErr != nil {
		fmt.Fprintf(os.Stderr, "register completions: %v\n", completionErr)
	}

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

func run(ctx context.Context, logCfg *log.Config, gateCfg *gate.Config, configPath string) error {
	handler, err := logCfg.NewHandler(os.Stderr)
	if err != nil {
		return err
	}

	logger := slog.New(handler)

	fileCfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	fileCfg.ApplyGate(gateCfg)

	g, err := gateCfg.NewGate(gate.WithLogger(logger))
	if err != nil {
		return err
	}

	gitRunner, err := gitstage.NewRunner()
	if err != nil {
		return err
	}

	staged, err := gitstage.Files(ctx, gitRunner)
	if err != nil {
		return err
	}

	return g.Evaluate(ctx, staged)
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
