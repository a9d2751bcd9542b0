package flamegraph

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Flags holds CLI flag names for pipeline configuration, allowing callers to
// customize flag names while keeping sensible defaults via [NewConfig].
type Flags struct {
	Output string
	BinDir string
}

// Config holds pipeline configuration: the argv vectors for each stage's tool
// and the artifact names passed between stages.
//
// Create instances with [NewConfig] and register CLI flags with
// [Config.RegisterFlags]. Use [Config.NewPipeline] to create a [Pipeline].
type Config struct {
	Flags Flags

	// Tool argv vectors. The build argv receives the target name appended;
	// the sample argv receives the built binary path appended; the render
	// argv receives the collapsed file path appended.
	Build    []string
	Sample   []string
	Script   []string
	Collapse []string
	Render   []string

	// Artifact locations, relative to Dir.
	Dir        string
	BinDir     string
	RawFile    string
	RawPattern string
	Collapsed  string
	Output     string
}

// NewConfig returns a new [Config] with default flag names and the default
// cargo + perf + FlameGraph toolchain.
func NewConfig() *Config {
	f := Flags{
		Output: "output",
		BinDir: "bin-dir",
	}

	return &Config{
		Flags:      f,
		Build:      []string{"cargo", "build", "--release", "--bin"},
		Sample:     []string{"perf", "record", "-g", "-o", "perf.data", "--"},
		Script:     []string{"perf", "script", "-i", "perf.data"},
		Collapse:   []string{"stackcollapse-perf.pl"},
		Render:     []string{"flamegraph.pl"},
		Dir:        ".",
		BinDir:     "target/release",
		RawFile:    "perf.data",
		RawPattern: "perf.data*",
		Collapsed:  "stacks.folded",
		Output:     "profile.svg",
	}
}

// RegisterFlags adds pipeline flags to the given [*pflag.FlagSet].
func (c *Config) RegisterFlags(flags *pflag.FlagSet) {
	flags.StringVarP(&c.Output, c.Flags.Output, "o", c.Output,
		"flame graph output path")
	flags.StringVar(&c.BinDir, c.Flags.BinDir, c.BinDir,
		"directory containing release binaries")
}

// RegisterCompletions registers shell completions for pipeline flags on cmd.
func (c *Config) RegisterCompletions(cmd *cobra.Command) error {
	err := cmd.RegisterFlagCompletionFunc(c.Flags.Output,
		cobra.FixedCompletions([]string{"svg"}, cobra.ShellCompDirectiveFilterFileExt))
	if err != nil {
		return fmt.Errorf("registering %s completion: %w", c.Flags.Output, err)
	}

	err = cmd.RegisterFlagCompletionFunc(c.Flags.BinDir,
		cobra.FixedCompletions(nil, cobra.ShellCompDirectiveFilterDirs))
	if err != nil {
		return fmt.Errorf("registering %s completion: %w", c.Flags.BinDir, err)
	}

	return nil
}
