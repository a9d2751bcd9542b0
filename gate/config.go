package gate

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Flags holds CLI flag names for gate configuration, allowing callers to
// customize flag names while keeping sensible defaults via [NewConfig].
type Flags struct {
	SourcePatterns string
}

// Config holds gate configuration: the glob patterns identifying compiled
// source files and the argv vectors for the test and lint tools.
//
// Create instances with [NewConfig] and register CLI flags with
// [Config.RegisterFlags]. Use [Config.NewGate] to create a [Gate].
type Config struct {
	Flags          Flags
	SourcePatterns []string
	Test           []string
	Lint           []string
}

// NewConfig returns a new [Config] with default flag names and the default
// Cargo toolchain: cargo test, then cargo clippy with warnings as errors.
func NewConfig() *Config {
	f := Flags{
		SourcePatterns: "source-pattern",
	}

	return &Config{
		Flags:          f,
		SourcePatterns: []string{"*.rs"},
		Test:           []string{"cargo", "test"},
		Lint:           []string{"cargo", "clippy", "--", "-D", "warnings"},
	}
}

// RegisterFlags adds gate flags to the given [*pflag.FlagSet].
func (c *Config) RegisterFlags(flags *pflag.FlagSet) {
	flags.StringSliceVar(&c.SourcePatterns, c.Flags.SourcePatterns, c.SourcePatterns,
		"glob patterns identifying compiled source files")
}

// RegisterCompletions registers shell completions for gate flags on cmd.
func (c *Config) RegisterCompletions(cmd *cobra.Command) error {
	err := cmd.RegisterFlagCompletionFunc(c.Flags.SourcePatterns,
		cobra.NoFileCompletions)
	if err != nil {
		return fmt.Errorf("registering %s completion: %w", c.Flags.SourcePatterns, err)
	}

	return nil
}
