package flamegraph_test

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cargokit/cargokit/flamegraph"
)

func TestNewConfigDefaults(t *testing.T) {
	t.Parallel()

	cfg := flamegraph.NewConfig()

	assert.Equal(t, []string{"cargo", "build", "--release", "--bin"}, cfg.Build)
	assert.Equal(t, []string{"perf", "record", "-g", "-o", "perf.data", "--"}, cfg.Sample)
	assert.Equal(t, []string{"perf", "script", "-i", "perf.data"}, cfg.Script)
	assert.Equal(t, []string{"stackcollapse-perf.pl"}, cfg.Collapse)
	assert.Equal(t, []string{"flamegraph.pl"}, cfg.Render)
	assert.Equal(t, "target/release", cfg.BinDir)
	assert.Equal(t, "perf.data", cfg.RawFile)
	assert.Equal(t, "perf.data*", cfg.RawPattern)
	assert.Equal(t, "stacks.folded", cfg.Collapsed)
	assert.Equal(t, "profile.svg", cfg.Output)
}

func TestConfigRegisterFlags(t *testing.T) {
	t.Parallel()

	cfg := flamegraph.NewConfig()
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)

	cfg.RegisterFlags(flags)

	require.NotNil(t, flags.Lookup("output"))
	require.NotNil(t, flags.Lookup("bin-dir"))

	err := flags.Parse([]string{"-o", "out.svg", "--bin-dir=build/release"})
	require.NoError(t, err)
	assert.Equal(t, "out.svg", cfg.Output)
	assert.Equal(t, "build/release", cfg.BinDir)
}

func TestConfigRegisterCompletions(t *testing.T) {
	t.Parallel()

	cfg := flamegraph.NewConfig()
	cmd := &cobra.Command{Use: "test"}

	cfg.RegisterFlags(cmd.Flags())

	err := cfg.RegisterCompletions(cmd)
	require.NoError(t, err)
}

func TestNewPipelineEmptyArgv(t *testing.T) {
	t.Parallel()

	cfg := flamegraph.NewConfig()
	cfg.Collapse = nil

	_, err := cfg.NewPipeline()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "collapse")
}
