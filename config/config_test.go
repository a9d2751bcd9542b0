package config_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cargokit/cargokit/config"
	"github.com/cargokit/cargokit/flamegraph"
	"github.com/cargokit/cargokit/gate"
	"github.com/cargokit/cargokit/stringtest"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), ".cargokit.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return path
}

func TestLoad(t *testing.T) {
	t.Parallel()

	content := stringtest.Lines(
		"gate:",
		"  source_patterns:",
		"    - '*.rs'",
		"    - '*.c'",
		"  test: [cargo, nextest, run]",
		"profile:",
		"  output: flame.svg",
		"  bin_dir: build/release",
	)

	f, err := config.Load(writeConfig(t, content))
	require.NoError(t, err)

	assert.Equal(t, []string{"*.rs", "*.c"}, f.Gate.SourcePatterns)
	assert.Equal(t, []string{"cargo", "nextest", "run"}, f.Gate.Test)
	assert.Empty(t, f.Gate.Lint)
	assert.Equal(t, "flame.svg", f.Profile.Output)
	assert.Equal(t, "build/release", f.Profile.BinDir)
}

func TestLoadErrors(t *testing.T) {
	t.Parallel()

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
		require.ErrorIs(t, err, config.ErrReadConfig)
	})

	t.Run("unknown field", func(t *testing.T) {
		t.Parallel()

		_, err := config.Load(writeConfig(t, "gate:\n  tset: [cargo, test]\n"))
		require.ErrorIs(t, err, config.ErrParseConfig)
	})

	t.Run("invalid yaml", func(t *testing.T) {
		t.Parallel()

		_, err := config.Load(writeConfig(t, "gate: [unclosed\n"))
		require.ErrorIs(t, err, config.ErrParseConfig)
	})
}

func TestLoadIfPresent(t *testing.T) {
	t.Parallel()

	t.Run("missing file yields empty config", func(t *testing.T) {
		t.Parallel()

		f, err := config.LoadIfPresent(filepath.Join(t.TempDir(), config.DefaultPath))
		require.NoError(t, err)
		assert.Empty(t, f.Gate.Test)
		assert.Empty(t, f.Profile.Output)
	})

	t.Run("existing file is loaded", func(t *testing.T) {
		t.Parallel()

		f, err := config.LoadIfPresent(writeConfig(t, "profile:\n  output: out.svg\n"))
		require.NoError(t, err)
		assert.Equal(t, "out.svg", f.Profile.Output)
	})
}

func TestApplyGate(t *testing.T) {
	t.Parallel()

	cfg := gate.NewConfig()

	f := &config.File{
		Gate: config.GateSection{
			Test: []string{"cargo", "nextest", "run"},
		},
	}
	f.ApplyGate(cfg)

	assert.Equal(t, []string{"cargo", "nextest", "run"}, cfg.Test)
	assert.Equal(t, []string{"*.rs"}, cfg.SourcePatterns, "unset fields keep defaults")
	assert.Equal(t, []string{"cargo", "clippy", "--", "-D", "warnings"}, cfg.Lint)
}

func TestApplyProfile(t *testing.T) {
	t.Parallel()

	cfg := flamegraph.NewConfig()

	f := &config.File{
		Profile: config.ProfileSection{
			Sample: []string{"perf", "record", "-F", "997", "-g", "-o", "perf.data", "--"},
			Output: "flame.svg",
		},
	}
	f.ApplyProfile(cfg)

	assert.Equal(t, []string{"perf", "record", "-F", "997", "-g", "-o", "perf.data", "--"}, cfg.Sample)
	assert.Equal(t, "flame.svg", cfg.Output)
	assert.Equal(t, "stacks.folded", cfg.Collapsed, "unset fields keep defaults")
	assert.Equal(t, "target/release", cfg.BinDir)
}

func TestSchema(t *testing.T) {
	t.Parallel()

	schema, err := config.Schema()
	require.NoError(t, err)

	out, err := json.Marshal(schema)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(out, &got))

	props, ok := got["properties"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, props, "gate")
	assert.Contains(t, props, "profile")
}
