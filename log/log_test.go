package log_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cargokit/cargokit/log"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		input       string
		expected    log.Level
		expectError bool
	}{
		"error level": {
			input:    "error",
			expected: log.LevelError,
		},
		"warn level": {
			input:    "warn",
			expected: log.LevelWarn,
		},
		"warning alias": {
			input:    "warning",
			expected: log.LevelWarn,
		},
		"info level": {
			input:    "info",
			expected: log.LevelInfo,
		},
		"debug level": {
			input:    "debug",
			expected: log.LevelDebug,
		},
		"case insensitive": {
			input:    "INFO",
			expected: log.LevelInfo,
		},
		"unknown level": {
			input:       "verbose",
			expectError: true,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := log.ParseLevel(tc.input)
			if tc.expectError {
				require.ErrorIs(t, err, log.ErrUnknownLogLevel)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		input       string
		expected    log.Format
		expectError bool
	}{
		"text format": {
			input:    "text",
			expected: log.FormatText,
		},
		"logfmt format": {
			input:    "logfmt",
			expected: log.FormatLogfmt,
		},
		"json format": {
			input:    "json",
			expected: log.FormatJSON,
		},
		"case insensitive": {
			input:    "JSON",
			expected: log.FormatJSON,
		},
		"unknown format": {
			input:       "xml",
			expectError: true,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := log.ParseFormat(tc.input)
			if tc.expectError {
				require.ErrorIs(t, err, log.ErrUnknownLogFormat)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestNewHandlerJSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	logger := slog.New(log.NewHandler(&buf, log.LevelInfo, log.FormatJSON))
	logger.Info("hello", "count", 3)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))

	assert.Equal(t, "hello", entry["msg"])
	assert.InEpsilon(t, 3.0, entry["count"], 0.001)
	assert.Contains(t, entry, "source")
}

func TestNewHandlerLevelFilter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	logger := slog.New(log.NewHandler(&buf, log.LevelWarn, log.FormatText))
	logger.Info("dropped")
	logger.Warn("kept")

	out := buf.String()
	assert.NotContains(t, out, "dropped")
	assert.Contains(t, out, "kept")
}

func TestNewHandlerFromStrings(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	_, err := log.NewHandlerFromStrings(&buf, "info", "json")
	require.NoError(t, err)

	_, err = log.NewHandlerFromStrings(&buf, "bogus", "json")
	require.ErrorIs(t, err, log.ErrInvalidArgument)

	_, err = log.NewHandlerFromStrings(&buf, "info", "bogus")
	require.ErrorIs(t, err, log.ErrInvalidArgument)
}

func TestConfigRegisterFlags(t *testing.T) {
	t.Parallel()

	cfg := log.NewConfig()
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)

	cfg.RegisterFlags(flags)

	require.NotNil(t, flags.Lookup("log-level"))
	require.NotNil(t, flags.Lookup("log-format"))

	err := flags.Parse([]string{"--log-level=debug", "--log-format=logfmt"})
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Level)
	assert.Equal(t, "logfmt", cfg.Format)
}

func TestConfigNewHandler(t *testing.T) {
	t.Parallel()

	cfg := log.NewConfig()

	handler, err := cfg.NewHandler(&bytes.Buffer{})
	require.NoError(t, err)
	require.NotNil(t, handler)
}

func TestConfigRegisterCompletions(t *testing.T) {
	t.Parallel()

	cfg := log.NewConfig()
	cmd := &cobra.Command{Use: "test"}

	cfg.RegisterFlags(cmd.Flags())

	err := cfg.RegisterCompletions(cmd)
	require.NoError(t, err)
}
