package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cargokit/cargokit/flamegraph"
)

func TestPrintSchemaWithoutTarget(t *testing.T) {
	t.Parallel()

	rootCmd, _ := newRootCmd()

	var out bytes.Buffer

	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs([]string{"--print-schema"})

	err := rootCmd.Execute()
	require.NoError(t, err)

	var schema map[string]any

	err = json.Unmarshal(out.Bytes(), &schema)
	require.NoError(t, err)

	props, ok := schema["properties"].(map[string]any)
	require.True(t, ok)

	assert.Contains(t, props, "gate")
	assert.Contains(t, props, "profile")
}

func TestMissingTarget(t *testing.T) {
	t.Parallel()

	rootCmd, _ := newRootCmd()

	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs([]string{})

	err := rootCmd.Execute()
	require.Error(t, err)
	assert.ErrorIs(t, err, flamegraph.ErrNoTarget)
}

func TestTooManyTargets(t *testing.T) {
	t.Parallel()

	rootCmd, _ := newRootCmd()

	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs([]string{"alpha", "beta"})

	err := rootCmd.Execute()
	require.Error(t, err)
}
