package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/google/jsonschema-go/jsonschema"

	"github.com/cargokit/cargokit/flamegraph"
	"github.com/cargokit/cargokit/gate"
)

// DefaultPath is where the binaries look for a config file when --config is
// not given.
const DefaultPath = ".cargokit.yaml"

// Sentinel errors returned by this package.
var (
	ErrReadConfig  = errors.New("read config")
	ErrParseConfig = errors.New("parse config")
)

// File is the on-disk cargokit configuration.
type File struct {
	Gate    GateSection    `json:"gate,omitempty"    yaml:"gate,omitempty"`
	Profile ProfileSection `json:"profile,omitempty" yaml:"profile,omitempty"`
}

// GateSection configures the commit gate.
type GateSection struct {
	// SourcePatterns are glob patterns identifying compiled source files.
	SourcePatterns []string `json:"source_patterns,omitempty" yaml:"source_patterns,omitempty"`
	// Test is the test suite argv.
	Test []string `json:"test,omitempty" yaml:"test,omitempty"`
	// Lint is the lint suite argv, expected to treat warnings as errors.
	Lint []string `json:"lint,omitempty" yaml:"lint,omitempty"`
}

// ProfileSection configures the profiling pipeline.
type ProfileSection struct {
	// Build is the release build argv; the target name is appended.
	Build []string `json:"build,omitempty" yaml:"build,omitempty"`
	// Sample is the sampling profiler argv; the binary path is appended.
	Sample []string `json:"sample,omitempty" yaml:"sample,omitempty"`
	// Script is the argv that dumps the raw trace as text.
	Script []string `json:"script,omitempty" yaml:"script,omitempty"`
	// Collapse is the stack-collapse argv, reading the trace dump on stdin.
	Collapse []string `json:"collapse,omitempty" yaml:"collapse,omitempty"`
	// Render is the flame-graph render argv; the collapsed file is appended.
	Render []string `json:"render,omitempty" yaml:"render,omitempty"`

	// BinDir is the directory containing release binaries.
	BinDir string `json:"bin_dir,omitempty" yaml:"bin_dir,omitempty"`
	// RawFile is the raw trace file the sampler produces.
	RawFile string `json:"raw_file,omitempty" yaml:"raw_file,omitempty"`
	// RawPattern is the glob matching raw trace files to clean up.
	RawPattern string `json:"raw_pattern,omitempty" yaml:"raw_pattern,omitempty"`
	// Collapsed is the collapsed stack-count intermediate file.
	Collapsed string `json:"collapsed,omitempty" yaml:"collapsed,omitempty"`
	// Output is the flame graph output path.
	Output string `json:"output,omitempty" yaml:"output,omitempty"`
}

// Load reads and parses the config file at path. Unknown fields are rejected
// to catch typos.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // Config path from CLI flag is expected.
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadConfig, err)
	}

	var f File

	err = yaml.UnmarshalWithOptions(data, &f, yaml.Strict())
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrParseConfig, path, err)
	}

	return &f, nil
}

// LoadIfPresent is [Load], except that a missing file yields an empty config
// instead of an error. Use it for the default config path.
func LoadIfPresent(path string) (*File, error) {
	f, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &File{}, nil
	}

	return f, err
}

// ApplyGate overlays the file's gate section onto cfg, leaving defaults in
// place for unset fields.
func (f *File) ApplyGate(cfg *gate.Config) {
	if len(f.Gate.SourcePatterns) > 0 {
		cfg.SourcePatterns = f.Gate.SourcePatterns
	}

	if len(f.Gate.Test) > 0 {
		cfg.Test = f.Gate.Test
	}

	if len(f.Gate.Lint) > 0 {
		cfg.Lint = f.Gate.Lint
	}
}

// ApplyProfile overlays the file's profile section onto cfg, leaving defaults
// in place for unset fields.
func (f *File) ApplyProfile(cfg *flamegraph.Config) {
	p := f.Profile

	if len(p.Build) > 0 {
		cfg.Build = p.Build
	}

	if len(p.Sample) > 0 {
		cfg.Sample = p.Sample
	}

	if len(p.Script) > 0 {
		cfg.Script = p.Script
	}

	if len(p.Collapse) > 0 {
		cfg.Collapse = p.Collapse
	}

	if len(p.Render) > 0 {
		cfg.Render = p.Render
	}

	if p.BinDir != "" {
		cfg.BinDir = p.BinDir
	}

	if p.RawFile != "" {
		cfg.RawFile = p.RawFile
	}

	if p.RawPattern != "" {
		cfg.RawPattern = p.RawPattern
	}

	if p.Collapsed != "" {
		cfg.Collapsed = p.Collapsed
	}

	if p.Output != "" {
		cfg.Output = p.Output
	}
}

// Schema infers the JSON Schema for [File].
func Schema() (*jsonschema.Schema, error) {
	schema, err := jsonschema.For[File](nil)
	if err != nil {
		return nil, fmt.Errorf("inferring config schema: %w", err)
	}

	return schema, nil
}
