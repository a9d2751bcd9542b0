// Package config reads the optional .cargokit.yaml file that overrides the
// default tool commands and artifact names used by the cargokit binaries.
//
// Every field is optional; zero values fall back to the defaults of
// [github.com/cargokit/cargokit/gate] and
// [github.com/cargokit/cargokit/flamegraph]. A JSON Schema for the file is
// available via [Schema] (both binaries expose it with --print-schema) so
// editors can validate and complete the config.
package config
