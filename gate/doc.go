// Package gate implements the pre-commit quality gate.
//
// A [Gate] inspects the staged file set and, when at least one path matches
// the project's compiled-source patterns, runs the test suite followed by the
// lint suite with warnings treated as errors. Commits touching only unrelated
// files (docs, config) skip both and succeed immediately.
//
// The first failing tool aborts the commit attempt; its exit code is
// preserved in the error chain so the hook process can exit with the same
// status. Nothing is retried and no state survives between invocations.
//
// Use [Config] for CLI flag integration and [Config.NewGate] to construct a
// gate backed by real tool invocations. Tests substitute fake Runners via
// [WithTestRunner] and [WithLinter].
package gate
