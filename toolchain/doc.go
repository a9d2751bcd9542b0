// Package toolchain abstracts the external developer tools that cargokit
// shells out to (test runners, linters, compilers, profilers, converters).
//
// Each tool invocation is modeled as a [Runner]: one call, captured stdout,
// explicit error. The exec-backed implementation is [Cmd], created from an
// argv vector so tool commands can come straight from configuration:
//
//	tests, err := toolchain.New([]string{"cargo", "test"})
//	if err != nil { ... }
//
//	out, err := tests.Run(ctx, nil)
//
// Failures carry the child process exit code in a [*RunError], which callers
// can surface with [ExitCode] to propagate the exact status of the failing
// tool.
//
// Tests substitute fake Runners, so nothing in this module needs a real
// subprocess to be exercised.
package toolchain
