package toolchain

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"slices"
)

// Sentinel errors returned by this package.
var (
	ErrEmptyCommand = errors.New("empty command")
	ErrToolNotFound = errors.New("tool not found")
)

// Runner executes one external tool invocation.
//
// stdin is passed to the tool as standard input when non-nil. extra arguments
// are appended after the tool's configured arguments. The returned bytes are
// the tool's captured standard output.
type Runner interface {
	Run(ctx context.Context, stdin []byte, extra ...string) ([]byte, error)
}

// Cmd is a [Runner] backed by a child process.
//
// Create instances with [New]. The tool's standard error is passed through to
// the parent's (or a configured writer), so failing tools report in their own
// words.
type Cmd struct {
	stderr io.Writer
	name   string
	dir    string
	args   []string
}

// Option configures a [Cmd].
type Option func(*Cmd)

// WithDir sets the working directory for the child process.
func WithDir(dir string) Option {
	return func(c *Cmd) {
		c.dir = dir
	}
}

// WithStderr redirects the child process standard error.
func WithStderr(w io.Writer) Option {
	return func(c *Cmd) {
		c.stderr = w
	}
}

// New creates a [Cmd] from an argv vector. The first element is the
// executable name; the rest are its leading arguments.
func New(argv []string, opts ...Option) (*Cmd, error) {
	if len(argv) == 0 || argv[0] == "" {
		return nil, ErrEmptyCommand
	}

	c := &Cmd{
		name:   argv[0],
		args:   slices.Clone(argv[1:]),
		stderr: os.Stderr,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Name returns the executable name.
func (c *Cmd) Name() string {
	return c.name
}

// LookPath reports whether the executable can be resolved on PATH.
func (c *Cmd) LookPath() error {
	_, err := exec.LookPath(c.name)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrToolNotFound, c.name)
	}

	return nil
}

// Run executes the tool and returns its captured standard output.
// A non-zero exit is returned as a [*RunError] wrapping the exec error.
func (c *Cmd) Run(ctx context.Context, stdin []byte, extra ...string) ([]byte, error) {
	args := append(slices.Clone(c.args), extra...)

	//nolint:gosec // The argv comes from local developer configuration.
	cmd := exec.CommandContext(ctx, c.name, args...)
	cmd.Dir = c.dir
	cmd.Stderr = c.stderr

	if stdin != nil {
		cmd.Stdin = bytes.NewReader(stdin)
	}

	var stdout bytes.Buffer

	cmd.Stdout = &stdout

	err := cmd.Run()
	if err != nil {
		return nil, &RunError{
			Tool: c.name,
			Code: exitCode(err),
			Err:  err,
		}
	}

	return stdout.Bytes(), nil
}

// RunError reports a failed tool invocation.
type RunError struct {
	Err  error
	Tool string
	Code int
}

func (e *RunError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Tool, e.Err)
}

// Unwrap returns the underlying error.
func (e *RunError) Unwrap() error {
	return e.Err
}

// ExitCode maps an error chain to a process exit status: the failing tool's
// own code when a [*RunError] is present, 1 for any other error, 0 for nil.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}

	var runErr *RunError
	if errors.As(err, &runErr) && runErr.Code > 0 {
		return runErr.Code
	}

	return 1
}

func exitCode(err error) int {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}

	return 1
}
