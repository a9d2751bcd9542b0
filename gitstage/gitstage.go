package gitstage

import (
	"context"
	"fmt"
	"strings"

	"github.com/cargokit/cargokit/toolchain"
)

// DefaultArgv is the git invocation used to list staged paths.
var DefaultArgv = []string{"git", "diff", "--cached", "--name-only", "-z"}

// NewRunner creates the exec-backed Runner for [Files] using [DefaultArgv].
func NewRunner(opts ...toolchain.Option) (*toolchain.Cmd, error) {
	cmd, err := toolchain.New(DefaultArgv, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating git runner: %w", err)
	}

	return cmd, nil
}

// Files returns the paths currently staged in version control, in the order
// git reports them. An empty index yields an empty slice and no error.
func Files(ctx context.Context, runner toolchain.Runner) ([]string, error) {
	out, err := runner.Run(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("listing staged files: %w", err)
	}

	return parse(out), nil
}

// parse splits NUL-separated git output into paths, dropping empty records.
func parse(out []byte) []string {
	var paths []string

	for _, p := range strings.Split(string(out), "\x00") {
		if p == "" {
			continue
		}

		paths = append(paths, p)
	}

	return paths
}
