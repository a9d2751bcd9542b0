package stringtest_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cargokit/cargokit/stringtest"
)

func TestJoinLF(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		in   []string
		want string
	}{
		"no strings": {
			in:   nil,
			want: "",
		},
		"single string": {
			in:   []string{"only"},
			want: "only",
		},
		"multiple strings": {
			in:   []string{"a", "b", "c"},
			want: "a\nb\nc",
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.want, stringtest.JoinLF(tc.in...))
		})
	}
}

func TestLines(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		in   []string
		want string
	}{
		"no lines": {
			in:   nil,
			want: "",
		},
		"single line": {
			in:   []string{"main 1"},
			want: "main 1\n",
		},
		"multiple lines": {
			in:   []string{"main;run 10", "main 2"},
			want: "main;run 10\nmain 2\n",
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.want, stringtest.Lines(tc.in...))
		})
	}
}
