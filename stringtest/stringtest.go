// Package stringtest holds small helpers for building expected string
// fixtures in tests with explicit line endings.
package stringtest

import "strings"

// JoinLF joins multiple strings with LF separators, without a trailing
// newline.
//
// Example:
//
//	want := stringtest.JoinLF(
//		"line1",
//		"line2",
//	) // -> "line1\nline2"
func JoinLF(ss ...string) string {
	return strings.Join(ss, "\n")
}

// Lines joins multiple strings so that each becomes a full line, including a
// trailing newline. Use this for line-oriented file fixtures such as
// collapsed stack counts.
//
// Example:
//
//	want := stringtest.Lines(
//		"main;run 10",
//		"main 2",
//	) // -> "main;run 10\nmain 2\n"
func Lines(ss ...string) string {
	if len(ss) == 0 {
		return ""
	}

	return strings.Join(ss, "\n") + "\n"
}
