// Package gitstage queries the set of file paths staged for the next commit.
//
// The git invocation goes through a Runner from
// [github.com/cargokit/cargokit/toolchain], so callers can supply a fake in
// tests and the parsing logic never needs a real checkout. Output is
// requested NUL-separated to survive unusual filenames.
package gitstage
