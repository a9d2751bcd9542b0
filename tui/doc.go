// Package tui renders live stage progress for the flamegraph pipeline in the
// terminal.
//
// The [Model] is a [charm.land/bubbletea/v2] model fed from two sources: the
// pipeline's stage observer (as [StageMsg] values sent into the program) and
// a log Subscription whose entries appear as a short tail below the stage
// list. A [DoneMsg] ends the program.
//
// The flamegraph CLI only uses this view when standard output is a terminal;
// otherwise it falls back to plain structured logging.
package tui
