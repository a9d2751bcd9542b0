// Package flamegraph builds a release binary, samples it under a profiler,
// and renders the samples into a flame-graph image.
//
// A [Pipeline] is a strictly linear chain of stages: build, sample, collapse,
// render. Each stage is an external tool behind a Runner from
// [github.com/cargokit/cargokit/toolchain]; the defaults are cargo, perf, and
// the stackcollapse-perf.pl / flamegraph.pl converters. Any stage failure
// aborts the chain with the tool's exit code preserved.
//
// Intermediate artifacts (the collapsed stack file and raw trace files) are
// removed on every exit path once sampling can have started, so failed runs
// do not leave stale files behind. The rendered image and the built binary
// persist.
//
// Progress can be observed per stage via [WithObserver], which the flamegraph
// CLI uses to drive its terminal view.
package flamegraph
