// Package prof adds optional runtime self-profiling to the cargokit CLIs.
//
// It exposes pprof output paths as CLI flags and wraps command execution with
// start/stop lifecycle calls:
//
//	cfg := prof.NewConfig()
//	cfg.RegisterFlags(rootCmd.PersistentFlags())
//
//	p := cfg.NewProfiler()
//	if err := p.Start(); err != nil { ... }
//	defer p.Stop()
//
// All profiles are disabled by default; users opt in with flags like
// --cpu-profile=cpu.prof. This profiles cargokit itself, not the target
// binary the flamegraph pipeline samples.
package prof
