// Package log provides structured logging handler construction for use with
// [log/slog].
//
// It supports three output formats ([FormatText], [FormatLogfmt], and
// [FormatJSON]) and four severity levels. Use [NewHandler] to create a
// handler directly, or [Config] for CLI flag integration via
// [github.com/spf13/pflag] with shell completions via
// [github.com/spf13/cobra]:
//
//	cfg := log.NewConfig()
//	cfg.RegisterFlags(rootCmd.PersistentFlags())
//
//	handler, err := cfg.NewHandler(os.Stderr)
//	logger := slog.New(handler)
//
// A [Publisher] fans out written log output to subscribers, which the
// flamegraph CLI uses to show a log tail inside its terminal view:
//
//	pub := log.NewPublisher()
//	handler := log.NewHandler(pub, log.LevelInfo, log.FormatLogfmt)
//
//	sub := pub.Subscribe()
//	for entry := range sub.C() {
//	    // Deliver entry to the view.
//	}
package log
