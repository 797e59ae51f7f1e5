// Package log provides a concurrency-safe simplified logging interface
// based on [log/slog].
//
// Loggers are configured with functional options at creation time:
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelDebug),
//		log.WithFormat(log.FormatText),
//		log.WithTimeLayout("Kitchen"),
//		log.WithCaller(true))
//
// Every level has a context-aware and a context-unaware method; the latter
// uses [DefaultContextProvider]. Attributes are always [slog.Attr] values:
//
//	logger.InfoContext(ctx, "roll loaded", slog.Int("parcels", n))
//
// The package also keeps a default logger, adjusted with [Config] and used by
// the package-level functions such as [DebugContext] and [Error].
//
// # Output Formats
//
// [FormatJSON] (default) and [FormatText] map to the slog handlers of the
// same name. With [WithPretty] enabled, records are colorized with lipgloss
// and JSON is laid out one field per line. Colors are dropped automatically
// when the output is not a terminal.
package log
