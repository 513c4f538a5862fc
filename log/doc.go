// Package log is a small leveled logger built on [log/slog].
//
// A [Logger] is created with [Make] and configured with functional options.
// Its zero value is valid and discards every record, which lets library
// packages accept an optional Logger without nil checks:
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelTrace),
//		log.WithFormat(log.FormatJSON),
//		log.WithTimeLayout("rfc3339nano"),
//		log.WithCaller(true))
//
//	logger.TraceContext(ctx, "parse complete", slog.Int("function_count", 3))
//
// Attributes are typed [slog.Attr] values rather than alternating key/value
// arguments.
//
// # Levels
//
// Besides the four [slog] levels the package defines [LevelTrace], used for
// per-call diagnostics that are too noisy for debug output. Records print the
// level as "TRACE" rather than slog's "DEBUG-4".
//
// # Formats
//
// Records are written as text or JSON. With [WithPretty] (the default), text
// records are unquoted key=value lines and JSON records span several indented
// lines; both are styled with terminal colors when the destination is a
// color-capable terminal.
//
// # Package-level logger
//
// [Trace], [Debug], [Info], [Warn], [Error] and their Context variants log
// through a package-level logger writing to stderr. [Config] reconfigures it
// and [SetDefault] replaces it. Functions and methods without a context
// argument use [DefaultContextProvider].
package log
