// Package log provides a thin, structured logging layer over log/slog with
// an additional trace level, selectable output formats, and functional
// options for configuration.
//
// The zero value is unusable; construct a Logger with [Make]:
//
//	logger := log.Make(os.Stderr, log.WithLevel(log.LevelDebug))
//	logger.Debug("evaluating", slog.String("path", "model.backbone"))
//
// Formats:
//
//   - [FormatText]   — logfmt-style output via slog.TextHandler
//   - [FormatJSON]   — JSON output via slog.JSONHandler
//   - [FormatPretty] — colorized single-line output for terminals
package log
