package log

import (
	"io"
	"log/slog"
	"strings"
	"time"
)

// Level represents the severity of a log message.
type Level slog.Level

const (
	LevelTrace Level = Level(slog.LevelDebug - 4)
	LevelDebug Level = Level(slog.LevelDebug)
	LevelInfo  Level = Level(slog.LevelInfo)
	LevelWarn  Level = Level(slog.LevelWarn)
	LevelError Level = Level(slog.LevelError)
)

// DefaultLevel is the default log level.
const DefaultLevel = LevelInfo

// String returns the lowercase name of the level.
func (l Level) String() string {
	switch l {
	case LevelTrace:
		return "trace"
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return slog.Level(l).String()
	}
}

// ParseLevel parses a string representation of a log level.
// Unrecognized strings yield [DefaultLevel].
func ParseLevel(s string) Level {
	// slog.Level.UnmarshalText doesn't recognize "trace"
	if strings.EqualFold(s, "trace") {
		return LevelTrace
	}

	l := new(slog.Level)
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return DefaultLevel
	}

	return Level(*l)
}

// Format represents the log output format.
type Format int

const (
	FormatText Format = iota
	FormatJSON
	FormatPretty
)

// DefaultFormat is the default log output format.
const DefaultFormat = FormatText

// String returns the lowercase name of the format.
func (f Format) String() string {
	switch f {
	case FormatText:
		return "text"
	case FormatJSON:
		return "json"
	case FormatPretty:
		return "pretty"
	default:
		return "unknown"
	}
}

// ParseFormat parses a string representation of a log format.
// Unrecognized strings yield [DefaultFormat].
func ParseFormat(s string) Format {
	switch strings.ToLower(s) {
	case "json":
		return FormatJSON
	case "pretty":
		return FormatPretty
	default:
		return DefaultFormat
	}
}

// DefaultTimeLayout is the default layout for log record timestamps.
const DefaultTimeLayout = time.RFC3339

// config holds the immutable configuration of a Logger.
type config struct {
	w          io.Writer
	level      Level
	format     Format
	timeLayout string
	addCaller  bool
}

func makeConfig(w io.Writer, opts ...Option) config {
	cfg := config{
		w:          w,
		level:      DefaultLevel,
		format:     DefaultFormat,
		timeLayout: DefaultTimeLayout,
	}

	return apply(cfg, opts...)
}

// handler constructs the slog.Handler described by the configuration.
func (cfg config) handler() slog.Handler {
	opts := &slog.HandlerOptions{
		Level:       slog.Level(cfg.level),
		AddSource:   cfg.addCaller,
		ReplaceAttr: replaceAttr(cfg.timeLayout),
	}

	switch cfg.format {
	case FormatJSON:
		return slog.NewJSONHandler(cfg.w, opts)

	case FormatPretty:
		return newPrettyHandler(cfg.w, opts)

	default:
		return slog.NewTextHandler(cfg.w, opts)
	}
}

// replaceAttr renames the trace level and applies the time layout.
func replaceAttr(timeLayout string) func([]string, slog.Attr) slog.Attr {
	return func(groups []string, a slog.Attr) slog.Attr {
		if len(groups) > 0 {
			return a
		}

		switch a.Key {
		case slog.LevelKey:
			if level, ok := a.Value.Any().(slog.Level); ok {
				a.Value = slog.StringValue(Level(level).String())
			}

		case slog.TimeKey:
			if a.Value.Kind() == slog.KindTime {
				a.Value = slog.StringValue(
					a.Value.Time().Format(timeLayout),
				)
			}
		}

		return a
	}
}
