package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Target is the name filter directives use to address this service.
const Target = "hello_server"

// LevelOff silences every record.
const LevelOff = slog.LevelError + 4

type options struct {
	writer      io.Writer
	addSource   bool
	environment string
	level       *slog.LevelVar
}

// Option customizes a logger built by New.
type Option func(*options)

// WithWriter sends records to w instead of stdout.
func WithWriter(w io.Writer) Option {
	return func(o *options) {
		o.writer = w
	}
}

// WithSource attaches the caller's file and line to each record.
func WithSource(addSource bool) Option {
	return func(o *options) {
		o.addSource = addSource
	}
}

// WithEnvironment adds an environment attribute to every record.
func WithEnvironment(environment string) Option {
	return func(o *options) {
		o.environment = environment
	}
}

// WithLevelVar makes the logger read its minimum level from lv, so callers
// can change verbosity after construction. lv is set from the filter.
func WithLevelVar(lv *slog.LevelVar) Option {
	return func(o *options) {
		o.level = lv
	}
}

func New(filter string, opts ...Option) *slog.Logger {
	o := &options{writer: os.Stdout}
	for _, opt := range opts {
		opt(o)
	}

	if o.level == nil {
		o.level = new(slog.LevelVar)
	}
	o.level.Set(ParseFilter(filter))

	handler := slog.NewJSONHandler(o.writer, &slog.HandlerOptions{
		Level:     o.level,
		AddSource: o.addSource,
	})

	log := slog.New(handler)
	if o.environment != "" {
		log = log.With(slog.String("environment", o.environment))
	}

	return log
}

// Component returns a child logger tagged with the component it logs for.
func Component(log *slog.Logger, name string) *slog.Logger {
	return log.With(slog.String("target", Target+"::"+name))
}

// ParseFilter turns a filter expression into a minimum level. Directives are
// comma separated and either a bare level or target=level. Directives naming
// this service win over bare ones; anything unparsable falls back to info.
func ParseFilter(filter string) slog.Level {
	level := slog.LevelInfo
	targeted := false

	for _, directive := range strings.Split(filter, ",") {
		directive = strings.TrimSpace(directive)
		if directive == "" {
			continue
		}

		target, value, found := strings.Cut(directive, "=")
		if !found {
			if targeted {
				continue
			}
			if l, ok := parseLevel(directive); ok {
				level = l
			}
			continue
		}

		if !matchesTarget(target) {
			continue
		}
		if l, ok := parseLevel(value); ok {
			level = l
			targeted = true
		}
	}

	return level
}

func matchesTarget(target string) bool {
	target = strings.ReplaceAll(strings.TrimSpace(target), "-", "_")
	return target == Target || strings.HasPrefix(target, Target+"::")
}

func parseLevel(level string) (slog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	case "off":
		return LevelOff, true
	default:
		return slog.LevelInfo, false
	}
}
