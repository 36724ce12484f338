package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
)

// Format selects the handler encoding.
type Format string

const (
	// FormatJSON emits one JSON object per record, for log aggregation.
	FormatJSON Format = "json"
	// FormatText emits key=value lines for terminals.
	FormatText Format = "text"
)

type config struct {
	level       slog.Level
	format      Format
	out         io.Writer
	static      []slog.Attr
	handlerOpts *slog.HandlerOptions
	extractors  []ContextExtractor
}

// Option configures New.
type Option func(*config)

// New builds a slog.Logger: options applied over production-safe defaults
// (JSON, info level, stdout), then the chosen handler wrapped in the
// context-extractor decorator.
func New(opts ...Option) *slog.Logger {
	cfg := &config{
		level:  slog.LevelInfo,
		format: FormatJSON,
		out:    os.Stdout,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	ho := cfg.handlerOpts
	if ho == nil {
		ho = &slog.HandlerOptions{Level: cfg.level}
	}

	var h slog.Handler
	switch cfg.format {
	case FormatText:
		h = slog.NewTextHandler(cfg.out, ho)
	default:
		h = slog.NewJSONHandler(cfg.out, ho)
	}
	if len(cfg.static) > 0 {
		h = h.WithAttrs(cfg.static)
	}

	return slog.New(NewLogHandlerDecorator(h, cfg.extractors...))
}

// SetAsDefault installs l as the process-wide slog default.
func SetAsDefault(l *slog.Logger) {
	slog.SetDefault(l)
}

// WithLevel sets the minimum level records must meet.
func WithLevel(l slog.Level) Option {
	return func(c *config) { c.level = l }
}

// WithFormat sets the output encoding. Unknown formats panic so a typo in
// deployment config stops the process at startup rather than logging in
// the wrong shape for weeks.
func WithFormat(f Format) Option {
	return func(c *config) {
		if f != FormatJSON && f != FormatText {
			panic(fmt.Errorf("invalid log format %q: must be %q or %q", f, FormatJSON, FormatText))
		}
		c.format = f
	}
}

// WithTextFormatter selects the text encoding.
func WithTextFormatter() Option {
	return func(c *config) { c.format = FormatText }
}

// WithJSONFormatter selects the JSON encoding.
func WithJSONFormatter() Option {
	return func(c *config) { c.format = FormatJSON }
}

// WithOutput redirects records to w. Nil writers are ignored.
func WithOutput(w io.Writer) Option {
	return func(c *config) {
		if w != nil {
			c.out = w
		}
	}
}

// WithHandlerOptions hands full slog.HandlerOptions through to the
// handler, replacing the level configured by WithLevel. Nil is ignored.
func WithHandlerOptions(opts *slog.HandlerOptions) Option {
	return func(c *config) {
		if opts != nil {
			c.handlerOpts = opts
		}
	}
}

// WithAttr pins attributes onto every record the logger emits.
func WithAttr(attrs ...slog.Attr) Option {
	return func(c *config) {
		c.static = append(c.static, attrs...)
	}
}

// WithContextExtractors registers functions that pull request-scoped
// attributes out of the context on every Handle call. Nils are dropped.
func WithContextExtractors(extractors ...ContextExtractor) Option {
	return func(c *config) {
		for _, ex := range extractors {
			if ex != nil {
				c.extractors = append(c.extractors, ex)
			}
		}
	}
}

// WithContextValue registers an extractor for a single context key,
// logged under name whenever a value is present.
func WithContextValue(name string, key any) Option {
	return func(c *config) {
		if name == "" || key == nil {
			return
		}
		c.extractors = append(c.extractors, func(ctx context.Context) (slog.Attr, bool) {
			if v := ctx.Value(key); v != nil {
				return slog.Any(name, v), true
			}
			return slog.Attr{}, false
		})
	}
}

// preset applies an environment profile: level, encoding, and the
// service/env attribute pair carried on every record. An empty service
// name leaves the configuration untouched.
func preset(service, env string, level slog.Level, format Format) Option {
	return func(c *config) {
		if service == "" {
			return
		}
		c.level = level
		c.format = format
		c.static = append(c.static,
			slog.String("service", service),
			slog.String("env", env),
		)
	}
}

// WithDevelopment selects text output at debug level, tagged with the
// service name.
func WithDevelopment(service string) Option {
	return preset(service, "development", slog.LevelDebug, FormatText)
}

// WithProduction selects JSON output at info level, tagged with the
// service name.
func WithProduction(service string) Option {
	return preset(service, "production", slog.LevelInfo, FormatJSON)
}

// WithStaging mirrors WithProduction under the staging tag.
func WithStaging(service string) Option {
	return preset(service, "staging", slog.LevelInfo, FormatJSON)
}

// WithEnvironment picks the preset matching a deployment environment
// string; anything unrecognized falls back to development.
func WithEnvironment(env, service string) Option {
	switch env {
	case "production", "prod":
		return WithProduction(service)
	case "staging", "stage":
		return WithStaging(service)
	default:
		return WithDevelopment(service)
	}
}
