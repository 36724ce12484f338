package pg

import "context"

// logger is the subset of slog.Logger the migration runner needs, kept as an
// interface so callers are not forced onto a concrete logging implementation.
type logger interface {
	InfoContext(ctx context.Context, msg string, args ...any)
	ErrorContext(ctx context.Context, msg string, args ...any)
}
