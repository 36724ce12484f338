package httpserver

import (
	"context"
	"log/slog"
)

// discardHandler drops every record. It backs the default logger so the
// server never nil-checks before logging.
type discardHandler struct{}

func (d discardHandler) Enabled(_ context.Context, _ slog.Level) bool  { return false }
func (d discardHandler) Handle(_ context.Context, _ slog.Record) error { return nil }
func (d discardHandler) WithAttrs(_ []slog.Attr) slog.Handler          { return d }
func (d discardHandler) WithGroup(_ string) slog.Handler               { return d }

func newNoopLogger() *slog.Logger {
	return slog.New(discardHandler{})
}
