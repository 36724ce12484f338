// Package logger provides a context-aware wrapper around Go's slog package
// adding functional options for configuration, helper attribute constructors,
// and transparent injection of values stored in context.Context.
//
// The package standardises structured logging across the auth stack by
// exposing a single factory, New, that creates a *slog.Logger configured by
// a set of Option functions:
//
//   - Select an output format (text or json)
//   - Set the minimum log level
//   - Supply default slog.Attr values applied to every record
//   - Register ContextExtractor callbacks that inject attributes pulled
//     from a context value (for example a request id) on every record
//
// # Architecture
//
// New picks the concrete slog.Handler implementation (slog.NewTextHandler
// or slog.NewJSONHandler) based on the configured Format, then wraps it
// with LogHandlerDecorator, which runs registered ContextExtractor
// callbacks before delegating to the underlying handler.
//
// Helper constructors in attr.go keep attribute naming consistent and
// privacy-safe: Email and Token mask their values before they reach any
// log sink.
//
// # Usage
//
//	import "github.com/dmitrymomot/authkit/pkg/logger"
//
//	func main() {
//	    log := logger.New(
//	        logger.WithDevelopment("auth-service"),
//	        logger.WithContextValue("request_id", ctxKeyRequestID),
//	    )
//	    logger.SetAsDefault(log)
//
//	    log.InfoContext(ctx, "user signed in",
//	        logger.UserID(user.ID),
//	        logger.Email(user.Email),
//	        logger.Duration(time.Since(start)),
//	    )
//	}
//
// # Error Handling
//
// Error and Errors produce attributes only when the supplied error is
// non-nil, allowing calls like
//
//	log.Info("operation finished", logger.Error(err))
//
// without an additional nil check.
package logger
