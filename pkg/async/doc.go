// Package async runs a computation on its own goroutine and hands back a
// typed Future for its eventual result.
//
// Async starts the supplied function immediately and returns a *Future. The
// caller waits with Await, bounds the wait with AwaitWithTimeout, or polls
// with IsComplete. WaitAll collects several futures in argument order and
// WaitAny returns as soon as the first one resolves.
//
// The main consumer in this module is outbound email: delivery runs on a
// future so request handlers return without blocking on the mail provider,
// while startup code can still Await when it needs confirmation.
//
// # Usage
//
//	future := async.Async(ctx, token, func(ctx context.Context, tok string) (struct{}, error) {
//	    return struct{}{}, mailer.SendVerification(ctx, tok)
//	})
//
//	// handle the request, then optionally:
//	if _, err := future.AwaitWithTimeout(15 * time.Second); err != nil {
//	    log.ErrorContext(ctx, "verification email not confirmed", slog.Any("error", err))
//	}
//
// A context canceled before the goroutine begins resolves the future with the
// context error and the function is never invoked. Once the function is
// running, cancellation is its own responsibility; pass the context through
// to whatever it calls.
//
// AwaitWithTimeout abandons only the wait. The goroutine keeps running and a
// later Await returns its result, so a timed-out wait never leaks a locked
// resource or loses a delivery report.
package async
