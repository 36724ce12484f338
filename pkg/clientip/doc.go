// Package clientip resolves the originating client address of an HTTP
// request behind reverse proxies.
//
// Sign-in and token logs are only useful for incident review when they carry
// the real client address, so FromRequest checks forwarding headers before
// falling back to the TCP peer: CF-Connecting-IP, then X-Forwarded-For
// (first entry that parses), then X-Real-IP, then RemoteAddr. Candidates are
// validated with net.ParseIP; a spoofed header full of garbage yields the
// next source rather than a fake address.
//
// Middleware resolves the address once and stores it in the request context,
// where handlers read it with FromContext and loggers pick it up through a
// context extractor:
//
//	log := logger.New(
//	    logger.WithProduction("authkit"),
//	    logger.WithContextExtractors(func(ctx context.Context) (slog.Attr, bool) {
//	        if ip := clientip.FromContext(ctx); ip != "" {
//	            return slog.String("client_ip", ip), true
//	        }
//	        return slog.Attr{}, false
//	    }),
//	)
//
// FromRequest never fails; an empty string means no source produced a valid
// address.
package clientip
