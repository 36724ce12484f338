// Package secrettoken generates opaque random tokens and tracks their expiry.
//
// Tokens are hex-encoded output of crypto/rand, suitable for password-reset
// links, email-verification links, and refresh tokens. Unlike signed tokens,
// they carry no payload: the value is stored server-side and compared on
// redemption, so a token is invalidated simply by clearing the stored copy.
//
// # Usage
//
//	import "github.com/dmitrymomot/authkit/pkg/secrettoken"
//
//	tok, err := secrettoken.Generate(secrettoken.DefaultLength)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	expiresAt := secrettoken.ExpiryFromNow(24 * time.Hour)
//
//	// Later, on redemption:
//	if secrettoken.IsExpired(&expiresAt) {
//	    // reject
//	}
//
// IsExpired treats a nil expiry as expired, so records that lost their
// expiry timestamp fail closed.
package secrettoken
