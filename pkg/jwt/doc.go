// Package jwt signs and verifies JSON Web Tokens and ships HTTP middleware
// and context helpers for carrying verified claims through a request.
//
// Signing is HMAC-based (HS256 by default, HS384/HS512 selectable). The
// Service verifies against an explicit algorithm allow-list, so tokens
// claiming "none" or an unexpected algorithm are rejected outright. Expiry is
// always required; issuer and audience are enforced when configured.
//
// # Usage
//
//	import "github.com/dmitrymomot/authkit/pkg/jwt"
//
//	svc, err := jwt.NewFromString("super-secret",
//	    jwt.WithIssuer("authkit"),
//	)
//	if err != nil {
//	    // handle error
//	}
//
//	token, err := svc.Generate(jwt.Claims{"sub": "123"}, 30*time.Minute)
//
//	claims, err := svc.Parse(token)
//	if err != nil {
//	    // invalid / expired token, compare with errors.Is
//	}
//
// Parse reports the failure cause through sentinel errors (ErrExpiredToken,
// ErrInvalidSignature, ...). Decode is the fail-to-null variant: it returns
// nil claims on any failure, letting callers treat nil uniformly as "not
// authenticated" while the cause stays available to code that wants it.
//
// # Middleware
//
//	http.Handle("/api", jwt.Middleware(svc)(yourHandler))
//
// The middleware extracts a Bearer token (cookie and custom-header
// extractors are available), verifies it, and stores the token and claims in
// the request context for retrieval via GetToken/GetClaims/Subject.
package jwt
