package jwt

import (
	"errors"
	"fmt"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
)

// Supported HMAC signing algorithms.
const (
	HS256 = "HS256"
	HS384 = "HS384"
	HS512 = "HS512"
)

// Claims is the claims payload carried by a signed token. Registered claims
// (iat, exp, iss, aud) are injected by the service on Generate; everything
// else is caller-defined.
type Claims map[string]any

// Subject returns the "sub" claim or an empty string.
func (c Claims) Subject() string {
	return c.String("sub")
}

// String returns the named claim as a string, or an empty string if the
// claim is absent or of another type.
func (c Claims) String(key string) string {
	v, _ := c[key].(string)
	return v
}

// ExpiresAt returns the "exp" claim as wall-clock time, or the zero time if
// the claim is absent. JSON decoding turns numeric claims into float64.
func (c Claims) ExpiresAt() time.Time {
	switch v := c["exp"].(type) {
	case float64:
		return time.Unix(int64(v), 0)
	case int64:
		return time.Unix(v, 0)
	case *gojwt.NumericDate:
		return v.Time
	}
	return time.Time{}
}

// Service signs and verifies compact three-segment tokens. Verification
// enforces an algorithm allow-list, expiry, and optional issuer/audience.
type Service struct {
	signingKey []byte
	method     gojwt.SigningMethod
	allowed    []string
	issuer     string
	audience   string
}

// Option configures a Service during construction.
type Option func(*Service) error

// WithSigningMethod sets the signing algorithm by name (HS256, HS384, HS512).
func WithSigningMethod(alg string) Option {
	return func(s *Service) error {
		method := gojwt.GetSigningMethod(alg)
		if method == nil {
			return fmt.Errorf("%w: %s", ErrInvalidSigningMethod, alg)
		}
		if _, ok := method.(*gojwt.SigningMethodHMAC); !ok {
			return fmt.Errorf("%w: %s is not an HMAC method", ErrInvalidSigningMethod, alg)
		}
		s.method = method
		return nil
	}
}

// WithAllowedAlgorithms sets the verification allow-list. Tokens signed with
// any algorithm outside the list are rejected, which blocks "none" and
// algorithm-confusion attacks. Defaults to the signing algorithm only.
func WithAllowedAlgorithms(algs ...string) Option {
	return func(s *Service) error {
		if len(algs) == 0 {
			return fmt.Errorf("%w: empty allow-list", ErrInvalidSigningMethod)
		}
		s.allowed = algs
		return nil
	}
}

// WithIssuer sets the "iss" claim on generated tokens and requires it on
// verification.
func WithIssuer(issuer string) Option {
	return func(s *Service) error {
		s.issuer = issuer
		return nil
	}
}

// WithAudience sets the "aud" claim on generated tokens and requires it on
// verification.
func WithAudience(audience string) Option {
	return func(s *Service) error {
		s.audience = audience
		return nil
	}
}

// New creates a token service with the provided signing key.
// The key should be at least 32 bytes for adequate security with HMAC-SHA256.
func New(signingKey []byte, opts ...Option) (*Service, error) {
	if len(signingKey) == 0 {
		return nil, ErrMissingSigningKey
	}

	s := &Service{
		signingKey: signingKey,
		method:     gojwt.SigningMethodHS256,
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	if len(s.allowed) == 0 {
		s.allowed = []string{s.method.Alg()}
	}

	return s, nil
}

// NewFromString creates a token service from a string signing key.
// Convenience wrapper around New() for string-based configuration.
func NewFromString(signingKey string, opts ...Option) (*Service, error) {
	if signingKey == "" {
		return nil, ErrMissingSigningKey
	}
	return New([]byte(signingKey), opts...)
}

// Generate signs the claims into a compact token. Issued-at is set to now
// and expiry to now+ttl; issuer and audience are stamped when configured.
// The caller's claims map is not mutated.
func (s *Service) Generate(claims Claims, ttl time.Duration) (string, error) {
	if claims == nil {
		return "", ErrMissingClaims
	}
	if ttl <= 0 {
		return "", ErrInvalidTTL
	}

	now := time.Now()
	mc := make(gojwt.MapClaims, len(claims)+4)
	for k, v := range claims {
		mc[k] = v
	}
	mc["iat"] = gojwt.NewNumericDate(now)
	mc["exp"] = gojwt.NewNumericDate(now.Add(ttl))
	if s.issuer != "" {
		mc["iss"] = s.issuer
	}
	if s.audience != "" {
		mc["aud"] = s.audience
	}

	token, err := gojwt.NewWithClaims(s.method, mc).SignedString(s.signingKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return token, nil
}

// Parse verifies a token and returns its claims. Verification covers the
// signature, the algorithm allow-list, expiry, and issuer/audience when
// configured. Failures map onto the package sentinels.
func (s *Service) Parse(tokenString string) (Claims, error) {
	if tokenString == "" {
		return nil, ErrInvalidToken
	}

	parserOpts := []gojwt.ParserOption{
		gojwt.WithValidMethods(s.allowed),
		gojwt.WithExpirationRequired(),
	}
	if s.issuer != "" {
		parserOpts = append(parserOpts, gojwt.WithIssuer(s.issuer))
	}
	if s.audience != "" {
		parserOpts = append(parserOpts, gojwt.WithAudience(s.audience))
	}

	mc := gojwt.MapClaims{}
	token, err := gojwt.ParseWithClaims(tokenString, mc, func(t *gojwt.Token) (any, error) {
		// Double-check the method type even though WithValidMethods already
		// filters by name; a nil key for a non-HMAC method would be unsafe.
		if _, ok := t.Method.(*gojwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnexpectedSigningMethod, t.Method.Alg())
		}
		return s.signingKey, nil
	}, parserOpts...)
	if err != nil {
		switch {
		case errors.Is(err, ErrUnexpectedSigningMethod):
			return nil, ErrUnexpectedSigningMethod
		case errors.Is(err, gojwt.ErrTokenExpired):
			return nil, ErrExpiredToken
		case errors.Is(err, gojwt.ErrTokenSignatureInvalid):
			return nil, ErrInvalidSignature
		case errors.Is(err, gojwt.ErrTokenInvalidIssuer),
			errors.Is(err, gojwt.ErrTokenInvalidAudience),
			errors.Is(err, gojwt.ErrTokenRequiredClaimMissing):
			return nil, ErrInvalidClaims
		default:
			return nil, ErrInvalidToken
		}
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}

	return Claims(mc), nil
}

// Decode is the fail-to-null counterpart of Parse: it returns nil on any
// verification failure, including expiry, so callers can treat nil uniformly
// as "not authenticated" without branching on the cause.
func (s *Service) Decode(tokenString string) Claims {
	claims, err := s.Parse(tokenString)
	if err != nil {
		return nil
	}
	return claims
}
