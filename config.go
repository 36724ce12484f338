package authkit

import (
	"fmt"
	"time"
)

// Config holds the engine's tunable parameters. The zero value plus a
// SigningKey is a working configuration: setDefaults fills the rest during
// New. Env tags allow loading via pkg/config in services that configure
// through the environment.
type Config struct {
	// SigningKey is the HMAC secret for access tokens. Required.
	SigningKey string `env:"AUTH_SIGNING_KEY,required"`

	// SigningAlgorithm selects the HMAC variant for newly issued tokens.
	SigningAlgorithm string `env:"AUTH_SIGNING_ALGORITHM" envDefault:"HS256"`

	// AllowedAlgorithms is the verification allow-list. Empty means only
	// SigningAlgorithm is accepted.
	AllowedAlgorithms []string `env:"AUTH_ALLOWED_ALGORITHMS" envSeparator:","`

	// Issuer and Audience are stamped into issued tokens and verified on
	// parse when non-empty.
	Issuer   string `env:"AUTH_ISSUER"`
	Audience string `env:"AUTH_AUDIENCE"`

	// TokenTTL bounds the lifetime of issued access tokens.
	TokenTTL time.Duration `env:"AUTH_TOKEN_TTL" envDefault:"720h"`

	// RefreshEnabled switches the engine from stateless to session-backed
	// operation: every sign-in persists a Session with a refresh token.
	RefreshEnabled  bool          `env:"AUTH_REFRESH_ENABLED" envDefault:"false"`
	RefreshTokenTTL time.Duration `env:"AUTH_REFRESH_TOKEN_TTL" envDefault:"720h"`

	// ResetTokenTTL bounds password reset tokens.
	ResetTokenTTL time.Duration `env:"AUTH_RESET_TOKEN_TTL" envDefault:"1h"`

	// VerificationTokenTTL bounds email verification tokens.
	VerificationTokenTTL time.Duration `env:"AUTH_VERIFICATION_TOKEN_TTL" envDefault:"24h"`

	// SecretTokenLength is the entropy, in bytes, of generated opaque
	// tokens (reset, verification, session, refresh, OAuth state).
	SecretTokenLength int `env:"AUTH_SECRET_TOKEN_LENGTH" envDefault:"32"`

	// BcryptCost is the work factor for password hashing.
	BcryptCost int `env:"AUTH_BCRYPT_COST" envDefault:"10"`
}

const (
	defaultSigningAlgorithm     = "HS256"
	defaultTokenTTL             = 720 * time.Hour
	defaultRefreshTokenTTL      = 720 * time.Hour
	defaultResetTokenTTL        = time.Hour
	defaultVerificationTokenTTL = 24 * time.Hour
	defaultSecretTokenLength    = 32
	defaultBcryptCost           = 10
)

// setDefaults fills zero-valued fields so a programmatically constructed
// Config behaves like one loaded through env tags.
func (c *Config) setDefaults() {
	if c.SigningAlgorithm == "" {
		c.SigningAlgorithm = defaultSigningAlgorithm
	}
	if c.TokenTTL == 0 {
		c.TokenTTL = defaultTokenTTL
	}
	if c.RefreshTokenTTL == 0 {
		c.RefreshTokenTTL = defaultRefreshTokenTTL
	}
	if c.ResetTokenTTL == 0 {
		c.ResetTokenTTL = defaultResetTokenTTL
	}
	if c.VerificationTokenTTL == 0 {
		c.VerificationTokenTTL = defaultVerificationTokenTTL
	}
	if c.SecretTokenLength == 0 {
		c.SecretTokenLength = defaultSecretTokenLength
	}
	if c.BcryptCost == 0 {
		c.BcryptCost = defaultBcryptCost
	}
}

// Validate reports the first configuration problem found.
func (c Config) Validate() error {
	if c.SigningKey == "" {
		return fmt.Errorf("%w: signing key is required", ErrInvalidConfig)
	}
	switch c.SigningAlgorithm {
	case "HS256", "HS384", "HS512":
	default:
		return fmt.Errorf("%w: unsupported signing algorithm %q", ErrInvalidConfig, c.SigningAlgorithm)
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("%w: token TTL must be positive, got %v", ErrInvalidConfig, c.TokenTTL)
	}
	if c.RefreshEnabled && c.RefreshTokenTTL <= 0 {
		return fmt.Errorf("%w: refresh token TTL must be positive, got %v", ErrInvalidConfig, c.RefreshTokenTTL)
	}
	if c.ResetTokenTTL <= 0 {
		return fmt.Errorf("%w: reset token TTL must be positive, got %v", ErrInvalidConfig, c.ResetTokenTTL)
	}
	if c.VerificationTokenTTL <= 0 {
		return fmt.Errorf("%w: verification token TTL must be positive, got %v", ErrInvalidConfig, c.VerificationTokenTTL)
	}
	if c.SecretTokenLength <= 0 {
		return fmt.Errorf("%w: secret token length must be positive, got %d", ErrInvalidConfig, c.SecretTokenLength)
	}
	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		return fmt.Errorf("%w: bcrypt cost must be between 4 and 31, got %d", ErrInvalidConfig, c.BcryptCost)
	}
	return nil
}
