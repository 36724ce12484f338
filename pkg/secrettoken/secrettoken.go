package secrettoken

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

// DefaultLength is the number of random bytes drawn for a token when the
// caller has no stronger requirement. 32 bytes gives 256 bits of entropy
// and a 64-character hex string.
const DefaultLength = 32

// Generate returns a cryptographically random token of byteLength random
// bytes, hex encoded. The resulting string is twice byteLength characters.
func Generate(byteLength int) (string, error) {
	if byteLength <= 0 {
		return "", fmt.Errorf("%w: %d", ErrInvalidLength, byteLength)
	}

	b := make([]byte, byteLength)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}

	return hex.EncodeToString(b), nil
}

// ExpiryFromNow returns the wall-clock expiry for a token issued now.
func ExpiryFromNow(ttl time.Duration) time.Time {
	return time.Now().Add(ttl)
}

// IsExpired reports whether the given expiry has passed. A nil expiry is
// treated as expired so that records missing an expiry fail closed.
func IsExpired(expiresAt *time.Time) bool {
	if expiresAt == nil {
		return true
	}
	return time.Now().After(*expiresAt)
}
