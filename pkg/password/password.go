package password

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultCost is the bcrypt cost factor used by Hash. Cost 10 keeps hashing
// around 50-100ms on current hardware, slow enough to blunt offline attacks
// without hurting interactive sign-in latency.
const DefaultCost = 10

// Hash returns a salted bcrypt hash of the plaintext using DefaultCost.
func Hash(plain string) (string, error) {
	return HashWithCost(plain, DefaultCost)
}

// HashWithCost returns a salted bcrypt hash using the given cost factor.
// The cost must be within bcrypt's supported range (4..31).
func HashWithCost(plain string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// Verify reports whether the plaintext matches the stored hash. The
// comparison is constant-time inside bcrypt. A malformed or empty hash
// never panics or errors out of this function; it simply reports false.
func Verify(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
