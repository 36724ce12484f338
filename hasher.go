package authkit

import "github.com/dmitrymomot/authkit/pkg/password"

// PasswordHasher abstracts password hashing so deployments can swap the
// default bcrypt implementation (e.g. for argon2id, or a cheap fake in
// tests).
type PasswordHasher interface {
	// Hash returns a salted, one-way hash of the plaintext.
	Hash(plain string) (string, error)

	// Verify reports whether the plaintext matches the stored hash.
	Verify(plain, hash string) bool
}

type bcryptHasher struct {
	cost int
}

func (h bcryptHasher) Hash(plain string) (string, error) {
	return password.HashWithCost(plain, h.cost)
}

func (h bcryptHasher) Verify(plain, hash string) bool {
	return password.Verify(plain, hash)
}

// Compile-time interface assertion
var _ PasswordHasher = (*bcryptHasher)(nil)
