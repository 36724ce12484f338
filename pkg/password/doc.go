// Package password wraps bcrypt hashing and verification for user credentials.
//
// Hashes embed their own salt and cost factor, so Verify needs nothing but
// the stored hash string. Verification failures of any kind, including
// malformed hashes, are reported as a plain false rather than an error: the
// caller is expected to collapse them into a single invalid-credentials
// response anyway.
//
//	hash, err := password.Hash("s3cret")
//	if err != nil {
//	    return err
//	}
//	if !password.Verify("s3cret", hash) {
//	    // reject
//	}
package password
