// Package sanitizer normalizes and masks the string values an auth flow
// handles most: email addresses and secrets.
//
// NormalizeEmail produces the canonical form used for storage and lookups,
// so "User@Example.COM" and "user@example.com" resolve to the same account.
// MaskEmail and MaskString redact values for log output; they keep just
// enough of the original for a human to correlate entries.
//
// Normalization never rejects input. Malformed values pass through with
// only the safe transformations applied; deciding what is valid belongs to
// a validator.
package sanitizer
