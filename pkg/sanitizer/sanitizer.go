package sanitizer

import (
	"regexp"
	"strings"
)

var consecutiveDots = regexp.MustCompile(`\.+`)

// NormalizeEmail lowercases and trims an address and collapses consecutive
// dots in the local part. Input that does not look like an email is
// returned trimmed and lowercased rather than rejected; validation is a
// separate concern.
func NormalizeEmail(email string) string {
	email = strings.ToLower(strings.TrimSpace(email))

	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return email
	}

	local := consecutiveDots.ReplaceAllString(parts[0], ".")
	local = strings.Trim(local, ".")

	return local + "@" + parts[1]
}

// MaskEmail hides the local part of an address while keeping the first
// character and the full domain, enough for a user to recognize their own
// address in a log line without the log storing it.
func MaskEmail(email string) string {
	email = strings.TrimSpace(email)
	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return email
	}

	local := parts[0]
	switch len(local) {
	case 0:
		return email
	case 1:
		return "*@" + parts[1]
	}
	return string(local[0]) + strings.Repeat("*", len(local)-1) + "@" + parts[1]
}

// MaskString keeps visibleChars runes at each end of s and stars the rest.
// Strings too short to hide anything come back fully starred, so a masked
// value never reveals more than half of the original.
func MaskString(s string, visibleChars int) string {
	if visibleChars < 0 {
		visibleChars = 1
	}

	runes := []rune(s)
	length := len(runes)
	if length <= visibleChars*2 {
		return strings.Repeat("*", length)
	}

	visible := min(visibleChars, length/2)
	return string(runes[:visible]) + strings.Repeat("*", length-visible*2) + string(runes[length-visible:])
}
