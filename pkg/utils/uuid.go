package utils

import (
	"regexp"
	"strings"
)

// Tokens must look like a v1-v5 UUID before any database lookup. Malformed
// input is rejected cheaply and uniformly as not-found so the error shape
// never leaks whether a token exists.
var uuidPattern = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[1-5][0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`)

// IsValidUUID reports whether s is a well-formed v1-v5 UUID (case-insensitive).
func IsValidUUID(s string) bool {
	if len(s) != 36 {
		return false
	}
	return uuidPattern.MatchString(strings.ToLower(s))
}
