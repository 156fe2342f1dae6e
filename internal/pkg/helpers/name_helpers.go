package helpers

import "strings"

// ScopeNameSlashEscape is how clients encode a literal "/" inside a path segment.
const ScopeNameSlashEscape = "!"

// DecodeScopeName turns a path-safe department or course name back into the stored name.
func DecodeScopeName(encoded string) string {
	return strings.ReplaceAll(encoded, ScopeNameSlashEscape, "/")
}

