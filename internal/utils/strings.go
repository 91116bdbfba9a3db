package utils

import "strings"

// TrimOrEmpty normalizes user input without turning nil into "nil".
func TrimOrEmpty(s string) string {
	return strings.TrimSpace(s)
}

// NormalizeFleet canonicalizes fleet numbers for matching against norms
// ("21h " -> "21H").
func NormalizeFleet(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// NormalizeSpace collapses repeated whitespace into a single space.
func NormalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
