package utils

import (
	"unicode"
)

// ContainsControlChars checks if a string contains non-printable characters
func ContainsControlChars(s string) bool {
	for _, r := range s {
		if unicode.IsControl(r) {
			return true
		}
	}
	return false
}

// HasAlphanumeric checks if a string has at least one letter or digit
func HasAlphanumeric(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

// IsValidInput checks if a query should be sent to the index.
// Product names carry digits and symbols ("USB-C 2m", "4K"), so only empty input,
// control characters and queries made purely of punctuation are rejected.
func IsValidInput(s string) bool {
	if len(s) == 0 {
		return false
	}
	if ContainsControlChars(s) {
		return false
	}
	return HasAlphanumeric(s)
}
