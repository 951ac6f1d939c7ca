package utils

import (
	"html"
	"net/mail"
	"strings"
	"unicode"
)

// SanitizeString removes potentially dangerous characters and escapes HTML
func SanitizeString(input string) string {
	return html.EscapeString(strings.TrimSpace(input))
}

// SanitizeEmail sanitizes email input
func SanitizeEmail(email string) string {
	email = strings.ToLower(strings.TrimSpace(email))

	var result strings.Builder
	for _, r := range email {
		if unicode.IsPrint(r) && !unicode.IsSpace(r) {
			result.WriteRune(r)
		}
	}

	return result.String()
}

func IsValidEmail(email string) bool {
	_, err := mail.ParseAddress(email)
	return err == nil
}

// SanitizeText sanitizes multi-line text input, keeping newlines and tabs.
func SanitizeText(input string) string {
	escaped := html.EscapeString(strings.TrimSpace(input))

	var result strings.Builder
	for _, r := range escaped {
		if unicode.IsPrint(r) || r == '\n' || r == '\t' || r == '\r' {
			result.WriteRune(r)
		}
	}

	return result.String()
}
