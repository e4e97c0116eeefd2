package utils

import (
	"regexp"
	"strings"
)

var nonDigit = regexp.MustCompile(`\D`)

// NormalizePhoneNumber strips formatting characters from a guest phone
// number so the stored snapshot is digits only (with an optional leading +).
func NormalizePhoneNumber(phoneNumber string) string {
	phoneNumber = strings.TrimSpace(phoneNumber)
	prefix := ""
	if strings.HasPrefix(phoneNumber, "+") {
		prefix = "+"
	}
	return prefix + nonDigit.ReplaceAllString(phoneNumber, "")
}
