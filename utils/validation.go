// utils/validation.go
package utils

import (
	"regexp"
	"strings"
)

var phoneRegex = regexp.MustCompile(`^\+?[0-9]\d{5,14}$`)

// ValidatePhone accepts local (044 123 456) and international (+383 44 123 456) numbers.
func ValidatePhone(phone string) bool {
	cleaned := strings.NewReplacer(" ", "", "-", "", "(", "", ")", "", "/", "").Replace(phone)
	return phoneRegex.MatchString(cleaned)
}

// OrDefault returns "N/A" for blank values.
func OrDefault(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}
