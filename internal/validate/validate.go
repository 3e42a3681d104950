// Package validate checks the syntax of the identifying fields a customer types in.
// Validators never fail loudly: malformed input is simply false.
package validate

import (
	"regexp"
	"strings"
)

var (
	orderIDRe = regexp.MustCompile(`^AB-[0-9]{6}$`)
	zipRe     = regexp.MustCompile(`^[0-9]{5}(-[0-9]{4})?$`)
	emailRe   = regexp.MustCompile(`^[^@]+@[^@]+\.[^@]+$`)
)

// OrderID reports whether s is AB- followed by exactly six digits, ignoring case and surrounding space.
func OrderID(s string) bool {
	return orderIDRe.MatchString(NormalizeOrderID(s))
}

// Zip accepts 94107 and 94107-1234.
func Zip(s string) bool {
	return zipRe.MatchString(strings.TrimSpace(s))
}

// Email requires a single @ with a dot somewhere after it and non-empty parts around both.
func Email(s string) bool {
	return emailRe.MatchString(strings.ToLower(strings.TrimSpace(s)))
}

func NormalizeOrderID(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
