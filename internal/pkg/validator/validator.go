package validator

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

type ValidationError struct {
	Field   string
	Message string
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	var msgs []string
	for _, err := range v {
		msgs = append(msgs, err.Field+": "+err.Message)
	}
	return strings.Join(msgs, "; ")
}

func (v ValidationErrors) ToMap() map[string]string {
	result := make(map[string]string)
	for _, err := range v {
		result[err.Field] = err.Message
	}
	return result
}

// IsEmpty checks if a string is empty after trimming whitespace.
func IsEmpty(s string) bool {
	return strings.TrimSpace(s) == ""
}

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Email validation
func IsValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// LengthBetween reports whether the trimmed rune count of s is within [min, max].
func LengthBetween(s string, min, max int) bool {
	n := utf8.RuneCountInString(strings.TrimSpace(s))
	return n >= min && n <= max
}

// MaxLength reports whether s has at most max runes.
func MaxLength(s string, max int) bool {
	return utf8.RuneCountInString(s) <= max
}

var phoneCharsRegex = regexp.MustCompile(`^\+?[0-9 ()\-]+$`)

// IsValidPhoneNumber accepts international numbers such as "+5511999999999"
// or "(11) 99999-9999": an optional leading '+', then 8 to 15 digits with
// optional spaces, dashes and parentheses.
func IsValidPhoneNumber(phone string) bool {
	if !phoneCharsRegex.MatchString(phone) {
		return false
	}
	digits := 0
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	return digits >= 8 && digits <= 15
}
