package api

import (
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"
)

// fieldErrors maps field names to validation messages.
type fieldErrors map[string]string

func (e fieldErrors) require(field, value string) {
	if strings.TrimSpace(value) == "" {
		e[field] = field + " is required"
	}
}

func (e fieldErrors) lengthBetween(field, value string, min, max int) {
	n := utf8.RuneCountInString(strings.TrimSpace(value))
	switch {
	case n == 0:
		e[field] = field + " is required"
	case n < min:
		e[field] = fmt.Sprintf("%s must be at least %d characters", field, min)
	case n > max:
		e[field] = fmt.Sprintf("%s must be at most %d characters", field, max)
	}
}

func (e fieldErrors) email(field, value string) {
	if value == "" {
		e[field] = field + " is required"
		return
	}
	if _, err := mail.ParseAddress(value); err != nil {
		e[field] = "invalid email address"
	}
}

// emailInDomain checks that an address belongs to the allowed domain.
// An empty domain allows every address.
func emailInDomain(email, domain string) bool {
	if domain == "" {
		return true
	}
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return false
	}
	return strings.EqualFold(email[at+1:], domain)
}
