package domain

import (
	"fmt"
	"strings"
)

type PhoneNumber string

func (n PhoneNumber) String() string {
	return string(n)
}

type Line struct {
	Number PhoneNumber
	Name   string
	Auth   Auth
}

// NormalizePhoneNumber drops the formatting characters people usually type
// ("514-555-0199", "(514) 555 0199") and keeps the digits.
func NormalizePhoneNumber(raw string) (PhoneNumber, error) {
	var b strings.Builder
	for _, r := range strings.TrimSpace(raw) {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '-' || r == ' ' || r == '(' || r == ')' || r == '.' || r == '+':
			continue
		default:
			return "", fmt.Errorf("invalid phone number %q", raw)
		}
	}

	if b.Len() == 0 {
		return "", fmt.Errorf("phone number is required")
	}

	return PhoneNumber(b.String()), nil
}

func (l Line) DisplayName() string {
	if name := strings.TrimSpace(l.Name); name != "" {
		return name
	}
	return fmt.Sprintf("Line %s", l.Number)
}
