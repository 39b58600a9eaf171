package user

import (
	"fmt"
	"net/mail"
	"strings"

	"parkwise/utils"
)

const defaultMinPasswordLength = 6

// NormalizeEmail trims and lower-cases an address; emails compare case-insensitively.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *DefaultUserService) validateRegistration(name, email, password string) error {
	if name == "" || email == "" || password == "" {
		return utils.NewValidationError("All fields are required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return utils.NewValidationError("Invalid email address")
	}
	minLen := s.MinPasswordLength
	if minLen <= 0 {
		minLen = defaultMinPasswordLength
	}
	if len(password) < minLen {
		return utils.NewValidationError(fmt.Sprintf("Password must be at least %d characters", minLen))
	}
	return nil
}
