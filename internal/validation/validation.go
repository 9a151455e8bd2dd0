// Package validation provides input validation utilities
package validation

import (
	"fmt"
	"regexp"
)

// MinPasswordLength is the minimum accepted password length.
const MinPasswordLength = 6

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// ValidateEmail checks basic email format
func ValidateEmail(email string) error {
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("invalid email format")
	}

	if len(email) > 254 {
		return fmt.Errorf("email must not exceed 254 characters")
	}

	return nil
}

// ValidatePassword checks if a password meets security requirements
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return fmt.Errorf("password must be at least %d characters long", MinPasswordLength)
	}

	// Prevent unreasonable inputs
	if len(password) > 128 {
		return fmt.Errorf("password must not exceed 128 characters")
	}

	return nil
}

// ValidateDisplayName checks if a display name meets requirements
func ValidateDisplayName(name string) error {
	if len(name) < 2 {
		return fmt.Errorf("display name must be at least 2 characters long")
	}

	if len(name) > 50 {
		return fmt.Errorf("display name must not exceed 50 characters")
	}

	return nil
}
