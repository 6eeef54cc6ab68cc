package utils

import (
	"fmt"
	"regexp"
	"unicode/utf8"
)

// String length limits
const (
	MaxUsernameLength = 64
	MinUsernameLength = 3
	MaxPasswordLength = 128
	MinPasswordLength = 8
	MaxEmailLength    = 255
	MaxIDLength       = 128
	MaxNameLength     = 256
)

// Regular expressions for validation
var (
	// SafeIDPattern allows alphanumeric, hyphens, underscores
	SafeIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
	// UsernamePattern allows alphanumeric and underscores
	UsernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
	// EmailPattern is a basic email validation
	EmailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
)

// ValidateUsername checks username format and length.
func ValidateUsername(username string) error {
	length := utf8.RuneCountInString(username)
	if length < MinUsernameLength || length > MaxUsernameLength {
		return fmt.Errorf("username must be %d-%d characters", MinUsernameLength, MaxUsernameLength)
	}
	if !UsernamePattern.MatchString(username) {
		return fmt.Errorf("username may contain only letters, digits, and underscores")
	}
	return nil
}

// ValidatePassword checks password length bounds.
func ValidatePassword(password string) error {
	length := len(password)
	if length < MinPasswordLength {
		return fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	}
	if length > MaxPasswordLength {
		return fmt.Errorf("password must be at most %d characters", MaxPasswordLength)
	}
	return nil
}

// ValidateEmail checks email format. Empty input is allowed unless required.
func ValidateEmail(email string, required bool) error {
	if email == "" {
		if required {
			return fmt.Errorf("email is required")
		}
		return nil
	}
	if len(email) > MaxEmailLength {
		return fmt.Errorf("email must be at most %d characters", MaxEmailLength)
	}
	if !EmailPattern.MatchString(email) {
		return fmt.Errorf("invalid email format")
	}
	return nil
}

// ValidateID checks an entity ID parameter.
func ValidateID(id, field string, required bool) error {
	if id == "" {
		if required {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
	if len(id) > MaxIDLength {
		return fmt.Errorf("%s must be at most %d characters", field, MaxIDLength)
	}
	if !SafeIDPattern.MatchString(id) {
		return fmt.Errorf("%s contains invalid characters", field)
	}
	return nil
}

// ValidateName checks a user-supplied display name.
func ValidateName(name, field string) error {
	if name == "" {
		return fmt.Errorf("%s is required", field)
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return fmt.Errorf("%s must be at most %d characters", field, MaxNameLength)
	}
	return nil
}
