package domain

import (
	"fmt"
	"strings"
	"unicode"
)

const (
	minPasswordLength = 12
	maxPasswordLength = 128
)

// ValidatePassword enforces the registration password policy.
// Rules run independently and the first failing rule is reported.
func ValidatePassword(password, username string) error {
	if len(password) < minPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", ErrWeakPassword, minPasswordLength)
	}
	if len(password) > maxPasswordLength {
		return fmt.Errorf("%w: password must be <= %d characters", ErrWeakPassword, maxPasswordLength)
	}

	var (
		hasUpper bool
		hasLower bool
		hasDigit bool
		hasPunct bool
	)

	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			hasPunct = true
		}
	}

	if !hasLower {
		return fmt.Errorf("%w: password must include a lowercase letter", ErrWeakPassword)
	}
	if !hasUpper {
		return fmt.Errorf("%w: password must include an uppercase letter", ErrWeakPassword)
	}
	if !hasDigit {
		return fmt.Errorf("%w: password must include a digit", ErrWeakPassword)
	}
	if !hasPunct {
		return fmt.Errorf("%w: password must include a symbol", ErrWeakPassword)
	}

	if username != "" && strings.Contains(strings.ToLower(password), strings.ToLower(username)) {
		return fmt.Errorf("%w: password must not contain the username", ErrWeakPassword)
	}

	return nil
}
