package validation

import (
	"fmt"
	"unicode/utf8"

	"github.com/platinummonkey/todo/pkg/apperrors"
)

const (
	// MinPasswordLength is counted in characters
	MinPasswordLength = 8
	// MaxPasswordBytes is the bcrypt input limit
	MaxPasswordBytes = 72
)

// Password applies the password policy. Violations are 400s.
func Password(password string) error {
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return apperrors.InvalidInput(fmt.Sprintf("Password must be at least %d characters", MinPasswordLength))
	}
	if len(password) > MaxPasswordBytes {
		return apperrors.InvalidInput(fmt.Sprintf("Password must be at most %d bytes", MaxPasswordBytes))
	}
	return nil
}
