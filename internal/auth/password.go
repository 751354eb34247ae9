package auth

import (
	"errors"
	"fmt"
	"unicode"

	"github.com/hdang/siteadmin/params"
	"golang.org/x/crypto/bcrypt"
)

// CheckPassword verifies a password against its stored hash. bcrypt's
// comparison is constant time. A malformed stored hash surfaces ErrCrypto.
func CheckPassword(password, hash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, fmt.Errorf("%w: %v", ErrCrypto, err)
}

// ValidatePassword enforces the password policy: minimum length, uppercase,
// lowercase, digit and special character.
func ValidatePassword(password string) error {
	var violations []string
	if len(password) < params.MinPasswordLength {
		violations = append(violations, fmt.Sprintf("must be at least %d characters", params.MinPasswordLength))
	}
	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			hasSpecial = true
		}
	}
	if !hasUpper {
		violations = append(violations, "must contain an uppercase letter")
	}
	if !hasLower {
		violations = append(violations, "must contain a lowercase letter")
	}
	if !hasDigit {
		violations = append(violations, "must contain a digit")
	}
	if !hasSpecial {
		violations = append(violations, "must contain a special character")
	}
	if len(violations) > 0 {
		return &PolicyError{Violations: violations}
	}
	return nil
}
