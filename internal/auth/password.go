package auth

import (
	"strings"

	"golang.org/x/crypto/bcrypt"

	"exportdesk/internal/apperrors"
)

// HashPassword hashes a plaintext password using bcrypt with DefaultCost.
func HashPassword(pw string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	return string(b), err
}

// CheckPassword compares a bcrypt hash with a candidate plaintext password.
func CheckPassword(hash, pw string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw))
}

const specialChars = "!@#$%^&*"

// CheckStrength enforces the password policy: at least 8 characters with an
// upper-case letter, a lower-case letter, a digit and one of !@#$%^&*.
func CheckStrength(pw string) error {
	if len(pw) < 8 {
		return apperrors.New(apperrors.CodeValidation, "password must be at least 8 characters")
	}
	var upper, lower, digit, special bool
	for _, r := range pw {
		switch {
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune(specialChars, r):
			special = true
		}
	}
	if !upper || !lower || !digit || !special {
		return apperrors.New(apperrors.CodeValidation,
			"password must contain upper and lower case letters, a digit and a special character (!@#$%^&*)")
	}
	return nil
}
