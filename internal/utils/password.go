package utils

import (
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength is the shortest password accepted at registration,
// reset and change.
const MinPasswordLength = 8

// MaxPasswordBytes is the longest input bcrypt accepts.
const MaxPasswordBytes = 72

// HashPassword returns bcrypt hash using the given cost.
func HashPassword(plain string, cost int) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPassword safely compares bcrypt hash and plain password.  An empty or
// malformed hash simply fails the comparison.
func VerifyPassword(hash, plain string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// PasswordCheck is the outcome of ValidatePasswordStrength.  Message is empty
// when Valid is true.
type PasswordCheck struct {
	Valid   bool
	Message string
}

// ValidatePasswordStrength enforces length and character-class rules.
func ValidatePasswordStrength(plain string) PasswordCheck {
	if len(plain) < MinPasswordLength {
		return PasswordCheck{Message: "Password must be at least 8 characters long"}
	}
	if len(plain) > MaxPasswordBytes {
		return PasswordCheck{Message: "Password must be at most 72 bytes long"}
	}
	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, r := range plain {
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
	switch {
	case !hasUpper:
		return PasswordCheck{Message: "Password must contain at least one uppercase letter"}
	case !hasLower:
		return PasswordCheck{Message: "Password must contain at least one lowercase letter"}
	case !hasDigit:
		return PasswordCheck{Message: "Password must contain at least one number"}
	case !hasSpecial:
		return PasswordCheck{Message: "Password must contain at least one special character"}
	}
	return PasswordCheck{Valid: true}
}
