package utils

import (
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

const (
	PasswordMinLength = 8
	PasswordSpecials  = `!@#$%^&*(),.?":{}|<>`
	passwordHashCost  = 12
)

// HashPassword generates a bcrypt hash of the password.
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), passwordHashCost)
	return string(bytes), err
}

// CheckPasswordHash compares a plaintext password with a stored bcrypt hash.
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// PasswordPolicyViolations lists every rule the password breaks. An empty
// result means the password is acceptable. username may be empty.
func PasswordPolicyViolations(password, username string) []string {
	var out []string
	if len(password) < PasswordMinLength {
		out = append(out, "must be at least 8 characters long")
	}
	var upper, lower, digit, special bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case strings.ContainsRune(PasswordSpecials, r):
			special = true
		}
	}
	if !upper {
		out = append(out, "must contain at least one uppercase letter")
	}
	if !lower {
		out = append(out, "must contain at least one lowercase letter")
	}
	if !digit {
		out = append(out, "must contain at least one digit")
	}
	if !special {
		out = append(out, "must contain at least one special character")
	}
	if username != "" && strings.Contains(strings.ToLower(password), strings.ToLower(username)) {
		out = append(out, "must not contain the username")
	}
	return out
}
