package services

import (
	"strings"

	"golang.org/x/crypto/bcrypt"
)

const (
	bcryptCost        = 10
	passwordMinLength = 8
	passwordSymbols   = "!@#$%^&*()-_+."
)

// validatePassword reports whether password has at least 3 lowercase
// letters, 2 uppercase letters, 2 digits, 1 symbol and 8 characters.
func validatePassword(password string) bool {
	var lower, upper, digits, symbols, total int
	for _, r := range password {
		total++
		switch {
		case r >= 'a' && r <= 'z':
			lower++
		case r >= 'A' && r <= 'Z':
			upper++
		case r >= '0' && r <= '9':
			digits++
		case strings.ContainsRune(passwordSymbols, r):
			symbols++
		}
	}
	return lower >= 3 && upper >= 2 && digits >= 2 && symbols >= 1 && total >= passwordMinLength
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func checkPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
