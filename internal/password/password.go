package password

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const hashCost = 10

// Hash returns a salted bcrypt hash of the password.
func Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), hashCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}

// Verify checks a password against a stored bcrypt hash. A mismatch returns
// (false, nil); only a malformed hash produces an error.
func Verify(password, hash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, fmt.Errorf("verify password: %w", err)
}
