package auth

import (
	"crypto/subtle"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Cost 10 is ~100ms per hash; logins are rare.
const bcryptCost = 10

var ErrInvalidCredentials = errors.New("invalid email or password")

// HashPassword generates a bcrypt hash of the password
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword checks if the provided password matches the hash
func VerifyPassword(hashedPassword, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	return err == nil
}

// Admin is the single dashboard account configured at startup.
type Admin struct {
	Email        string
	PasswordHash string
}

// Check returns ErrInvalidCredentials unless both email and password match.
func (a Admin) Check(email, password string) error {
	if a.Email == "" || a.PasswordHash == "" {
		return ErrInvalidCredentials
	}
	want := strings.ToLower(strings.TrimSpace(a.Email))
	got := strings.ToLower(strings.TrimSpace(email))
	emailOK := subtle.ConstantTimeCompare([]byte(want), []byte(got)) == 1
	// always run bcrypt so a wrong email costs the same as a wrong password
	passOK := VerifyPassword(a.PasswordHash, password)
	if !emailOK || !passOK {
		return ErrInvalidCredentials
	}
	return nil
}
