package cryptox

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// HashCost is the bcrypt work factor. 12 keeps verification around tens of
// milliseconds on current hardware, which is the point of an adaptive hash.
const HashCost = 12

var ErrPasswordMismatch = errors.New("cryptox: password does not match")

// HashPassword generates a salted bcrypt hash of the password. Hashing the
// same plaintext twice yields different strings because bcrypt embeds a
// fresh random salt in each hash.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), HashCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword compares a plaintext password against a stored bcrypt hash.
// A malformed stored hash is reported as a mismatch, never a panic; callers
// must not be able to distinguish a corrupt record from a wrong password.
func VerifyPassword(password, encodedHash string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(encodedHash), []byte(password)); err != nil {
		return ErrPasswordMismatch
	}
	return nil
}
