package helpers

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"

	"golang.org/x/crypto/pbkdf2"
)

// Forum-compatible PBKDF2 parameters. Imported users keep their hash and salt,
// so these only matter for seeded accounts.
const (
	passwordIterations = 64000
	passwordKeyLen     = 32
	saltBytes          = 16
)

// NewSalt returns a random hex-encoded salt.
func NewSalt() (string, error) {
	b := make([]byte, saltBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// HashPassword derives a hex PBKDF2-SHA256 hash of plain with salt
func HashPassword(plain, salt string) string {
	key := pbkdf2.Key([]byte(plain), []byte(salt), passwordIterations, passwordKeyLen, sha256.New)
	return hex.EncodeToString(key)
}

// CompareHashAndPassword compares a stored hash and salt with a plain password
func CompareHashAndPassword(hash, salt, plain string) bool {
	return subtle.ConstantTimeCompare([]byte(hash), []byte(HashPassword(plain, salt))) == 1
}
