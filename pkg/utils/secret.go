package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
)

const actionTokenBytes = 32

// GenerateActionToken returns a fresh high-entropy URL-safe token for
// email-verification and password-reset links.
func GenerateActionToken() (string, error) {
	buf := make([]byte, actionTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// HashActionToken returns the hex sha256 of a token. Only the hash is ever
// stored; presented tokens are hashed and compared, so a storage read leak
// does not yield usable tokens.
func HashActionToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
