package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// secretBytes is 256 bits, matching the HS256 key size used for tokens.
const secretBytes = 32

// GenerateSecret returns n random bytes, hex encoded
func GenerateSecret(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// GenerateJWTSecrets returns a distinct access and refresh signing secret
func GenerateJWTSecrets() (accessSecret, refreshSecret string, err error) {
	accessSecret, err = GenerateSecret(secretBytes)
	if err != nil {
		return "", "", err
	}
	refreshSecret, err = GenerateSecret(secretBytes)
	if err != nil {
		return "", "", err
	}
	return accessSecret, refreshSecret, nil
}
