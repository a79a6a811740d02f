package utils

import (
	"crypto/rand"
	"encoding/base64"
)

// GenerateRandomKey returns length random bytes, URL-safe base64 encoded. It
// backs the OAuth state parameter.
func GenerateRandomKey(length int) (string, error) {
	b := make([]byte, length)
	// err == nil only if we read len(b) bytes.
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
