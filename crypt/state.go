package crypt

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// GenerateState returns n random bytes encoded as unpadded base64url.
func GenerateState(n int) (string, error) {
	if n <= 0 {
		return "", fmt.Errorf("state length must be positive, got %d", n)
	}
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("read random: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
