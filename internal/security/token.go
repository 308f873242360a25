package security

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// GenerateSessionToken returns an opaque URL-safe bearer token with
// length bytes of entropy. Sessions are resolved by looking the token up
// in storage; nothing is encoded in the token itself.
func GenerateSessionToken(length int) (string, error) {
	if length < 32 {
		length = 32 // at least 256 bits
	}
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
