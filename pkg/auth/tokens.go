package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
)

// Byte sizes of the random tokens. Hex output is twice as long.
const (
	RegistrationTokenBytes = 3 // 6 hex chars, mailed at registration
	RequestedTokenBytes    = 4 // 8 hex chars, mailed on explicit code request
	SecurityKeyBytes       = 8 // 16 hex chars, issued to admins
)

// GenerateHexToken returns n random bytes rendered as lowercase hex.
func GenerateHexToken(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// GenerateSecurityKey returns a fresh admin security key.
func GenerateSecurityKey() (string, error) {
	return GenerateHexToken(SecurityKeyBytes)
}

// TokensEqual compares a stored token with caller input in constant time.
// An empty stored token never matches.
func TokensEqual(stored, supplied string) bool {
	if stored == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(supplied)) == 1
}
