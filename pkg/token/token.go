package token

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
)

// ErrInvalidLength is returned when a requested token length is not positive
// or, for hex tokens, not even.
var ErrInvalidLength = errors.New("invalid token length")

// Hex returns a random lowercase hex string of exactly length characters.
// Length must be positive and even (two characters per random byte).
func Hex(length int) (string, error) {
	if length <= 0 || length%2 != 0 {
		return "", fmt.Errorf("%w: %d", ErrInvalidLength, length)
	}

	b := make([]byte, length/2)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// URLSafe returns a base64url-encoded random token (no padding) built from
// numBytes random bytes. The encoded string is longer than numBytes.
func URLSafe(numBytes int) (string, error) {
	if numBytes <= 0 {
		return "", fmt.Errorf("%w: %d", ErrInvalidLength, numBytes)
	}

	b := make([]byte, numBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
