// Package token generates opaque single-use tokens for email
// verification and password reset links.
package token

import (
	"crypto/rand"
	"math/big"
)

const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// DefaultLength is the token length used for verification and reset
// tokens.
const DefaultLength = 32

// New returns a cryptographically secure random token of n characters
// drawn from an alphanumeric charset.
func New(n int) (string, error) {
	out := make([]byte, n)
	max := big.NewInt(int64(len(charset)))
	for i := range out {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		out[i] = charset[idx.Int64()]
	}
	return string(out), nil
}
