// Package secrets mints and checks the operator API token. The server may be
// configured with the bcrypt hash instead of the token itself.
package secrets

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	dErrors "evote/pkg/domain-errors"
)

// Generate returns a random 256 bit token, base64url encoded.
func Generate() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("could not generate secret: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

func Hash(secret string) (string, error) {
	if secret == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "secret cannot be empty")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", dErrors.New(dErrors.CodeInvalidInput, "secret is too long")
		}
		return "", fmt.Errorf("could not hash secret: %w", err)
	}
	return string(hashed), nil
}

// IsHash reports whether expected looks like a bcrypt hash rather than a raw token.
func IsHash(expected string) bool {
	return strings.HasPrefix(expected, "$2a$") || strings.HasPrefix(expected, "$2b$") || strings.HasPrefix(expected, "$2y$")
}

// Matches compares a presented token with the configured value, which is either
// the raw token or its bcrypt hash. An empty configured value matches nothing.
func Matches(presented, expected string) bool {
	if expected == "" || presented == "" {
		return false
	}
	if IsHash(expected) {
		return bcrypt.CompareHashAndPassword([]byte(expected), []byte(presented)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(presented), []byte(expected)) == 1
}
