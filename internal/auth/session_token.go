package auth

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"time"
)

const (
	// DefaultSessionTTL is how long a login session stays usable.
	DefaultSessionTTL = 24 * time.Hour

	sessionTokenBytes = 32
)

// NewSessionToken returns an opaque bearer token with 256 bits of entropy.
func NewSessionToken() (string, error) {
	b := make([]byte, sessionTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
