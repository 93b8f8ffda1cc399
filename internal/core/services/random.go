package services

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
)

const (
	// stateLength is the number of random bytes in a CSRF state.
	stateLength = 32
	// secretLength is the number of random bytes in a webhook secret.
	secretLength = 32
)

// generateState creates a random state parameter for CSRF protection.
func generateState() (string, error) {
	bytes := make([]byte, stateLength)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	// Use base64url encoding without padding
	return base64.RawURLEncoding.EncodeToString(bytes), nil
}

// generateWebhookSecret creates the shared secret providers sign deliveries with.
func generateWebhookSecret() (string, error) {
	bytes := make([]byte, secretLength)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
