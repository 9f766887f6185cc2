package security

import "crypto/subtle"

// APIKeyHeader carries the shared key of the honeypot endpoint
const APIKeyHeader = "x-api-key"

// APIKeyChecker compares presented keys against the configured one
type APIKeyChecker struct {
	key []byte
}

// NewAPIKeyChecker creates a checker. An empty key disables the check.
func NewAPIKeyChecker(key string) *APIKeyChecker {
	return &APIKeyChecker{key: []byte(key)}
}

// Enabled reports whether a key is configured
func (c *APIKeyChecker) Enabled() bool {
	return len(c.key) > 0
}

// Valid compares in constant time
func (c *APIKeyChecker) Valid(presented string) bool {
	return subtle.ConstantTimeCompare(c.key, []byte(presented)) == 1
}
