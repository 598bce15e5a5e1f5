package driven

import "time"

// AuthAdapter signs and verifies admin bearer tokens and password hashes.
type AuthAdapter interface {
	// HashPassword generates a bcrypt hash from a plaintext password
	HashPassword(password string) (string, error)

	// VerifyPassword checks if a password matches a bcrypt hash
	VerifyPassword(password, hash string) bool

	// GenerateToken creates a signed token for the given subject
	GenerateToken(subject string, ttl time.Duration) (token string, expiresAt time.Time, err error)

	// ParseToken validates a token and returns its subject.
	// Returns domain.ErrTokenExpired or domain.ErrTokenInvalid on failure.
	ParseToken(token string) (subject string, err error)
}
