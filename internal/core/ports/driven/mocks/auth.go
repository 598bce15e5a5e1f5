package mocks

import (
	"time"

	"github.com/biz-cto/rag-chatbot/internal/core/domain"
)

// MockAuthAdapter is a mock implementation of AuthAdapter for testing.
// Tokens are the subject prefixed with "token-"; passwords verify by
// string equality against the "hash".
type MockAuthAdapter struct {
	// GenerateErr makes GenerateToken fail.
	GenerateErr error
	// ParseErr makes ParseToken fail.
	ParseErr error
}

// NewMockAuthAdapter creates a new MockAuthAdapter
func NewMockAuthAdapter() *MockAuthAdapter {
	return &MockAuthAdapter{}
}

func (m *MockAuthAdapter) HashPassword(password string) (string, error) {
	return password, nil
}

func (m *MockAuthAdapter) VerifyPassword(password, hash string) bool {
	return password == hash
}

func (m *MockAuthAdapter) GenerateToken(subject string, ttl time.Duration) (string, time.Time, error) {
	if m.GenerateErr != nil {
		return "", time.Time{}, m.GenerateErr
	}
	return "token-" + subject, time.Now().Add(ttl), nil
}

func (m *MockAuthAdapter) ParseToken(token string) (string, error) {
	if m.ParseErr != nil {
		return "", m.ParseErr
	}
	const prefix = "token-"
	if len(token) <= len(prefix) || token[:len(prefix)] != prefix {
		return "", domain.ErrTokenInvalid
	}
	return token[len(prefix):], nil
}
