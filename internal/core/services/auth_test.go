package services

import (
	"context"
	"errors"
	"testing"

	"github.com/biz-cto/rag-chatbot/internal/core/domain"
	"github.com/biz-cto/rag-chatbot/internal/core/ports/driven/mocks"
)

func TestAuthServiceIssueToken(t *testing.T) {
	// Mock hasher uses plain text comparison
	svc := NewAuthService(mocks.NewMockAuthAdapter(), "secret", nil)

	resp, err := svc.IssueToken(context.Background(), "secret")
	if err != nil {
		t.Fatalf("IssueToken returned error: %v", err)
	}
	if resp.Token == "" {
		t.Error("expected a token")
	}
	if resp.ExpiresAt.IsZero() {
		t.Error("expected an expiry time")
	}
}

func TestAuthServiceIssueTokenWrongPassword(t *testing.T) {
	svc := NewAuthService(mocks.NewMockAuthAdapter(), "secret", nil)

	if _, err := svc.IssueToken(context.Background(), "wrong"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.IssueToken(context.Background(), ""); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for empty password, got %v", err)
	}
}

func TestAuthServiceIssueTokenWithoutHash(t *testing.T) {
	svc := NewAuthService(mocks.NewMockAuthAdapter(), "", nil)

	if _, err := svc.IssueToken(context.Background(), "anything"); !errors.Is(err, domain.ErrServiceUnavailable) {
		t.Errorf("expected ErrServiceUnavailable without a configured password, got %v", err)
	}
}

func TestAuthServiceValidateToken(t *testing.T) {
	adapter := mocks.NewMockAuthAdapter()
	svc := NewAuthService(adapter, "secret", nil)

	resp, err := svc.IssueToken(context.Background(), "secret")
	if err != nil {
		t.Fatalf("IssueToken returned error: %v", err)
	}
	if err := svc.ValidateToken(context.Background(), resp.Token); err != nil {
		t.Errorf("expected issued token to validate, got %v", err)
	}

	if err := svc.ValidateToken(context.Background(), ""); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Errorf("expected ErrTokenInvalid for empty token, got %v", err)
	}
	if err := svc.ValidateToken(context.Background(), "garbage"); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Errorf("expected ErrTokenInvalid for garbage token, got %v", err)
	}
	// A well-formed token for a different subject is rejected.
	if err := svc.ValidateToken(context.Background(), "token-someone-else"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized for foreign subject, got %v", err)
	}
}

func TestAuthServiceValidateTokenExpired(t *testing.T) {
	adapter := mocks.NewMockAuthAdapter()
	adapter.ParseErr = domain.ErrTokenExpired
	svc := NewAuthService(adapter, "secret", nil)

	if err := svc.ValidateToken(context.Background(), "token-admin"); !errors.Is(err, domain.ErrTokenExpired) {
		t.Errorf("expected ErrTokenExpired, got %v", err)
	}
}
