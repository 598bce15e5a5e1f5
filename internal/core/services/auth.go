package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/biz-cto/rag-chatbot/internal/core/domain"
	"github.com/biz-cto/rag-chatbot/internal/core/ports/driven"
	"github.com/biz-cto/rag-chatbot/internal/core/ports/driving"
)

// Ensure authService implements AuthService
var _ driving.AuthService = (*authService)(nil)

const adminSubject = "admin"

// authService implements the AuthService interface. The service has a
// single operator identity: a bcrypt hash of the admin password,
// exchanged for a short-lived bearer token.
type authService struct {
	authAdapter  driven.AuthAdapter
	passwordHash string
	tokenTTL     time.Duration
	logger       *slog.Logger
}

// NewAuthService creates a new AuthService around a pre-hashed admin
// password.
func NewAuthService(authAdapter driven.AuthAdapter, passwordHash string, logger *slog.Logger) driving.AuthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &authService{
		authAdapter:  authAdapter,
		passwordHash: passwordHash,
		tokenTTL:     24 * time.Hour,
		logger:       logger,
	}
}

// IssueToken exchanges the admin password for a bearer token.
func (s *authService) IssueToken(_ context.Context, password string) (domain.TokenResponse, error) {
	if password == "" {
		return domain.TokenResponse{}, domain.ErrInvalidInput
	}
	if s.passwordHash == "" {
		return domain.TokenResponse{}, domain.ErrServiceUnavailable
	}
	if !s.authAdapter.VerifyPassword(password, s.passwordHash) {
		s.logger.Warn("admin token request with wrong password")
		return domain.TokenResponse{}, domain.ErrInvalidCredentials
	}

	token, expiresAt, err := s.authAdapter.GenerateToken(adminSubject, s.tokenTTL)
	if err != nil {
		return domain.TokenResponse{}, err
	}
	return domain.TokenResponse{Token: token, ExpiresAt: expiresAt}, nil
}

// ValidateToken checks a bearer token.
func (s *authService) ValidateToken(_ context.Context, token string) error {
	if token == "" {
		return domain.ErrTokenInvalid
	}
	subject, err := s.authAdapter.ParseToken(token)
	if err != nil {
		return err
	}
	if subject != adminSubject {
		return domain.ErrUnauthorized
	}
	return nil
}
