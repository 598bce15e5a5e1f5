package driving

import (
	"context"

	"github.com/biz-cto/rag-chatbot/internal/core/domain"
)

// AdminService exposes operational controls over the pipeline.
type AdminService interface {
	// Stats reports chunk, embedding and session state.
	Stats(ctx context.Context) (domain.ServiceStats, error)

	// TriggerReload requests a full re-ingestion. Returns ErrServiceUnavailable
	// when a reload is already in progress.
	TriggerReload(ctx context.Context) error
}

// AuthService issues and validates admin tokens.
type AuthService interface {
	// IssueToken exchanges the admin password for a bearer token.
	IssueToken(ctx context.Context, password string) (domain.TokenResponse, error)

	// ValidateToken checks a bearer token.
	ValidateToken(ctx context.Context, token string) error
}
