package driven

import (
	"context"

	"github.com/biz-cto/rag-chatbot/internal/core/domain"
)

// ConversationStore keeps per-session turn history.
type ConversationStore interface {
	// Append adds a turn to the session, creating the session when it does
	// not exist yet.
	Append(ctx context.Context, sessionID string, turn domain.Turn) error

	// History returns the most recent limit turns of the session in order;
	// limit <= 0 returns the full history. An unknown session yields an
	// empty history, not an error.
	History(ctx context.Context, sessionID string, limit int) ([]domain.Turn, error)

	// Reset clears the session's history without invalidating the session
	// id. Resetting an unknown session is a no-op.
	Reset(ctx context.Context, sessionID string) error

	// Sessions returns the number of live sessions.
	Sessions(ctx context.Context) (int, error)
}
