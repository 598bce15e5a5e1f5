package driving

import (
	"context"

	"github.com/biz-cto/rag-chatbot/internal/core/domain"
)

// ChatService handles one conversational turn per call. Both the full
// pipeline and the degraded startup fallback implement it; the variant is
// chosen once at startup and never swapped per-request.
type ChatService interface {
	// ProcessMessage answers a user message within a session. It never
	// surfaces pipeline failures as errors: degraded paths return a fixed
	// apology with the Error field set instead.
	ProcessMessage(ctx context.Context, message, sessionID string) domain.ChatResponse

	// ResetConversation clears a session's history. Idempotent; unknown
	// sessions are a no-op.
	ResetConversation(ctx context.Context, sessionID string) error
}
