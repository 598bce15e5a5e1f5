package driven

import (
	"context"

	"github.com/biz-cto/rag-chatbot/internal/core/domain"
)

// LLMService produces a grounded answer from a system prompt and bounded
// conversation history.
type LLMService interface {
	// GenerateAnswer invokes the chat-completion model and returns its
	// text. Transient failures are retried internally; when retries and
	// model fallbacks are exhausted a fixed degraded-service message is
	// returned with a nil error. A non-nil error means a hard adapter
	// failure (non-retryable error after the fallback model was tried).
	GenerateAnswer(ctx context.Context, req domain.GenerationRequest) (string, error)

	// Model returns the primary model identifier.
	Model() string
}
