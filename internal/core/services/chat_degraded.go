package services

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/biz-cto/rag-chatbot/internal/core/domain"
	"github.com/biz-cto/rag-chatbot/internal/core/ports/driving"
)

// Ensure degradedChatService implements ChatService
var _ driving.ChatService = (*degradedChatService)(nil)

// degradedChatService serves a fixed unavailable message when the full
// pipeline could not be constructed at startup. It keeps the HTTP
// surface alive so health checks and clients get an honest answer
// instead of connection failures.
type degradedChatService struct {
	logger *slog.Logger
}

// NewDegradedChatService creates the stand-in service used when startup
// wiring fails.
func NewDegradedChatService(logger *slog.Logger) driving.ChatService {
	if logger == nil {
		logger = slog.Default()
	}
	return &degradedChatService{logger: logger}
}

func (s *degradedChatService) ProcessMessage(_ context.Context, _ string, sessionID string) domain.ChatResponse {
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	s.logger.Warn("serving degraded response", "session_id", sessionID)
	return domain.ChatResponse{
		Answer:    domain.MsgServiceUnavailable,
		Sources:   []domain.SourceContent{},
		SessionID: sessionID,
		Error:     domain.ErrServiceUnavailable.Error(),
	}
}

func (s *degradedChatService) ResetConversation(context.Context, string) error {
	return nil
}
