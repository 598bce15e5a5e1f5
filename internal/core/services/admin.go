package services

import (
	"context"
	"log/slog"

	"github.com/biz-cto/rag-chatbot/internal/core/domain"
	"github.com/biz-cto/rag-chatbot/internal/core/ports/driven"
	"github.com/biz-cto/rag-chatbot/internal/core/ports/driving"
)

// Ensure adminService implements AdminService
var _ driving.AdminService = (*adminService)(nil)

// Reloader accepts re-ingestion requests. The ingestion worker
// implements it.
type Reloader interface {
	// RequestReload queues a reload without blocking. Returns false when a
	// reload is already queued or running.
	RequestReload() bool
}

// adminService implements the AdminService interface
type adminService struct {
	store         driven.DocumentStore
	retriever     *Retriever
	conversations driven.ConversationStore
	reloader      Reloader
	logger        *slog.Logger
}

// NewAdminService creates a new AdminService.
func NewAdminService(
	store driven.DocumentStore,
	retriever *Retriever,
	conversations driven.ConversationStore,
	reloader Reloader,
	logger *slog.Logger,
) driving.AdminService {
	if logger == nil {
		logger = slog.Default()
	}
	return &adminService{
		store:         store,
		retriever:     retriever,
		conversations: conversations,
		reloader:      reloader,
		logger:        logger,
	}
}

// Stats reports chunk, embedding and session state.
func (s *adminService) Stats(ctx context.Context) (domain.ServiceStats, error) {
	sessions, err := s.conversations.Sessions(ctx)
	if err != nil {
		s.logger.Error("failed to count sessions", "error", err)
		return domain.ServiceStats{}, err
	}
	return domain.ServiceStats{
		Chunks:          s.store.Count(),
		EmbeddingsReady: s.retriever.Ready(),
		Sessions:        sessions,
		Degraded:        s.store.Degraded(),
	}, nil
}

// TriggerReload queues a full re-ingestion.
func (s *adminService) TriggerReload(_ context.Context) error {
	if s.reloader == nil {
		return domain.ErrServiceUnavailable
	}
	if !s.reloader.RequestReload() {
		s.logger.Warn("reload already in progress, ignoring request")
		return domain.ErrServiceUnavailable
	}
	s.logger.Info("document reload queued")
	return nil
}
