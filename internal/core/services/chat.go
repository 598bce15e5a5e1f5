package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/biz-cto/rag-chatbot/internal/core/domain"
	"github.com/biz-cto/rag-chatbot/internal/core/ports/driven"
	"github.com/biz-cto/rag-chatbot/internal/core/ports/driving"
)

// Ensure chatService implements ChatService
var _ driving.ChatService = (*chatService)(nil)

const (
	defaultHistoryWindow = 5
	defaultTopK          = 3
)

// 모델이 JSON 계약을 지키도록 하는 응답 형식 지시문.
const jsonFormatInstruction = `응답을 다음 JSON 형식으로 제공하세요:
{
  "answer": "사용자 질문에 대한 응답",
  "sources": [
    {
      "source": "출처 파일명",
      "contents": ["관련 내용 텍스트", ...]
    },
    ...
  ]
}
모든 답변은 반드시 한국어로 작성하세요.`

// ChatOptions tune the orchestrator. Zero values take defaults.
type ChatOptions struct {
	HistoryWindow int
	TopK          int
	Profile       domain.ModelProfile
}

// chatService implements the ChatService interface
type chatService struct {
	retriever     *Retriever
	llm           driven.LLMService
	conversations driven.ConversationStore
	logger        *slog.Logger

	historyWindow int
	topK          int
	profile       domain.ModelProfile
}

// NewChatService creates a new ChatService wiring retrieval, generation
// and conversation state together.
func NewChatService(
	retriever *Retriever,
	llm driven.LLMService,
	conversations driven.ConversationStore,
	opts ChatOptions,
	logger *slog.Logger,
) driving.ChatService {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.HistoryWindow <= 0 {
		opts.HistoryWindow = defaultHistoryWindow
	}
	if opts.TopK <= 0 {
		opts.TopK = defaultTopK
	}
	if opts.Profile.Primary == "" {
		opts.Profile = domain.DefaultModelProfile()
	}
	return &chatService{
		retriever:     retriever,
		llm:           llm,
		conversations: conversations,
		logger:        logger,
		historyWindow: opts.HistoryWindow,
		topK:          opts.TopK,
		profile:       opts.Profile,
	}
}

// ProcessMessage handles one user turn end to end. It never returns an
// error: every failure maps to a polite answer, with the diagnostic in
// the response's Error field.
func (s *chatService) ProcessMessage(ctx context.Context, message, sessionID string) domain.ChatResponse {
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	logger := s.logger.With("session_id", sessionID)

	if strings.TrimSpace(message) == "" {
		logger.Warn("received blank message")
		return domain.ChatResponse{
			Answer:    domain.MsgEmptyMessage,
			Sources:   []domain.SourceContent{},
			SessionID: sessionID,
		}
	}

	if err := s.conversations.Append(ctx, sessionID, domain.Turn{Role: domain.RoleUser, Content: message}); err != nil {
		logger.Error("failed to record user turn", "error", err)
		return s.failure(ctx, sessionID, err, logger)
	}

	retrieved := s.retriever.Retrieve(ctx, message, s.topK)
	if len(retrieved) == 0 {
		logger.Warn("no relevant documents found", "query_prefix", prefix(message, 30))
	}

	history, err := s.conversations.History(ctx, sessionID, s.historyWindow)
	if err != nil {
		logger.Error("failed to load conversation history", "error", err)
		return s.failure(ctx, sessionID, err, logger)
	}

	raw, err := s.llm.GenerateAnswer(ctx, domain.GenerationRequest{
		System:  buildSystemPrompt(retrieved),
		History: history,
		Profile: s.profile,
	})
	if err != nil {
		logger.Error("answer generation failed", "error", err)
		return s.failure(ctx, sessionID, err, logger)
	}

	answer, outcome := Normalize(raw, retrieved)
	if outcome == OutcomeRepaired {
		logger.Info("collapsed double-encoded model output")
	}

	// The history always receives the normalized text, never raw JSON.
	if err := s.conversations.Append(ctx, sessionID, domain.Turn{Role: domain.RoleAssistant, Content: answer.Answer}); err != nil {
		logger.Error("failed to record assistant turn", "error", err)
	}

	return domain.ChatResponse{
		Answer:    answer.Answer,
		Sources:   answer.Sources,
		SessionID: sessionID,
	}
}

// ResetConversation clears a session's history. Unknown sessions are a
// no-op, not an error.
func (s *chatService) ResetConversation(ctx context.Context, sessionID string) error {
	s.logger.Info("resetting conversation", "session_id", sessionID)
	return s.conversations.Reset(ctx, sessionID)
}

// failure appends a fixed apology as the assistant turn so the history
// stays consistent, then returns it with the diagnostic attached.
func (s *chatService) failure(ctx context.Context, sessionID string, cause error, logger *slog.Logger) domain.ChatResponse {
	if err := s.conversations.Append(ctx, sessionID, domain.Turn{Role: domain.RoleAssistant, Content: domain.MsgProcessingFailure}); err != nil {
		logger.Error("failed to record apology turn", "error", err)
	}
	return domain.ChatResponse{
		Answer:    domain.MsgProcessingFailure,
		Sources:   []domain.SourceContent{},
		SessionID: sessionID,
		Error:     cause.Error(),
	}
}

// buildSystemPrompt assembles the grounding prompt from the retrieved
// chunks. The model is told to answer only from the supplied context and
// to use a fixed sentence when the context does not cover the question.
func buildSystemPrompt(retrieved []domain.DocumentChunk) string {
	contents := make([]string, 0, len(retrieved))
	for _, chunk := range retrieved {
		contents = append(contents, chunk.Content)
	}
	context := strings.Join(contents, "\n\n")

	return fmt.Sprintf(`당신은 정확하고 전문적인 지식을 갖춘 AI 어시스턴트입니다.
사용자의 질문에 대해 아래 제공된 컨텍스트를 기반으로 정확하고 상세한 답변을 제공하세요.

답변 작성 가이드라인:
1. 컨텍스트에 명시된 정보만 사용하여 응답하세요.
2. 컨텍스트에 없는 정보는 추측하지 마세요.
3. 정확한 사실과 관련 세부 정보를 제공하세요.
4. 단락을 나누고 필요시 번호 매김을 사용하여 구조화된 응답을 제공하세요.
5. 컨텍스트에 관련 정보가 없는 경우, "%s"라고 명확히 답변하세요.

컨텍스트:
%s

%s`, domain.MsgNotInDocuments, context, jsonFormatInstruction)
}

func prefix(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
