package mocks

import (
	"context"

	"github.com/biz-cto/rag-chatbot/internal/core/domain"
)

// MockConversationStore is an in-memory ConversationStore for testing
type MockConversationStore struct {
	Turns map[string][]domain.Turn

	// AppendErr makes Append fail.
	AppendErr error
	// HistoryErr makes History fail.
	HistoryErr error
}

// NewMockConversationStore creates a new MockConversationStore
func NewMockConversationStore() *MockConversationStore {
	return &MockConversationStore{Turns: make(map[string][]domain.Turn)}
}

func (m *MockConversationStore) Append(ctx context.Context, sessionID string, turn domain.Turn) error {
	if m.AppendErr != nil {
		return m.AppendErr
	}
	m.Turns[sessionID] = append(m.Turns[sessionID], turn)
	return nil
}

func (m *MockConversationStore) History(ctx context.Context, sessionID string, limit int) ([]domain.Turn, error) {
	if m.HistoryErr != nil {
		return nil, m.HistoryErr
	}
	turns := m.Turns[sessionID]
	if limit > 0 && len(turns) > limit {
		turns = turns[len(turns)-limit:]
	}
	out := make([]domain.Turn, len(turns))
	copy(out, turns)
	return out, nil
}

func (m *MockConversationStore) Reset(ctx context.Context, sessionID string) error {
	if _, ok := m.Turns[sessionID]; ok {
		m.Turns[sessionID] = []domain.Turn{}
	}
	return nil
}

func (m *MockConversationStore) Sessions(ctx context.Context) (int, error) {
	return len(m.Turns), nil
}
