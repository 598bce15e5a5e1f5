package mocks

import (
	"context"

	"github.com/biz-cto/rag-chatbot/internal/core/domain"
)

// MockLLMService is a mock implementation of LLMService for testing
type MockLLMService struct {
	// Response is returned verbatim from GenerateAnswer.
	Response string
	// Err makes GenerateAnswer fail (hard adapter failure).
	Err error

	// Requests records every request for assertion.
	Requests []domain.GenerationRequest
}

// NewMockLLMService creates a new MockLLMService
func NewMockLLMService(response string) *MockLLMService {
	return &MockLLMService{Response: response}
}

func (m *MockLLMService) GenerateAnswer(ctx context.Context, req domain.GenerationRequest) (string, error) {
	m.Requests = append(m.Requests, req)
	if m.Err != nil {
		return "", m.Err
	}
	return m.Response, nil
}

func (m *MockLLMService) Model() string {
	return "mock-llm-model"
}
