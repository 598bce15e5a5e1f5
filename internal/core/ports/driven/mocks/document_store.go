package mocks

import (
	"context"

	"github.com/biz-cto/rag-chatbot/internal/core/domain"
)

// MockDocumentStore is an in-memory DocumentStore for testing.
// SearchSimilar returns the first topK chunks regardless of the query so
// tests can assert on ordering without computing real similarities.
type MockDocumentStore struct {
	Chunks     []domain.DocumentChunk
	Embeddings [][]float32
	IsDegraded bool
	LoadCalls  int
}

// NewMockDocumentStore creates a new MockDocumentStore
func NewMockDocumentStore(chunks ...domain.DocumentChunk) *MockDocumentStore {
	return &MockDocumentStore{Chunks: chunks}
}

func (m *MockDocumentStore) Load(ctx context.Context) error {
	m.LoadCalls++
	return nil
}

func (m *MockDocumentStore) Documents() []domain.DocumentChunk {
	out := make([]domain.DocumentChunk, len(m.Chunks))
	copy(out, m.Chunks)
	return out
}

func (m *MockDocumentStore) Count() int {
	return len(m.Chunks)
}

func (m *MockDocumentStore) StoreEmbeddings(embeddings [][]float32) {
	if len(embeddings) > len(m.Chunks) {
		embeddings = embeddings[:len(m.Chunks)]
	}
	m.Embeddings = embeddings
}

func (m *MockDocumentStore) HasEmbeddings() bool {
	return len(m.Embeddings) > 0
}

func (m *MockDocumentStore) SearchSimilar(queryEmbedding []float32, topK int) []domain.DocumentChunk {
	if len(m.Embeddings) == 0 || len(queryEmbedding) == 0 || topK <= 0 {
		return []domain.DocumentChunk{}
	}
	if topK > len(m.Chunks) {
		topK = len(m.Chunks)
	}
	out := make([]domain.DocumentChunk, topK)
	copy(out, m.Chunks[:topK])
	return out
}

func (m *MockDocumentStore) Degraded() bool {
	return m.IsDegraded
}
