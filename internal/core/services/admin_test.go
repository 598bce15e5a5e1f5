package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/biz-cto/rag-chatbot/internal/core/domain"
	"github.com/biz-cto/rag-chatbot/internal/core/ports/driven/mocks"
)

type fakeReloader struct {
	accept bool
	calls  int
}

func (f *fakeReloader) RequestReload() bool {
	f.calls++
	return f.accept
}

func TestAdminStats(t *testing.T) {
	store := mocks.NewMockDocumentStore(testChunks()...)
	retriever := NewRetriever(context.Background(), store, mocks.NewMockEmbeddingService(), nil)
	conversations := mocks.NewMockConversationStore()
	require.NoError(t, conversations.Append(context.Background(), "s1", domain.Turn{Role: domain.RoleUser, Content: "질문"}))

	svc := NewAdminService(store, retriever, conversations, &fakeReloader{accept: true}, nil)

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Chunks)
	assert.True(t, stats.EmbeddingsReady)
	assert.Equal(t, 1, stats.Sessions)
	assert.False(t, stats.Degraded)
}

func TestAdminTriggerReload(t *testing.T) {
	store := mocks.NewMockDocumentStore(testChunks()...)
	retriever := NewRetriever(context.Background(), store, mocks.NewMockEmbeddingService(), nil)
	reloader := &fakeReloader{accept: true}
	svc := NewAdminService(store, retriever, mocks.NewMockConversationStore(), reloader, nil)

	require.NoError(t, svc.TriggerReload(context.Background()))
	assert.Equal(t, 1, reloader.calls)

	reloader.accept = false
	err := svc.TriggerReload(context.Background())
	assert.ErrorIs(t, err, domain.ErrServiceUnavailable)
}

func TestAdminTriggerReloadWithoutWorker(t *testing.T) {
	store := mocks.NewMockDocumentStore()
	retriever := NewRetriever(context.Background(), store, mocks.NewMockEmbeddingService(), nil)
	svc := NewAdminService(store, retriever, mocks.NewMockConversationStore(), nil, nil)

	err := svc.TriggerReload(context.Background())
	assert.ErrorIs(t, err, domain.ErrServiceUnavailable)
}
