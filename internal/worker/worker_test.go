package worker

import (
	"context"
	"testing"
	"time"

	"github.com/biz-cto/rag-chatbot/internal/core/domain"
	"github.com/biz-cto/rag-chatbot/internal/core/ports/driven/mocks"
	"github.com/biz-cto/rag-chatbot/internal/core/services"
)

func newTestWorker(t *testing.T, store *mocks.MockDocumentStore) *Worker {
	t.Helper()
	retriever := services.NewRetriever(context.Background(), store, mocks.NewMockEmbeddingService(), nil)
	return New(Config{
		Store:     store,
		Retriever: retriever,
		Runtime:   domain.NewRuntimeConfig("memory"),
		Logger:    nil,
	})
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func TestWorkerReload(t *testing.T) {
	store := mocks.NewMockDocumentStore(domain.DocumentChunk{
		Content: "연차 휴가는 15일입니다.",
		Source:  "policy.pdf (페이지 1)",
	})
	w := newTestWorker(t, store)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := w.Start(ctx); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	defer w.Stop()

	if !w.RequestReload() {
		t.Fatal("expected reload request accepted")
	}

	waitFor(t, func() bool { return store.LoadCalls == 1 })
	waitFor(t, func() bool { return w.runtime.DocumentsLoaded() })
	waitFor(t, func() bool { return w.runtime.EmbeddingAvailable() })
}

func TestWorkerCoalescesReloads(t *testing.T) {
	store := mocks.NewMockDocumentStore()
	w := newTestWorker(t, store)

	// Not started: the queue holds exactly one request.
	if !w.RequestReload() {
		t.Fatal("expected first request accepted")
	}
	if w.RequestReload() {
		t.Error("expected second request rejected while one is queued")
	}
}

func TestWorkerStartIsIdempotent(t *testing.T) {
	store := mocks.NewMockDocumentStore()
	w := newTestWorker(t, store)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := w.Start(ctx); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if err := w.Start(ctx); err != nil {
		t.Fatalf("second start failed: %v", err)
	}
	w.Stop()

	// Stop after stop is a no-op.
	w.Stop()
}

func TestWorkerStopWaitsForLoop(t *testing.T) {
	store := mocks.NewMockDocumentStore()
	w := newTestWorker(t, store)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := w.Start(ctx); err != nil {
		t.Fatalf("start failed: %v", err)
	}

	done := make(chan struct{})
	go func() {
		w.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("stop did not return")
	}
}
