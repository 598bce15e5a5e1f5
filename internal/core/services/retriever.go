package services

import (
	"context"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/biz-cto/rag-chatbot/internal/core/domain"
	"github.com/biz-cto/rag-chatbot/internal/core/ports/driven"
)

// Retriever finds the chunks most relevant to a query. Embeddings are
// computed eagerly at construction; when that fails (provider outage at
// cold start) each Retrieve call re-attempts initialization once before
// degrading to a random sample of the loaded chunks.
type Retriever struct {
	store    driven.DocumentStore
	embedder driven.EmbeddingService
	logger   *slog.Logger

	mu          sync.Mutex
	initialized bool
}

// NewRetriever creates a retriever and eagerly initializes document
// embeddings. Initialization failure is logged, not returned: the
// retriever stays usable in degraded mode.
func NewRetriever(ctx context.Context, store driven.DocumentStore, embedder driven.EmbeddingService, logger *slog.Logger) *Retriever {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Retriever{store: store, embedder: embedder, logger: logger}
	if err := r.InitEmbeddings(ctx); err != nil {
		logger.Error("initial embedding setup failed", "error", err)
	}
	return r
}

// InitEmbeddings embeds every loaded chunk and stores the vectors. Safe
// to call again after a document reload.
func (r *Retriever) InitEmbeddings(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.initEmbeddingsLocked(ctx)
}

func (r *Retriever) initEmbeddingsLocked(ctx context.Context) error {
	chunks := r.store.Documents()
	if len(chunks) == 0 {
		r.logger.Warn("no documents to embed")
		r.initialized = false
		return nil
	}

	contents := make([]string, len(chunks))
	for i, chunk := range chunks {
		contents[i] = chunk.Content
	}
	if len(contents) > 100 {
		r.logger.Warn("embedding a large document set, this may take a while", "count", len(contents))
	}

	start := time.Now()
	embeddings, err := r.embedder.EmbedDocuments(ctx, contents)
	if err != nil {
		r.initialized = false
		return err
	}
	if len(embeddings) == 0 {
		r.logger.Error("embedding produced no vectors")
		r.initialized = false
		return nil
	}
	if len(embeddings) != len(contents) {
		r.logger.Warn("embedding count does not match document count",
			"embeddings", len(embeddings),
			"documents", len(contents),
		)
	}

	r.store.StoreEmbeddings(embeddings)
	r.initialized = true
	r.logger.Info("document embeddings initialized",
		"count", len(embeddings),
		"took", time.Since(start),
	)
	return nil
}

// Ready reports whether document embeddings have been initialized.
func (r *Retriever) Ready() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.initialized
}

// Retrieve returns the topK chunks most similar to the query. A blank
// query returns nothing. When embeddings are unavailable the result is a
// random sample of loaded chunks so the caller still gets some context.
func (r *Retriever) Retrieve(ctx context.Context, query string, topK int) []domain.DocumentChunk {
	if query == "" || topK <= 0 {
		return []domain.DocumentChunk{}
	}

	r.mu.Lock()
	if !r.initialized {
		r.logger.Info("embeddings not initialized, retrying setup")
		if err := r.initEmbeddingsLocked(ctx); err != nil {
			r.logger.Error("embedding re-initialization failed", "error", err)
		}
	}
	ready := r.initialized
	r.mu.Unlock()

	if !ready {
		r.logger.Warn("embeddings unavailable, falling back to random sample")
		return r.randomSample(topK)
	}

	queryEmbedding, err := r.embedder.EmbedQuery(ctx, query)
	if err != nil {
		r.logger.Error("query embedding failed, falling back to random sample", "error", err)
		return r.randomSample(topK)
	}

	results := r.store.SearchSimilar(queryEmbedding, topK)
	if len(results) == 0 && r.store.Count() > 0 {
		// A reload drops the stored embeddings before rebuilding them, so
		// a chunk-bearing store that matches nothing is in that window.
		r.logger.Warn("similarity search returned nothing, falling back to random sample")
		return r.randomSample(topK)
	}
	return results
}

// randomSample returns up to topK chunks drawn without replacement.
func (r *Retriever) randomSample(topK int) []domain.DocumentChunk {
	chunks := r.store.Documents()
	if len(chunks) == 0 {
		return []domain.DocumentChunk{}
	}
	rand.Shuffle(len(chunks), func(i, j int) {
		chunks[i], chunks[j] = chunks[j], chunks[i]
	})
	return chunks[:min(topK, len(chunks))]
}
