package driven

import (
	"context"

	"github.com/biz-cto/rag-chatbot/internal/core/domain"
)

// DocumentStore holds ingested chunks and their embedding vectors.
// The chunk list and embedding list are index-aligned: position i of the
// embeddings always describes position i of the chunks.
type DocumentStore interface {
	// Load ingests all eligible documents from the blob namespace,
	// replacing any previously loaded chunks. Per-object failures are
	// logged and skipped; an unreachable namespace leaves the store empty
	// and degraded rather than returning an error.
	Load(ctx context.Context) error

	// Documents returns a snapshot copy of all chunks.
	Documents() []domain.DocumentChunk

	// Count returns the number of loaded chunks.
	Count() int

	// StoreEmbeddings associates freshly computed vectors with the current
	// chunks. Mismatched lengths truncate both lists to the shorter one.
	StoreEmbeddings(embeddings [][]float32)

	// HasEmbeddings reports whether embeddings are stored.
	HasEmbeddings() bool

	// SearchSimilar returns the topK chunks most similar to the query
	// vector by cosine similarity, ties broken by ingestion order. Returns
	// an empty slice when no embeddings exist, the query vector is empty,
	// or topK <= 0.
	SearchSimilar(queryEmbedding []float32, topK int) []domain.DocumentChunk

	// Degraded reports whether the last Load could not reach the namespace.
	Degraded() bool
}
