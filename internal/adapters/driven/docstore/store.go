package docstore

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/biz-cto/rag-chatbot/internal/core/domain"
	"github.com/biz-cto/rag-chatbot/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.DocumentStore = (*Store)(nil)

const objectSuffix = ".pdf"

// Store is the in-memory document store. It ingests PDF pages from the
// blob namespace into chunks and pairs them with embedding vectors.
//
// One coarse mutex guards the chunk list, the embedding list and their
// index alignment: ingestion is rare and may block reads briefly, but a
// reader never observes a half-updated pair.
type Store struct {
	blobs     driven.BlobStore
	extractor driven.PageExtractor
	logger    *slog.Logger

	mu         sync.Mutex
	chunks     []domain.DocumentChunk
	embeddings [][]float32
	degraded   bool
}

// NewStore creates a document store over the given blob namespace.
func NewStore(blobs driven.BlobStore, extractor driven.PageExtractor, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		blobs:     blobs,
		extractor: extractor,
		logger:    logger,
	}
}

// Load ingests every PDF object in the namespace, one chunk per non-blank
// page. The previous chunk set and its embeddings are replaced wholesale.
// A failure on one object is logged and skipped; an unreachable namespace
// leaves the store empty and degraded.
func (s *Store) Load(ctx context.Context) error {
	keys, err := s.blobs.ListObjects(ctx, objectSuffix)
	if err != nil {
		s.logger.Error("document namespace unreachable", "error", err)
		s.replace(nil, true)
		return nil
	}

	s.logger.Info("loading documents", "objects", len(keys))

	var chunks []domain.DocumentChunk
	for _, key := range keys {
		if err := ctx.Err(); err != nil {
			return err
		}
		pages, err := s.loadObject(ctx, key)
		if err != nil {
			s.logger.Error("failed to process document", "key", key, "error", err)
			continue
		}
		for i, text := range pages {
			if strings.TrimSpace(text) == "" {
				continue
			}
			chunks = append(chunks, domain.DocumentChunk{
				Content: text,
				Source:  fmt.Sprintf("%s (페이지 %d)", key, i+1),
				File:    key,
				Page:    i + 1,
			})
		}
	}

	s.replace(chunks, false)
	s.logger.Info("documents loaded", "chunks", len(chunks))
	return nil
}

func (s *Store) loadObject(ctx context.Context, key string) ([]string, error) {
	data, err := s.blobs.Download(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("download: %w", err)
	}
	pages, err := s.extractor.ExtractPages(data)
	if err != nil {
		return nil, fmt.Errorf("extract: %w", err)
	}
	return pages, nil
}

// replace swaps in a fresh chunk set. Stored embeddings describe the old
// set, so they are dropped together.
func (s *Store) replace(chunks []domain.DocumentChunk, degraded bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chunks = chunks
	s.embeddings = nil
	s.degraded = degraded
}

// Documents returns a snapshot copy of all chunks.
func (s *Store) Documents() []domain.DocumentChunk {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.DocumentChunk, len(s.chunks))
	copy(out, s.chunks)
	return out
}

// Count returns the number of loaded chunks.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.chunks)
}

// StoreEmbeddings pairs vectors with the current chunks. When the counts
// differ, both lists are truncated to the shorter length so the alignment
// invariant holds; the discrepancy is logged, not hidden.
func (s *Store) StoreEmbeddings(embeddings [][]float32) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(embeddings) != len(s.chunks) {
		s.logger.Warn("embedding count does not match chunk count",
			"embeddings", len(embeddings),
			"chunks", len(s.chunks),
		)
		n := min(len(embeddings), len(s.chunks))
		embeddings = embeddings[:n]
		s.chunks = s.chunks[:n]
	}

	s.embeddings = embeddings
	s.logger.Info("embeddings stored", "count", len(embeddings))
}

// HasEmbeddings reports whether embeddings are stored.
func (s *Store) HasEmbeddings() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.embeddings) > 0
}

// SearchSimilar returns the topK most similar chunks by cosine similarity.
// The sort is stable, so equal scores keep their ingestion order.
func (s *Store) SearchSimilar(queryEmbedding []float32, topK int) []domain.DocumentChunk {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.embeddings) == 0 || len(s.chunks) == 0 {
		s.logger.Warn("similarity search requested with no embeddings")
		return []domain.DocumentChunk{}
	}
	if len(queryEmbedding) == 0 || topK <= 0 {
		return []domain.DocumentChunk{}
	}

	scores := make([]float64, len(s.embeddings))
	for i, emb := range s.embeddings {
		scores[i] = s.cosineSimilarity(queryEmbedding, emb)
	}

	indices := make([]int, len(scores))
	for i := range indices {
		indices[i] = i
	}
	sort.SliceStable(indices, func(a, b int) bool {
		return scores[indices[a]] > scores[indices[b]]
	})

	if topK > len(indices) {
		topK = len(indices)
	}
	out := make([]domain.DocumentChunk, 0, topK)
	for _, idx := range indices[:topK] {
		out = append(out, s.chunks[idx])
	}
	return out
}

// Degraded reports whether the last Load could not reach the namespace.
func (s *Store) Degraded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.degraded
}
