package domain

import "sync"

// RuntimeConfig tracks which parts of the answer pipeline are usable.
// Flags are set at startup and updated by reloads; the service keeps
// serving in a degraded state when documents or embeddings are missing.
// Thread-safe for concurrent access.
type RuntimeConfig struct {
	mu sync.RWMutex

	// Static (set at startup, read-only)
	SessionBackend string // "redis" or "memory"

	// Dynamic capability flags
	documentsLoaded    bool
	embeddingAvailable bool
	llmAvailable       bool
}

// NewRuntimeConfig creates a new RuntimeConfig with initial values
func NewRuntimeConfig(sessionBackend string) *RuntimeConfig {
	return &RuntimeConfig{
		SessionBackend: sessionBackend,
	}
}

// DocumentsLoaded returns whether ingestion produced any chunks
func (c *RuntimeConfig) DocumentsLoaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.documentsLoaded
}

// EmbeddingAvailable returns whether document embeddings are initialized
func (c *RuntimeConfig) EmbeddingAvailable() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.embeddingAvailable
}

// LLMAvailable returns whether the chat-completion backend is usable
func (c *RuntimeConfig) LLMAvailable() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.llmAvailable
}

// SetDocumentsLoaded updates the ingestion flag
func (c *RuntimeConfig) SetDocumentsLoaded(loaded bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.documentsLoaded = loaded
}

// SetEmbeddingAvailable updates the embedding availability flag
func (c *RuntimeConfig) SetEmbeddingAvailable(available bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.embeddingAvailable = available
}

// SetLLMAvailable updates the LLM availability flag
func (c *RuntimeConfig) SetLLMAvailable(available bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.llmAvailable = available
}

// Ready reports whether the service can produce grounded answers.
// Retrieval degrades gracefully, so the LLM is the only hard requirement.
func (c *RuntimeConfig) Ready() bool {
	return c.LLMAvailable()
}

// FullyOperational reports whether every capability is up.
func (c *RuntimeConfig) FullyOperational() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.documentsLoaded && c.embeddingAvailable && c.llmAvailable
}
