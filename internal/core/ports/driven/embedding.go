package driven

import "context"

// EmbeddingService generates text embeddings
type EmbeddingService interface {
	// EmbedQuery generates an embedding for a single query. Blank input
	// short-circuits to a zero vector without a remote call.
	EmbedQuery(ctx context.Context, query string) ([]float32, error)

	// EmbedDocuments generates embeddings for multiple texts. The result
	// is index-aligned with the input; a text that could not be embedded
	// is represented by a zero vector rather than aborting the batch.
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the embedding dimension size
	Dimensions() int

	// Model returns the model name being used
	Model() string
}
