package bedrock

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/biz-cto/rag-chatbot/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.EmbeddingService = (*EmbeddingClient)(nil)

// Titan accepts roughly 8K tokens; overlong input is cut at a character
// budget well under that before the call.
const maxEmbeddingInputChars = 8000

// EmbeddingConfig configures the embedding client.
type EmbeddingConfig struct {
	ModelID        string
	Dimensions     int
	BatchSize      int
	BatchPause     time.Duration
	MaxRetries     int
	RetryBaseDelay time.Duration
	RetryJitterMax time.Duration
}

// DefaultEmbeddingConfig returns the production defaults.
func DefaultEmbeddingConfig() EmbeddingConfig {
	return EmbeddingConfig{
		ModelID:        "amazon.titan-embed-text-v1",
		Dimensions:     1536,
		BatchSize:      20,
		BatchPause:     500 * time.Millisecond,
		MaxRetries:     3,
		RetryBaseDelay: 200 * time.Millisecond,
		RetryJitterMax: 100 * time.Millisecond,
	}
}

// EmbeddingClient implements driven.EmbeddingService over the Bedrock
// Titan embedding model. One failed text never blocks a whole answer:
// every degradation path substitutes a zero vector and logs.
type EmbeddingClient struct {
	invoker Invoker
	cfg     EmbeddingConfig
	logger  *slog.Logger
}

// NewEmbeddingClient creates an embedding client over the given invoker.
func NewEmbeddingClient(invoker Invoker, cfg EmbeddingConfig, logger *slog.Logger) *EmbeddingClient {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.ModelID == "" {
		cfg = DefaultEmbeddingConfig()
	}
	return &EmbeddingClient{invoker: invoker, cfg: cfg, logger: logger}
}

type embeddingRequest struct {
	InputText string `json:"inputText"`
}

type embeddingResponse struct {
	Embedding []float32 `json:"embedding"`
}

// EmbedQuery generates an embedding for a single query. Blank input
// short-circuits to a zero vector without a remote call.
func (e *EmbeddingClient) EmbedQuery(ctx context.Context, query string) ([]float32, error) {
	if strings.TrimSpace(query) == "" {
		e.logger.Warn("embedding requested for blank query")
		return e.zeroVector(), nil
	}
	return e.getEmbedding(ctx, query), nil
}

// EmbedDocuments embeds texts in batches with a short pause between
// batches to stay under the provider's rate limits. The result is always
// index-aligned with the input.
func (e *EmbeddingClient) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	embeddings := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += e.cfg.BatchSize {
		end := min(start+e.cfg.BatchSize, len(texts))
		e.logger.Info("embedding document batch",
			"from", start+1,
			"to", end,
			"total", len(texts),
		)

		for _, text := range texts[start:end] {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			embeddings = append(embeddings, e.getEmbedding(ctx, text))
		}

		if end < len(texts) {
			if err := sleep(ctx, e.cfg.BatchPause); err != nil {
				return nil, err
			}
		}
	}
	return embeddings, nil
}

// Dimensions returns the embedding dimension size
func (e *EmbeddingClient) Dimensions() int {
	return e.cfg.Dimensions
}

// Model returns the model name being used
func (e *EmbeddingClient) Model() string {
	return e.cfg.ModelID
}

// getEmbedding performs one embedding call with retry and backoff.
// Exhausting retries returns a zero vector rather than an error so a
// single failed embedding never aborts the caller.
func (e *EmbeddingClient) getEmbedding(ctx context.Context, text string) []float32 {
	cleaned := strings.TrimSpace(strings.ReplaceAll(text, "\n", " "))
	if cleaned == "" {
		return e.zeroVector()
	}
	if runes := []rune(cleaned); len(runes) > maxEmbeddingInputChars {
		e.logger.Warn("truncating overlong embedding input",
			"length", len(runes),
			"limit", maxEmbeddingInputChars,
		)
		cleaned = string(runes[:maxEmbeddingInputChars])
	}

	body, err := json.Marshal(embeddingRequest{InputText: cleaned})
	if err != nil {
		e.logger.Error("failed to marshal embedding request", "error", err)
		return e.zeroVector()
	}

	for attempt := 0; attempt <= e.cfg.MaxRetries; attempt++ {
		raw, err := e.invoker.InvokeModel(ctx, e.cfg.ModelID, body)
		if err == nil {
			embedding, perr := parseEmbedding(raw)
			if perr == nil {
				return embedding
			}
			e.logger.Error("invalid embedding response", "error", perr)
			return e.zeroVector()
		}

		if !isRetryable(err) {
			e.logger.Error("fatal embedding error", "model", e.cfg.ModelID, "error", err)
			return e.zeroVector()
		}

		e.logger.Error("embedding call failed",
			"attempt", attempt+1,
			"max_attempts", e.cfg.MaxRetries+1,
			"error", err,
		)
		if attempt < e.cfg.MaxRetries {
			delay := backoffDelay(e.cfg.RetryBaseDelay, attempt, e.cfg.RetryJitterMax)
			if err := sleep(ctx, delay); err != nil {
				return e.zeroVector()
			}
		}
	}

	e.logger.Error("embedding retries exhausted, returning zero vector", "model", e.cfg.ModelID)
	return e.zeroVector()
}

func parseEmbedding(raw []byte) ([]float32, error) {
	var resp embeddingResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if len(resp.Embedding) == 0 {
		return nil, fmt.Errorf("response contains no embedding")
	}
	return resp.Embedding, nil
}

func (e *EmbeddingClient) zeroVector() []float32 {
	return make([]float32, e.cfg.Dimensions)
}
