package bedrock

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/biz-cto/rag-chatbot/internal/core/domain"
	"github.com/biz-cto/rag-chatbot/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.LLMService = (*ChatClient)(nil)

const anthropicVersion = "bedrock-2023-05-31"

// ChatConfig configures the chat completion client.
type ChatConfig struct {
	MaxRetries     int
	RetryBaseDelay time.Duration
	RetryJitterMax time.Duration
	Temperature    float64
	TopP           float64
	TopK           int
}

// DefaultChatConfig returns the production defaults.
func DefaultChatConfig() ChatConfig {
	return ChatConfig{
		MaxRetries:     2,
		RetryBaseDelay: 500 * time.Millisecond,
		RetryJitterMax: 250 * time.Millisecond,
		Temperature:    0.5,
		TopP:           0.9,
		TopK:           50,
	}
}

// ChatClient implements driven.LLMService over the Bedrock Anthropic
// messages API. Transient failures are retried with backoff; before any
// backoff delay is paid the client switches to the fallback model once,
// since a model swap is free while a delay is not.
type ChatClient struct {
	invoker Invoker
	cfg     ChatConfig
	logger  *slog.Logger
}

// NewChatClient creates a chat client over the given invoker.
func NewChatClient(invoker Invoker, cfg ChatConfig, logger *slog.Logger) *ChatClient {
	if logger == nil {
		logger = slog.Default()
	}
	// Only the zero config takes the defaults; a partially filled config
	// is used as given, so zero retries or temperature 0 stay honored.
	if cfg == (ChatConfig{}) {
		cfg = DefaultChatConfig()
	}
	return &ChatClient{invoker: invoker, cfg: cfg, logger: logger}
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicRequest struct {
	AnthropicVersion string             `json:"anthropic_version"`
	MaxTokens        int                `json:"max_tokens"`
	System           string             `json:"system,omitempty"`
	Messages         []anthropicMessage `json:"messages"`
	Temperature      float64            `json:"temperature"`
	TopP             float64            `json:"top_p"`
	TopK             int                `json:"top_k"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

// GenerateAnswer runs one completion against the primary model,
// switching to the fallback model on failure. Exhausting every retry
// yields a fixed user-facing message with a nil error: the caller can
// always show the returned string.
func (c *ChatClient) GenerateAnswer(ctx context.Context, req domain.GenerationRequest) (string, error) {
	profile := req.Profile
	if profile.Primary == "" {
		profile = domain.DefaultModelProfile()
	}

	body, err := c.buildRequest(req, profile.MaxTokens)
	if err != nil {
		return "", fmt.Errorf("failed to build model request: %w", err)
	}

	modelID := profile.Primary
	fallbackTried := modelID == profile.Fallback || profile.Fallback == ""

	for attempt := 0; attempt <= c.cfg.MaxRetries; attempt++ {
		raw, err := c.invoker.InvokeModel(ctx, modelID, body)
		if err == nil {
			return c.parseCompletion(raw), nil
		}

		if !isRetryable(err) {
			if !fallbackTried {
				c.logger.Warn("switching to fallback model after fatal error",
					"from", modelID,
					"to", profile.Fallback,
					"error", err,
				)
				modelID = profile.Fallback
				fallbackTried = true
				raw, err = c.invoker.InvokeModel(ctx, modelID, body)
				if err == nil {
					return c.parseCompletion(raw), nil
				}
				if isRetryable(err) {
					continue
				}
			}
			return "", fmt.Errorf("model invocation failed: %w", err)
		}

		c.logger.Error("model invocation failed",
			"model", modelID,
			"attempt", attempt+1,
			"max_attempts", c.cfg.MaxRetries+1,
			"error", err,
		)

		// A model switch is free, a backoff delay is not. Try the
		// fallback immediately before paying any delay.
		if !fallbackTried {
			c.logger.Warn("switching to fallback model", "from", modelID, "to", profile.Fallback)
			modelID = profile.Fallback
			fallbackTried = true
			continue
		}

		if attempt < c.cfg.MaxRetries {
			delay := backoffDelay(c.cfg.RetryBaseDelay, attempt, c.cfg.RetryJitterMax)
			if err := sleep(ctx, delay); err != nil {
				return "", err
			}
		}
	}

	c.logger.Error("generation retries exhausted", "model", modelID)
	return domain.MsgGenerationExhausted, nil
}

// Model returns the default primary model identifier.
func (c *ChatClient) Model() string {
	return domain.DefaultModelProfile().Primary
}

func (c *ChatClient) buildRequest(req domain.GenerationRequest, maxTokens int) ([]byte, error) {
	if maxTokens <= 0 {
		maxTokens = domain.DefaultModelProfile().MaxTokens
	}
	messages := make([]anthropicMessage, 0, len(req.History))
	for _, turn := range req.History {
		messages = append(messages, anthropicMessage{
			Role:    string(turn.Role),
			Content: turn.Content,
		})
	}
	return json.Marshal(anthropicRequest{
		AnthropicVersion: anthropicVersion,
		MaxTokens:        maxTokens,
		System:           req.System,
		Messages:         messages,
		Temperature:      c.cfg.Temperature,
		TopP:             c.cfg.TopP,
		TopK:             c.cfg.TopK,
	})
}

// parseCompletion extracts the text content from a messages API
// response. An empty or malformed body maps to a fixed user-facing
// message rather than an error.
func (c *ChatClient) parseCompletion(raw []byte) string {
	var resp anthropicResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		c.logger.Error("failed to parse model response", "error", err)
		return domain.MsgEmptyCompletion
	}

	var sb strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" || block.Type == "" {
			sb.WriteString(block.Text)
		}
	}
	text := strings.TrimSpace(sb.String())
	if text == "" {
		c.logger.Warn("model returned empty completion")
		return domain.MsgEmptyCompletion
	}
	return text
}
