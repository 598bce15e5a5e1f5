package domain

import "time"

// Turn roles. History is logically user→assistant alternating, but the
// store does not enforce strict alternation: error paths still append an
// assistant turn so a follow-up message is never confused by a missing one.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is a single message within a conversation session.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// SourceContent is one citation entry of a structured answer.
type SourceContent struct {
	Source   string   `json:"source"`
	Contents []string `json:"contents"`
}

// StructuredAnswer is the externally guaranteed answer shape. Sources may
// be empty but is always present as a sequence, never absent.
type StructuredAnswer struct {
	Answer  string          `json:"answer"`
	Sources []SourceContent `json:"sources"`
}

// ChatRequest is the inbound chat message payload.
type ChatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id,omitempty"`
}

// ChatResponse is the outbound chat payload.
type ChatResponse struct {
	Answer    string          `json:"answer"`
	Sources   []SourceContent `json:"sources"`
	SessionID string          `json:"session_id"`
	Error     string          `json:"error,omitempty"`
}

// ResetRequest clears the history of one session.
type ResetRequest struct {
	SessionID string `json:"session_id"`
}

// MessageResponse is a simple confirmation payload.
type MessageResponse struct {
	Message string `json:"message"`
}

// TokenRequest exchanges the admin password for a bearer token.
type TokenRequest struct {
	Password string `json:"password"`
}

// TokenResponse carries an issued admin token.
type TokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ServiceStats summarises the state of the pipeline for the admin API.
type ServiceStats struct {
	Chunks          int  `json:"chunks"`
	EmbeddingsReady bool `json:"embeddings_ready"`
	Sessions        int  `json:"sessions"`
	Degraded        bool `json:"degraded"`
}

// ModelProfile selects the models and generation bounds for one LLM call.
// It is threaded explicitly through the call chain; model choice is never
// read from ambient process state mid-request.
type ModelProfile struct {
	Primary   string
	Fallback  string // empty or equal to Primary means no distinct fallback
	MaxTokens int
}

// DefaultModelProfile returns the profile used when none is configured.
func DefaultModelProfile() ModelProfile {
	return ModelProfile{
		Primary:   "anthropic.claude-instant-v1",
		MaxTokens: 1024,
	}
}

// GenerationRequest is one grounded chat-completion request.
type GenerationRequest struct {
	System  string
	History []Turn
	Profile ModelProfile
}
