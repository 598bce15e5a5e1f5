package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/biz-cto/rag-chatbot/internal/core/domain"
	"github.com/biz-cto/rag-chatbot/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.ConversationStore = (*ConversationStore)(nil)

const conversationPrefix = "conversation:"

// defaultSessionTTL expires idle conversations. Every append refreshes it.
const defaultSessionTTL = 12 * time.Hour

// ConversationStore implements driven.ConversationStore using Redis.
// Each session is a list of JSON-encoded turns; RPUSH keeps appends for
// the same session atomic, so no extra locking is needed across
// instances. Idle sessions expire via TTL.
type ConversationStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewConversationStore creates a new Redis-backed ConversationStore.
func NewConversationStore(client *redis.Client) *ConversationStore {
	return &ConversationStore{client: client, ttl: defaultSessionTTL}
}

// Append adds a turn to the session and refreshes its TTL.
func (s *ConversationStore) Append(ctx context.Context, sessionID string, turn domain.Turn) error {
	data, err := json.Marshal(turn)
	if err != nil {
		return fmt.Errorf("failed to marshal turn: %w", err)
	}

	key := conversationPrefix + sessionID
	pipe := s.client.Pipeline()
	pipe.RPush(ctx, key, data)
	pipe.Expire(ctx, key, s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to append turn: %w", err)
	}
	return nil
}

// History returns the most recent limit turns of the session in order.
func (s *ConversationStore) History(ctx context.Context, sessionID string, limit int) ([]domain.Turn, error) {
	start := int64(0)
	if limit > 0 {
		start = int64(-limit)
	}

	items, err := s.client.LRange(ctx, conversationPrefix+sessionID, start, -1).Result()
	if err == redis.Nil {
		return []domain.Turn{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}

	turns := make([]domain.Turn, 0, len(items))
	for _, item := range items {
		var turn domain.Turn
		if err := json.Unmarshal([]byte(item), &turn); err != nil {
			return nil, fmt.Errorf("failed to unmarshal turn: %w", err)
		}
		turns = append(turns, turn)
	}
	return turns, nil
}

// Reset clears a session's history. The next append recreates the key,
// so a reset session id stays usable.
func (s *ConversationStore) Reset(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, conversationPrefix+sessionID).Err(); err != nil {
		return fmt.Errorf("failed to reset session: %w", err)
	}
	return nil
}

// Sessions counts live conversation keys via SCAN to avoid blocking the
// server on large keyspaces.
func (s *ConversationStore) Sessions(ctx context.Context) (int, error) {
	var cursor uint64
	count := 0
	for {
		keys, next, err := s.client.Scan(ctx, cursor, conversationPrefix+"*", 100).Result()
		if err != nil {
			return 0, fmt.Errorf("failed to scan sessions: %w", err)
		}
		count += len(keys)
		cursor = next
		if cursor == 0 {
			return count, nil
		}
	}
}
