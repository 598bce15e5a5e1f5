package memory

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/biz-cto/rag-chatbot/internal/core/domain"
	"github.com/biz-cto/rag-chatbot/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.ConversationStore = (*ConversationStore)(nil)

const (
	defaultMaxSessions = 1000
	defaultIdleTTL     = 12 * time.Hour
)

// Options bound the store's growth. Zero values take defaults.
type Options struct {
	// MaxSessions caps the number of live sessions; exceeding it evicts
	// the least recently used one.
	MaxSessions int
	// IdleTTL evicts sessions untouched for this long.
	IdleTTL time.Duration
}

type session struct {
	mu       sync.Mutex
	turns    []domain.Turn
	lastSeen time.Time
}

// ConversationStore keeps per-session history in process memory.
// A session-level mutex serializes concurrent appends to the same
// session; different sessions never contend on it.
type ConversationStore struct {
	mu       sync.Mutex
	sessions map[string]*session
	opts     Options
	logger   *slog.Logger
	now      func() time.Time
}

// NewConversationStore creates an in-memory conversation store.
func NewConversationStore(opts Options, logger *slog.Logger) *ConversationStore {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.MaxSessions <= 0 {
		opts.MaxSessions = defaultMaxSessions
	}
	if opts.IdleTTL <= 0 {
		opts.IdleTTL = defaultIdleTTL
	}
	return &ConversationStore{
		sessions: make(map[string]*session),
		opts:     opts,
		logger:   logger,
		now:      time.Now,
	}
}

// Append adds a turn to the session, creating it when new.
func (s *ConversationStore) Append(_ context.Context, sessionID string, turn domain.Turn) error {
	sess := s.acquire(sessionID)
	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.turns = append(sess.turns, turn)
	return nil
}

// History returns the most recent limit turns in order.
func (s *ConversationStore) History(_ context.Context, sessionID string, limit int) ([]domain.Turn, error) {
	s.mu.Lock()
	sess, ok := s.sessions[sessionID]
	if ok {
		sess.lastSeen = s.now()
	}
	s.mu.Unlock()
	if !ok {
		return []domain.Turn{}, nil
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	turns := sess.turns
	if limit > 0 && len(turns) > limit {
		turns = turns[len(turns)-limit:]
	}
	out := make([]domain.Turn, len(turns))
	copy(out, turns)
	return out, nil
}

// Reset clears a session's history but keeps the session entry, so the
// session id stays valid for the next turn.
func (s *ConversationStore) Reset(_ context.Context, sessionID string) error {
	s.mu.Lock()
	sess, ok := s.sessions[sessionID]
	if ok {
		sess.lastSeen = s.now()
	}
	s.mu.Unlock()
	if !ok {
		return nil
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.turns = []domain.Turn{}
	return nil
}

// Sessions returns the number of live sessions.
func (s *ConversationStore) Sessions(context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions), nil
}

// acquire returns the session, creating it and evicting as needed.
func (s *ConversationStore) acquire(sessionID string) *session {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if sess, ok := s.sessions[sessionID]; ok {
		sess.lastSeen = now
		return sess
	}

	s.evictLocked(now)
	sess := &session{lastSeen: now}
	s.sessions[sessionID] = sess
	return sess
}

// evictLocked drops idle sessions, then the least recently used one if
// the store is still at capacity. Caller holds s.mu.
func (s *ConversationStore) evictLocked(now time.Time) {
	for id, sess := range s.sessions {
		if now.Sub(sess.lastSeen) > s.opts.IdleTTL {
			delete(s.sessions, id)
			s.logger.Info("evicted idle session", "session_id", id)
		}
	}

	if len(s.sessions) < s.opts.MaxSessions {
		return
	}
	var oldestID string
	var oldest time.Time
	for id, sess := range s.sessions {
		if oldestID == "" || sess.lastSeen.Before(oldest) {
			oldestID = id
			oldest = sess.lastSeen
		}
	}
	if oldestID != "" {
		delete(s.sessions, oldestID)
		s.logger.Warn("evicted least recently used session", "session_id", oldestID)
	}
}
