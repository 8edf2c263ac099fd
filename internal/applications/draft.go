package applications

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Fields is a raw form submission: field name to raw string value.
type Fields map[string]string

// DraftStore keeps in-progress form data between the confirm and submit
// steps, keyed by session and kind. Put replaces the whole map (the most
// recent POST wins, no merging), Get returns an empty map when nothing is
// stored, and Clear is idempotent. Drafts never reach durable storage.
type DraftStore interface {
	Put(ctx context.Context, sessionID string, kind Kind, fields Fields) error
	Get(ctx context.Context, sessionID string, kind Kind) (Fields, error)
	Clear(ctx context.Context, sessionID string, kind Kind) error
}

// RedisDraftStore stores drafts as JSON blobs in Redis with a TTL. A single
// SET per Put gives last-writer-wins semantics under concurrent requests
// from the same session.
type RedisDraftStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisDraftStore creates a Redis-backed draft store. ttl bounds how long
// an abandoned draft survives; zero means 24 hours.
func NewRedisDraftStore(client *redis.Client, ttl time.Duration) *RedisDraftStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisDraftStore{client: client, ttl: ttl}
}

func draftKey(sessionID string, kind Kind) string {
	return fmt.Sprintf("draft:%s:%s", sessionID, kind)
}

// Put replaces the stored draft for session+kind.
func (s *RedisDraftStore) Put(ctx context.Context, sessionID string, kind Kind, fields Fields) error {
	data, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("marshal draft: %w", err)
	}
	if err := s.client.Set(ctx, draftKey(sessionID, kind), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("store draft: %w", err)
	}
	return nil
}

// Get returns the stored draft, or an empty map if none exists.
func (s *RedisDraftStore) Get(ctx context.Context, sessionID string, kind Kind) (Fields, error) {
	data, err := s.client.Get(ctx, draftKey(sessionID, kind)).Bytes()
	if err == redis.Nil {
		return Fields{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load draft: %w", err)
	}
	var fields Fields
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("decode draft: %w", err)
	}
	if fields == nil {
		fields = Fields{}
	}
	return fields, nil
}

// Clear removes the draft for session+kind. Clearing a missing draft is not
// an error.
func (s *RedisDraftStore) Clear(ctx context.Context, sessionID string, kind Kind) error {
	if err := s.client.Del(ctx, draftKey(sessionID, kind)).Err(); err != nil {
		return fmt.Errorf("clear draft: %w", err)
	}
	return nil
}

// MemoryDraftStore is a mutex-guarded in-process draft store used in tests
// and when running without Redis.
type MemoryDraftStore struct {
	mu     sync.RWMutex
	drafts map[string]Fields
}

// NewMemoryDraftStore creates an empty in-memory draft store.
func NewMemoryDraftStore() *MemoryDraftStore {
	return &MemoryDraftStore{drafts: make(map[string]Fields)}
}

// Put replaces the stored draft for session+kind.
func (s *MemoryDraftStore) Put(ctx context.Context, sessionID string, kind Kind, fields Fields) error {
	copied := make(Fields, len(fields))
	for k, v := range fields {
		copied[k] = v
	}
	s.mu.Lock()
	s.drafts[draftKey(sessionID, kind)] = copied
	s.mu.Unlock()
	return nil
}

// Get returns a copy of the stored draft, or an empty map if none exists.
func (s *MemoryDraftStore) Get(ctx context.Context, sessionID string, kind Kind) (Fields, error) {
	s.mu.RLock()
	stored := s.drafts[draftKey(sessionID, kind)]
	s.mu.RUnlock()
	copied := make(Fields, len(stored))
	for k, v := range stored {
		copied[k] = v
	}
	return copied, nil
}

// Clear removes the draft for session+kind.
func (s *MemoryDraftStore) Clear(ctx context.Context, sessionID string, kind Kind) error {
	s.mu.Lock()
	delete(s.drafts, draftKey(sessionID, kind))
	s.mu.Unlock()
	return nil
}
