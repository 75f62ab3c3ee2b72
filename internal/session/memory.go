package session

import (
	"context"
	"sync"

	"amumal/internal/models"
)

// MemoryStore is the fallback session store used when Redis is unavailable,
// and in tests. Sessions do not survive a restart.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string][]byte
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string][]byte)}
}

func (s *MemoryStore) Save(ctx context.Context, sid string, partial map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	merged, err := mergeRaw(ctx, s.records[sid], partial)
	if err != nil {
		return err
	}
	s.records[sid] = merged
	return nil
}

func (s *MemoryStore) Load(ctx context.Context, sid string) (*models.SessionRecord, error) {
	s.mu.RLock()
	raw, ok := s.records[sid]
	s.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	return decodeRecord(ctx, raw), nil
}

func (s *MemoryStore) Clear(_ context.Context, sid string) error {
	s.mu.Lock()
	delete(s.records, sid)
	s.mu.Unlock()
	return nil
}

// seed is a test hook that stores a raw blob verbatim, bypassing merge.
func (s *MemoryStore) seed(sid string, raw []byte) {
	s.mu.Lock()
	s.records[sid] = raw
	s.mu.Unlock()
}
