package idempotency

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	value   string
	expires time.Time
}

// MemoryStore keeps keys in process memory. It is used when no Redis is
// configured and in tests.
type MemoryStore struct {
	mu        sync.Mutex
	entries   map[string]entry
	now       func() time.Time
	lockTTL   time.Duration
	resultTTL time.Duration
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries:   make(map[string]entry),
		now:       time.Now,
		lockTTL:   DefaultLockTTL,
		resultTTL: DefaultResultTTL,
	}
}

func (s *MemoryStore) Begin(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := storageKey(key)
	now := s.now()
	if e, ok := s.entries[k]; ok && now.Before(e.expires) {
		if e.value == processing {
			return "", false, ErrInProgress
		}
		return e.value, true, nil
	}

	s.entries[k] = entry{value: processing, expires: now.Add(s.lockTTL)}
	return "", false, nil
}

func (s *MemoryStore) Complete(_ context.Context, key, result string) error {
	s.mu.Lock()
	s.entries[storageKey(key)] = entry{value: result, expires: s.now().Add(s.resultTTL)}
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Release(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.entries, storageKey(key))
	s.mu.Unlock()
	return nil
}
