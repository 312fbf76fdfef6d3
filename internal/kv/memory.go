package kv

import (
	"context"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
)

// MemoryStore implements Store on an in-process go-cache instance. It backs
// local development (no Redis to run) and tests. Expiry is handled by
// go-cache's per-entry TTL plus a background janitor.
//
// go-cache has no combined get-and-delete, so GetDel takes a store-wide
// mutex around the pair. That serialises redemptions through one lock, which
// is fine for a single-process dev store; the Redis backend carries the
// production load.
type MemoryStore struct {
	mu    sync.Mutex
	cache *cache.Cache
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an in-process store. Expired entries are swept
// every minute; Get/GetDel treat expired-but-unswept entries as absent, so
// the sweep interval never affects correctness.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		cache: cache.New(cache.NoExpiration, time.Minute),
	}
}

func (s *MemoryStore) Set(_ context.Context, key, value string, ttl time.Duration) error {
	s.cache.Set(key, value, ttl)
	return nil
}

func (s *MemoryStore) Get(_ context.Context, key string) (string, error) {
	val, ok := s.cache.Get(key)
	if !ok {
		return "", ErrKeyNotFound
	}
	return val.(string), nil
}

func (s *MemoryStore) GetDel(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	val, ok := s.cache.Get(key)
	if !ok {
		return "", ErrKeyNotFound
	}
	s.cache.Delete(key)
	return val.(string), nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.cache.Get(key)
	if ok {
		s.cache.Delete(key)
	}
	return ok, nil
}
