package cache

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/jellydator/ttlcache/v3"
)

// MemoryStore is a single-process Store backed by ttlcache.
type MemoryStore struct {
	items *ttlcache.Cache[string, []byte]

	mu  sync.Mutex // orders SetIfGeneration against DeletePrefix
	gen int64
}

// NewMemoryStore starts the expiry loop; call Close to stop it.
func NewMemoryStore(defaultTTL time.Duration) *MemoryStore {
	items := ttlcache.New(
		ttlcache.WithTTL[string, []byte](defaultTTL),
		ttlcache.WithDisableTouchOnHit[string, []byte](),
	)
	go items.Start()
	return &MemoryStore{items: items}
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	item := s.items.Get(key)
	if item == nil {
		return nil, false, nil
	}
	return item.Value(), true, nil
}

func (s *MemoryStore) Set(_ context.Context, key string, val []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = ttlcache.DefaultTTL
	}
	s.items.Set(key, val, ttl)
	return nil
}

func (s *MemoryStore) Generation(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen, nil
}

func (s *MemoryStore) SetIfGeneration(ctx context.Context, key string, val []byte, ttl time.Duration, gen int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen {
		return false, nil
	}
	return true, s.Set(ctx, key, val, ttl)
}

// DeletePrefix advances the generation, then removes every key starting
// with prefix.
func (s *MemoryStore) DeletePrefix(_ context.Context, prefix string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	for _, k := range s.items.Keys() {
		if strings.HasPrefix(k, prefix) {
			s.items.Delete(k)
		}
	}
	return nil
}

func (s *MemoryStore) Close() error {
	s.items.Stop()
	return nil
}
