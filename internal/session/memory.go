package session

import (
	"context"
	"sync"
	"time"

	"StockTrend/internal/domain/models"
)

type entry struct {
	q   models.UserQuery
	exp time.Time
}

// MemoryStore is a TTL map. Expired entries are dropped on read and by a
// periodic sweep.
type MemoryStore struct {
	mu   sync.RWMutex
	m    map[string]entry
	ttl  time.Duration
	now  func() time.Time
	stop chan struct{}
	once sync.Once
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	s := &MemoryStore{
		m:    make(map[string]entry),
		ttl:  ttl,
		now:  time.Now,
		stop: make(chan struct{}),
	}
	go s.sweepLoop(ttl)
	return s
}

func (s *MemoryStore) Get(_ context.Context, id string) (models.UserQuery, error) {
	s.mu.RLock()
	e, ok := s.m[id]
	s.mu.RUnlock()
	if !ok {
		return models.UserQuery{}, ErrNotFound
	}
	if s.now().After(e.exp) {
		s.mu.Lock()
		delete(s.m, id)
		s.mu.Unlock()
		return models.UserQuery{}, ErrNotFound
	}
	return e.q, nil
}

// Put stores q and refreshes the expiry.
func (s *MemoryStore) Put(_ context.Context, id string, q models.UserQuery) error {
	s.mu.Lock()
	s.m[id] = entry{q: q, exp: s.now().Add(s.ttl)}
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	delete(s.m, id)
	s.mu.Unlock()
	return nil
}

// Len returns the number of stored sessions, expired or not.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.m)
}

func (s *MemoryStore) Close() error {
	s.once.Do(func() { close(s.stop) })
	return nil
}

func (s *MemoryStore) sweepLoop(ttl time.Duration) {
	interval := ttl / 4
	if interval < time.Minute {
		interval = time.Minute
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-t.C:
			s.sweep()
		case <-s.stop:
			return
		}
	}
}

func (s *MemoryStore) sweep() {
	now := s.now()
	s.mu.Lock()
	for id, e := range s.m {
		if now.After(e.exp) {
			delete(s.m, id)
		}
	}
	s.mu.Unlock()
}
