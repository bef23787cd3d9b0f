package cooldown

import (
	"context"
	"strings"
	"sync"
	"time"
)

// InMemoryStore mirrors the redis store for tests and single-process runs.
// Expiry is evaluated lazily on read; there is no sweeper goroutine.
type InMemoryStore struct {
	mu      sync.Mutex
	expires map[string]time.Time
	now     func() time.Time
}

func NewMemory() *InMemoryStore {
	return &InMemoryStore{
		expires: make(map[string]time.Time),
		now:     time.Now,
	}
}

// NewMemoryWithClock lets tests control time.
func NewMemoryWithClock(now func() time.Time) *InMemoryStore {
	s := NewMemory()
	s.now = now
	return s
}

func (s *InMemoryStore) Arm(_ context.Context, email string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expires[strings.ToLower(email)] = s.now().Add(ttl)
	return nil
}

func (s *InMemoryStore) Active(_ context.Context, email string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.ToLower(email)
	deadline, ok := s.expires[key]
	if !ok {
		return false, nil
	}
	if s.now().After(deadline) {
		delete(s.expires, key)
		return false, nil
	}
	return true, nil
}

func (s *InMemoryStore) Clear(_ context.Context, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.expires, strings.ToLower(email))
	return nil
}
