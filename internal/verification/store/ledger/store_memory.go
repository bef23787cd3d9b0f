package ledger

import (
	"context"
	"sort"
	"strings"
	"sync"

	"comercio/internal/verification/models"
	id "comercio/pkg/domain"
	"comercio/pkg/platform/sentinel"
)

// InMemoryStore keeps the verification ledger in process. It enforces the
// same one-PENDING-per-email rule as the postgres partial unique index, so
// service tests exercise the real conflict path, including the concurrent
// creation race.
type InMemoryStore struct {
	mu       sync.RWMutex
	requests map[id.RequestID]*models.VerificationRequest
}

func NewMemory() *InMemoryStore {
	return &InMemoryStore{requests: make(map[id.RequestID]*models.VerificationRequest)}
}

func key(email string) string { return strings.ToLower(email) }

func (s *InMemoryStore) Create(_ context.Context, req *models.VerificationRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if req.Status == models.StatusPending {
		for _, r := range s.requests {
			if key(r.Email) == key(req.Email) && r.Status == models.StatusPending {
				return sentinel.ErrConflict
			}
		}
	}
	cp := *req
	s.requests[req.ID] = &cp
	return nil
}

func (s *InMemoryStore) Update(_ context.Context, req *models.VerificationRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.requests[req.ID]; !ok {
		return sentinel.ErrNotFound
	}
	cp := *req
	s.requests[req.ID] = &cp
	return nil
}

func (s *InMemoryStore) Delete(_ context.Context, requestID id.RequestID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.requests[requestID]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.requests, requestID)
	return nil
}

func (s *InMemoryStore) FindPending(_ context.Context, email string) (*models.VerificationRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, r := range s.requests {
		if key(r.Email) == key(email) && r.Status == models.StatusPending {
			cp := *r
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *InMemoryStore) FindLatest(_ context.Context, email string) (*models.VerificationRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var latest *models.VerificationRequest
	for _, r := range s.requests {
		if key(r.Email) != key(email) {
			continue
		}
		if latest == nil || r.CreatedAt.After(latest.CreatedAt) {
			latest = r
		}
	}
	if latest == nil {
		return nil, nil
	}
	cp := *latest
	return &cp, nil
}

func (s *InMemoryStore) ListTerminal(_ context.Context, email string) ([]*models.VerificationRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.VerificationRequest
	for _, r := range s.requests {
		if key(r.Email) == key(email) && r.Status.Terminal() && r.Status != models.StatusVerified {
			cp := *r
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *InMemoryStore) List(_ context.Context, filter models.ListFilter) ([]*models.VerificationRequest, int, error) {
	filter.Normalize()

	s.mu.RLock()
	defer s.mu.RUnlock()

	var all []*models.VerificationRequest
	for _, r := range s.requests {
		if filter.Status != "" && r.Status != filter.Status {
			continue
		}
		cp := *r
		all = append(all, &cp)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })

	total := len(all)
	start := (filter.Page - 1) * filter.PageSize
	if start >= total {
		return nil, total, nil
	}
	end := min(start+filter.PageSize, total)
	return all[start:end], total, nil
}
