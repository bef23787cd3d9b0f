package store

import (
	"context"
	"sort"
	"strings"
	"sync"

	"comercio/internal/client/models"
	id "comercio/pkg/domain"
	"comercio/pkg/platform/sentinel"
)

// InMemoryStore mirrors the postgres store, including tax ID uniqueness.
type InMemoryStore struct {
	mu   sync.Mutex
	byID map[id.ClientID]*models.Client
}

func NewMemory() *InMemoryStore {
	return &InMemoryStore{byID: make(map[id.ClientID]*models.Client)}
}

func (s *InMemoryStore) Create(_ context.Context, client *models.Client) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.byID {
		if strings.EqualFold(existing.TaxID, client.TaxID) {
			return sentinel.ErrConflict
		}
	}
	clone := *client
	s.byID[client.ID] = &clone
	return nil
}

func (s *InMemoryStore) Find(_ context.Context, clientID id.ClientID) (*models.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	client, ok := s.byID[clientID]
	if !ok {
		return nil, nil
	}
	clone := *client
	return &clone, nil
}

func (s *InMemoryStore) Update(_ context.Context, client *models.Client) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[client.ID]; !ok {
		return sentinel.ErrNotFound
	}
	for _, existing := range s.byID {
		if existing.ID != client.ID && strings.EqualFold(existing.TaxID, client.TaxID) {
			return sentinel.ErrConflict
		}
	}
	clone := *client
	s.byID[client.ID] = &clone
	return nil
}

func (s *InMemoryStore) Delete(_ context.Context, clientID id.ClientID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[clientID]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.byID, clientID)
	return nil
}

func (s *InMemoryStore) List(_ context.Context, filter models.ListFilter) ([]*models.Client, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var matched []*models.Client
	for _, client := range s.byID {
		if filter.Zone != "" && !strings.EqualFold(client.Zone, filter.Zone) {
			continue
		}
		clone := *client
		matched = append(matched, &clone)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].Name < matched[j].Name
	})

	total := len(matched)
	start := (filter.Page - 1) * filter.PageSize
	if start >= total {
		return nil, total, nil
	}
	end := min(start+filter.PageSize, total)
	return matched[start:end], total, nil
}
