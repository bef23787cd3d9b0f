package store

import (
	"context"
	"sort"
	"sync"

	"comercio/internal/notification/models"
	id "comercio/pkg/domain"
	"comercio/pkg/platform/sentinel"
)

// InMemoryStore keeps notifications per account. Mirrors the postgres store
// for tests and single-process runs.
type InMemoryStore struct {
	mu      sync.Mutex
	byID    map[id.NotificationID]*models.Notification
	ordered []id.NotificationID
}

func NewMemory() *InMemoryStore {
	return &InMemoryStore{byID: make(map[id.NotificationID]*models.Notification)}
}

func (s *InMemoryStore) Create(_ context.Context, n *models.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	clone := *n
	s.byID[n.ID] = &clone
	s.ordered = append(s.ordered, n.ID)
	return nil
}

// ListByAccount returns the account's notifications, newest first.
func (s *InMemoryStore) ListByAccount(_ context.Context, accountID id.AccountID) ([]*models.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*models.Notification
	for _, nid := range s.ordered {
		n := s.byID[nid]
		if n.AccountID == accountID {
			clone := *n
			out = append(out, &clone)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// MarkRead flags the notification as read. The accountID guard stops one
// account acknowledging another's messages.
func (s *InMemoryStore) MarkRead(_ context.Context, accountID id.AccountID, notificationID id.NotificationID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.byID[notificationID]
	if !ok || n.AccountID != accountID {
		return sentinel.ErrNotFound
	}
	n.Read = true
	return nil
}
