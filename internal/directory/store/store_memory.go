package store

import (
	"context"
	"strings"
	"sync"

	"comercio/internal/directory/models"
	id "comercio/pkg/domain"
	"comercio/pkg/platform/sentinel"
)

// InMemoryStore keeps profiles and accounts in maps keyed by lowercased
// email. It mirrors the postgres store's uniqueness rules so service tests
// exercise the same conflict paths.
type InMemoryStore struct {
	mu       sync.RWMutex
	profiles map[string]*models.Profile
	accounts map[string]*models.Account
}

func NewMemory() *InMemoryStore {
	return &InMemoryStore{
		profiles: make(map[string]*models.Profile),
		accounts: make(map[string]*models.Account),
	}
}

func key(email string) string { return strings.ToLower(email) }

func (s *InMemoryStore) CreateProfile(_ context.Context, profile *models.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.profiles[key(profile.Email)]; exists {
		return sentinel.ErrConflict
	}
	for _, p := range s.profiles {
		if p.NationalID != "" && p.NationalID == profile.NationalID {
			return sentinel.ErrConflict
		}
	}
	cp := *profile
	s.profiles[key(profile.Email)] = &cp
	return nil
}

func (s *InMemoryStore) CreateAccount(_ context.Context, account *models.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.accounts[key(account.Email)]; exists {
		return sentinel.ErrConflict
	}
	cp := *account
	cp.Roles = slicesClone(account.Roles)
	s.accounts[key(account.Email)] = &cp
	return nil
}

func (s *InMemoryStore) FindProfile(_ context.Context, email string) (*models.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if p, ok := s.profiles[key(email)]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, nil
}

func (s *InMemoryStore) FindProfileByNationalID(_ context.Context, nationalID string) (*models.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.profiles {
		if p.NationalID == nationalID {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *InMemoryStore) FindAccount(_ context.Context, email string) (*models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if a, ok := s.accounts[key(email)]; ok {
		cp := *a
		cp.Roles = slicesClone(a.Roles)
		return &cp, nil
	}
	return nil, nil
}

// FindVerifiedAccount returns an account for email with IdentityVerified
// set and an ID different from excludeID, if one exists.
func (s *InMemoryStore) FindVerifiedAccount(_ context.Context, email string, excludeID id.AccountID) (*models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, a := range s.accounts {
		if key(a.Email) == key(email) && a.IdentityVerified && a.ID != excludeID {
			cp := *a
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *InMemoryStore) ListAccountsByRole(_ context.Context, role string) ([]*models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.Account
	for _, a := range s.accounts {
		if a.HasRole(role) {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *InMemoryStore) SaveAccount(_ context.Context, account *models.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.accounts[key(account.Email)]; !ok {
		return sentinel.ErrNotFound
	}
	cp := *account
	cp.Roles = slicesClone(account.Roles)
	s.accounts[key(account.Email)] = &cp
	return nil
}

func slicesClone(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
