package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"org-service/internal/model"
)

type memUserStore struct {
	mu    sync.Mutex
	users map[string]model.User
}

func newMemUserStore() *memUserStore {
	return &memUserStore{users: map[string]model.User{}}
}

func (s *memUserStore) FindByID(_ context.Context, id string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return model.User{}, model.ErrUserNotFound
	}
	return user, nil
}

func (s *memUserStore) FindByEmail(_ context.Context, email string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, user := range s.users {
		if strings.EqualFold(user.Email, email) {
			return user, nil
		}
	}
	return model.User{}, model.ErrUserNotFound
}

func (s *memUserStore) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := s.FindByEmail(ctx, email)
	if err != nil {
		return false, nil
	}
	return true, nil
}

func (s *memUserStore) Create(_ context.Context, u model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return model.ErrEmailTaken
		}
	}
	s.users[u.ID] = u
	return nil
}

func (s *memUserStore) delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.users, id)
}

type memRevocationStore struct {
	mu      sync.Mutex
	expiry  map[string]time.Time
	lastTTL time.Duration
}

func newMemRevocationStore() *memRevocationStore {
	return &memRevocationStore{expiry: map[string]time.Time{}}
}

func (s *memRevocationStore) Revoke(_ context.Context, tokenString string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastTTL = ttl
	if ttl <= 0 {
		return nil
	}
	s.expiry[tokenString] = time.Now().Add(ttl)
	return nil
}

func (s *memRevocationStore) IsRevoked(_ context.Context, tokenString string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	until, ok := s.expiry[tokenString]
	return ok && time.Now().Before(until), nil
}

type memOrgStore struct {
	mu   sync.Mutex
	orgs map[string]model.Organization
}

func newMemOrgStore() *memOrgStore {
	return &memOrgStore{orgs: map[string]model.Organization{}}
}

func (s *memOrgStore) Create(_ context.Context, org model.Organization) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orgs[org.ID] = org
	return nil
}

func (s *memOrgStore) FindByID(_ context.Context, id string) (model.Organization, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	org, ok := s.orgs[id]
	if !ok {
		return model.Organization{}, model.ErrOrganizationNotFound
	}
	return org, nil
}

func (s *memOrgStore) List(_ context.Context) ([]model.Organization, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	orgs := make([]model.Organization, 0, len(s.orgs))
	for _, org := range s.orgs {
		orgs = append(orgs, org)
	}
	return orgs, nil
}

func (s *memOrgStore) AppendMember(_ context.Context, orgID string, member model.Member) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	org, ok := s.orgs[orgID]
	if !ok {
		return model.ErrOrganizationNotFound
	}
	org.Members = append(org.Members, member)
	s.orgs[orgID] = org
	return nil
}
