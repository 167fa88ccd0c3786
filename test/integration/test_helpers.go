//go:build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"org-service/internal/config"
	"org-service/internal/handler"
	"org-service/internal/middleware"
	"org-service/internal/model"
	"org-service/internal/revocation"
	"org-service/internal/router"
	"org-service/internal/service"
	"org-service/internal/token"
)

// The suite runs the real router, middleware, services, codec and a
// miniredis-backed revocation store; only the Postgres repositories are
// replaced with in-memory equivalents.

type staticHealth struct{}

func (staticHealth) Health(context.Context) error { return nil }

type memUserStore struct {
	mu    sync.Mutex
	users map[string]model.User
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
	return err == nil, nil
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

type memOrgStore struct {
	mu   sync.Mutex
	orgs map[string]model.Organization
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

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = redisClient.Close() })

	codec, err := token.NewCodec("test-secret", "HS256")
	require.NoError(t, err)
	issuer := token.NewIssuer(codec, 600*time.Second, 720*time.Hour)

	users := &memUserStore{users: map[string]model.User{}}
	orgs := &memOrgStore{orgs: map[string]model.Organization{}}
	revocationStore := revocation.NewStore(redisClient)

	authService := service.NewAuthService(users, revocationStore, codec, issuer)
	orgService := service.NewOrgService(orgs, users)

	authMiddleware := middleware.NewAuthMiddleware(codec)
	authHandler := handler.NewAuthHandler(authService)
	orgHandler := handler.NewOrgHandler(orgService)

	cfg := &config.Config{
		ServerPort:     "8080",
		RequestTimeout: 10 * time.Second,
		CORSOrigins:    []string{"*"},
		JWTSecret:      "test-secret",
		JWTAlgorithm:   "HS256",
		JWTAccessTTL:   600 * time.Second,
		JWTRefreshTTL:  720 * time.Hour,
	}

	server := httptest.NewServer(router.New(cfg, staticHealth{}, authMiddleware, authHandler, orgHandler))
	t.Cleanup(server.Close)

	return server
}

func postJSON(t *testing.T, url string, payload any, accessToken string) *http.Response {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func getJSON(t *testing.T, url string, accessToken string) *http.Response {
	t.Helper()

	req, err := http.NewRequest(http.MethodGet, url, nil)
	require.NoError(t, err)
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func signUpAndIn(t *testing.T, server *httptest.Server, name string, email string, password string) (string, string) {
	t.Helper()

	resp := postJSON(t, server.URL+"/signup", map[string]string{
		"name": name, "email": email, "password": password,
	}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = postJSON(t, server.URL+"/signin", map[string]string{
		"email": email, "password": password,
	}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var parsed model.AuthResponse
	decodeBody(t, resp, &parsed)
	require.NotEmpty(t, parsed.AccessToken)
	require.NotEmpty(t, parsed.RefreshToken)

	return parsed.AccessToken, parsed.RefreshToken
}
