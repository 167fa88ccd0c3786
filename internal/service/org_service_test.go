package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"org-service/internal/model"
)

func newTestOrgService() (*OrgService, *memOrgStore, *memUserStore) {
	orgs := newMemOrgStore()
	users := newMemUserStore()
	return NewOrgService(orgs, users), orgs, users
}

func TestCreateSeedsOwnerAsAdminMember(t *testing.T) {
	svc, _, _ := newTestOrgService()
	actor := model.Principal{ID: "user-1", Name: "A", Email: "a@x.com"}

	org, err := svc.Create(context.Background(), "Example Org", "community services", actor)
	require.NoError(t, err)

	require.NotEmpty(t, org.ID)
	require.Equal(t, "user-1", org.OwnerID)
	require.Len(t, org.Members, 1)

	first := org.Members[0]
	require.NotNil(t, first.Name)
	require.Equal(t, "A", *first.Name)
	require.Equal(t, "a@x.com", first.Email)
	require.Equal(t, model.AccessLevelAdmin, first.AccessLevel)
}

func TestCreateRequiresName(t *testing.T) {
	svc, _, _ := newTestOrgService()

	_, err := svc.Create(context.Background(), "   ", "desc", model.Principal{ID: "user-1"})
	requireStatus(t, err, http.StatusBadRequest)
}

func TestGetMissingOrganization(t *testing.T) {
	svc, _, _ := newTestOrgService()

	_, err := svc.Get(context.Background(), "no-such-org")
	requireStatus(t, err, http.StatusNotFound)
}

func TestInviteExistingUserCarriesName(t *testing.T) {
	svc, orgs, users := newTestOrgService()
	ctx := context.Background()

	require.NoError(t, users.Create(ctx, model.User{ID: "user-2", Name: "Jane", Email: "jane@x.com"}))

	org, err := svc.Create(ctx, "Org", "", model.Principal{ID: "user-1", Name: "A", Email: "a@x.com"})
	require.NoError(t, err)

	require.NoError(t, svc.Invite(ctx, org.ID, "jane@x.com"))

	updated, err := orgs.FindByID(ctx, org.ID)
	require.NoError(t, err)
	require.Len(t, updated.Members, 2)

	invited := updated.Members[1]
	require.NotNil(t, invited.Name)
	require.Equal(t, "Jane", *invited.Name)
	require.Equal(t, model.AccessLevelMember, invited.AccessLevel)
}

func TestInviteUnknownEmailGetsNullName(t *testing.T) {
	svc, orgs, _ := newTestOrgService()
	ctx := context.Background()

	org, err := svc.Create(ctx, "Org", "", model.Principal{ID: "user-1", Name: "A", Email: "a@x.com"})
	require.NoError(t, err)

	require.NoError(t, svc.Invite(ctx, org.ID, "stranger@x.com"))

	updated, err := orgs.FindByID(ctx, org.ID)
	require.NoError(t, err)
	require.Len(t, updated.Members, 2)

	invited := updated.Members[1]
	require.Nil(t, invited.Name)
	require.Equal(t, "stranger@x.com", invited.Email)
	require.Equal(t, model.AccessLevelMember, invited.AccessLevel)
}

func TestInviteMissingOrganization(t *testing.T) {
	svc, _, _ := newTestOrgService()

	err := svc.Invite(context.Background(), "no-such-org", "jane@x.com")
	requireStatus(t, err, http.StatusNotFound)
}

func TestListReturnsAllOrganizations(t *testing.T) {
	svc, _, _ := newTestOrgService()
	ctx := context.Background()

	_, err := svc.Create(ctx, "One", "", model.Principal{ID: "user-1", Name: "A", Email: "a@x.com"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, "Two", "", model.Principal{ID: "user-2", Name: "B", Email: "b@x.com"})
	require.NoError(t, err)

	orgs, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, orgs, 2)
}
