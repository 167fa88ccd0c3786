package service

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"org-service/internal/model"
	"org-service/pkg/apierror"
)

type OrganizationStore interface {
	Create(ctx context.Context, org model.Organization) error
	FindByID(ctx context.Context, id string) (model.Organization, error)
	List(ctx context.Context) ([]model.Organization, error)
	AppendMember(ctx context.Context, orgID string, member model.Member) error
}

type OrgService struct {
	orgs  OrganizationStore
	users UserStore
}

func NewOrgService(orgs OrganizationStore, users UserStore) *OrgService {
	return &OrgService{orgs: orgs, users: users}
}

// Create makes the acting identity the owner and the first member of the
// new organization, with admin access.
func (s *OrgService) Create(ctx context.Context, name string, description string, actor model.Principal) (model.Organization, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Organization{}, apierror.New("BAD_REQUEST", "organization name is required", "", http.StatusBadRequest)
	}

	ownerName := actor.Name
	org := model.Organization{
		ID:          uuid.NewString(),
		Name:        name,
		Description: description,
		OwnerID:     actor.ID,
		Members: []model.Member{{
			Name:        &ownerName,
			Email:       actor.Email,
			AccessLevel: model.AccessLevelAdmin,
		}},
		CreatedAt: time.Now().UTC(),
	}

	if err := s.orgs.Create(ctx, org); err != nil {
		return model.Organization{}, err
	}

	return org, nil
}

// List returns every organization. No membership filter is applied; any
// authenticated identity may read any organization.
func (s *OrgService) List(ctx context.Context) ([]model.Organization, error) {
	return s.orgs.List(ctx)
}

func (s *OrgService) Get(ctx context.Context, id string) (model.Organization, error) {
	org, err := s.orgs.FindByID(ctx, id)
	if errors.Is(err, model.ErrOrganizationNotFound) {
		return model.Organization{}, orgNotFound(id)
	}
	if err != nil {
		return model.Organization{}, err
	}
	return org, nil
}

// Invite appends a member with member-level access. The invited email
// does not need an existing account; the member name stays null until
// one exists.
func (s *OrgService) Invite(ctx context.Context, orgID string, email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return apierror.New("BAD_REQUEST", "user_email is required", "", http.StatusBadRequest)
	}

	if _, err := s.orgs.FindByID(ctx, orgID); err != nil {
		if errors.Is(err, model.ErrOrganizationNotFound) {
			return orgNotFound(orgID)
		}
		return err
	}

	var name *string
	user, err := s.users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		name = &user.Name
	case errors.Is(err, model.ErrUserNotFound):
		// Invited ahead of sign-up; keep the name null.
	default:
		return err
	}

	member := model.Member{
		Name:        name,
		Email:       email,
		AccessLevel: model.AccessLevelMember,
	}

	if err := s.orgs.AppendMember(ctx, orgID, member); err != nil {
		if errors.Is(err, model.ErrOrganizationNotFound) {
			return orgNotFound(orgID)
		}
		return err
	}

	return nil
}

func orgNotFound(id string) *apierror.APIError {
	return apierror.New("NOT_FOUND", "organization not found", id, http.StatusNotFound)
}
