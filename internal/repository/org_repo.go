package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"org-service/internal/model"
)

type OrganizationRepository struct {
	pool *pgxpool.Pool
}

func NewOrganizationRepository(pool *pgxpool.Pool) *OrganizationRepository {
	return &OrganizationRepository{pool: pool}
}

func (r *OrganizationRepository) Create(ctx context.Context, org model.Organization) error {
	members, err := json.Marshal(org.Members)
	if err != nil {
		return fmt.Errorf("marshal members: %w", err)
	}

	_, err = r.pool.Exec(ctx,
		`INSERT INTO organizations (id, name, description, owner_id, members, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		org.ID, org.Name, org.Description, org.OwnerID, members, org.CreatedAt)
	if err != nil {
		return fmt.Errorf("create organization: %w", err)
	}
	return nil
}

func (r *OrganizationRepository) FindByID(ctx context.Context, id string) (model.Organization, error) {
	var org model.Organization
	var members []byte

	err := r.pool.QueryRow(ctx,
		`SELECT id, name, description, owner_id, members, created_at
		 FROM organizations WHERE id = $1`, id).
		Scan(&org.ID, &org.Name, &org.Description, &org.OwnerID, &members, &org.CreatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.Organization{}, model.ErrOrganizationNotFound
	}
	if err != nil {
		return model.Organization{}, fmt.Errorf("find organization by id: %w", err)
	}

	if err := json.Unmarshal(members, &org.Members); err != nil {
		return model.Organization{}, fmt.Errorf("unmarshal members: %w", err)
	}
	return org, nil
}

func (r *OrganizationRepository) List(ctx context.Context) ([]model.Organization, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, description, owner_id, members, created_at
		 FROM organizations ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list organizations: %w", err)
	}
	defer rows.Close()

	orgs := make([]model.Organization, 0)
	for rows.Next() {
		var org model.Organization
		var members []byte
		if err := rows.Scan(&org.ID, &org.Name, &org.Description, &org.OwnerID, &members, &org.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan organization: %w", err)
		}
		if err := json.Unmarshal(members, &org.Members); err != nil {
			return nil, fmt.Errorf("unmarshal members: %w", err)
		}
		orgs = append(orgs, org)
	}
	return orgs, rows.Err()
}

// AppendMember appends to the ordered member array in a single update;
// there is no read-modify-write on the member list itself.
func (r *OrganizationRepository) AppendMember(ctx context.Context, orgID string, member model.Member) error {
	encoded, err := json.Marshal(member)
	if err != nil {
		return fmt.Errorf("marshal member: %w", err)
	}

	tag, err := r.pool.Exec(ctx,
		`UPDATE organizations SET members = members || $2::jsonb WHERE id = $1`,
		orgID, encoded)
	if err != nil {
		return fmt.Errorf("append organization member: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrOrganizationNotFound
	}
	return nil
}
