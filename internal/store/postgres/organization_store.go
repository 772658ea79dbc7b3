package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/ndrweb/internal/models"
	"github.com/wolfeidau/ndrweb/internal/store"
)

// OrganizationStore implements store.OrganizationStore using PostgreSQL.
type OrganizationStore struct {
	pool *pgxpool.Pool
}

// NewOrganizationStore creates a new PostgreSQL-backed organization store.
// It shares the connection pool with other stores.
func NewOrganizationStore(pool *pgxpool.Pool) *OrganizationStore {
	return &OrganizationStore{
		pool: pool,
	}
}

// Create creates a new organization in the database.
func (s *OrganizationStore) Create(ctx context.Context, org *models.Organization) error {
	query := `
		INSERT INTO organizations (org_id, name, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := s.pool.Exec(ctx, query, org.OrgID, org.Name, org.CreatedAt, org.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create organization: %w", mapPostgresError(err, nil))
	}

	log.Debug().
		Str("org_id", org.OrgID.String()).
		Str("name", org.Name).
		Msg("Created organization")

	return nil
}

// Get retrieves an organization by ID.
func (s *OrganizationStore) Get(ctx context.Context, orgID uuid.UUID) (*models.Organization, error) {
	query := `
		SELECT org_id, name, created_at, updated_at
		FROM organizations
		WHERE org_id = $1
	`

	org, err := scanOrganization(s.pool.QueryRow(ctx, query, orgID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrOrganizationNotFound
		}
		return nil, fmt.Errorf("failed to get organization: %w", err)
	}

	return org, nil
}

// Update updates an existing organization.
func (s *OrganizationStore) Update(ctx context.Context, org *models.Organization) error {
	org.UpdatedAt = time.Now()

	query := `
		UPDATE organizations SET
			name = $2,
			updated_at = $3
		WHERE org_id = $1
	`

	result, err := s.pool.Exec(ctx, query, org.OrgID, org.Name, org.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update organization: %w", mapPostgresError(err, nil))
	}

	if result.RowsAffected() == 0 {
		return store.ErrOrganizationNotFound
	}

	log.Debug().
		Str("org_id", org.OrgID.String()).
		Msg("Updated organization")

	return nil
}

// List returns every organization ordered by name.
func (s *OrganizationStore) List(ctx context.Context) ([]*models.Organization, error) {
	query := `
		SELECT org_id, name, created_at, updated_at
		FROM organizations
		ORDER BY name, org_id
	`

	return s.list(ctx, query)
}

// ListByIDs returns the organizations with the given IDs ordered by name.
// Unknown IDs are skipped.
func (s *OrganizationStore) ListByIDs(ctx context.Context, orgIDs []uuid.UUID) ([]*models.Organization, error) {
	if len(orgIDs) == 0 {
		return nil, nil
	}

	query := `
		SELECT org_id, name, created_at, updated_at
		FROM organizations
		WHERE org_id = ANY($1)
		ORDER BY name, org_id
	`

	return s.list(ctx, query, orgIDs)
}

func (s *OrganizationStore) list(ctx context.Context, query string, args ...any) ([]*models.Organization, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list organizations: %w", err)
	}
	defer rows.Close()

	var orgs []*models.Organization
	for rows.Next() {
		org, err := scanOrganization(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan organization: %w", err)
		}
		orgs = append(orgs, org)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating organizations: %w", err)
	}

	return orgs, nil
}

func scanOrganization(row pgx.Row) (*models.Organization, error) {
	var org models.Organization
	if err := row.Scan(&org.OrgID, &org.Name, &org.CreatedAt, &org.UpdatedAt); err != nil {
		return nil, err
	}
	return &org, nil
}
