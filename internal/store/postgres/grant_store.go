package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/ndrweb/internal/models"
	"github.com/wolfeidau/ndrweb/internal/store"
)

// GrantStore implements store.GrantStore using PostgreSQL.
type GrantStore struct {
	pool *pgxpool.Pool
}

// NewGrantStore creates a new PostgreSQL-backed grant store.
func NewGrantStore(pool *pgxpool.Pool) *GrantStore {
	return &GrantStore{
		pool: pool,
	}
}

// Create records a grant.
func (s *GrantStore) Create(ctx context.Context, grant *models.Grant) error {
	query := `
		INSERT INTO user_organization_grants (user_id, org_id, created_at)
		VALUES ($1, $2, $3)
	`

	_, err := s.pool.Exec(ctx, query, grant.UserID, grant.OrgID, grant.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create grant: %w", mapPostgresError(err, store.ErrGrantAlreadyExists))
	}

	log.Debug().
		Str("user_id", grant.UserID.String()).
		Str("org_id", grant.OrgID.String()).
		Msg("Created grant")

	return nil
}

// Delete removes a grant.
func (s *GrantStore) Delete(ctx context.Context, userID, orgID uuid.UUID) error {
	query := `DELETE FROM user_organization_grants WHERE user_id = $1 AND org_id = $2`

	result, err := s.pool.Exec(ctx, query, userID, orgID)
	if err != nil {
		return fmt.Errorf("failed to delete grant: %w", err)
	}

	if result.RowsAffected() == 0 {
		return store.ErrGrantNotFound
	}

	log.Debug().
		Str("user_id", userID.String()).
		Str("org_id", orgID.String()).
		Msg("Deleted grant")

	return nil
}

// Exists reports whether the user holds a grant on the organization.
func (s *GrantStore) Exists(ctx context.Context, userID, orgID uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM user_organization_grants WHERE user_id = $1 AND org_id = $2
		)
	`

	var exists bool
	if err := s.pool.QueryRow(ctx, query, userID, orgID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check grant: %w", err)
	}

	return exists, nil
}

// ListByUser returns all grants held by a user.
func (s *GrantStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Grant, error) {
	query := `
		SELECT user_id, org_id, created_at
		FROM user_organization_grants
		WHERE user_id = $1
		ORDER BY created_at
	`

	rows, err := s.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list grants: %w", err)
	}
	defer rows.Close()

	var grants []*models.Grant
	for rows.Next() {
		var grant models.Grant
		if err := rows.Scan(&grant.UserID, &grant.OrgID, &grant.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan grant: %w", err)
		}
		grants = append(grants, &grant)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating grants: %w", err)
	}

	return grants, nil
}
