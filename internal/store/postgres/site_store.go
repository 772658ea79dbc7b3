package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/ndrweb/internal/models"
	"github.com/wolfeidau/ndrweb/internal/store"
)

// SiteStore implements store.SiteStore using PostgreSQL.
type SiteStore struct {
	pool *pgxpool.Pool
}

// NewSiteStore creates a new PostgreSQL-backed site store.
func NewSiteStore(pool *pgxpool.Pool) *SiteStore {
	return &SiteStore{
		pool: pool,
	}
}

// Create creates a new site. A missing organization surfaces as store.ErrInvalidReference.
func (s *SiteStore) Create(ctx context.Context, site *models.Site) error {
	query := `
		INSERT INTO sites (site_id, org_id, name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := s.pool.Exec(ctx, query, site.SiteID, site.OrgID, site.Name, site.CreatedAt, site.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create site: %w", mapPostgresError(err, nil))
	}

	log.Debug().
		Str("site_id", site.SiteID.String()).
		Str("org_id", site.OrgID.String()).
		Msg("Created site")

	return nil
}

// Get retrieves a site by ID.
func (s *SiteStore) Get(ctx context.Context, siteID uuid.UUID) (*models.Site, error) {
	query := `
		SELECT site_id, org_id, name, created_at, updated_at
		FROM sites
		WHERE site_id = $1
	`

	site, err := scanSite(s.pool.QueryRow(ctx, query, siteID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrSiteNotFound
		}
		return nil, fmt.Errorf("failed to get site: %w", err)
	}

	return site, nil
}

// ListByOrganization returns all sites of an organization ordered by name.
func (s *SiteStore) ListByOrganization(ctx context.Context, orgID uuid.UUID) ([]*models.Site, error) {
	query := `
		SELECT site_id, org_id, name, created_at, updated_at
		FROM sites
		WHERE org_id = $1
		ORDER BY name, site_id
	`

	rows, err := s.pool.Query(ctx, query, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sites: %w", err)
	}
	defer rows.Close()

	var sites []*models.Site
	for rows.Next() {
		site, err := scanSite(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan site: %w", err)
		}
		sites = append(sites, site)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sites: %w", err)
	}

	return sites, nil
}

func scanSite(row pgx.Row) (*models.Site, error) {
	var site models.Site
	if err := row.Scan(&site.SiteID, &site.OrgID, &site.Name, &site.CreatedAt, &site.UpdatedAt); err != nil {
		return nil, err
	}
	return &site, nil
}
