package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/wolfeidau/ndrweb/internal/models"
)

// OrganizationStore defines the interface for organization storage operations.
type OrganizationStore interface {
	// Create creates a new organization in the store.
	Create(ctx context.Context, org *models.Organization) error

	// Get retrieves an organization by ID.
	// Returns ErrOrganizationNotFound if the organization doesn't exist.
	Get(ctx context.Context, orgID uuid.UUID) (*models.Organization, error)

	// Update updates an existing organization.
	// Returns ErrOrganizationNotFound if the organization doesn't exist.
	Update(ctx context.Context, org *models.Organization) error

	// List returns every organization in the system.
	List(ctx context.Context) ([]*models.Organization, error)

	// ListByIDs returns the organizations with the given IDs.
	// Unknown IDs are skipped rather than reported.
	ListByIDs(ctx context.Context, orgIDs []uuid.UUID) ([]*models.Organization, error)
}

// SiteStore defines the interface for site storage operations.
type SiteStore interface {
	// Create creates a new site.
	// Returns ErrInvalidReference (postgres) when the organization doesn't exist.
	Create(ctx context.Context, site *models.Site) error

	// Get retrieves a site by ID.
	// Returns ErrSiteNotFound if the site doesn't exist.
	Get(ctx context.Context, siteID uuid.UUID) (*models.Site, error)

	// ListByOrganization returns all sites belonging to an organization.
	ListByOrganization(ctx context.Context, orgID uuid.UUID) ([]*models.Site, error)
}

// RecorderStore defines the interface for recorder storage operations.
type RecorderStore interface {
	// Create creates a new recorder.
	// Returns ErrInvalidReference (postgres) when the site doesn't exist.
	Create(ctx context.Context, recorder *models.Recorder) error

	// Get retrieves a recorder by ID.
	// Returns ErrRecorderNotFound if the recorder doesn't exist.
	Get(ctx context.Context, recorderID uuid.UUID) (*models.Recorder, error)

	// ListBySite returns all recorders deployed at a site.
	ListBySite(ctx context.Context, siteID uuid.UUID) ([]*models.Recorder, error)
}

// GrantStore manages which users can see which organizations.
type GrantStore interface {
	// Create records a grant.
	// Returns ErrGrantAlreadyExists if the user already has a grant on the organization.
	Create(ctx context.Context, grant *models.Grant) error

	// Delete removes a grant.
	// Returns ErrGrantNotFound if no such grant exists.
	Delete(ctx context.Context, userID, orgID uuid.UUID) error

	// Exists reports whether the user holds a grant on the organization.
	Exists(ctx context.Context, userID, orgID uuid.UUID) (bool, error)

	// ListByUser returns all grants held by a user.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Grant, error)
}
