package acl

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/wolfeidau/ndrweb/internal/models"
	"github.com/wolfeidau/ndrweb/internal/store"
)

// Resolver answers which organizations, sites and recorders a user can see.
// Superusers see everything; other users see the organizations they hold a
// grant on, plus every site and recorder beneath them.
type Resolver struct {
	orgs      store.OrganizationStore
	sites     store.SiteStore
	recorders store.RecorderStore
	grants    store.GrantStore
}

// NewResolver creates a resolver over the given stores.
func NewResolver(stores store.Stores) *Resolver {
	return &Resolver{
		orgs:      stores.Organizations,
		sites:     stores.Sites,
		recorders: stores.Recorders,
		grants:    stores.Grants,
	}
}

// OrganizationsForUser returns the organizations visible to user, ordered by name.
func (r *Resolver) OrganizationsForUser(ctx context.Context, user *models.User) ([]*models.Organization, error) {
	role, ok := RoleOf(user)
	if !ok {
		return nil, nil
	}

	if role == RoleSuperuser {
		orgs, err := r.orgs.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list organizations: %w", err)
		}
		return orgs, nil
	}

	grants, err := r.grants.ListByUser(ctx, user.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list grants: %w", err)
	}

	if len(grants) == 0 {
		return nil, nil
	}

	orgIDs := make([]uuid.UUID, 0, len(grants))
	for _, g := range grants {
		orgIDs = append(orgIDs, g.OrgID)
	}

	orgs, err := r.orgs.ListByIDs(ctx, orgIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list granted organizations: %w", err)
	}

	return orgs, nil
}

// CanViewOrganization reports whether user can see the organization.
func (r *Resolver) CanViewOrganization(ctx context.Context, user *models.User, orgID uuid.UUID) (bool, error) {
	role, ok := RoleOf(user)
	if !ok {
		return false, nil
	}

	if role == RoleSuperuser {
		return true, nil
	}

	granted, err := r.grants.Exists(ctx, user.UserID, orgID)
	if err != nil {
		return false, fmt.Errorf("failed to check grant: %w", err)
	}

	return granted, nil
}

// CanViewSite reports whether user can see the site, via its organization.
func (r *Resolver) CanViewSite(ctx context.Context, user *models.User, site *models.Site) (bool, error) {
	if site == nil {
		return false, nil
	}
	return r.CanViewOrganization(ctx, user, site.OrgID)
}

// SitesInOrganizationForUser returns the sites of org visible to user, ordered by name.
func (r *Resolver) SitesInOrganizationForUser(ctx context.Context, user *models.User, org *models.Organization) ([]*models.Site, error) {
	if org == nil {
		return nil, nil
	}

	visible, err := r.CanViewOrganization(ctx, user, org.OrgID)
	if err != nil || !visible {
		return nil, err
	}

	sites, err := r.sites.ListByOrganization(ctx, org.OrgID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sites: %w", err)
	}

	return sites, nil
}

// RecordersInSiteForUser returns the recorders of site visible to user, ordered by name.
func (r *Resolver) RecordersInSiteForUser(ctx context.Context, user *models.User, site *models.Site) ([]*models.Recorder, error) {
	visible, err := r.CanViewSite(ctx, user, site)
	if err != nil || !visible {
		return nil, err
	}

	recorders, err := r.recorders.ListBySite(ctx, site.SiteID)
	if err != nil {
		return nil, fmt.Errorf("failed to list recorders: %w", err)
	}

	return recorders, nil
}
