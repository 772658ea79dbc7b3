package website

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/wolfeidau/ndrweb/internal/login"
	"github.com/wolfeidau/ndrweb/internal/models"
	"github.com/wolfeidau/ndrweb/internal/store"
	"github.com/wolfeidau/ndrweb/internal/telemetry"
)

type organizationsData struct {
	Organizations []*models.Organization
}

type organizationData struct {
	Organization *models.Organization
	Sites        []*models.Site
}

type siteData struct {
	Organization *models.Organization
	Site         *models.Site
	Recorders    []*models.Recorder
}

func (s *Website) handleOrganizations(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user, _ := login.UserFromContext(ctx)

	orgs, err := s.resolver.OrganizationsForUser(ctx, user)
	if err != nil {
		s.serverError(w, r, user, err)
		return
	}

	s.renderer.Render(w, http.StatusOK, "organizations", s.page(w, r, "Organizations", organizationsData{
		Organizations: orgs,
	}))
}

func (s *Website) handleOrganization(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user, _ := login.UserFromContext(ctx)

	org, err := s.visibleOrganization(ctx, user, chi.URLParam(r, "id"))
	if err != nil {
		s.lookupError(w, r, user, err)
		return
	}

	sites, err := s.resolver.SitesInOrganizationForUser(ctx, user, org)
	if err != nil {
		s.serverError(w, r, user, err)
		return
	}

	s.renderer.Render(w, http.StatusOK, "organization", s.page(w, r, org.Name, organizationData{
		Organization: org,
		Sites:        sites,
	}))
}

func (s *Website) handleSite(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user, _ := login.UserFromContext(ctx)

	site, err := s.visibleSite(ctx, user, chi.URLParam(r, "id"))
	if err != nil {
		s.lookupError(w, r, user, err)
		return
	}

	org, err := s.stores.Organizations.Get(ctx, site.OrgID)
	if err != nil {
		s.lookupError(w, r, user, err)
		return
	}

	recorders, err := s.resolver.RecordersInSiteForUser(ctx, user, site)
	if err != nil {
		s.serverError(w, r, user, err)
		return
	}

	s.renderer.Render(w, http.StatusOK, "site", s.page(w, r, site.Name, siteData{
		Organization: org,
		Site:         site,
		Recorders:    recorders,
	}))
}

// page collects the layout data. Reading flashes clears them, so this must run
// before anything is written to w.
func (s *Website) page(w http.ResponseWriter, r *http.Request, title string, data any) Page {
	user, _ := login.UserFromContext(r.Context())

	return Page{
		Title:   title,
		User:    user,
		Flashes: s.login.Flashes(w, r),
		Data:    data,
	}
}

// visibleOrganization loads the organization named by rawID. Malformed IDs,
// unknown organizations and organizations the user cannot see all return
// store.ErrOrganizationNotFound so existence is never leaked.
func (s *Website) visibleOrganization(ctx context.Context, user *models.User, rawID string) (*models.Organization, error) {
	orgID, err := uuid.Parse(rawID)
	if err != nil {
		return nil, store.ErrOrganizationNotFound
	}

	visible, err := s.resolver.CanViewOrganization(ctx, user, orgID)
	if err != nil {
		return nil, err
	}

	if !visible {
		telemetry.GetMetrics().RecordACLDenied(ctx, "organization.view")
		return nil, store.ErrOrganizationNotFound
	}

	return s.stores.Organizations.Get(ctx, orgID)
}

// visibleSite is visibleOrganization for sites.
func (s *Website) visibleSite(ctx context.Context, user *models.User, rawID string) (*models.Site, error) {
	siteID, err := uuid.Parse(rawID)
	if err != nil {
		return nil, store.ErrSiteNotFound
	}

	site, err := s.stores.Sites.Get(ctx, siteID)
	if err != nil {
		return nil, err
	}

	visible, err := s.resolver.CanViewSite(ctx, user, site)
	if err != nil {
		return nil, err
	}

	if !visible {
		telemetry.GetMetrics().RecordACLDenied(ctx, "site.view")
		return nil, store.ErrSiteNotFound
	}

	return site, nil
}

func (s *Website) lookupError(w http.ResponseWriter, r *http.Request, user *models.User, err error) {
	if errors.Is(err, store.ErrNotFound) {
		s.renderer.Error(w, http.StatusNotFound, user, "The page you requested does not exist.")
		return
	}
	s.serverError(w, r, user, err)
}

func (s *Website) serverError(w http.ResponseWriter, r *http.Request, user *models.User, err error) {
	zerolog.Ctx(r.Context()).Error().Err(fmt.Errorf("failed to serve %s: %w", r.URL.Path, err)).Msg("Request failed")
	s.renderer.Error(w, http.StatusInternalServerError, user, "Something went wrong, please try again later.")
}
