package website

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/wolfeidau/ndrweb/internal/login"
	"github.com/wolfeidau/ndrweb/internal/models"
	"github.com/wolfeidau/ndrweb/internal/store"
)

type organizationJSON struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type siteJSON struct {
	ID             uuid.UUID `json:"id"`
	OrganizationID uuid.UUID `json:"organization_id"`
	Name           string    `json:"name"`
	CreatedAt      time.Time `json:"created_at"`
}

type recorderJSON struct {
	ID        uuid.UUID `json:"id"`
	SiteID    uuid.UUID `json:"site_id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"created_at"`
}

type errorJSON struct {
	Error string `json:"error"`
}

func (s *Website) apiOrganizations(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user, _ := login.UserFromContext(ctx)

	orgs, err := s.resolver.OrganizationsForUser(ctx, user)
	if err != nil {
		apiError(w, r, err)
		return
	}

	out := make([]organizationJSON, 0, len(orgs))
	for _, org := range orgs {
		out = append(out, organizationJSON{ID: org.OrgID, Name: org.Name, CreatedAt: org.CreatedAt})
	}

	writeJSON(w, http.StatusOK, map[string]any{"organizations": out})
}

func (s *Website) apiOrganizationSites(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user, _ := login.UserFromContext(ctx)

	org, err := s.visibleOrganization(ctx, user, chi.URLParam(r, "id"))
	if err != nil {
		apiError(w, r, err)
		return
	}

	sites, err := s.resolver.SitesInOrganizationForUser(ctx, user, org)
	if err != nil {
		apiError(w, r, err)
		return
	}

	out := make([]siteJSON, 0, len(sites))
	for _, site := range sites {
		out = append(out, toSiteJSON(site))
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"organization": organizationJSON{ID: org.OrgID, Name: org.Name, CreatedAt: org.CreatedAt},
		"sites":        out,
	})
}

func (s *Website) apiSiteRecorders(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user, _ := login.UserFromContext(ctx)

	site, err := s.visibleSite(ctx, user, chi.URLParam(r, "id"))
	if err != nil {
		apiError(w, r, err)
		return
	}

	recorders, err := s.resolver.RecordersInSiteForUser(ctx, user, site)
	if err != nil {
		apiError(w, r, err)
		return
	}

	out := make([]recorderJSON, 0, len(recorders))
	for _, rec := range recorders {
		out = append(out, recorderJSON{
			ID:        rec.RecorderID,
			SiteID:    rec.SiteID,
			Name:      rec.Name,
			Type:      rec.Type,
			CreatedAt: rec.CreatedAt,
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"site":      toSiteJSON(site),
		"recorders": out,
	})
}

func toSiteJSON(site *models.Site) siteJSON {
	return siteJSON{ID: site.SiteID, OrganizationID: site.OrgID, Name: site.Name, CreatedAt: site.CreatedAt}
}

func apiError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, store.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, errorJSON{Error: "not found"})
		return
	}

	zerolog.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("API request failed")
	writeJSON(w, http.StatusInternalServerError, errorJSON{Error: "internal server error"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
