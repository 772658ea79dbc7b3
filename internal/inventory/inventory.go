// Package inventory creates and reads organizations, sites and recorders,
// and manages which users are granted access to organizations.
package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/ndrweb/internal/acl"
	"github.com/wolfeidau/ndrweb/internal/models"
	"github.com/wolfeidau/ndrweb/internal/store"
)

// ErrInvalidName is returned when a name is empty after trimming.
var ErrInvalidName = errors.New("name must not be empty")

// Service manages the organization, site and recorder hierarchy.
type Service struct {
	orgs      store.OrganizationStore
	sites     store.SiteStore
	recorders store.RecorderStore
	grants    store.GrantStore
	users     store.UserStore
}

// NewService creates an inventory service over the given stores.
func NewService(stores store.Stores) *Service {
	return &Service{
		orgs:      stores.Organizations,
		sites:     stores.Sites,
		recorders: stores.Recorders,
		grants:    stores.Grants,
		users:     stores.Users,
	}
}

// CreateOrganization creates a new organization on behalf of actor.
func (s *Service) CreateOrganization(ctx context.Context, actor *models.User, name string) (*models.Organization, error) {
	if err := acl.Require(ctx, actor, acl.PermOrganizationsCreate); err != nil {
		return nil, err
	}

	name, err := cleanName(name)
	if err != nil {
		return nil, err
	}

	orgID, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate organization id: %w", err)
	}

	now := time.Now()
	org := &models.Organization{
		OrgID:     orgID,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.orgs.Create(ctx, org); err != nil {
		return nil, fmt.Errorf("failed to create organization: %w", err)
	}

	log.Info().Str("org_id", org.OrgID.String()).Str("name", org.Name).Msg("Created organization")

	return org, nil
}

// CreateSite creates a site within an existing organization.
func (s *Service) CreateSite(ctx context.Context, actor *models.User, orgID uuid.UUID, name string) (*models.Site, error) {
	if err := acl.Require(ctx, actor, acl.PermSitesCreate); err != nil {
		return nil, err
	}

	name, err := cleanName(name)
	if err != nil {
		return nil, err
	}

	if _, err := s.orgs.Get(ctx, orgID); err != nil {
		return nil, err
	}

	siteID, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate site id: %w", err)
	}

	now := time.Now()
	site := &models.Site{
		SiteID:    siteID,
		OrgID:     orgID,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.sites.Create(ctx, site); err != nil {
		return nil, fmt.Errorf("failed to create site: %w", err)
	}

	log.Info().Str("site_id", site.SiteID.String()).Str("org_id", orgID.String()).Msg("Created site")

	return site, nil
}

// CreateRecorder registers a recorder at an existing site.
func (s *Service) CreateRecorder(ctx context.Context, actor *models.User, siteID uuid.UUID, name, recorderType string) (*models.Recorder, error) {
	if err := acl.Require(ctx, actor, acl.PermRecordersCreate); err != nil {
		return nil, err
	}

	name, err := cleanName(name)
	if err != nil {
		return nil, err
	}

	if _, err := s.sites.Get(ctx, siteID); err != nil {
		return nil, err
	}

	recorderID, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate recorder id: %w", err)
	}

	now := time.Now()
	recorder := &models.Recorder{
		RecorderID: recorderID,
		SiteID:     siteID,
		Name:       name,
		Type:       strings.TrimSpace(recorderType),
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.recorders.Create(ctx, recorder); err != nil {
		return nil, fmt.Errorf("failed to create recorder: %w", err)
	}

	log.Info().Str("recorder_id", recorder.RecorderID.String()).Str("site_id", siteID.String()).Msg("Created recorder")

	return recorder, nil
}

// GrantOrganization gives user visibility of an organization and everything beneath it.
func (s *Service) GrantOrganization(ctx context.Context, actor *models.User, userID, orgID uuid.UUID) (*models.Grant, error) {
	if err := acl.Require(ctx, actor, acl.PermGrantsManage); err != nil {
		return nil, err
	}

	if _, err := s.users.Get(ctx, userID); err != nil {
		return nil, err
	}
	if _, err := s.orgs.Get(ctx, orgID); err != nil {
		return nil, err
	}

	grant := &models.Grant{
		UserID:    userID,
		OrgID:     orgID,
		CreatedAt: time.Now(),
	}

	if err := s.grants.Create(ctx, grant); err != nil {
		return nil, fmt.Errorf("failed to grant organization: %w", err)
	}

	log.Info().Str("user_id", userID.String()).Str("org_id", orgID.String()).Msg("Granted organization")

	return grant, nil
}

// RevokeOrganization removes a user's grant on an organization.
func (s *Service) RevokeOrganization(ctx context.Context, actor *models.User, userID, orgID uuid.UUID) error {
	if err := acl.Require(ctx, actor, acl.PermGrantsManage); err != nil {
		return err
	}

	if err := s.grants.Delete(ctx, userID, orgID); err != nil {
		return err
	}

	log.Info().Str("user_id", userID.String()).Str("org_id", orgID.String()).Msg("Revoked organization")

	return nil
}

// GetOrganization returns the organization with id.
func (s *Service) GetOrganization(ctx context.Context, orgID uuid.UUID) (*models.Organization, error) {
	return s.orgs.Get(ctx, orgID)
}

// GetSite returns the site with id.
func (s *Service) GetSite(ctx context.Context, siteID uuid.UUID) (*models.Site, error) {
	return s.sites.Get(ctx, siteID)
}

func cleanName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrInvalidName
	}
	return name, nil
}
