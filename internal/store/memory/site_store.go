package memory

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/wolfeidau/ndrweb/internal/models"
	"github.com/wolfeidau/ndrweb/internal/store"
)

// SiteStore implements store.SiteStore using in-memory storage.
// Unlike postgres it does not check that the parent organization exists.
type SiteStore struct {
	mu sync.RWMutex

	sites      map[uuid.UUID]*models.Site // site_id -> Site
	sitesByOrg map[uuid.UUID][]uuid.UUID  // org_id -> []site_id
}

// NewSiteStore creates a new in-memory site store.
func NewSiteStore() *SiteStore {
	return &SiteStore{
		sites:      make(map[uuid.UUID]*models.Site),
		sitesByOrg: make(map[uuid.UUID][]uuid.UUID),
	}
}

// Create creates a new site in memory.
func (s *SiteStore) Create(ctx context.Context, site *models.Site) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.sites[site.SiteID]; exists {
		return store.ErrAlreadyExists
	}

	clone := *site
	s.sites[site.SiteID] = &clone
	s.sitesByOrg[site.OrgID] = append(s.sitesByOrg[site.OrgID], site.SiteID)

	return nil
}

// Get retrieves a site by ID.
func (s *SiteStore) Get(ctx context.Context, siteID uuid.UUID) (*models.Site, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	site, exists := s.sites[siteID]
	if !exists {
		return nil, store.ErrSiteNotFound
	}

	clone := *site
	return &clone, nil
}

// ListByOrganization returns all sites of an organization ordered by name.
func (s *SiteStore) ListByOrganization(ctx context.Context, orgID uuid.UUID) ([]*models.Site, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*models.Site
	for _, id := range s.sitesByOrg[orgID] {
		clone := *s.sites[id]
		result = append(result, &clone)
	}

	slices.SortFunc(result, func(a, b *models.Site) int {
		if c := strings.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return strings.Compare(a.SiteID.String(), b.SiteID.String())
	})

	return result, nil
}
