package memory

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/wolfeidau/ndrweb/internal/models"
	"github.com/wolfeidau/ndrweb/internal/store"
)

// OrganizationStore implements store.OrganizationStore using in-memory storage.
// This implementation is for testing only - data is lost on restart.
type OrganizationStore struct {
	mu sync.RWMutex

	organizations map[uuid.UUID]*models.Organization // org_id -> Organization
}

// NewOrganizationStore creates a new in-memory organization store.
func NewOrganizationStore() *OrganizationStore {
	return &OrganizationStore{
		organizations: make(map[uuid.UUID]*models.Organization),
	}
}

// Create creates a new organization in memory.
func (s *OrganizationStore) Create(ctx context.Context, org *models.Organization) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.organizations[org.OrgID]; exists {
		return store.ErrAlreadyExists
	}

	// Clone to avoid external modifications
	clone := *org
	s.organizations[org.OrgID] = &clone

	return nil
}

// Get retrieves an organization by ID.
func (s *OrganizationStore) Get(ctx context.Context, orgID uuid.UUID) (*models.Organization, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	org, exists := s.organizations[orgID]
	if !exists {
		return nil, store.ErrOrganizationNotFound
	}

	clone := *org
	return &clone, nil
}

// Update updates an existing organization.
func (s *OrganizationStore) Update(ctx context.Context, org *models.Organization) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.organizations[org.OrgID]; !exists {
		return store.ErrOrganizationNotFound
	}

	org.UpdatedAt = time.Now()

	clone := *org
	s.organizations[org.OrgID] = &clone

	return nil
}

// List returns every organization ordered by name.
func (s *OrganizationStore) List(ctx context.Context) ([]*models.Organization, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*models.Organization, 0, len(s.organizations))
	for _, org := range s.organizations {
		clone := *org
		result = append(result, &clone)
	}

	sortOrganizations(result)
	return result, nil
}

// ListByIDs returns the organizations with the given IDs, skipping unknown IDs.
func (s *OrganizationStore) ListByIDs(ctx context.Context, orgIDs []uuid.UUID) ([]*models.Organization, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[uuid.UUID]bool, len(orgIDs))
	var result []*models.Organization
	for _, id := range orgIDs {
		if seen[id] {
			continue
		}
		seen[id] = true

		if org, exists := s.organizations[id]; exists {
			clone := *org
			result = append(result, &clone)
		}
	}

	sortOrganizations(result)
	return result, nil
}

func sortOrganizations(orgs []*models.Organization) {
	slices.SortFunc(orgs, func(a, b *models.Organization) int {
		if c := strings.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return strings.Compare(a.OrgID.String(), b.OrgID.String())
	})
}
