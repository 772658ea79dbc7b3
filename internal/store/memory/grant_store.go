package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/wolfeidau/ndrweb/internal/models"
	"github.com/wolfeidau/ndrweb/internal/store"
)

type grantKey struct {
	userID uuid.UUID
	orgID  uuid.UUID
}

// GrantStore implements store.GrantStore using in-memory storage.
type GrantStore struct {
	mu sync.RWMutex

	grants       map[grantKey]*models.Grant
	grantsByUser map[uuid.UUID][]uuid.UUID // user_id -> []org_id
}

// NewGrantStore creates a new in-memory grant store.
func NewGrantStore() *GrantStore {
	return &GrantStore{
		grants:       make(map[grantKey]*models.Grant),
		grantsByUser: make(map[uuid.UUID][]uuid.UUID),
	}
}

// Create records a grant in memory.
func (s *GrantStore) Create(ctx context.Context, grant *models.Grant) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := grantKey{userID: grant.UserID, orgID: grant.OrgID}
	if _, exists := s.grants[key]; exists {
		return store.ErrGrantAlreadyExists
	}

	clone := *grant
	s.grants[key] = &clone
	s.grantsByUser[grant.UserID] = append(s.grantsByUser[grant.UserID], grant.OrgID)

	return nil
}

// Delete removes a grant.
func (s *GrantStore) Delete(ctx context.Context, userID, orgID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := grantKey{userID: userID, orgID: orgID}
	if _, exists := s.grants[key]; !exists {
		return store.ErrGrantNotFound
	}

	delete(s.grants, key)

	orgIDs := s.grantsByUser[userID]
	for i, id := range orgIDs {
		if id == orgID {
			s.grantsByUser[userID] = append(orgIDs[:i], orgIDs[i+1:]...)
			break
		}
	}
	if len(s.grantsByUser[userID]) == 0 {
		delete(s.grantsByUser, userID)
	}

	return nil
}

// Exists reports whether the user holds a grant on the organization.
func (s *GrantStore) Exists(ctx context.Context, userID, orgID uuid.UUID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, exists := s.grants[grantKey{userID: userID, orgID: orgID}]
	return exists, nil
}

// ListByUser returns all grants held by a user.
func (s *GrantStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Grant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*models.Grant
	for _, orgID := range s.grantsByUser[userID] {
		clone := *s.grants[grantKey{userID: userID, orgID: orgID}]
		result = append(result, &clone)
	}

	return result, nil
}
