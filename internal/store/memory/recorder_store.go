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

// RecorderStore implements store.RecorderStore using in-memory storage.
type RecorderStore struct {
	mu sync.RWMutex

	recorders       map[uuid.UUID]*models.Recorder // recorder_id -> Recorder
	recordersBySite map[uuid.UUID][]uuid.UUID      // site_id -> []recorder_id
}

// NewRecorderStore creates a new in-memory recorder store.
func NewRecorderStore() *RecorderStore {
	return &RecorderStore{
		recorders:       make(map[uuid.UUID]*models.Recorder),
		recordersBySite: make(map[uuid.UUID][]uuid.UUID),
	}
}

// Create creates a new recorder in memory.
func (s *RecorderStore) Create(ctx context.Context, recorder *models.Recorder) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.recorders[recorder.RecorderID]; exists {
		return store.ErrAlreadyExists
	}

	clone := *recorder
	s.recorders[recorder.RecorderID] = &clone
	s.recordersBySite[recorder.SiteID] = append(s.recordersBySite[recorder.SiteID], recorder.RecorderID)

	return nil
}

// Get retrieves a recorder by ID.
func (s *RecorderStore) Get(ctx context.Context, recorderID uuid.UUID) (*models.Recorder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	recorder, exists := s.recorders[recorderID]
	if !exists {
		return nil, store.ErrRecorderNotFound
	}

	clone := *recorder
	return &clone, nil
}

// ListBySite returns all recorders at a site ordered by name.
func (s *RecorderStore) ListBySite(ctx context.Context, siteID uuid.UUID) ([]*models.Recorder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*models.Recorder
	for _, id := range s.recordersBySite[siteID] {
		clone := *s.recorders[id]
		result = append(result, &clone)
	}

	slices.SortFunc(result, func(a, b *models.Recorder) int {
		if c := strings.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return strings.Compare(a.RecorderID.String(), b.RecorderID.String())
	})

	return result, nil
}
