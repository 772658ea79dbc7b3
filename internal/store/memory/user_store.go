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

// UserStore implements store.UserStore using in-memory storage.
// This implementation is for testing only - data is lost on restart.
type UserStore struct {
	mu sync.RWMutex

	users           map[uuid.UUID]*models.User // user_id -> User
	usersByEmail    map[string]*models.User    // lower(email) -> User
	usersByUsername map[string]*models.User    // username -> User
}

// NewUserStore creates a new in-memory user store.
func NewUserStore() *UserStore {
	return &UserStore{
		users:           make(map[uuid.UUID]*models.User),
		usersByEmail:    make(map[string]*models.User),
		usersByUsername: make(map[string]*models.User),
	}
}

// Create creates a new user in memory.
func (s *UserStore) Create(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[user.UserID]; exists {
		return store.ErrUserAlreadyExists
	}
	if _, exists := s.usersByEmail[strings.ToLower(user.Email)]; exists {
		return store.ErrUserAlreadyExists
	}
	if _, exists := s.usersByUsername[user.Username]; exists {
		return store.ErrUserAlreadyExists
	}

	// Clone to avoid external modifications
	clone := *user
	s.users[user.UserID] = &clone
	s.usersByEmail[strings.ToLower(clone.Email)] = &clone
	s.usersByUsername[clone.Username] = &clone

	return nil
}

// Get retrieves a user by ID.
func (s *UserStore) Get(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, exists := s.users[userID]
	if !exists {
		return nil, store.ErrUserNotFound
	}

	clone := *user
	return &clone, nil
}

// GetByEmail retrieves a user by email address.
func (s *UserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, exists := s.usersByEmail[strings.ToLower(email)]
	if !exists {
		return nil, store.ErrUserNotFound
	}

	clone := *user
	return &clone, nil
}

// Update updates an existing user, keeping the email and username indexes current.
func (s *UserStore) Update(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, exists := s.users[user.UserID]
	if !exists {
		return store.ErrUserNotFound
	}

	if other, taken := s.usersByEmail[strings.ToLower(user.Email)]; taken && other.UserID != user.UserID {
		return store.ErrUserAlreadyExists
	}
	if other, taken := s.usersByUsername[user.Username]; taken && other.UserID != user.UserID {
		return store.ErrUserAlreadyExists
	}

	delete(s.usersByEmail, strings.ToLower(existing.Email))
	delete(s.usersByUsername, existing.Username)

	user.UpdatedAt = time.Now()

	clone := *user
	s.users[user.UserID] = &clone
	s.usersByEmail[strings.ToLower(clone.Email)] = &clone
	s.usersByUsername[clone.Username] = &clone

	return nil
}

// List returns all users ordered by username.
func (s *UserStore) List(ctx context.Context) ([]*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*models.User, 0, len(s.users))
	for _, user := range s.users {
		clone := *user
		result = append(result, &clone)
	}

	slices.SortFunc(result, func(a, b *models.User) int {
		return strings.Compare(a.Username, b.Username)
	})

	return result, nil
}
