// Package accounts creates, reads and authenticates user accounts.
package accounts

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/ndrweb/internal/acl"
	"github.com/wolfeidau/ndrweb/internal/models"
	"github.com/wolfeidau/ndrweb/internal/store"
	"golang.org/x/crypto/bcrypt"
)

const (
	// MinPasswordLength is the shortest password accepted for new accounts.
	MinPasswordLength = 8

	// MaxPasswordLength is the longest password accepted, in bytes.
	MaxPasswordLength = models.MaxPasswordLength
)

var (
	// ErrInvalidCredentials is returned for any failed login, whatever the cause.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrInvalidUser is returned when account fields fail validation.
	ErrInvalidUser = errors.New("invalid user")
)

// dummyHash is compared against when the email is unknown so both paths cost a bcrypt round.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("ndrweb-dummy-password"), bcrypt.DefaultCost)

// Service manages user accounts.
type Service struct {
	users store.UserStore
	cost  int
}

// Option configures a Service.
type Option func(*Service)

// WithBcryptCost overrides the bcrypt cost used for new password hashes.
func WithBcryptCost(cost int) Option {
	return func(s *Service) {
		s.cost = cost
	}
}

// NewService creates an account service backed by users.
func NewService(users store.UserStore, opts ...Option) *Service {
	s := &Service{
		users: users,
		cost:  bcrypt.DefaultCost,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// HashPassword returns the bcrypt hash of password.
func (s *Service) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// Create creates an active, non-superuser account on behalf of actor.
// actor must hold acl.PermUsersCreate.
func (s *Service) Create(ctx context.Context, actor *models.User, username, email, password, realName string) (*models.User, error) {
	if err := acl.Require(ctx, actor, acl.PermUsersCreate); err != nil {
		return nil, err
	}

	user, err := s.newUser(username, email, password, realName)
	if err != nil {
		return nil, err
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	log.Info().
		Str("user_id", user.UserID.String()).
		Str("username", user.Username).
		Str("created_by", actor.Username).
		Msg("Created user")

	return user, nil
}

// CreateSuperuser bootstraps a superuser account. When an account with the same
// email exists and password verifies against it, that account is returned.
func (s *Service) CreateSuperuser(ctx context.Context, username, email, password, realName string) (*models.User, error) {
	existing, err := s.users.GetByEmail(ctx, strings.TrimSpace(email))
	switch {
	case err == nil:
		if existing.IsSuperuser && existing.CheckPassword(password) {
			return existing, nil
		}
		return nil, store.ErrUserAlreadyExists
	case !errors.Is(err, store.ErrNotFound):
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	user, err := s.newUser(username, email, password, realName)
	if err != nil {
		return nil, err
	}
	user.IsSuperuser = true

	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create superuser: %w", err)
	}

	log.Info().
		Str("user_id", user.UserID.String()).
		Str("username", user.Username).
		Msg("Created superuser")

	return user, nil
}

// ReadByID returns the user with id.
func (s *Service) ReadByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return s.users.Get(ctx, id)
}

// ReadByEmail returns the user with email, compared case-insensitively.
func (s *Service) ReadByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.users.GetByEmail(ctx, strings.TrimSpace(email))
}

// Authenticate verifies email and password, returning the active user on success.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("failed to look up user: %w", err)
		}
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return nil, ErrInvalidCredentials
	}

	if !user.CheckPassword(password) || !user.IsActive {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

func (s *Service) newUser(username, email, password, realName string) (*models.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	if username == "" {
		return nil, fmt.Errorf("%w: username is required", ErrInvalidUser)
	}

	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return nil, fmt.Errorf("%w: malformed email %q", ErrInvalidUser, email)
	}

	if len(password) < MinPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", ErrInvalidUser, MinPasswordLength)
	}

	if len(password) > MaxPasswordLength {
		return nil, fmt.Errorf("%w: password must be at most %d bytes", ErrInvalidUser, MaxPasswordLength)
	}

	hash, err := s.HashPassword(password)
	if err != nil {
		return nil, err
	}

	userID, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate user id: %w", err)
	}

	now := time.Now()
	return &models.User{
		UserID:       userID,
		Username:     username,
		RealName:     strings.TrimSpace(realName),
		Email:        email,
		PasswordHash: hash,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}
