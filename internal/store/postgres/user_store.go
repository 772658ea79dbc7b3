package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/ndrweb/internal/models"
	"github.com/wolfeidau/ndrweb/internal/store"
)

const userColumns = `user_id, username, real_name, email, password_hash, is_active, is_superuser, created_at, updated_at`

// UserStore implements store.UserStore using PostgreSQL.
type UserStore struct {
	pool *pgxpool.Pool
}

// NewUserStore creates a new PostgreSQL-backed user store.
func NewUserStore(pool *pgxpool.Pool) *UserStore {
	return &UserStore{
		pool: pool,
	}
}

// Create creates a new user in the database.
func (s *UserStore) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := s.pool.Exec(ctx, query,
		user.UserID,
		user.Username,
		user.RealName,
		user.Email,
		user.PasswordHash,
		user.IsActive,
		user.IsSuperuser,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", mapPostgresError(err, store.ErrUserAlreadyExists))
	}

	log.Debug().
		Str("user_id", user.UserID.String()).
		Str("username", user.Username).
		Msg("Created user")

	return nil
}

// Get retrieves a user by ID.
func (s *UserStore) Get(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE user_id = $1`
	return s.getOne(ctx, query, userID)
}

// GetByEmail retrieves a user by email address, ignoring case.
func (s *UserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE LOWER(email) = LOWER($1)`
	return s.getOne(ctx, query, email)
}

func (s *UserStore) getOne(ctx context.Context, query string, arg any) (*models.User, error) {
	user, err := scanUser(s.pool.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return user, nil
}

// Update updates an existing user.
func (s *UserStore) Update(ctx context.Context, user *models.User) error {
	user.UpdatedAt = time.Now()

	query := `
		UPDATE users SET
			username = $2,
			real_name = $3,
			email = $4,
			password_hash = $5,
			is_active = $6,
			is_superuser = $7,
			updated_at = $8
		WHERE user_id = $1
	`

	result, err := s.pool.Exec(ctx, query,
		user.UserID,
		user.Username,
		user.RealName,
		user.Email,
		user.PasswordHash,
		user.IsActive,
		user.IsSuperuser,
		user.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", mapPostgresError(err, store.ErrUserAlreadyExists))
	}

	if result.RowsAffected() == 0 {
		return store.ErrUserNotFound
	}

	log.Debug().
		Str("user_id", user.UserID.String()).
		Msg("Updated user")

	return nil
}

// List returns all users ordered by username.
func (s *UserStore) List(ctx context.Context) ([]*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY username`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}

	return users, nil
}

func scanUser(row pgx.Row) (*models.User, error) {
	var user models.User
	err := row.Scan(
		&user.UserID,
		&user.Username,
		&user.RealName,
		&user.Email,
		&user.PasswordHash,
		&user.IsActive,
		&user.IsSuperuser,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}
