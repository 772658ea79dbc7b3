package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
	"github.com/wolfeidau/ndrweb/internal/store"
)

func TestMapPostgresError(t *testing.T) {
	plain := errors.New("boom")

	tests := []struct {
		name     string
		err      error
		conflict error
		is       error
	}{
		{
			name:     "unique violation uses conflict sentinel",
			err:      &pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "users_email_lower_key"},
			conflict: store.ErrUserAlreadyExists,
			is:       store.ErrUserAlreadyExists,
		},
		{
			name: "unique violation defaults to generic kind",
			err:  &pgconn.PgError{Code: pgerrcode.UniqueViolation},
			is:   store.ErrAlreadyExists,
		},
		{
			name: "foreign key violation",
			err:  fmt.Errorf("exec: %w", &pgconn.PgError{Code: pgerrcode.ForeignKeyViolation}),
			is:   store.ErrInvalidReference,
		},
		{
			name: "non postgres error passes through",
			err:  plain,
			is:   plain,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.ErrorIs(t, mapPostgresError(tt.err, tt.conflict), tt.is)
		})
	}

	require.NoError(t, mapPostgresError(nil, nil))
}

func TestPoolConfig(t *testing.T) {
	cfg := &PoolConfig{}
	require.Error(t, cfg.Validate())

	cfg.ConnString = "postgres://localhost/ndrweb"
	cfg.ApplyDefaults()
	require.NoError(t, cfg.Validate())
	require.Equal(t, int32(20), cfg.MaxConns)
	require.Equal(t, int32(60), cfg.ConnectRetryMaxElapsed)

	cfg.MinConns = 50
	require.Error(t, cfg.Validate())
}

func TestLoadMigrations(t *testing.T) {
	migrations, err := loadMigrations()
	require.NoError(t, err)
	require.NotEmpty(t, migrations)
	require.Equal(t, 1, migrations[0].version)
	require.Contains(t, migrations[0].content, "CREATE TABLE users")
}
