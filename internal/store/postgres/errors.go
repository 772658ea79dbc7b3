package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/wolfeidau/ndrweb/internal/store"
)

// mapPostgresError maps PostgreSQL-specific errors to store sentinel errors.
// conflict is returned (wrapped) for unique violations so each store can report
// its own flavour of store.ErrAlreadyExists.
// Returns the original error if it's not a PostgreSQL error.
func mapPostgresError(err error, conflict error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case pgerrcode.UniqueViolation:
		if conflict == nil {
			conflict = store.ErrAlreadyExists
		}
		return fmt.Errorf("%w: %s", conflict, pgErr.ConstraintName)

	case pgerrcode.ForeignKeyViolation:
		return fmt.Errorf("%w: %s", store.ErrInvalidReference, pgErr.Detail)

	case pgerrcode.CheckViolation, pgerrcode.NotNullViolation:
		return fmt.Errorf("constraint violation: %s: %w", pgErr.ConstraintName, err)

	case pgerrcode.SerializationFailure, pgerrcode.DeadlockDetected:
		return fmt.Errorf("transaction conflict (retryable): %w", err)

	case pgerrcode.ConnectionException,
		pgerrcode.ConnectionDoesNotExist,
		pgerrcode.ConnectionFailure,
		pgerrcode.CannotConnectNow,
		pgerrcode.SQLClientUnableToEstablishSQLConnection:
		return fmt.Errorf("database connection error: %w", err)

	case pgerrcode.AdminShutdown,
		pgerrcode.CrashShutdown:
		return fmt.Errorf("database server unavailable: %w", err)

	case pgerrcode.QueryCanceled:
		return fmt.Errorf("query canceled: %w", err)

	case pgerrcode.InsufficientResources,
		pgerrcode.DiskFull,
		pgerrcode.OutOfMemory,
		pgerrcode.TooManyConnections:
		return fmt.Errorf("database resource limit: %w", err)

	default:
		return fmt.Errorf("postgres error [%s]: %s (detail: %s, hint: %s): %w",
			pgErr.Code, pgErr.Message, pgErr.Detail, pgErr.Hint, err)
	}
}
