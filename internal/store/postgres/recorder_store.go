package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/ndrweb/internal/models"
	"github.com/wolfeidau/ndrweb/internal/store"
)

// RecorderStore implements store.RecorderStore using PostgreSQL.
type RecorderStore struct {
	pool *pgxpool.Pool
}

// NewRecorderStore creates a new PostgreSQL-backed recorder store.
func NewRecorderStore(pool *pgxpool.Pool) *RecorderStore {
	return &RecorderStore{
		pool: pool,
	}
}

// Create creates a new recorder. A missing site surfaces as store.ErrInvalidReference.
func (s *RecorderStore) Create(ctx context.Context, recorder *models.Recorder) error {
	query := `
		INSERT INTO recorders (recorder_id, site_id, name, type, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := s.pool.Exec(ctx, query,
		recorder.RecorderID,
		recorder.SiteID,
		recorder.Name,
		recorder.Type,
		recorder.CreatedAt,
		recorder.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create recorder: %w", mapPostgresError(err, nil))
	}

	log.Debug().
		Str("recorder_id", recorder.RecorderID.String()).
		Str("site_id", recorder.SiteID.String()).
		Msg("Created recorder")

	return nil
}

// Get retrieves a recorder by ID.
func (s *RecorderStore) Get(ctx context.Context, recorderID uuid.UUID) (*models.Recorder, error) {
	query := `
		SELECT recorder_id, site_id, name, type, created_at, updated_at
		FROM recorders
		WHERE recorder_id = $1
	`

	recorder, err := scanRecorder(s.pool.QueryRow(ctx, query, recorderID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrRecorderNotFound
		}
		return nil, fmt.Errorf("failed to get recorder: %w", err)
	}

	return recorder, nil
}

// ListBySite returns all recorders at a site ordered by name.
func (s *RecorderStore) ListBySite(ctx context.Context, siteID uuid.UUID) ([]*models.Recorder, error) {
	query := `
		SELECT recorder_id, site_id, name, type, created_at, updated_at
		FROM recorders
		WHERE site_id = $1
		ORDER BY name, recorder_id
	`

	rows, err := s.pool.Query(ctx, query, siteID)
	if err != nil {
		return nil, fmt.Errorf("failed to list recorders: %w", err)
	}
	defer rows.Close()

	var recorders []*models.Recorder
	for rows.Next() {
		recorder, err := scanRecorder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan recorder: %w", err)
		}
		recorders = append(recorders, recorder)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating recorders: %w", err)
	}

	return recorders, nil
}

func scanRecorder(row pgx.Row) (*models.Recorder, error) {
	var r models.Recorder
	if err := row.Scan(&r.RecorderID, &r.SiteID, &r.Name, &r.Type, &r.CreatedAt, &r.UpdatedAt); err != nil {
		return nil, err
	}
	return &r, nil
}
