package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/ndrweb/internal/accounts"
	"github.com/wolfeidau/ndrweb/internal/config"
	"github.com/wolfeidau/ndrweb/internal/logger"
	"github.com/wolfeidau/ndrweb/internal/models"
	"github.com/wolfeidau/ndrweb/internal/store"
	memorystore "github.com/wolfeidau/ndrweb/internal/store/memory"
	postgresstore "github.com/wolfeidau/ndrweb/internal/store/postgres"
)

type Globals struct {
	Debug   bool
	Config  string
	Version string
}

// setup configures the global logger and loads the configuration file.
func (g *Globals) setup() (*config.Config, error) {
	log.Logger = logger.Setup(g.Debug)

	cfg, err := config.Load(g.Config)
	if err != nil {
		return nil, err
	}

	log.Debug().Str("config", g.Config).Str("store", cfg.Store).Msg("Loaded configuration")

	return cfg, nil
}

// backend is an opened set of stores plus the pool behind them, if any.
type backend struct {
	stores store.Stores
	pool   *pgxpool.Pool
}

func (b *backend) Close() {
	if b.pool != nil {
		b.pool.Close()
		log.Info().Msg("Database connection closed")
	}
}

// Pinger returns the pool when the backend is postgres, otherwise nil.
func (b *backend) Pinger() store.Pinger {
	if b.pool == nil {
		return nil
	}
	return b.pool
}

func openBackend(ctx context.Context, cfg *config.Config) (*backend, error) {
	switch cfg.Store {
	case config.StorePostgres:
		pool, err := postgresstore.NewPool(ctx, poolConfig(cfg))
		if err != nil {
			return nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}

		if cfg.Postgres.AutoMigrate {
			if err := postgresstore.Migrate(ctx, pool); err != nil {
				pool.Close()
				return nil, err
			}
		}

		log.Info().Msg("Using PostgreSQL stores")
		return &backend{stores: postgresstore.NewStores(pool), pool: pool}, nil

	default:
		log.Info().Msg("Using in-memory stores")
		return &backend{stores: memorystore.NewStores()}, nil
	}
}

func poolConfig(cfg *config.Config) *postgresstore.PoolConfig {
	return &postgresstore.PoolConfig{
		ConnString:             cfg.Postgres.ConnString,
		MaxConns:               cfg.Postgres.MaxConns,
		MinConns:               cfg.Postgres.MinConns,
		MaxConnLifetime:        cfg.Postgres.MaxConnLifetime,
		MaxConnIdleTime:        cfg.Postgres.MaxConnIdleTime,
		ConnectTimeout:         cfg.Postgres.ConnectTimeout,
		ConnectRetryMaxElapsed: cfg.Postgres.ConnectRetryMaxElapsed,
	}
}

// adminSession opens the persistent backend for one-shot admin commands.
// In-memory data would vanish as soon as the command exits, so it is refused.
func adminSession(ctx context.Context, globals *Globals) (*backend, *accounts.Service, error) {
	cfg, err := globals.setup()
	if err != nil {
		return nil, nil, err
	}

	if cfg.Store != config.StorePostgres {
		return nil, nil, errors.New("admin commands require store: postgres")
	}

	b, err := openBackend(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	return b, accounts.NewService(b.stores.Users), nil
}

// actingUser loads the account named by --as. Permission checks happen in the
// services so a non-superuser gets acl.ErrNotAuthorized from them.
func actingUser(ctx context.Context, accountSvc *accounts.Service, email string) (*models.User, error) {
	user, err := accountSvc.ReadByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to load acting user %s: %w", email, err)
	}
	return user, nil
}
