package commands

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/ndrweb/internal/config"
	postgresstore "github.com/wolfeidau/ndrweb/internal/store/postgres"
)

type MigrateCmd struct{}

func (c *MigrateCmd) Run(globals *Globals) error {
	ctx := context.Background()

	cfg, err := globals.setup()
	if err != nil {
		return err
	}

	if cfg.Store != config.StorePostgres {
		return errors.New("migrate requires store: postgres")
	}

	pool, err := postgresstore.NewPool(ctx, poolConfig(cfg))
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := postgresstore.Migrate(ctx, pool); err != nil {
		return err
	}

	log.Info().Msg("Database is up to date")
	return nil
}
