package commands

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/wolfeidau/ndrweb/internal/config"
)

const testSecret = "test-session-secret-at-least-32-bytes!!"

func TestAdminSession_requiresPostgres(t *testing.T) {
	t.Setenv("NDRWEB_SESSION_SECRET", testSecret)

	_, _, err := adminSession(context.Background(), &Globals{})
	require.ErrorContains(t, err, "store: postgres")
}

func TestMigrate_requiresPostgres(t *testing.T) {
	t.Setenv("NDRWEB_SESSION_SECRET", testSecret)

	err := (&MigrateCmd{}).Run(&Globals{})
	require.ErrorContains(t, err, "store: postgres")
}

func TestOpenBackend_memory(t *testing.T) {
	b, err := openBackend(context.Background(), &config.Config{Store: config.StoreMemory})
	require.NoError(t, err)
	defer b.Close()

	require.NoError(t, b.stores.Validate())
	require.Nil(t, b.Pinger())
}

func TestGlobalsSetup_readsConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ndrweb.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
listen: 127.0.0.1:9090
session:
  secret: `+testSecret+`
postgres:
  conn_string: postgres://localhost/ndrweb
  max_conns: 8
  min_conns: 1
`), 0o600))

	cfg, err := (&Globals{Config: path}).setup()
	require.NoError(t, err)
	require.Equal(t, "127.0.0.1:9090", cfg.Listen)

	pc := poolConfig(cfg)
	require.Equal(t, "postgres://localhost/ndrweb", pc.ConnString)
	require.Equal(t, int32(8), pc.MaxConns)
	require.Equal(t, int32(1), pc.MinConns)
}
