//go:build integration

package postgres

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/wolfeidau/ndrweb/internal/models"
	"github.com/wolfeidau/ndrweb/internal/store"
)

func setupPostgresContainer(t *testing.T, ctx context.Context) (store.Stores, func()) {
	req := testcontainers.ContainerRequest{
		Image:        "postgres:18-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "testdb",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)

	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	connString := fmt.Sprintf("postgres://test:test@%s:%s/testdb?sslmode=disable", host, port.Port())

	pool, err := NewPool(ctx, &PoolConfig{ConnString: connString})
	require.NoError(t, err)

	require.NoError(t, Migrate(ctx, pool))
	// second run is a no-op
	require.NoError(t, Migrate(ctx, pool))

	cleanup := func() {
		pool.Close()
		_ = container.Terminate(ctx)
	}

	return NewStores(pool), cleanup
}

func TestIntegration_Stores(t *testing.T) {
	ctx := context.Background()
	stores, cleanup := setupPostgresContainer(t, ctx)
	defer cleanup()

	now := time.Now().UTC().Truncate(time.Microsecond)

	user := &models.User{
		UserID:       uuid.Must(uuid.NewV7()),
		Username:     "root",
		RealName:     "Root User",
		Email:        "root@example.com",
		PasswordHash: "$2a$10$abcdefghijklmnopqrstuuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0",
		IsActive:     true,
		IsSuperuser:  true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	org := &models.Organization{OrgID: uuid.Must(uuid.NewV7()), Name: "My Testing Organization", CreatedAt: now, UpdatedAt: now}
	site := &models.Site{SiteID: uuid.Must(uuid.NewV7()), OrgID: org.OrgID, Name: "Some random test site", CreatedAt: now, UpdatedAt: now}
	recorder := &models.Recorder{RecorderID: uuid.Must(uuid.NewV7()), SiteID: site.SiteID, Name: "Test Recorder", Type: "ndr_web_test", CreatedAt: now, UpdatedAt: now}

	t.Run("users", func(t *testing.T) {
		require.NoError(t, stores.Users.Create(ctx, user))

		got, err := stores.Users.GetByEmail(ctx, "ROOT@example.com")
		require.NoError(t, err)
		require.Equal(t, user.UserID, got.UserID)
		require.True(t, got.IsSuperuser)

		dup := *user
		dup.UserID = uuid.Must(uuid.NewV7())
		dup.Username = "root2"
		err = stores.Users.Create(ctx, &dup)
		require.ErrorIs(t, err, store.ErrUserAlreadyExists)

		_, err = stores.Users.Get(ctx, uuid.New())
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("inventory", func(t *testing.T) {
		require.NoError(t, stores.Organizations.Create(ctx, org))
		require.NoError(t, stores.Sites.Create(ctx, site))
		require.NoError(t, stores.Recorders.Create(ctx, recorder))

		orphan := &models.Site{SiteID: uuid.Must(uuid.NewV7()), OrgID: uuid.New(), Name: "orphan", CreatedAt: now, UpdatedAt: now}
		require.ErrorIs(t, stores.Sites.Create(ctx, orphan), store.ErrInvalidReference)

		orgs, err := stores.Organizations.ListByIDs(ctx, []uuid.UUID{org.OrgID, uuid.New()})
		require.NoError(t, err)
		require.Len(t, orgs, 1)
		require.Equal(t, org.Name, orgs[0].Name)

		sites, err := stores.Sites.ListByOrganization(ctx, org.OrgID)
		require.NoError(t, err)
		require.Len(t, sites, 1)
		require.Equal(t, "Some random test site", sites[0].Name)

		recorders, err := stores.Recorders.ListBySite(ctx, site.SiteID)
		require.NoError(t, err)
		require.Len(t, recorders, 1)
		require.Equal(t, "ndr_web_test", recorders[0].Type)
	})

	t.Run("grants", func(t *testing.T) {
		grant := &models.Grant{UserID: user.UserID, OrgID: org.OrgID, CreatedAt: now}
		require.NoError(t, stores.Grants.Create(ctx, grant))
		require.ErrorIs(t, stores.Grants.Create(ctx, grant), store.ErrGrantAlreadyExists)

		ok, err := stores.Grants.Exists(ctx, user.UserID, org.OrgID)
		require.NoError(t, err)
		require.True(t, ok)

		grants, err := stores.Grants.ListByUser(ctx, user.UserID)
		require.NoError(t, err)
		require.Len(t, grants, 1)

		require.NoError(t, stores.Grants.Delete(ctx, user.UserID, org.OrgID))
		require.ErrorIs(t, stores.Grants.Delete(ctx, user.UserID, org.OrgID), store.ErrGrantNotFound)
	})

	t.Run("sessions", func(t *testing.T) {
		live := &models.Session{
			SessionID:  uuid.Must(uuid.NewV7()),
			UserID:     user.UserID,
			CreatedAt:  now,
			ExpiresAt:  now.Add(time.Hour),
			LastUsedAt: now,
			UserAgent:  "go-test",
			IPAddress:  "192.0.2.10",
		}
		expired := &models.Session{
			SessionID:  uuid.Must(uuid.NewV7()),
			UserID:     user.UserID,
			CreatedAt:  now.Add(-2 * time.Hour),
			ExpiresAt:  now.Add(-time.Hour),
			LastUsedAt: now.Add(-2 * time.Hour),
		}

		require.NoError(t, stores.Sessions.Create(ctx, live))
		require.NoError(t, stores.Sessions.Create(ctx, expired))

		got, err := stores.Sessions.Get(ctx, live.SessionID)
		require.NoError(t, err)
		require.Equal(t, "192.0.2.10", got.IPAddress)

		_, err = stores.Sessions.Get(ctx, expired.SessionID)
		require.ErrorIs(t, err, store.ErrSessionExpired)

		count, err := stores.Sessions.DeleteExpired(ctx)
		require.NoError(t, err)
		require.Equal(t, 1, count)

		require.NoError(t, stores.Sessions.UpdateLastUsed(ctx, live.SessionID))

		count, err = stores.Sessions.DeleteByUser(ctx, user.UserID)
		require.NoError(t, err)
		require.Equal(t, 1, count)
	})
}
