package inventory

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/wolfeidau/ndrweb/internal/acl"
	"github.com/wolfeidau/ndrweb/internal/models"
	"github.com/wolfeidau/ndrweb/internal/store"
	"github.com/wolfeidau/ndrweb/internal/store/memory"
)

func newTestService(t *testing.T) (*Service, store.Stores, *models.User, *models.User) {
	t.Helper()

	ctx := context.Background()
	stores := memory.NewStores()

	root := &models.User{UserID: uuid.Must(uuid.NewV7()), Username: "root", Email: "root@example.com", IsActive: true, IsSuperuser: true}
	user := &models.User{UserID: uuid.Must(uuid.NewV7()), Username: "test", Email: "test@example.com", IsActive: true}
	require.NoError(t, stores.Users.Create(ctx, root))
	require.NoError(t, stores.Users.Create(ctx, user))

	return NewService(stores), stores, root, user
}

func TestService_hierarchy(t *testing.T) {
	ctx := context.Background()
	svc, stores, root, _ := newTestService(t)

	org, err := svc.CreateOrganization(ctx, root, "  My Testing Organization ")
	require.NoError(t, err)
	require.Equal(t, "My Testing Organization", org.Name)

	site, err := svc.CreateSite(ctx, root, org.OrgID, "Some random test site")
	require.NoError(t, err)
	require.Equal(t, org.OrgID, site.OrgID)

	recorder, err := svc.CreateRecorder(ctx, root, site.SiteID, "Test Recorder", "ndr_web_test")
	require.NoError(t, err)
	require.Equal(t, site.SiteID, recorder.SiteID)

	got, err := svc.GetOrganization(ctx, org.OrgID)
	require.NoError(t, err)
	require.Equal(t, org.Name, got.Name)

	gotSite, err := svc.GetSite(ctx, site.SiteID)
	require.NoError(t, err)
	require.Equal(t, site.Name, gotSite.Name)

	recorders, err := stores.Recorders.ListBySite(ctx, site.SiteID)
	require.NoError(t, err)
	require.Len(t, recorders, 1)
}

func TestService_missingParents(t *testing.T) {
	ctx := context.Background()
	svc, _, root, user := newTestService(t)

	_, err := svc.CreateSite(ctx, root, uuid.New(), "site")
	require.ErrorIs(t, err, store.ErrOrganizationNotFound)

	_, err = svc.CreateRecorder(ctx, root, uuid.New(), "recorder", "")
	require.ErrorIs(t, err, store.ErrSiteNotFound)

	_, err = svc.GrantOrganization(ctx, root, user.UserID, uuid.New())
	require.ErrorIs(t, err, store.ErrOrganizationNotFound)

	_, err = svc.GetOrganization(ctx, uuid.New())
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestService_invalidName(t *testing.T) {
	ctx := context.Background()
	svc, _, root, _ := newTestService(t)

	_, err := svc.CreateOrganization(ctx, root, "   ")
	require.ErrorIs(t, err, ErrInvalidName)

	org, err := svc.CreateOrganization(ctx, root, "org")
	require.NoError(t, err)

	_, err = svc.CreateSite(ctx, root, org.OrgID, "")
	require.ErrorIs(t, err, ErrInvalidName)
}

func TestService_requiresSuperuser(t *testing.T) {
	ctx := context.Background()
	svc, _, root, user := newTestService(t)

	org, err := svc.CreateOrganization(ctx, root, "org")
	require.NoError(t, err)

	_, err = svc.CreateOrganization(ctx, user, "mine")
	require.ErrorIs(t, err, acl.ErrNotAuthorized)

	_, err = svc.CreateSite(ctx, user, org.OrgID, "site")
	require.ErrorIs(t, err, acl.ErrNotAuthorized)

	_, err = svc.CreateRecorder(ctx, nil, uuid.New(), "recorder", "")
	require.ErrorIs(t, err, acl.ErrNotAuthorized)

	_, err = svc.GrantOrganization(ctx, user, user.UserID, org.OrgID)
	require.ErrorIs(t, err, acl.ErrNotAuthorized)
}

func TestService_grants(t *testing.T) {
	ctx := context.Background()
	svc, stores, root, user := newTestService(t)

	org, err := svc.CreateOrganization(ctx, root, "org")
	require.NoError(t, err)

	_, err = svc.GrantOrganization(ctx, root, user.UserID, org.OrgID)
	require.NoError(t, err)

	_, err = svc.GrantOrganization(ctx, root, user.UserID, org.OrgID)
	require.ErrorIs(t, err, store.ErrGrantAlreadyExists)

	ok, err := stores.Grants.Exists(ctx, user.UserID, org.OrgID)
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, svc.RevokeOrganization(ctx, root, user.UserID, org.OrgID))
	require.ErrorIs(t, svc.RevokeOrganization(ctx, root, user.UserID, org.OrgID), store.ErrGrantNotFound)
}
