package acl

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/wolfeidau/ndrweb/internal/models"
)

func TestHasPermission(t *testing.T) {
	superuser := &models.User{Username: "root", IsActive: true, IsSuperuser: true}
	user := &models.User{Username: "test", IsActive: true}
	inactive := &models.User{Username: "gone", IsActive: false, IsSuperuser: true}

	tests := []struct {
		name           string
		user           *models.User
		permission     Permission
		expectedResult bool
	}{
		{name: "superuser can create users", user: superuser, permission: PermUsersCreate, expectedResult: true},
		{name: "superuser can create organizations", user: superuser, permission: PermOrganizationsCreate, expectedResult: true},
		{name: "superuser can manage grants", user: superuser, permission: PermGrantsManage, expectedResult: true},
		{name: "user can view inventory", user: user, permission: PermInventoryView, expectedResult: true},
		{name: "user cannot create users", user: user, permission: PermUsersCreate, expectedResult: false},
		{name: "user cannot create sites", user: user, permission: PermSitesCreate, expectedResult: false},
		{name: "inactive superuser has nothing", user: inactive, permission: PermUsersCreate, expectedResult: false},
		{name: "nil user has nothing", user: nil, permission: PermInventoryView, expectedResult: false},
		{name: "unknown permission", user: superuser, permission: Permission("unknown:perm"), expectedResult: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expectedResult, HasPermission(tt.user, tt.permission))
		})
	}
}

func TestRequire(t *testing.T) {
	ctx := context.Background()

	require.NoError(t, Require(ctx, &models.User{IsActive: true, IsSuperuser: true}, PermUsersCreate))

	err := Require(ctx, &models.User{Username: "test", IsActive: true}, PermUsersCreate)
	require.ErrorIs(t, err, ErrNotAuthorized)
	require.Contains(t, err.Error(), "users:create")

	require.ErrorIs(t, Require(ctx, nil, PermInventoryView), ErrNotAuthorized)
}
