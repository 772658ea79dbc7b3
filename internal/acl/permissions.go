package acl

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/wolfeidau/ndrweb/internal/models"
	"github.com/wolfeidau/ndrweb/internal/telemetry"
)

// ErrNotAuthorized is returned when the acting user lacks a permission.
var ErrNotAuthorized = errors.New("not authorized")

// Permission represents an authorized action
type Permission string

const (
	PermUsersCreate         Permission = "users:create"
	PermOrganizationsCreate Permission = "organizations:create"
	PermSitesCreate         Permission = "sites:create"
	PermRecordersCreate     Permission = "recorders:create"
	PermGrantsManage        Permission = "grants:manage"
	PermInventoryView       Permission = "inventory:view"
)

// Role groups permissions. A user's role is derived from its superuser flag.
type Role string

const (
	RoleSuperuser Role = "superuser"
	RoleUser      Role = "user"
)

// RolePermissions maps roles to allowed permissions
var RolePermissions = map[Role][]Permission{
	RoleSuperuser: {
		PermUsersCreate,
		PermOrganizationsCreate,
		PermSitesCreate,
		PermRecordersCreate,
		PermGrantsManage,
		PermInventoryView,
	},
	RoleUser: {
		PermInventoryView,
	},
}

// RoleOf returns the role of a user. Nil and inactive users have no role.
func RoleOf(user *models.User) (Role, bool) {
	if user == nil || !user.IsActive {
		return "", false
	}
	if user.IsSuperuser {
		return RoleSuperuser, true
	}
	return RoleUser, true
}

// HasPermission checks if a user has a specific permission
func HasPermission(user *models.User, perm Permission) bool {
	role, ok := RoleOf(user)
	if !ok {
		return false
	}
	return slices.Contains(RolePermissions[role], perm)
}

// Require returns an error wrapping ErrNotAuthorized if the user lacks perm.
func Require(ctx context.Context, user *models.User, perm Permission) error {
	if HasPermission(user, perm) {
		return nil
	}

	telemetry.GetMetrics().RecordACLDenied(ctx, string(perm))

	if user == nil {
		return fmt.Errorf("%w: anonymous caller requires %s", ErrNotAuthorized, perm)
	}
	return fmt.Errorf("%w: %s requires %s", ErrNotAuthorized, user.Username, perm)
}
