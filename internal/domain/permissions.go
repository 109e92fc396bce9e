package domain

import (
	"fmt"

	"github.com/AliFrzngn/zcoil/pkg/xerrors"
)

const (
	RoleAdmin    = "admin"
	RoleManager  = "manager"
	RoleCustomer = "customer"
)

// ValidRole reports whether the role is in the closed enum.
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleManager, RoleCustomer:
		return true
	}
	return false
}

// DerivePermissions maps a role to its capability set. Permissions are never
// stored; they are recomputed at identity-resolution time so role changes
// take effect on the next request. An unknown role is a programming error and
// fails fast rather than silently granting or denying.
func DerivePermissions(role string) ([]string, error) {
	switch role {
	case RoleAdmin:
		return []string{
			"users:read", "users:write", "users:delete",
			"inventory:read", "inventory:write", "inventory:delete",
			"crm:read", "crm:write", "crm:delete",
			"notifications:read", "notifications:write", "notifications:delete",
		}, nil
	case RoleManager:
		return []string{
			"users:read", "users:write",
			"inventory:read", "inventory:write",
			"crm:read", "crm:write",
			"notifications:read", "notifications:write",
		}, nil
	case RoleCustomer:
		return []string{
			"inventory:read",
			"crm:read",
		}, nil
	default:
		return nil, fmt.Errorf("%w: %q", xerrors.ErrUnknownRole, role)
	}
}
