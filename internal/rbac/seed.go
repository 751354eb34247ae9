package rbac

import (
	"context"
	"errors"
	"fmt"

	"github.com/hdang/siteadmin/model"
)

const (
	RoleSuperAdministrator = "Super Administrator"
	RoleAdministrator      = "Administrator"
	RoleManager            = "Manager"
	RoleEditor             = "Editor"
	RoleViewer             = "Viewer"
)

type defaultRole struct {
	name        string
	description string
	permissions []string
}

var defaultRoles = []defaultRole{
	{
		name:        RoleSuperAdministrator,
		description: "Unrestricted access",
		permissions: []string{PermSuperAdmin},
	},
	{
		name:        RoleAdministrator,
		description: "Full administrative access",
		permissions: []string{
			PermUsersCreate, PermUsersRead, PermUsersUpdate, PermUsersDelete,
			PermRolesCreate, PermRolesRead, PermRolesUpdate, PermRolesDelete,
			PermContentCreate, PermContentRead, PermContentUpdate, PermContentDelete,
			PermSettingsRead, PermSettingsUpdate, PermAuditRead,
		},
	},
	{
		name:        RoleManager,
		description: "Content and settings management",
		permissions: []string{
			PermUsersRead,
			PermContentCreate, PermContentRead, PermContentUpdate, PermContentDelete,
			PermSettingsRead, PermSettingsUpdate, PermAuditRead,
		},
	},
	{
		name:        RoleEditor,
		description: "Content editing",
		permissions: []string{PermContentCreate, PermContentRead, PermContentUpdate},
	},
	{
		name:        RoleViewer,
		description: "Read-only access",
		permissions: []string{PermUsersRead, PermRolesRead, PermContentRead, PermSettingsRead},
	},
}

// Seed creates the permission catalog and the default system roles if they
// do not already exist. It is idempotent and never touches custom roles or
// the permission sets of roles that already exist.
func Seed(ctx context.Context, roleRepo RoleRepository, permRepo PermissionRepository) error {
	for name, description := range permissionCatalog {
		perm := model.Permission{Name: name, Description: description}
		if err := permRepo.CreateIfNotExists(ctx, &perm); err != nil {
			return fmt.Errorf("seed permission %s: %w", name, err)
		}
	}

	for _, def := range defaultRoles {
		if _, err := roleRepo.GetByName(ctx, def.name); err == nil {
			continue
		} else if !errors.Is(err, ErrRoleNotFound) {
			return err
		}

		permissions, err := permRepo.GetByNames(ctx, def.permissions)
		if err != nil {
			return err
		}
		role := model.Role{
			Name:        def.name,
			Description: def.description,
			IsSystem:    true,
			IsActive:    true,
			Permissions: permissions,
		}
		if err := roleRepo.Create(ctx, &role); err != nil && !errors.Is(err, ErrRoleNameTaken) {
			return fmt.Errorf("seed role %s: %w", def.name, err)
		}
	}
	return nil
}
