package rbac

// Permission identifiers are "resource:action" strings. PermSuperAdmin is
// the sentinel granting universal capability; call sites go through
// IsSuperAdmin instead of comparing the string.
const (
	PermSuperAdmin = "super:admin"

	PermUsersCreate = "users:create"
	PermUsersRead   = "users:read"
	PermUsersUpdate = "users:update"
	PermUsersDelete = "users:delete"

	PermRolesCreate = "roles:create"
	PermRolesRead   = "roles:read"
	PermRolesUpdate = "roles:update"
	PermRolesDelete = "roles:delete"

	PermContentCreate = "content:create"
	PermContentRead   = "content:read"
	PermContentUpdate = "content:update"
	PermContentDelete = "content:delete"

	PermSettingsRead   = "settings:read"
	PermSettingsUpdate = "settings:update"

	PermAuditRead = "audit:read"
)

var permissionCatalog = map[string]string{
	PermSuperAdmin:     "Unrestricted access to every capability",
	PermUsersCreate:    "Create admin users",
	PermUsersRead:      "View admin users",
	PermUsersUpdate:    "Update admin users",
	PermUsersDelete:    "Deactivate admin users",
	PermRolesCreate:    "Create roles",
	PermRolesRead:      "View roles and permissions",
	PermRolesUpdate:    "Update roles",
	PermRolesDelete:    "Delete roles",
	PermContentCreate:  "Create site content",
	PermContentRead:    "View site content",
	PermContentUpdate:  "Update site content",
	PermContentDelete:  "Delete site content",
	PermSettingsRead:   "View site settings",
	PermSettingsUpdate: "Update site settings",
	PermAuditRead:      "View audit logs and security events",
}

// KnownPermission reports whether name exists in the permission catalog.
func KnownPermission(name string) bool {
	_, ok := permissionCatalog[name]
	return ok
}
