package rbac

import "github.com/hdang/siteadmin/model"

// Resolver answers "may this principal do X". It only reads the role
// preloaded on the user; there is no storage access on the hot path.
type Resolver struct{}

// IsSuperAdmin reports whether the role carries the super-admin sentinel.
func IsSuperAdmin(role *model.Role) bool {
	if role == nil {
		return false
	}
	for _, p := range role.Permissions {
		if p.Name == PermSuperAdmin {
			return true
		}
	}
	return false
}

// Can is true iff the permission is in the user's role or the role is
// super-admin. Inactive roles grant nothing.
func (Resolver) Can(user *model.User, permission string) bool {
	if user == nil || user.Role == nil || !user.Role.IsActive {
		return false
	}
	if IsSuperAdmin(user.Role) {
		return true
	}
	for _, p := range user.Role.Permissions {
		if p.Name == permission {
			return true
		}
	}
	return false
}

// HasRole is true iff the user's role name matches, with the same
// super-admin override as Can.
func (Resolver) HasRole(user *model.User, roleName string) bool {
	if user == nil || user.Role == nil || !user.Role.IsActive {
		return false
	}
	if IsSuperAdmin(user.Role) {
		return true
	}
	return user.Role.Name == roleName
}
