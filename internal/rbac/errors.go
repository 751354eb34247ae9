package rbac

import "errors"

var (
	ErrRoleNotFound        = errors.New("role not found")
	ErrRoleNameTaken       = errors.New("role name is already taken")
	ErrRoleInUse           = errors.New("role is still assigned to users")
	ErrSystemRoleImmutable = errors.New("system roles cannot be renamed or deleted")
	ErrUnknownPermission   = errors.New("unknown permission")
	ErrPermissionDenied    = errors.New("permission denied")
)
