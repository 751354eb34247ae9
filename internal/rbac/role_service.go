package rbac

import (
	"context"

	"github.com/hdang/siteadmin/model"
)

type CreateRoleOptions struct {
	Name        string
	Description string
	Permissions []string
}

// UpdateRoleOptions uses pointers so absent fields stay untouched.
type UpdateRoleOptions struct {
	Name        *string
	Description *string
	IsActive    *bool
	Permissions []string
}

type UserCounter interface {
	CountByRole(ctx context.Context, roleID uint) (int64, error)
}

// RoleService owns role mutation. System roles only allow activation
// toggling; renaming or deleting one fails with ErrSystemRoleImmutable.
type RoleService struct {
	roleRepo RoleRepository
	permRepo PermissionRepository
	users    UserCounter
}

func (s *RoleService) resolvePermissions(ctx context.Context, names []string) ([]model.Permission, error) {
	for _, name := range names {
		if !KnownPermission(name) {
			return nil, ErrUnknownPermission
		}
	}
	return s.permRepo.GetByNames(ctx, names)
}

func (s *RoleService) GetRole(ctx context.Context, roleID uint) (*model.Role, error) {
	return s.roleRepo.GetByID(ctx, roleID)
}

func (s *RoleService) GetRoleByName(ctx context.Context, name string) (*model.Role, error) {
	return s.roleRepo.GetByName(ctx, name)
}

func (s *RoleService) ListRoles(ctx context.Context) ([]*model.Role, error) {
	return s.roleRepo.List(ctx)
}

func (s *RoleService) ListPermissions(ctx context.Context) ([]model.Permission, error) {
	return s.permRepo.List(ctx)
}

func (s *RoleService) CreateRole(ctx context.Context, opts CreateRoleOptions) (*model.Role, error) {
	permissions, err := s.resolvePermissions(ctx, opts.Permissions)
	if err != nil {
		return nil, err
	}
	role := model.Role{
		Name:        opts.Name,
		Description: opts.Description,
		IsActive:    true,
		Permissions: permissions,
	}
	if err := s.roleRepo.Create(ctx, &role); err != nil {
		return nil, err
	}
	return &role, nil
}

func (s *RoleService) UpdateRole(ctx context.Context, roleID uint, opts UpdateRoleOptions) (*model.Role, error) {
	role, err := s.roleRepo.GetByID(ctx, roleID)
	if err != nil {
		return nil, err
	}

	if role.IsSystem && (opts.Name != nil || opts.Permissions != nil) {
		return nil, ErrSystemRoleImmutable
	}

	if opts.Name != nil {
		role.Name = *opts.Name
	}
	if opts.Description != nil {
		role.Description = *opts.Description
	}
	if opts.IsActive != nil {
		role.IsActive = *opts.IsActive
	}
	if err := s.roleRepo.Save(ctx, role); err != nil {
		return nil, err
	}

	if opts.Permissions != nil {
		permissions, err := s.resolvePermissions(ctx, opts.Permissions)
		if err != nil {
			return nil, err
		}
		if err := s.roleRepo.ReplacePermissions(ctx, role, permissions); err != nil {
			return nil, err
		}
		role.Permissions = permissions
	}
	return role, nil
}

func (s *RoleService) DeleteRole(ctx context.Context, roleID uint) error {
	role, err := s.roleRepo.GetByID(ctx, roleID)
	if err != nil {
		return err
	}
	if role.IsSystem {
		return ErrSystemRoleImmutable
	}
	count, err := s.users.CountByRole(ctx, roleID)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrRoleInUse
	}
	return s.roleRepo.Delete(ctx, roleID)
}

func NewRoleService(roleRepo RoleRepository, permRepo PermissionRepository, users UserCounter) *RoleService {
	return &RoleService{
		roleRepo: roleRepo,
		permRepo: permRepo,
		users:    users,
	}
}
