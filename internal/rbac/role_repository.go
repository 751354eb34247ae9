package rbac

import (
	"context"
	"errors"

	"github.com/go-sql-driver/mysql"
	"github.com/hdang/siteadmin/model"
	"gorm.io/gorm"
)

type RoleRepository interface {
	GetByID(ctx context.Context, roleID uint) (*model.Role, error)
	GetByName(ctx context.Context, name string) (*model.Role, error)
	List(ctx context.Context) ([]*model.Role, error)
	Create(ctx context.Context, role *model.Role) error
	Save(ctx context.Context, role *model.Role) error
	ReplacePermissions(ctx context.Context, role *model.Role, permissions []model.Permission) error
	Delete(ctx context.Context, roleID uint) error
}

type PermissionRepository interface {
	GetByNames(ctx context.Context, names []string) ([]model.Permission, error)
	List(ctx context.Context) ([]model.Permission, error)
	CreateIfNotExists(ctx context.Context, permission *model.Permission) error
}

type roleRepository struct {
	db *gorm.DB
}

func (r *roleRepository) GetByID(ctx context.Context, roleID uint) (*model.Role, error) {
	var role model.Role
	err := r.db.WithContext(ctx).Preload("Permissions").First(&role, "id = ?", roleID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRoleNotFound
	}
	if err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *roleRepository) GetByName(ctx context.Context, name string) (*model.Role, error) {
	var role model.Role
	err := r.db.WithContext(ctx).Preload("Permissions").First(&role, "name = ?", name).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRoleNotFound
	}
	if err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *roleRepository) List(ctx context.Context) ([]*model.Role, error) {
	var roles []*model.Role
	err := r.db.WithContext(ctx).Preload("Permissions").Order("name").Find(&roles).Error
	return roles, err
}

func (r *roleRepository) Create(ctx context.Context, role *model.Role) error {
	err := r.db.WithContext(ctx).Create(role).Error
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
		return ErrRoleNameTaken
	}
	return err
}

func (r *roleRepository) Save(ctx context.Context, role *model.Role) error {
	return r.db.WithContext(ctx).Save(role).Error
}

func (r *roleRepository) ReplacePermissions(ctx context.Context, role *model.Role, permissions []model.Permission) error {
	return r.db.WithContext(ctx).Model(role).Association("Permissions").Replace(permissions)
}

func (r *roleRepository) Delete(ctx context.Context, roleID uint) error {
	return r.db.WithContext(ctx).Delete(&model.Role{}, "id = ?", roleID).Error
}

type permissionRepository struct {
	db *gorm.DB
}

func (r *permissionRepository) GetByNames(ctx context.Context, names []string) ([]model.Permission, error) {
	var permissions []model.Permission
	err := r.db.WithContext(ctx).Where("name IN ?", names).Find(&permissions).Error
	return permissions, err
}

func (r *permissionRepository) List(ctx context.Context) ([]model.Permission, error) {
	var permissions []model.Permission
	err := r.db.WithContext(ctx).Order("name").Find(&permissions).Error
	return permissions, err
}

func (r *permissionRepository) CreateIfNotExists(ctx context.Context, permission *model.Permission) error {
	return r.db.WithContext(ctx).
		Where("name = ?", permission.Name).
		FirstOrCreate(permission).Error
}

func NewRoleRepository(db *gorm.DB) RoleRepository {
	return &roleRepository{db}
}

func NewPermissionRepository(db *gorm.DB) PermissionRepository {
	return &permissionRepository{db}
}
