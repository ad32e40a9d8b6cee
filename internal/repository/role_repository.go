package repository

import (
	"context"

	"gorm.io/gorm"

	"mall-admin-go/internal/model"
)

// RolePolicy 是一条 "角色编码 -> 权限编码" 的授权记录。
type RolePolicy struct {
	RoleCode       string
	PermissionCode string
}

// RoleRepository 接口定义了角色数据的持久化操作。
type RoleRepository interface {
	Create(ctx context.Context, role *model.Role) error
	FindByID(ctx context.Context, id uint) (*model.Role, error)
	FindByCode(ctx context.Context, code string) (*model.Role, error)
	FindAll(ctx context.Context) ([]model.Role, error)
	Update(ctx context.Context, role *model.Role) error
	Delete(ctx context.Context, role *model.Role) error
	ReplacePermissions(ctx context.Context, role *model.Role, permissions []model.Permission) error
	CountByPermission(ctx context.Context, permissionID string) (int64, error)
	ListPolicies(ctx context.Context) ([]RolePolicy, error)
	WithTx(tx *gorm.DB) RoleRepository
}

type roleRepository struct {
	db *gorm.DB
}

// NewRoleRepository 创建一个新的 RoleRepository 实例。
func NewRoleRepository(db *gorm.DB) RoleRepository {
	return &roleRepository{db: db}
}

func (r *roleRepository) WithTx(tx *gorm.DB) RoleRepository {
	return &roleRepository{db: tx}
}

func (r *roleRepository) Create(ctx context.Context, role *model.Role) error {
	return r.db.WithContext(ctx).Omit("Permissions").Create(role).Error
}

// FindByID 查找角色并预加载其权限。
func (r *roleRepository) FindByID(ctx context.Context, id uint) (*model.Role, error) {
	var role model.Role
	if err := r.db.WithContext(ctx).Preload("Permissions").First(&role, id).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *roleRepository) FindByCode(ctx context.Context, code string) (*model.Role, error) {
	var role model.Role
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&role).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *roleRepository) FindAll(ctx context.Context) ([]model.Role, error) {
	var roles []model.Role
	err := r.db.WithContext(ctx).Order("sort_order ASC, id ASC").Find(&roles).Error
	return roles, err
}

func (r *roleRepository) Update(ctx context.Context, role *model.Role) error {
	return r.db.WithContext(ctx).Omit("Permissions").Save(role).Error
}

// Delete 删除角色及其权限关联。
func (r *roleRepository) Delete(ctx context.Context, role *model.Role) error {
	if err := r.db.WithContext(ctx).Model(role).Association("Permissions").Clear(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Delete(&model.Role{}, role.ID).Error
}

// ReplacePermissions 用给定的权限集合替换角色当前的权限。
func (r *roleRepository) ReplacePermissions(ctx context.Context, role *model.Role, permissions []model.Permission) error {
	assoc := r.db.WithContext(ctx).Model(role).Association("Permissions")
	if len(permissions) == 0 {
		return assoc.Clear()
	}
	return assoc.Replace(permissions)
}

// CountByPermission 统计引用某权限的角色数。
func (r *roleRepository) CountByPermission(ctx context.Context, permissionID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Table(model.RolePermissionTable).Where("permission_id = ?", permissionID).Count(&n).Error
	return n, err
}

// ListPolicies 列出所有启用角色与启用权限之间的授权关系。
func (r *roleRepository) ListPolicies(ctx context.Context) ([]RolePolicy, error) {
	var rows []RolePolicy
	err := r.db.WithContext(ctx).
		Table(model.RolePermissionTable+" AS rp").
		Select("r.code AS role_code, p.code AS permission_code").
		Joins("JOIN sys_role r ON r.id = rp.role_id").
		Joins("JOIN sys_permission p ON p.id = rp.permission_id").
		Where("r.status = ? AND p.status = ? AND p.code <> ''", model.StatusEnabled, model.StatusEnabled).
		Scan(&rows).Error
	return rows, err
}
