// Package repository 定义了与数据库进行数据交换的接口和实现。
package repository

import (
	"context"

	"gorm.io/gorm"

	"mall-admin-go/internal/model"
)

// UserQuery 是后台用户分页查询的条件。
type UserQuery struct {
	Username string
	DeptIDs  []string
	Status   *int8
	Offset   int
	Limit    int
}

// UserRepository 接口定义了用户数据的持久化操作。
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	FindByID(ctx context.Context, userID uint) (*model.User, error)
	Update(ctx context.Context, user *model.User) error
	FindWithPagination(ctx context.Context, q UserQuery) ([]model.User, int64, error)
	CountByDept(ctx context.Context, deptID string) (int64, error)
	CountByRole(ctx context.Context, roleID uint) (int64, error)
	CountByMemberLevel(ctx context.Context, levelID uint) (int64, error)
	WithTx(tx *gorm.DB) UserRepository
}

// userRepository 是 UserRepository 接口的 GORM 实现。
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository 创建一个新的 UserRepository 实例。
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) WithTx(tx *gorm.DB) UserRepository {
	return &userRepository{db: tx}
}

// Create 在数据库中创建一个新的用户记录。
func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// FindByUsername 根据用户名查找用户，并预加载角色。
func (r *userRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).Preload("Role").Where("username = ?", username).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByID 根据用户 ID 查找用户，并预加载角色。
func (r *userRepository) FindByID(ctx context.Context, userID uint) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).Preload("Role").First(&user, userID).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Update 更新用户记录。关联的 Role 不随之保存。
func (r *userRepository) Update(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Omit("Role").Save(user).Error
}

// FindWithPagination 分页检索用户记录，返回用户列表和总记录数。
func (r *userRepository) FindWithPagination(ctx context.Context, q UserQuery) ([]model.User, int64, error) {
	var users []model.User
	var total int64

	db := r.db.WithContext(ctx).Model(&model.User{})
	if q.Username != "" {
		db = db.Where(likeClause("username"), containsPattern(q.Username))
	}
	if len(q.DeptIDs) > 0 {
		db = db.Where("dept_id IN ?", q.DeptIDs)
	}
	if q.Status != nil {
		db = db.Where("status = ?", *q.Status)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := db.Preload("Role").Order("id ASC").Offset(q.Offset).Limit(q.Limit).Find(&users).Error
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// CountByDept 统计部门下的用户数。
func (r *userRepository) CountByDept(ctx context.Context, deptID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.User{}).Where("dept_id = ?", deptID).Count(&n).Error
	return n, err
}

// CountByRole 统计使用某角色的用户数。
func (r *userRepository) CountByRole(ctx context.Context, roleID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.User{}).Where("role_id = ?", roleID).Count(&n).Error
	return n, err
}

// CountByMemberLevel 统计处于某会员等级的用户数。
func (r *userRepository) CountByMemberLevel(ctx context.Context, levelID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.User{}).Where("member_level_id = ?", levelID).Count(&n).Error
	return n, err
}
