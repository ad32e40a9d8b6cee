package repository

import (
	"context"

	"gorm.io/gorm"

	"mall-admin-go/internal/model"
)

// MemberLevelRepository 接口定义了会员等级的持久化操作。
type MemberLevelRepository interface {
	Create(ctx context.Context, level *model.MemberLevel) error
	FindByID(ctx context.Context, id uint) (*model.MemberLevel, error)
	FindAll(ctx context.Context) ([]model.MemberLevel, error)
	FindDefault(ctx context.Context) (*model.MemberLevel, error)
	Update(ctx context.Context, level *model.MemberLevel) error
	Delete(ctx context.Context, id uint) error
	ClearDefault(ctx context.Context, exceptID uint) error
	WithTx(tx *gorm.DB) MemberLevelRepository
}

type memberLevelRepository struct {
	db *gorm.DB
}

// NewMemberLevelRepository 创建一个新的 MemberLevelRepository 实例。
func NewMemberLevelRepository(db *gorm.DB) MemberLevelRepository {
	return &memberLevelRepository{db: db}
}

func (r *memberLevelRepository) WithTx(tx *gorm.DB) MemberLevelRepository {
	return &memberLevelRepository{db: tx}
}

func (r *memberLevelRepository) Create(ctx context.Context, level *model.MemberLevel) error {
	return r.db.WithContext(ctx).Create(level).Error
}

func (r *memberLevelRepository) FindByID(ctx context.Context, id uint) (*model.MemberLevel, error) {
	var level model.MemberLevel
	if err := r.db.WithContext(ctx).First(&level, id).Error; err != nil {
		return nil, err
	}
	return &level, nil
}

// FindAll 按成长值升序返回全部会员等级。
func (r *memberLevelRepository) FindAll(ctx context.Context) ([]model.MemberLevel, error) {
	var levels []model.MemberLevel
	err := r.db.WithContext(ctx).Order("growth_point ASC, id ASC").Find(&levels).Error
	return levels, err
}

// FindDefault 返回默认会员等级，不存在时返回 gorm.ErrRecordNotFound。
func (r *memberLevelRepository) FindDefault(ctx context.Context) (*model.MemberLevel, error) {
	var level model.MemberLevel
	if err := r.db.WithContext(ctx).Where("is_default = ?", true).First(&level).Error; err != nil {
		return nil, err
	}
	return &level, nil
}

func (r *memberLevelRepository) Update(ctx context.Context, level *model.MemberLevel) error {
	return r.db.WithContext(ctx).Save(level).Error
}

func (r *memberLevelRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.MemberLevel{}, id).Error
}

// ClearDefault 取消除 exceptID 以外所有等级的默认标记。
func (r *memberLevelRepository) ClearDefault(ctx context.Context, exceptID uint) error {
	return r.db.WithContext(ctx).Model(&model.MemberLevel{}).
		Where("is_default = ? AND id <> ?", true, exceptID).
		Update("is_default", false).Error
}
