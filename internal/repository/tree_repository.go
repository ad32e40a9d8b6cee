// Package repository 包含了所有与数据库交互的逻辑。
package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"mall-admin-go/internal/model"
	"mall-admin-go/pkg/tree"
)

// TreeRepository 定义了层级实体（部门、权限、分类）的通用数据操作。
// 所有层级表都使用 id / parent_id / name / sort_order / status 这几列。
type TreeRepository[T tree.Record] interface {
	Create(ctx context.Context, rec *T) error
	FindByID(ctx context.Context, id string) (*T, error)
	FindAll(ctx context.Context, filter model.TreeFilter) ([]T, error)
	FindAllForUpdate(ctx context.Context) ([]T, error)
	FindByIDs(ctx context.Context, ids []string) ([]T, error)
	Update(ctx context.Context, rec *T) error
	Delete(ctx context.Context, id string) error
	CountChildren(ctx context.Context, id string) (int64, error)
	// WithTx 返回一个在给定事务中执行的仓库。
	WithTx(tx *gorm.DB) TreeRepository[T]
}

type treeRepository[T tree.Record] struct {
	db *gorm.DB
}

// NewTreeRepository 创建一个新的 TreeRepository 实例。
func NewTreeRepository[T tree.Record](db *gorm.DB) TreeRepository[T] {
	return &treeRepository[T]{db: db}
}

func (r *treeRepository[T]) WithTx(tx *gorm.DB) TreeRepository[T] {
	return &treeRepository[T]{db: tx}
}

// Create 插入一条层级记录。
func (r *treeRepository[T]) Create(ctx context.Context, rec *T) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

// FindByID 根据 id 查找记录，不存在时返回 gorm.ErrRecordNotFound。
func (r *treeRepository[T]) FindByID(ctx context.Context, id string) (*T, error) {
	rec := new(T)
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(rec).Error; err != nil {
		return nil, err
	}
	return rec, nil
}

// FindAll 返回满足过滤条件的全部记录。建树需要完整的记录集，因此不分页。
func (r *treeRepository[T]) FindAll(ctx context.Context, filter model.TreeFilter) ([]T, error) {
	var rows []T
	q := r.db.WithContext(ctx).Model(new(T))
	if filter.Name != "" {
		q = q.Where(likeClause("name"), containsPattern(filter.Name))
	}
	if filter.Status != nil {
		q = q.Where("status = ?", *filter.Status)
	}
	err := q.Order("sort_order ASC, created_at ASC, id ASC").Find(&rows).Error
	return rows, err
}

// FindAllForUpdate 在事务中读取全部记录，MySQL 下加行锁以便写前复核。
func (r *treeRepository[T]) FindAllForUpdate(ctx context.Context) ([]T, error) {
	var rows []T
	q := r.db.WithContext(ctx).Model(new(T))
	if r.db.Dialector.Name() == "mysql" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	err := q.Order("sort_order ASC, created_at ASC, id ASC").Find(&rows).Error
	return rows, err
}

// FindByIDs 批量查找记录。
func (r *treeRepository[T]) FindByIDs(ctx context.Context, ids []string) ([]T, error) {
	var rows []T
	if len(ids) == 0 {
		return rows, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error
	return rows, err
}

// Update 保存一条已存在的记录。
func (r *treeRepository[T]) Update(ctx context.Context, rec *T) error {
	return r.db.WithContext(ctx).Save(rec).Error
}

// Delete 根据 id 删除记录。
func (r *treeRepository[T]) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(new(T)).Error
}

// CountChildren 统计直接子节点数量。MySQL 下为加锁读，读到的是最新提交的数据。
func (r *treeRepository[T]) CountChildren(ctx context.Context, id string) (int64, error) {
	var n int64
	q := r.db.WithContext(ctx).Model(new(T)).Where("parent_id = ?", id)
	if r.db.Dialector.Name() == "mysql" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	err := q.Count(&n).Error
	return n, err
}
