package repository

import (
	"context"

	"gorm.io/gorm"

	"mall-admin-go/internal/model"
)

// ProductQuery 是商品分页查询条件。CategoryIDs 非空时按分类集合过滤。
type ProductQuery struct {
	Name        string
	CategoryIDs []string
	Status      *int8
	Offset      int
	Limit       int
}

// ProductRepository 接口定义了商品与 SKU 的持久化操作。
type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) error
	FindByID(ctx context.Context, id uint) (*model.Product, error)
	FindPage(ctx context.Context, q ProductQuery) ([]model.Product, int64, error)
	FindByCategoryIDs(ctx context.Context, categoryIDs []string) ([]model.Product, error)
	FindBatchAfter(ctx context.Context, afterID uint, limit int) ([]model.Product, error)
	Update(ctx context.Context, product *model.Product) error
	Delete(ctx context.Context, id uint) error
	CountByCategory(ctx context.Context, categoryID string) (int64, error)

	CreateSku(ctx context.Context, sku *model.Sku) error
	FindSkuByID(ctx context.Context, id uint) (*model.Sku, error)
	FindSkusByIDs(ctx context.Context, ids []uint) ([]model.Sku, error)
	FindSkusByProductID(ctx context.Context, productID uint) ([]model.Sku, error)
	UpdateSku(ctx context.Context, sku *model.Sku) error
	DeleteSku(ctx context.Context, id uint) error

	WithTx(tx *gorm.DB) ProductRepository
}

type productRepository struct {
	db *gorm.DB
}

// NewProductRepository 创建一个新的 ProductRepository 实例。
func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) WithTx(tx *gorm.DB) ProductRepository {
	return &productRepository{db: tx}
}

func (r *productRepository) Create(ctx context.Context, product *model.Product) error {
	return r.db.WithContext(ctx).Omit("Skus").Create(product).Error
}

// FindByID 查找商品并预加载 SKU。
func (r *productRepository) FindByID(ctx context.Context, id uint) (*model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).Preload("Skus", func(db *gorm.DB) *gorm.DB {
		return db.Order("id ASC")
	}).First(&p, id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// FindPage 分页查询商品，返回当前页数据与总数。
func (r *productRepository) FindPage(ctx context.Context, q ProductQuery) ([]model.Product, int64, error) {
	var products []model.Product
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Product{})
	if q.Name != "" {
		db = db.Where(likeClause("name"), containsPattern(q.Name))
	}
	if len(q.CategoryIDs) > 0 {
		db = db.Where("category_id IN ?", q.CategoryIDs)
	}
	if q.Status != nil {
		db = db.Where("status = ?", *q.Status)
	}
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := db.Order("id DESC").Offset(q.Offset).Limit(q.Limit).Find(&products).Error
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// FindByCategoryIDs 返回属于任一给定分类的全部商品（含 SKU）。
func (r *productRepository) FindByCategoryIDs(ctx context.Context, categoryIDs []string) ([]model.Product, error) {
	var products []model.Product
	if len(categoryIDs) == 0 {
		return products, nil
	}
	err := r.db.WithContext(ctx).Preload("Skus").Where("category_id IN ?", categoryIDs).Order("id ASC").Find(&products).Error
	return products, err
}

// FindBatchAfter 按主键游标分批读取商品（含 SKU），用于全量重建索引。
func (r *productRepository) FindBatchAfter(ctx context.Context, afterID uint, limit int) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).Preload("Skus").Where("id > ?", afterID).Order("id ASC").Limit(limit).Find(&products).Error
	return products, err
}

func (r *productRepository) Update(ctx context.Context, product *model.Product) error {
	return r.db.WithContext(ctx).Omit("Skus").Save(product).Error
}

// Delete 删除商品及其全部 SKU。
func (r *productRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", id).Delete(&model.Sku{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Product{}, id).Error
	})
}

// CountByCategory 统计某分类下直接挂载的商品数。
func (r *productRepository) CountByCategory(ctx context.Context, categoryID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Product{}).Where("category_id = ?", categoryID).Count(&n).Error
	return n, err
}

func (r *productRepository) CreateSku(ctx context.Context, sku *model.Sku) error {
	return r.db.WithContext(ctx).Create(sku).Error
}

func (r *productRepository) FindSkuByID(ctx context.Context, id uint) (*model.Sku, error) {
	var sku model.Sku
	if err := r.db.WithContext(ctx).First(&sku, id).Error; err != nil {
		return nil, err
	}
	return &sku, nil
}

func (r *productRepository) FindSkusByIDs(ctx context.Context, ids []uint) ([]model.Sku, error) {
	var skus []model.Sku
	if len(ids) == 0 {
		return skus, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&skus).Error
	return skus, err
}

func (r *productRepository) FindSkusByProductID(ctx context.Context, productID uint) ([]model.Sku, error) {
	var skus []model.Sku
	err := r.db.WithContext(ctx).Where("product_id = ?", productID).Order("id ASC").Find(&skus).Error
	return skus, err
}

func (r *productRepository) UpdateSku(ctx context.Context, sku *model.Sku) error {
	return r.db.WithContext(ctx).Save(sku).Error
}

func (r *productRepository) DeleteSku(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.Sku{}, id).Error
}
