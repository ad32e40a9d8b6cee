// Package pipeline 定义了商品索引的同步流程。
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"mall-admin-go/internal/model"
	"mall-admin-go/internal/repository"
	"mall-admin-go/internal/service"
	"mall-admin-go/pkg/log"
	"mall-admin-go/pkg/tasks"
)

const reindexBatchSize = 200

// DocumentIndex 是商品文档的写入端，由 es.ProductIndex 实现。
type DocumentIndex interface {
	Index(ctx context.Context, doc model.ProductDocument) error
	Delete(ctx context.Context, productID uint) error
}

// Processor 封装了把商品同步到搜索索引的所有依赖和逻辑。
type Processor struct {
	productRepo repository.ProductRepository
	categories  service.CategoryService
	index       DocumentIndex
}

// NewProcessor 创建一个新的 Processor 实例。
func NewProcessor(productRepo repository.ProductRepository, categories service.CategoryService, index DocumentIndex) *Processor {
	return &Processor{productRepo: productRepo, categories: categories, index: index}
}

// Process 处理一条目录事件，可重复执行。
func (p *Processor) Process(ctx context.Context, event tasks.CatalogEvent) error {
	log.Infof("[Processor] 开始处理目录事件, type: %s, key: %s", event.Type, event.Key())
	switch event.Type {
	case tasks.ProductUpserted:
		return p.syncProduct(ctx, event.ProductID)
	case tasks.ProductDeleted:
		return p.index.Delete(ctx, event.ProductID)
	case tasks.CategoryChanged:
		return p.syncCategory(ctx, event.CategoryID)
	default:
		log.Warnf("[Processor] 未知的事件类型 '%s'，忽略", event.Type)
		return nil
	}
}

// syncProduct 重建单个商品的文档，商品已不存在时删除文档。
func (p *Processor) syncProduct(ctx context.Context, productID uint) error {
	product, err := p.productRepo.FindByID(ctx, productID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return p.index.Delete(ctx, productID)
	}
	if err != nil {
		return fmt.Errorf("读取商品 %d 失败: %w", productID, err)
	}
	return p.indexProducts(ctx, []model.Product{*product})
}

// syncCategory 重建分类子树下全部商品的文档，分类路径随之更新。
func (p *Processor) syncCategory(ctx context.Context, categoryID string) error {
	ids, err := p.categories.SubtreeIDs(ctx, categoryID)
	if errors.Is(err, service.ErrNotFound) {
		log.Warnf("[Processor] 分类 %s 已不存在，跳过", categoryID)
		return nil
	}
	if err != nil {
		return err
	}
	products, err := p.productRepo.FindByCategoryIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("读取分类子树商品失败: %w", err)
	}
	log.Infof("[Processor] 分类 %s 子树共 %d 个分类、%d 个商品需要重建索引", categoryID, len(ids), len(products))
	return p.indexProducts(ctx, products)
}

// ReindexAll 分批重建全部商品的索引，返回已索引的商品数。
func (p *Processor) ReindexAll(ctx context.Context) (int, error) {
	var afterID uint
	total := 0
	for {
		batch, err := p.productRepo.FindBatchAfter(ctx, afterID, reindexBatchSize)
		if err != nil {
			return total, fmt.Errorf("分批读取商品失败: %w", err)
		}
		if len(batch) == 0 {
			return total, nil
		}
		if err := p.indexProducts(ctx, batch); err != nil {
			return total, err
		}
		total += len(batch)
		afterID = batch[len(batch)-1].ID
	}
}

func (p *Processor) indexProducts(ctx context.Context, products []model.Product) error {
	if len(products) == 0 {
		return nil
	}
	catIDs := make([]string, 0, len(products))
	for _, pr := range products {
		catIDs = append(catIDs, pr.CategoryID)
	}
	paths, err := p.categories.Paths(ctx, catIDs)
	if err != nil {
		return fmt.Errorf("计算分类路径失败: %w", err)
	}
	for _, pr := range products {
		if err := p.index.Index(ctx, BuildDocument(pr, paths[pr.CategoryID])); err != nil {
			log.Errorf("[Processor] 索引商品 %d 失败: %v", pr.ID, err)
			return fmt.Errorf("索引商品 %d 失败: %w", pr.ID, err)
		}
	}
	return nil
}

// BuildDocument 把商品转换为索引文档，价格区间只统计启用的 SKU。
func BuildDocument(p model.Product, categoryPath string) model.ProductDocument {
	doc := model.ProductDocument{
		ProductID:    p.ID,
		Name:         p.Name,
		Description:  p.Description,
		CategoryID:   p.CategoryID,
		CategoryPath: categoryPath,
		Status:       p.Status,
		UpdatedAt:    p.UpdatedAt,
	}
	if doc.UpdatedAt.IsZero() {
		doc.UpdatedAt = time.Now()
	}
	first := true
	for _, sku := range p.Skus {
		if sku.Status != model.StatusEnabled {
			continue
		}
		if first || sku.Price < doc.MinPrice {
			doc.MinPrice = sku.Price
		}
		if first || sku.Price > doc.MaxPrice {
			doc.MaxPrice = sku.Price
		}
		first = false
	}
	return doc
}
