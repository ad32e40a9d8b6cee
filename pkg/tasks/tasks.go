// Package tasks defines the messages that are sent to Kafka.
package tasks

import (
	"fmt"
	"time"
)

// CatalogEventType 是商品目录事件的类型。
type CatalogEventType string

const (
	ProductUpserted CatalogEventType = "product.upserted"
	ProductDeleted  CatalogEventType = "product.deleted"
	// CategoryChanged 在分类改名或移动后发出，分类子树下所有商品的分类路径都需要重建。
	CategoryChanged CatalogEventType = "category.changed"
)

// CatalogEvent 是写入 Kafka 的商品目录变更事件，由索引消费者同步到 Elasticsearch。
type CatalogEvent struct {
	Type       CatalogEventType `json:"type"`
	ProductID  uint             `json:"product_id,omitempty"`
	CategoryID string           `json:"category_id,omitempty"`
	OccurredAt time.Time        `json:"occurred_at"`
}

// Key 返回事件的分区键，同一实体的事件按顺序落在同一分区。
func (e CatalogEvent) Key() string {
	if e.ProductID != 0 {
		return fmt.Sprintf("product:%d", e.ProductID)
	}
	return "category:" + e.CategoryID
}

// NewProductEvent 创建一个商品事件。
func NewProductEvent(t CatalogEventType, productID uint) CatalogEvent {
	return CatalogEvent{Type: t, ProductID: productID, OccurredAt: time.Now()}
}

// NewCategoryEvent 创建一个分类事件。
func NewCategoryEvent(categoryID string) CatalogEvent {
	return CatalogEvent{Type: CategoryChanged, CategoryID: categoryID, OccurredAt: time.Now()}
}
