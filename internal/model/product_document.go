package model

import "time"

// ProductDocument 是写入 Elasticsearch 的商品文档。
type ProductDocument struct {
	ProductID    uint      `json:"product_id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	CategoryID   string    `json:"category_id"`
	CategoryPath string    `json:"category_path"`
	MinPrice     int64     `json:"min_price"`
	MaxPrice     int64     `json:"max_price"`
	Status       int8      `json:"status"`
	UpdatedAt    time.Time `json:"updated_at"`
}
