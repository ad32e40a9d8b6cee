package model

import "time"

// Product 对应 'pms_product' 表。
type Product struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string    `gorm:"type:varchar(200);not null" json:"name"`
	CategoryID  string    `gorm:"type:varchar(36);index;not null" json:"categoryId"`
	Description string    `gorm:"type:text" json:"description"`
	ImageObject string    `gorm:"type:varchar(255)" json:"imageObject"`
	Status      int8      `gorm:"type:tinyint;not null" json:"status"`
	Skus        []Sku     `gorm:"foreignKey:ProductID" json:"skus,omitempty"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// TableName 指定了此模型在数据库中对应的表名。
func (Product) TableName() string {
	return "pms_product"
}

// Sku 对应 'pms_sku' 表。价格以分为单位。
type Sku struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID uint      `gorm:"index;not null" json:"productId"`
	SkuCode   string    `gorm:"type:varchar(64);uniqueIndex;not null" json:"skuCode"`
	Spec      string    `gorm:"type:varchar(255)" json:"spec"`
	Price     int64     `gorm:"not null" json:"price"`
	Stock     int       `gorm:"not null" json:"stock"`
	Status    int8      `gorm:"type:tinyint;not null" json:"status"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// TableName 指定了此模型在数据库中对应的表名。
func (Sku) TableName() string {
	return "pms_sku"
}
