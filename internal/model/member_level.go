package model

import "time"

// MemberLevel 对应 'ums_member_level' 表。Discount 为折扣百分比，100 表示不打折。
type MemberLevel struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string    `gorm:"type:varchar(64);not null" json:"name"`
	GrowthPoint int       `gorm:"not null" json:"growthPoint"`
	Discount    int       `gorm:"not null" json:"discount"`
	IsDefault   bool      `gorm:"not null" json:"isDefault"`
	Status      int8      `gorm:"type:tinyint;not null" json:"status"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// TableName 指定了此模型在数据库中对应的表名。
func (MemberLevel) TableName() string {
	return "ums_member_level"
}
