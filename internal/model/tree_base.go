// Package model 定义了与数据库表对应的 Go 结构体。
package model

import "time"

// 通用状态取值。
const (
	StatusDisabled int8 = 0
	StatusEnabled  int8 = 1
)

// TreeBase 是部门、权限、商品分类共用的层级字段。
// ParentID 为 NULL 表示顶级节点。
type TreeBase struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	ParentID  *string   `gorm:"type:varchar(36);index" json:"parentId"`
	Name      string    `gorm:"type:varchar(100);not null" json:"name"`
	SortOrder int       `gorm:"not null" json:"sortOrder"`
	Status    int8      `gorm:"type:tinyint;not null" json:"status"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (b TreeBase) TreeID() string { return b.ID }

func (b TreeBase) TreeParentID() string {
	if b.ParentID == nil {
		return ""
	}
	return *b.ParentID
}

func (b TreeBase) TreeSortOrder() int { return b.SortOrder }

func (b TreeBase) TreeLabel() string { return b.Name }

// TreeFilter 是层级实体列表查询的过滤条件，零值表示不过滤。
type TreeFilter struct {
	Name   string
	Status *int8
}

// IsZero 判断过滤条件是否为空。
func (f TreeFilter) IsZero() bool {
	return f.Name == "" && f.Status == nil
}
