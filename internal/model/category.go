package model

// Category 对应 'pms_category' 表，商品分类。
type Category struct {
	TreeBase
	Icon        string `gorm:"type:varchar(255)" json:"icon"`
	Description string `gorm:"type:text" json:"description"`
}

// CategoryNode 是分类树中的一个节点，Level 从 1 开始。
type CategoryNode struct {
	Category
	Level    int             `json:"level"`
	Children []*CategoryNode `json:"children"`
}

// TableName 指定了此模型在数据库中对应的表名。
func (Category) TableName() string {
	return "pms_category"
}
