package model

// 权限类型。
const (
	PermissionTypeMenu   = "menu"
	PermissionTypeButton = "button"
	PermissionTypeAPI    = "api"
)

// Permission 对应 'sys_permission' 表。
// Code 是鉴权时使用的权限标识，例如 "product:create"，末尾的 "*" 表示通配。
type Permission struct {
	TreeBase
	Code      string `gorm:"type:varchar(100);index" json:"code"`
	Type      string `gorm:"type:varchar(20);not null" json:"type"`
	Path      string `gorm:"type:varchar(255)" json:"path"`
	Component string `gorm:"type:varchar(255)" json:"component"`
	Icon      string `gorm:"type:varchar(100)" json:"icon"`
}

// PermissionNode 是权限树中的一个节点。
type PermissionNode struct {
	Permission
	Children []*PermissionNode `json:"children"`
}

// TableName 指定了此模型在数据库中对应的表名。
func (Permission) TableName() string {
	return "sys_permission"
}
