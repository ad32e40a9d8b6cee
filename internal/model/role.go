package model

import "time"

// Role 对应 'sys_role' 表，通过 'sys_role_permission' 关联权限。
type Role struct {
	ID          uint         `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string       `gorm:"type:varchar(64);not null" json:"name"`
	Code        string       `gorm:"type:varchar(64);uniqueIndex;not null" json:"code"`
	SortOrder   int          `gorm:"not null" json:"sortOrder"`
	Status      int8         `gorm:"type:tinyint;not null" json:"status"`
	Remark      string       `gorm:"type:varchar(255)" json:"remark"`
	Permissions []Permission `gorm:"many2many:sys_role_permission;" json:"-"`
	CreatedAt   time.Time    `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time    `gorm:"autoUpdateTime" json:"updatedAt"`
}

// TableName 指定了此模型在数据库中对应的表名。
func (Role) TableName() string {
	return "sys_role"
}

// RolePermissionTable 是角色与权限的关联表名。
const RolePermissionTable = "sys_role_permission"
