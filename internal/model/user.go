package model

import "time"

// User 对应 'sys_user' 表。
type User struct {
	ID            uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Username      string    `gorm:"type:varchar(64);uniqueIndex;not null" json:"username"`
	Password      string    `gorm:"type:varchar(255);not null" json:"-"`
	Nickname      string    `gorm:"type:varchar(64)" json:"nickname"`
	RoleID        *uint     `gorm:"index" json:"roleId"`
	Role          *Role     `gorm:"foreignKey:RoleID" json:"role,omitempty"`
	DeptID        *string   `gorm:"type:varchar(36);index" json:"deptId"`
	MemberLevelID *uint     `gorm:"index" json:"memberLevelId"`
	Status        int8      `gorm:"type:tinyint;not null" json:"status"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// RoleCode 返回用户角色编码，未分配角色时为空。
func (u *User) RoleCode() string {
	if u.Role == nil {
		return ""
	}
	return u.Role.Code
}

// TableName 指定了此模型在数据库中对应的表名。
func (User) TableName() string {
	return "sys_user"
}
