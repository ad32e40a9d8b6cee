package model

// Department 对应 'sys_department' 表。
type Department struct {
	TreeBase
	Leader string `gorm:"type:varchar(50)" json:"leader"`
	Phone  string `gorm:"type:varchar(20)" json:"phone"`
	Email  string `gorm:"type:varchar(100)" json:"email"`
}

// DepartmentNode 是部门树中的一个节点。
type DepartmentNode struct {
	Department
	Children []*DepartmentNode `json:"children"`
}

// TableName 指定了此模型在数据库中对应的表名。
func (Department) TableName() string {
	return "sys_department"
}
