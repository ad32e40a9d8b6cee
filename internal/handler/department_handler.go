package handler

import (
	"github.com/gin-gonic/gin"

	"mall-admin-go/internal/model"
	"mall-admin-go/internal/service"
	"mall-admin-go/pkg/log"
)

// DepartmentHandler 负责处理部门管理相关的 API 请求。
type DepartmentHandler struct {
	treeHandler[model.Department, *model.DepartmentNode]
	departmentService service.DepartmentService
}

// NewDepartmentHandler 创建一个新的 DepartmentHandler 实例。
func NewDepartmentHandler(departmentService service.DepartmentService) *DepartmentHandler {
	return &DepartmentHandler{
		treeHandler:       treeHandler[model.Department, *model.DepartmentNode]{kind: "Department", svc: departmentService},
		departmentService: departmentService,
	}
}

// DepartmentRequest 定义了创建和更新部门 API 的请求体结构。
type DepartmentRequest struct {
	ParentID  string `json:"parentId"`
	Name      string `json:"name" binding:"required,max=100"`
	SortOrder int    `json:"sortOrder"`
	Status    *int8  `json:"status"`
	Leader    string `json:"leader" binding:"max=64"`
	Phone     string `json:"phone" binding:"max=32"`
	Email     string `json:"email" binding:"omitempty,email"`
}

func (r DepartmentRequest) input() service.DepartmentInput {
	return service.DepartmentInput{
		ParentID:  r.ParentID,
		Name:      r.Name,
		SortOrder: r.SortOrder,
		Status:    r.Status,
		Leader:    r.Leader,
		Phone:     r.Phone,
		Email:     r.Email,
	}
}

// Create 处理创建部门的请求。
func (h *DepartmentHandler) Create(c *gin.Context) {
	var req DepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warnf("CreateDepartment: Invalid request payload, error: %v", err)
		badRequest(c, "无效的请求负载")
		return
	}
	dept, err := h.departmentService.Create(c.Request.Context(), req.input())
	if err != nil {
		fail(c, "CreateDepartment", err)
		return
	}
	ok(c, dept)
}

// Update 处理更新部门的请求，parentId 变化即为移动部门。
func (h *DepartmentHandler) Update(c *gin.Context) {
	var req DepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warnf("UpdateDepartment: Invalid request payload, error: %v", err)
		badRequest(c, "无效的请求负载")
		return
	}
	dept, err := h.departmentService.Update(c.Request.Context(), c.Param("id"), req.input())
	if err != nil {
		fail(c, "UpdateDepartment", err)
		return
	}
	ok(c, dept)
}
