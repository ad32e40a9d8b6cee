package handler

import (
	"github.com/gin-gonic/gin"

	"mall-admin-go/internal/service"
	"mall-admin-go/pkg/log"
)

// AdminHandler 负责处理后台用户管理相关的 API 请求。
type AdminHandler struct {
	adminService service.AdminService
}

// NewAdminHandler 创建一个新的 AdminHandler 实例。
func NewAdminHandler(adminService service.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

// ListUsers 分页查询用户，deptId 会包含其全部下级部门。
func (h *AdminHandler) ListUsers(c *gin.Context) {
	status, valid := optionalStatus(c)
	if !valid {
		return
	}
	p, size := page(c)
	resp, err := h.adminService.ListUsers(c.Request.Context(), service.UserListQuery{
		Page:     p,
		Size:     size,
		Username: c.Query("username"),
		DeptID:   c.Query("deptId"),
		Status:   status,
	})
	if err != nil {
		fail(c, "ListUsers", err)
		return
	}
	ok(c, resp)
}

// AssignRoleRequest 定义了分配角色 API 的请求体结构，roleId 为 null 表示取消角色。
type AssignRoleRequest struct {
	RoleID *uint `json:"roleId"`
}

func (h *AdminHandler) AssignRole(c *gin.Context) {
	userID, valid := uintParam(c, "id")
	if !valid {
		return
	}
	var req AssignRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "无效的请求负载")
		return
	}
	if err := h.adminService.AssignRole(c.Request.Context(), userID, req.RoleID); err != nil {
		fail(c, "AssignRole", err)
		return
	}
	log.Infof("User %d role updated", userID)
	ok(c, nil)
}

// AssignDepartmentRequest 定义了调整部门 API 的请求体结构，deptId 为空表示移出部门。
type AssignDepartmentRequest struct {
	DeptID string `json:"deptId"`
}

func (h *AdminHandler) AssignDepartment(c *gin.Context) {
	userID, valid := uintParam(c, "id")
	if !valid {
		return
	}
	var req AssignDepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "无效的请求负载")
		return
	}
	if err := h.adminService.AssignDepartment(c.Request.Context(), userID, req.DeptID); err != nil {
		fail(c, "AssignDepartment", err)
		return
	}
	ok(c, nil)
}

// AssignMemberLevelRequest 定义了调整会员等级 API 的请求体结构。
type AssignMemberLevelRequest struct {
	MemberLevelID *uint `json:"memberLevelId"`
}

func (h *AdminHandler) AssignMemberLevel(c *gin.Context) {
	userID, valid := uintParam(c, "id")
	if !valid {
		return
	}
	var req AssignMemberLevelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "无效的请求负载")
		return
	}
	if err := h.adminService.AssignMemberLevel(c.Request.Context(), userID, req.MemberLevelID); err != nil {
		fail(c, "AssignMemberLevel", err)
		return
	}
	ok(c, nil)
}

// SetStatusRequest 定义了启用/禁用用户 API 的请求体结构。
type SetStatusRequest struct {
	Status *int8 `json:"status" binding:"required"`
}

func (h *AdminHandler) SetStatus(c *gin.Context) {
	userID, valid := uintParam(c, "id")
	if !valid {
		return
	}
	var req SetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "无效的请求负载")
		return
	}
	if err := h.adminService.SetStatus(c.Request.Context(), userID, *req.Status); err != nil {
		fail(c, "SetUserStatus", err)
		return
	}
	log.Infof("User %d status set to %d", userID, *req.Status)
	ok(c, nil)
}
