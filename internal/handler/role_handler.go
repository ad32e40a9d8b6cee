package handler

import (
	"github.com/gin-gonic/gin"

	"mall-admin-go/internal/service"
	"mall-admin-go/pkg/log"
)

// RoleHandler 负责处理角色管理相关的 API 请求。
type RoleHandler struct {
	roleService service.RoleService
}

// NewRoleHandler 创建一个新的 RoleHandler 实例。
func NewRoleHandler(roleService service.RoleService) *RoleHandler {
	return &RoleHandler{roleService: roleService}
}

// RoleRequest 定义了创建和更新角色 API 的请求体结构。
type RoleRequest struct {
	Name      string `json:"name" binding:"required,max=64"`
	Code      string `json:"code" binding:"required,max=64"`
	SortOrder int    `json:"sortOrder"`
	Status    *int8  `json:"status"`
	Remark    string `json:"remark" binding:"max=255"`
}

func (r RoleRequest) input() service.RoleInput {
	return service.RoleInput{Name: r.Name, Code: r.Code, SortOrder: r.SortOrder, Status: r.Status, Remark: r.Remark}
}

func (h *RoleHandler) List(c *gin.Context) {
	roles, err := h.roleService.List(c.Request.Context())
	if err != nil {
		fail(c, "ListRoles", err)
		return
	}
	ok(c, roles)
}

func (h *RoleHandler) Get(c *gin.Context) {
	id, valid := uintParam(c, "id")
	if !valid {
		return
	}
	role, err := h.roleService.Get(c.Request.Context(), id)
	if err != nil {
		fail(c, "GetRole", err)
		return
	}
	ok(c, role)
}

func (h *RoleHandler) Create(c *gin.Context) {
	var req RoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warnf("CreateRole: Invalid request payload, error: %v", err)
		badRequest(c, "无效的请求负载")
		return
	}
	role, err := h.roleService.Create(c.Request.Context(), req.input())
	if err != nil {
		fail(c, "CreateRole", err)
		return
	}
	ok(c, role)
}

func (h *RoleHandler) Update(c *gin.Context) {
	id, valid := uintParam(c, "id")
	if !valid {
		return
	}
	var req RoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warnf("UpdateRole: Invalid request payload, error: %v", err)
		badRequest(c, "无效的请求负载")
		return
	}
	role, err := h.roleService.Update(c.Request.Context(), id, req.input())
	if err != nil {
		fail(c, "UpdateRole", err)
		return
	}
	ok(c, role)
}

func (h *RoleHandler) Delete(c *gin.Context) {
	id, valid := uintParam(c, "id")
	if !valid {
		return
	}
	if err := h.roleService.Delete(c.Request.Context(), id); err != nil {
		fail(c, "DeleteRole", err)
		return
	}
	ok(c, nil)
}

// Permissions 返回角色已分配的权限 id。
func (h *RoleHandler) Permissions(c *gin.Context) {
	id, valid := uintParam(c, "id")
	if !valid {
		return
	}
	ids, err := h.roleService.PermissionIDs(c.Request.Context(), id)
	if err != nil {
		fail(c, "GetRolePermissions", err)
		return
	}
	ok(c, ids)
}

// AssignPermissionsRequest 定义了为角色分配权限 API 的请求体结构。
type AssignPermissionsRequest struct {
	PermissionIDs []string `json:"permissionIds"`
}

// AssignPermissions 用请求中的权限集合替换角色当前的权限。
func (h *RoleHandler) AssignPermissions(c *gin.Context) {
	id, valid := uintParam(c, "id")
	if !valid {
		return
	}
	var req AssignPermissionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "无效的请求负载")
		return
	}
	if err := h.roleService.AssignPermissions(c.Request.Context(), id, req.PermissionIDs); err != nil {
		fail(c, "AssignPermissions", err)
		return
	}
	ok(c, nil)
}
