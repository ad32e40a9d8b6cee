package handler

import (
	"github.com/gin-gonic/gin"

	"mall-admin-go/internal/model"
	"mall-admin-go/internal/service"
	"mall-admin-go/pkg/log"
)

// PermissionHandler 负责处理权限（菜单、按钮、接口）管理相关的 API 请求。
type PermissionHandler struct {
	treeHandler[model.Permission, *model.PermissionNode]
	permissionService service.PermissionService
}

// NewPermissionHandler 创建一个新的 PermissionHandler 实例。
func NewPermissionHandler(permissionService service.PermissionService) *PermissionHandler {
	return &PermissionHandler{
		treeHandler:       treeHandler[model.Permission, *model.PermissionNode]{kind: "Permission", svc: permissionService},
		permissionService: permissionService,
	}
}

// PermissionRequest 定义了创建和更新权限 API 的请求体结构。
type PermissionRequest struct {
	ParentID  string `json:"parentId"`
	Name      string `json:"name" binding:"required,max=100"`
	Code      string `json:"code" binding:"max=100"`
	Type      string `json:"type" binding:"required,oneof=menu button api"`
	Path      string `json:"path"`
	Component string `json:"component"`
	Icon      string `json:"icon"`
	SortOrder int    `json:"sortOrder"`
	Status    *int8  `json:"status"`
}

func (r PermissionRequest) input() service.PermissionInput {
	return service.PermissionInput{
		ParentID:  r.ParentID,
		Name:      r.Name,
		Code:      r.Code,
		Type:      r.Type,
		Path:      r.Path,
		Component: r.Component,
		Icon:      r.Icon,
		SortOrder: r.SortOrder,
		Status:    r.Status,
	}
}

func (h *PermissionHandler) Create(c *gin.Context) {
	var req PermissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warnf("CreatePermission: Invalid request payload, error: %v", err)
		badRequest(c, "无效的请求负载")
		return
	}
	p, err := h.permissionService.Create(c.Request.Context(), req.input())
	if err != nil {
		fail(c, "CreatePermission", err)
		return
	}
	ok(c, p)
}

func (h *PermissionHandler) Update(c *gin.Context) {
	var req PermissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warnf("UpdatePermission: Invalid request payload, error: %v", err)
		badRequest(c, "无效的请求负载")
		return
	}
	p, err := h.permissionService.Update(c.Request.Context(), c.Param("id"), req.input())
	if err != nil {
		fail(c, "UpdatePermission", err)
		return
	}
	ok(c, p)
}
