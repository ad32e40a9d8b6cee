package handler

import (
	"github.com/gin-gonic/gin"

	"mall-admin-go/internal/service"
	"mall-admin-go/pkg/log"
)

// MemberLevelHandler 负责处理会员等级相关的 API 请求。
type MemberLevelHandler struct {
	levelService service.MemberLevelService
}

// NewMemberLevelHandler 创建一个新的 MemberLevelHandler 实例。
func NewMemberLevelHandler(levelService service.MemberLevelService) *MemberLevelHandler {
	return &MemberLevelHandler{levelService: levelService}
}

// MemberLevelRequest 定义了创建和更新会员等级 API 的请求体结构。discount 为折扣百分比。
type MemberLevelRequest struct {
	Name        string `json:"name" binding:"required,max=64"`
	GrowthPoint int    `json:"growthPoint" binding:"min=0"`
	Discount    int    `json:"discount" binding:"required,min=1,max=100"`
	IsDefault   bool   `json:"isDefault"`
	Status      *int8  `json:"status"`
}

func (r MemberLevelRequest) input() service.MemberLevelInput {
	return service.MemberLevelInput{
		Name:        r.Name,
		GrowthPoint: r.GrowthPoint,
		Discount:    r.Discount,
		IsDefault:   r.IsDefault,
		Status:      r.Status,
	}
}

func (h *MemberLevelHandler) List(c *gin.Context) {
	levels, err := h.levelService.List(c.Request.Context())
	if err != nil {
		fail(c, "ListMemberLevels", err)
		return
	}
	ok(c, levels)
}

func (h *MemberLevelHandler) Get(c *gin.Context) {
	id, valid := uintParam(c, "id")
	if !valid {
		return
	}
	level, err := h.levelService.Get(c.Request.Context(), id)
	if err != nil {
		fail(c, "GetMemberLevel", err)
		return
	}
	ok(c, level)
}

func (h *MemberLevelHandler) Create(c *gin.Context) {
	var req MemberLevelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warnf("CreateMemberLevel: Invalid request payload, error: %v", err)
		badRequest(c, "无效的请求负载")
		return
	}
	level, err := h.levelService.Create(c.Request.Context(), req.input())
	if err != nil {
		fail(c, "CreateMemberLevel", err)
		return
	}
	ok(c, level)
}

func (h *MemberLevelHandler) Update(c *gin.Context) {
	id, valid := uintParam(c, "id")
	if !valid {
		return
	}
	var req MemberLevelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warnf("UpdateMemberLevel: Invalid request payload, error: %v", err)
		badRequest(c, "无效的请求负载")
		return
	}
	level, err := h.levelService.Update(c.Request.Context(), id, req.input())
	if err != nil {
		fail(c, "UpdateMemberLevel", err)
		return
	}
	ok(c, level)
}

func (h *MemberLevelHandler) Delete(c *gin.Context) {
	id, valid := uintParam(c, "id")
	if !valid {
		return
	}
	if err := h.levelService.Delete(c.Request.Context(), id); err != nil {
		fail(c, "DeleteMemberLevel", err)
		return
	}
	ok(c, nil)
}
