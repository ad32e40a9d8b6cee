package handler

import (
	"github.com/gin-gonic/gin"

	"mall-admin-go/internal/model"
	"mall-admin-go/internal/service"
	"mall-admin-go/pkg/log"
)

// CategoryHandler 负责处理商品分类相关的 API 请求。
type CategoryHandler struct {
	treeHandler[model.Category, *model.CategoryNode]
	categoryService service.CategoryService
}

// NewCategoryHandler 创建一个新的 CategoryHandler 实例。
func NewCategoryHandler(categoryService service.CategoryService) *CategoryHandler {
	return &CategoryHandler{
		treeHandler:     treeHandler[model.Category, *model.CategoryNode]{kind: "Category", svc: categoryService},
		categoryService: categoryService,
	}
}

// CategoryRequest 定义了创建和更新分类 API 的请求体结构。
type CategoryRequest struct {
	ParentID    string `json:"parentId"`
	Name        string `json:"name" binding:"required,max=100"`
	Icon        string `json:"icon"`
	Description string `json:"description"`
	SortOrder   int    `json:"sortOrder"`
	Status      *int8  `json:"status"`
}

func (r CategoryRequest) input() service.CategoryInput {
	return service.CategoryInput{
		ParentID:    r.ParentID,
		Name:        r.Name,
		Icon:        r.Icon,
		Description: r.Description,
		SortOrder:   r.SortOrder,
		Status:      r.Status,
	}
}

func (h *CategoryHandler) Create(c *gin.Context) {
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warnf("CreateCategory: Invalid request payload, error: %v", err)
		badRequest(c, "无效的请求负载")
		return
	}
	cat, err := h.categoryService.Create(c.Request.Context(), req.input())
	if err != nil {
		fail(c, "CreateCategory", err)
		return
	}
	ok(c, cat)
}

func (h *CategoryHandler) Update(c *gin.Context) {
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warnf("UpdateCategory: Invalid request payload, error: %v", err)
		badRequest(c, "无效的请求负载")
		return
	}
	cat, err := h.categoryService.Update(c.Request.Context(), c.Param("id"), req.input())
	if err != nil {
		fail(c, "UpdateCategory", err)
		return
	}
	ok(c, cat)
}
