package handler

import (
	"github.com/gin-gonic/gin"

	"mall-admin-go/internal/service"
)

// CartHandler 负责处理当前用户购物车相关的 API 请求。
type CartHandler struct {
	cartService service.CartService
}

// NewCartHandler 创建一个新的 CartHandler 实例。
func NewCartHandler(cartService service.CartService) *CartHandler {
	return &CartHandler{cartService: cartService}
}

// AddCartItemRequest 定义了加入购物车 API 的请求体结构。
type AddCartItemRequest struct {
	SkuID    uint `json:"skuId" binding:"required"`
	Quantity int  `json:"quantity" binding:"required,min=1"`
}

// UpdateCartItemRequest 定义了修改购物车数量 API 的请求体结构，0 表示移除。
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" binding:"min=0"`
}

func (h *CartHandler) Get(c *gin.Context) {
	user, exists := currentUser(c)
	if !exists {
		return
	}
	view, err := h.cartService.Get(c.Request.Context(), user.ID)
	if err != nil {
		fail(c, "GetCart", err)
		return
	}
	ok(c, view)
}

func (h *CartHandler) AddItem(c *gin.Context) {
	user, exists := currentUser(c)
	if !exists {
		return
	}
	var req AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "无效的请求负载")
		return
	}
	view, err := h.cartService.AddItem(c.Request.Context(), user.ID, req.SkuID, req.Quantity)
	if err != nil {
		fail(c, "AddCartItem", err)
		return
	}
	ok(c, view)
}

func (h *CartHandler) UpdateItem(c *gin.Context) {
	user, exists := currentUser(c)
	if !exists {
		return
	}
	skuID, valid := uintParam(c, "skuId")
	if !valid {
		return
	}
	var req UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "无效的请求负载")
		return
	}
	view, err := h.cartService.UpdateItem(c.Request.Context(), user.ID, skuID, req.Quantity)
	if err != nil {
		fail(c, "UpdateCartItem", err)
		return
	}
	ok(c, view)
}

func (h *CartHandler) RemoveItem(c *gin.Context) {
	user, exists := currentUser(c)
	if !exists {
		return
	}
	skuID, valid := uintParam(c, "skuId")
	if !valid {
		return
	}
	view, err := h.cartService.RemoveItem(c.Request.Context(), user.ID, skuID)
	if err != nil {
		fail(c, "RemoveCartItem", err)
		return
	}
	ok(c, view)
}

func (h *CartHandler) Clear(c *gin.Context) {
	user, exists := currentUser(c)
	if !exists {
		return
	}
	if err := h.cartService.Clear(c.Request.Context(), user.ID); err != nil {
		fail(c, "ClearCart", err)
		return
	}
	ok(c, nil)
}
