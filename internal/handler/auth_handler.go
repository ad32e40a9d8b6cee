package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mall-admin-go/internal/service"
	"mall-admin-go/pkg/log"
)

// AuthHandler 处理 token 续期。
type AuthHandler struct {
	userService service.UserService
}

// NewAuthHandler 创建一个新的 AuthHandler 实例。
func NewAuthHandler(userService service.UserService) *AuthHandler {
	return &AuthHandler{userService: userService}
}

// RefreshTokenRequest 定义了刷新 token API 的请求体结构。
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// RefreshToken 用 refresh token 换取一对新 token，旧 refresh token 随即失效。
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warnf("RefreshToken: Invalid request payload, error: %v", err)
		badRequest(c, "无效的请求负载：refreshToken 不能为空")
		return
	}

	newAccessToken, newRefreshToken, err := h.userService.RefreshToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		fail(c, "RefreshToken", err)
		return
	}

	log.Info("token 刷新成功")
	respond(c, http.StatusOK, "刷新成功", gin.H{
		"token":        newAccessToken,
		"refreshToken": newRefreshToken,
	})
}
