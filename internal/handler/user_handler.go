package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mall-admin-go/internal/model"
	"mall-admin-go/internal/service"
	"mall-admin-go/pkg/log"
)

// UserHandler 处理注册、登录以及当前用户的个人信息。
type UserHandler struct {
	userService service.UserService
}

// NewUserHandler 创建一个新的 UserHandler 实例。
func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// RegisterRequest 定义了用户注册 API 的请求体结构。
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=64"`
	Password string `json:"password" binding:"required,min=6,max=72"`
}

// Register 创建新用户，新用户不带角色，需要管理员授权后才能访问后台接口。
func (h *UserHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warnf("Register: Invalid request payload, error: %v", err)
		badRequest(c, "无效的请求负载：用户名和密码不能为空")
		return
	}

	user, err := h.userService.Register(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		fail(c, "Register", err)
		return
	}

	log.Infow("用户注册成功", "userID", user.ID, "username", user.Username)
	respond(c, http.StatusOK, "注册成功", gin.H{"id": user.ID})
}

// LoginRequest 定义了用户登录 API 的请求体结构。
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *UserHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warnf("Login: Invalid request payload, error: %v", err)
		badRequest(c, "无效的请求负载：用户名和密码不能为空")
		return
	}

	accessToken, refreshToken, err := h.userService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		fail(c, "Login '"+req.Username+"'", err)
		return
	}

	log.Infow("用户登录成功", "username", req.Username)
	respond(c, http.StatusOK, "登录成功", gin.H{
		"token":        accessToken,
		"refreshToken": refreshToken,
	})
}

// ProfileResponse 是 GET /users/me 的返回结构。
type ProfileResponse struct {
	ID            uint           `json:"id"`
	Username      string         `json:"username"`
	Nickname      string         `json:"nickname"`
	Status        int8           `json:"status"`
	RoleCode      string         `json:"roleCode"`
	RoleName      string         `json:"roleName,omitempty"`
	DeptID        *string        `json:"deptId"`
	MemberLevelID *uint          `json:"memberLevelId"`
	CreatedAt     model.DateTime `json:"createdAt"`
	UpdatedAt     model.DateTime `json:"updatedAt"`
}

// GetProfile 返回 AuthMiddleware 已加载的当前用户。
func (h *UserHandler) GetProfile(c *gin.Context) {
	user, exists := currentUser(c)
	if !exists {
		return
	}
	resp := ProfileResponse{
		ID:            user.ID,
		Username:      user.Username,
		Nickname:      user.Nickname,
		Status:        user.Status,
		RoleCode:      user.RoleCode(),
		DeptID:        user.DeptID,
		MemberLevelID: user.MemberLevelID,
		CreatedAt:     model.DateTime(user.CreatedAt),
		UpdatedAt:     model.DateTime(user.UpdatedAt),
	}
	if user.Role != nil {
		resp.RoleName = user.Role.Name
	}
	ok(c, resp)
}

// Logout 把当前 access token 放入黑名单。
func (h *UserHandler) Logout(c *gin.Context) {
	if err := h.userService.Logout(c.Request.Context(), c.GetString("token")); err != nil {
		log.Error("Logout: Failed to logout", err)
		respond(c, http.StatusInternalServerError, "登出失败", nil)
		return
	}
	if user, exists := currentUser(c); exists {
		log.Infof("User '%s' logged out successfully", user.Username)
	}
	respond(c, http.StatusOK, "登出成功", nil)
}
