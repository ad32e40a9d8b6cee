package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mall-admin-go/internal/model"
	"mall-admin-go/pkg/authz"
	"mall-admin-go/pkg/log"
)

// RequirePermission 检查当前用户的角色是否拥有指定权限编码。
// 此中间件必须在 AuthMiddleware 之后使用。
func RequirePermission(authorizer *authz.Authorizer, code string) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, exists := c.Get("user")
		if !exists {
			abort(c, http.StatusInternalServerError, "无法获取用户信息")
			return
		}
		user, isUser := v.(*model.User)
		if !isUser {
			abort(c, http.StatusInternalServerError, "用户数据类型错误")
			return
		}

		// 角色被禁用时视为没有任何权限
		if user.Role == nil || user.Role.Status != model.StatusEnabled {
			abort(c, http.StatusForbidden, "权限不足")
			return
		}

		allowed, err := authorizer.Enforce(user.RoleCode(), code)
		if err != nil {
			log.Errorf("RequirePermission: 权限校验失败, role: %s, code: %s, error: %v", user.RoleCode(), code, err)
			abort(c, http.StatusInternalServerError, "服务器内部错误")
			return
		}
		if !allowed {
			abort(c, http.StatusForbidden, "权限不足")
			return
		}
		c.Next()
	}
}
