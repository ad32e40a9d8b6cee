// Package middleware 提供了处理 HTTP 请求的中间件。
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"mall-admin-go/internal/model"
	"mall-admin-go/internal/repository"
	"mall-admin-go/internal/service"
	"mall-admin-go/pkg/log"
	"mall-admin-go/pkg/token"
)

func abort(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"code": status, "message": msg, "data": nil})
}

// AuthMiddleware 创建一个 Gin 中间件，用于 JWT 认证。
// 它会从请求头中提取 access token，校验类型与黑名单，并将完整的 User 对象存入 Gin 的上下文中。
func AuthMiddleware(jwtManager *token.JWTManager, blacklist repository.TokenBlacklist, userService service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abort(c, http.StatusUnauthorized, "请求未包含授权头")
			return
		}

		const bearerPrefix = "Bearer "
		if !strings.HasPrefix(authHeader, bearerPrefix) {
			abort(c, http.StatusUnauthorized, "无效的授权头格式")
			return
		}
		tokenString := strings.TrimPrefix(authHeader, bearerPrefix)

		// refresh token 不能用来访问业务接口
		claims, err := jwtManager.VerifyTokenOfType(tokenString, token.TypeAccess)
		if err != nil {
			abort(c, http.StatusUnauthorized, "无效或已过期的 token")
			return
		}

		revoked, err := blacklist.Contains(c.Request.Context(), tokenString)
		if err != nil {
			log.Errorf("AuthMiddleware: 查询 token 黑名单失败: %v", err)
			abort(c, http.StatusInternalServerError, "服务器内部错误")
			return
		}
		if revoked {
			abort(c, http.StatusUnauthorized, "token 已失效")
			return
		}

		user, err := userService.GetProfile(c.Request.Context(), claims.UserID)
		if err != nil {
			// 用户可能已被删除
			abort(c, http.StatusUnauthorized, "用户不存在")
			return
		}
		if user.Status != model.StatusEnabled {
			abort(c, http.StatusForbidden, "用户已被禁用")
			return
		}

		c.Set("user", user)
		c.Set("claims", claims)
		c.Set("token", tokenString)

		c.Next()
	}
}
