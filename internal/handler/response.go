// Package handler 包含了处理 HTTP 请求的控制器逻辑。
package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/multierr"

	"mall-admin-go/internal/model"
	"mall-admin-go/internal/service"
	"mall-admin-go/pkg/log"
	"mall-admin-go/pkg/tree"
)

// respond 按统一的 {code, message, data} 结构返回。
func respond(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, gin.H{"code": status, "message": message, "data": data})
}

func ok(c *gin.Context, data interface{}) {
	respond(c, http.StatusOK, "success", data)
}

func badRequest(c *gin.Context, message string) {
	respond(c, http.StatusBadRequest, message, nil)
}

// fail 把业务错误映射为 HTTP 状态码。op 仅用于日志。
func fail(c *gin.Context, op string, err error) {
	status, message := errorStatus(err)
	if status >= http.StatusInternalServerError {
		log.Errorf("%s: %v", op, err)
	} else {
		log.Warnf("%s: %v", op, err)
	}
	respond(c, status, message, nil)
}

// errorStatus 返回错误对应的状态码和提示信息。
// 层级相关的错误信息会说明被违反的约束。
func errorStatus(err error) (int, string) {
	var (
		selfParent *tree.SelfParentError
		cycle      *tree.CycleError
		depth      *tree.DepthExceededError
		hasKids    *tree.HasChildrenError
		inUse      *tree.InUseError
		dup        *tree.DuplicateIDError
		detected   *tree.CycleDetectedError
		orphan     *tree.OrphanRecordError
	)
	switch {
	case errors.As(err, &selfParent), errors.As(err, &cycle), errors.As(err, &depth):
		return http.StatusBadRequest, err.Error()
	case errors.As(err, &hasKids), errors.As(err, &inUse), errors.As(err, &dup):
		return http.StatusConflict, err.Error()
	case errors.As(err, &detected):
		return http.StatusInternalServerError, "层级数据损坏: " + err.Error()
	case errors.As(err, &orphan):
		errs := multierr.Errors(err)
		return http.StatusInternalServerError, "层级数据损坏: 存在 " + strconv.Itoa(len(errs)) + " 条父节点缺失的记录"
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, service.ErrParentNotFound), errors.Is(err, service.ErrInvalidArgument):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, service.ErrAlreadyExists), errors.Is(err, service.ErrOutOfStock):
		return http.StatusConflict, err.Error()
	case errors.Is(err, service.ErrInvalidCredential):
		return http.StatusUnauthorized, "无效的凭证"
	case errors.Is(err, service.ErrUserDisabled):
		return http.StatusForbidden, err.Error()
	default:
		return http.StatusInternalServerError, "服务器内部错误"
	}
}

// uintParam 解析路径中的数字 id。
func uintParam(c *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || v == 0 {
		badRequest(c, "无效的 "+name)
		return 0, false
	}
	return uint(v), true
}

// optionalStatus 解析查询参数中的 status，未提供时返回 nil。
func optionalStatus(c *gin.Context) (*int8, bool) {
	raw := c.Query("status")
	if raw == "" {
		return nil, true
	}
	v, err := strconv.ParseInt(raw, 10, 8)
	if err != nil || (int8(v) != model.StatusEnabled && int8(v) != model.StatusDisabled) {
		badRequest(c, "无效的 status")
		return nil, false
	}
	s := int8(v)
	return &s, true
}

// page 解析分页参数，默认第 1 页，每页 10 条。
func page(c *gin.Context) (int, int) {
	p, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || p < 1 {
		p = 1
	}
	size, err := strconv.Atoi(c.DefaultQuery("size", "10"))
	if err != nil || size < 1 {
		size = 10
	}
	return p, size
}

// currentUser 返回由 AuthMiddleware 注入的用户。
func currentUser(c *gin.Context) (*model.User, bool) {
	v, exists := c.Get("user")
	if !exists {
		respond(c, http.StatusInternalServerError, "无法获取用户信息", nil)
		return nil, false
	}
	u, isUser := v.(*model.User)
	if !isUser {
		respond(c, http.StatusInternalServerError, "用户数据类型错误", nil)
		return nil, false
	}
	return u, true
}
