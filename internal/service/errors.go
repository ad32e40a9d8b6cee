// Package service 包含了应用的业务逻辑层。
package service

import "errors"

// 业务层通用错误，handler 层据此映射 HTTP 状态码。
var (
	ErrNotFound          = errors.New("记录不存在")
	ErrParentNotFound    = errors.New("父节点不存在")
	ErrAlreadyExists     = errors.New("记录已存在")
	ErrInvalidArgument   = errors.New("参数不合法")
	ErrInvalidCredential = errors.New("invalid credentials")
	ErrUserDisabled      = errors.New("用户已被禁用")
	ErrOutOfStock        = errors.New("库存不足")
)
