package service

import (
	"errors"
	"fmt"
)

// 业务错误定义（由 handler 统一映射为响应码与 i18n 文案）
var (
	ErrNotFound           = errors.New("记录不存在")
	ErrBookNotFound       = errors.New("图书不存在")
	ErrCartEntryNotFound  = errors.New("购物车条目不存在")
	ErrInvalidQuantity    = errors.New("数量不合法")
	ErrInsufficientStock  = errors.New("库存不足")
	ErrDataIntegrity      = errors.New("数据完整性错误")
	ErrPermissionDenied   = errors.New("无权限操作")
	ErrNotAuthor          = errors.New("非作者账号")
	ErrEmailExists        = errors.New("邮箱已注册")
	ErrInvalidEmail       = errors.New("邮箱格式不正确")
	ErrInvalidCredentials = errors.New("邮箱或密码错误")
	ErrInvalidName        = errors.New("名字不能为空")
	ErrInvalidTitle       = errors.New("书名不能为空")
	ErrUserDisabled       = errors.New("账号已停用")
	ErrWeakPassword       = errors.New("密码强度不足")
	ErrEmptyCart          = errors.New("购物车为空")
)

// InsufficientStockError 库存不足详情
//
// 携带书名与剩余量，便于响应层输出可读的错误提示。
type InsufficientStockError struct {
	BookID    uint
	Title     string
	Remaining int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("库存不足: %s 剩余 %d, 请求 %d", e.Title, e.Remaining, e.Requested)
}

// Is 使 errors.Is(err, ErrInsufficientStock) 成立
func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}
