package constants

// 用户状态常量
const (
	UserStatusActive   = "active"
	UserStatusDisabled = "disabled"
)

// 图书分页常量
const (
	DefaultBookPage     = 1
	DefaultBookPageSize = 12
	MaxBookPageSize     = 100
)

// 直接购买固定数量
const DirectCheckoutQuantity = 1
