package i18n

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
)

// DefaultLocale 默认语言
const DefaultLocale = "en-US"

var supportedLocales = []string{"en-US", "zh-CN"}

var messages = map[string]map[string]string{
	"en-US": {
		"error.bad_request":           "invalid request payload",
		"error.unauthorized":          "unauthorized",
		"error.internal":              "internal server error",
		"error.user_id_invalid":       "invalid user id",
		"error.user_id_type_invalid":  "unexpected user id type",
		"error.jwt_secret_missing":    "jwt secret is not configured",
		"error.auth_header_missing":   "authorization header is missing",
		"error.auth_header_invalid":   "authorization header is malformed",
		"error.token_invalid":         "invalid token",
		"error.token_revoked":         "token has been revoked",
		"error.user_disabled":         "user account is disabled",
		"error.rate_limit_unavailable": "rate limiter unavailable",
		"error.rate_limited":          "too many requests, retry in %d seconds",
		"error.login_too_many":        "too many login attempts, retry in %d seconds",

		"error.user_not_found":      "user not found",
		"error.email_exists":        "email is already registered",
		"error.invalid_email":       "invalid email address",
		"error.invalid_credentials": "email or password is incorrect",
		"error.register_failed":     "registration failed",
		"error.login_failed":        "login failed",
		"error.user_update_failed":  "user update failed",

		"error.password_too_short":   "password must be at least %d characters",
		"error.password_need_upper":  "password needs an uppercase letter",
		"error.password_need_lower":  "password needs a lowercase letter",
		"error.password_need_number": "password needs a digit",
		"error.password_need_special": "password needs a special character",
		"error.password_weak":         "password does not meet the policy",

		"error.book_not_found":     "book not found",
		"error.book_fetch_failed":  "failed to load books",
		"error.book_create_failed": "failed to create book",
		"error.book_update_failed": "failed to update book",
		"error.book_delete_failed": "failed to delete book",
		"error.not_author":         "user is not an author",
		"error.not_book_owner":     "user does not own this book",

		"error.cart_item_invalid":   "invalid cart item",
		"error.cart_item_not_found": "item not found in cart",
		"error.cart_fetch_failed":   "failed to load cart",
		"error.cart_update_failed":  "failed to update cart",
		"error.invalid_quantity":    "invalid quantity",
		"error.insufficient_stock":  "insufficient stock for book %q, only %d left, you asked for %d",

		"error.checkout_failed":    "checkout failed",
		"error.empty_cart":         "cart is empty",
		"error.data_integrity":     "cart and book records are inconsistent",
		"error.sales_fetch_failed": "failed to load sales and purchases",

		"error.permission_denied": "operation not allowed",
		"error.invalid_name":      "first name is required",
		"error.invalid_title":     "book title is required",
	},
	"zh-CN": {
		"error.bad_request":           "请求参数无效",
		"error.unauthorized":          "未授权",
		"error.internal":              "服务器内部错误",
		"error.user_id_invalid":       "用户 ID 无效",
		"error.user_id_type_invalid":  "用户 ID 类型异常",
		"error.jwt_secret_missing":    "JWT 密钥未配置",
		"error.auth_header_missing":   "缺少认证头",
		"error.auth_header_invalid":   "认证头格式错误",
		"error.token_invalid":         "无效的 token",
		"error.token_revoked":         "token 已失效",
		"error.user_disabled":         "账号已被禁用",
		"error.rate_limit_unavailable": "限流服务不可用",
		"error.rate_limited":          "请求过于频繁，请在 %d 秒后重试",
		"error.login_too_many":        "登录尝试过多，请在 %d 秒后重试",

		"error.user_not_found":      "用户不存在",
		"error.email_exists":        "邮箱已被注册",
		"error.invalid_email":       "邮箱地址无效",
		"error.invalid_credentials": "邮箱或密码错误",
		"error.register_failed":     "注册失败",
		"error.login_failed":        "登录失败",
		"error.user_update_failed":  "用户更新失败",

		"error.password_too_short":   "密码长度不得少于 %d 个字符",
		"error.password_need_upper":  "密码需要包含大写字母",
		"error.password_need_lower":  "密码需要包含小写字母",
		"error.password_need_number": "密码需要包含数字",
		"error.password_need_special": "密码需要包含特殊字符",
		"error.password_weak":         "密码不符合安全策略",

		"error.book_not_found":     "图书不存在",
		"error.book_fetch_failed":  "图书加载失败",
		"error.book_create_failed": "图书创建失败",
		"error.book_update_failed": "图书更新失败",
		"error.book_delete_failed": "图书删除失败",
		"error.not_author":         "用户不是作者",
		"error.not_book_owner":     "用户不是该图书的作者",

		"error.cart_item_invalid":   "购物车项无效",
		"error.cart_item_not_found": "购物车中没有该图书",
		"error.cart_fetch_failed":   "购物车加载失败",
		"error.cart_update_failed":  "购物车更新失败",
		"error.invalid_quantity":    "数量无效",
		"error.insufficient_stock":  "图书 %q 库存不足，仅剩 %d 本，您请求了 %d 本",

		"error.checkout_failed":    "结算失败",
		"error.empty_cart":         "购物车为空",
		"error.data_integrity":     "购物车与图书数据不一致",
		"error.sales_fetch_failed": "销售与购买记录加载失败",

		"error.permission_denied": "无权限执行该操作",
		"error.invalid_name":      "名字不能为空",
		"error.invalid_title":     "书名不能为空",
	},
}

// ResolveLocale 解析请求语言
func ResolveLocale(c *gin.Context) string {
	if c == nil {
		return DefaultLocale
	}
	candidates := []string{
		c.Query("locale"),
		c.GetHeader("X-Locale"),
		c.GetHeader("Accept-Language"),
	}
	for _, candidate := range candidates {
		if locale := normalizeLocale(candidate); locale != "" {
			return locale
		}
	}
	return DefaultLocale
}

// T 按语言取消息文案
func T(locale, key string) string {
	catalog, ok := messages[normalizeLocale(locale)]
	if !ok {
		catalog = messages[DefaultLocale]
	}
	if msg, ok := catalog[key]; ok {
		return msg
	}
	if msg, ok := messages[DefaultLocale][key]; ok {
		return msg
	}
	return key
}

// Sprintf 按语言取带参数的消息文案
func Sprintf(locale, key string, args ...interface{}) string {
	return fmt.Sprintf(T(locale, key), args...)
}

func normalizeLocale(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	// Accept-Language 可能携带权重列表，取第一个候选
	if idx := strings.IndexAny(trimmed, ",;"); idx >= 0 {
		trimmed = trimmed[:idx]
	}
	for _, supported := range supportedLocales {
		if strings.EqualFold(trimmed, supported) {
			return supported
		}
		if strings.EqualFold(strings.SplitN(trimmed, "-", 2)[0], strings.SplitN(supported, "-", 2)[0]) {
			return supported
		}
	}
	return ""
}
