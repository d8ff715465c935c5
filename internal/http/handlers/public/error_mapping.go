package public

import (
	"errors"

	"github.com/bookmart-next/internal/http/response"
	"github.com/bookmart-next/internal/i18n"
	"github.com/bookmart-next/internal/service"

	"github.com/gin-gonic/gin"
)

// mappedHandlerError 定义业务错误到接口错误响应的映射关系。
type mappedHandlerError struct {
	target error
	code   int
	key    string
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackCode int, fallbackKey string) {
	// 库存不足携带书名与剩余量，单独格式化
	var stockErr *service.InsufficientStockError
	if errors.As(err, &stockErr) {
		locale := i18n.ResolveLocale(c)
		msg := i18n.Sprintf(locale, "error.insufficient_stock", stockErr.Title, stockErr.Remaining, stockErr.Requested)
		respondErrorWithMsg(c, response.CodeBadRequest, msg, nil)
		return
	}
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			respondError(c, rule.code, rule.key, nil)
			return
		}
	}
	respondError(c, fallbackCode, fallbackKey, err)
}

var cartErrorRules = []mappedHandlerError{
	{target: service.ErrInvalidQuantity, code: response.CodeBadRequest, key: "error.invalid_quantity"},
	{target: service.ErrBookNotFound, code: response.CodeNotFound, key: "error.book_not_found"},
	{target: service.ErrCartEntryNotFound, code: response.CodeNotFound, key: "error.cart_item_not_found"},
}

var checkoutErrorRules = []mappedHandlerError{
	{target: service.ErrEmptyCart, code: response.CodeBadRequest, key: "error.empty_cart"},
	{target: service.ErrInvalidQuantity, code: response.CodeBadRequest, key: "error.invalid_quantity"},
	{target: service.ErrBookNotFound, code: response.CodeNotFound, key: "error.book_not_found"},
	{target: service.ErrDataIntegrity, code: response.CodeInternal, key: "error.data_integrity"},
}

var bookWriteErrorRules = []mappedHandlerError{
	{target: service.ErrInvalidTitle, code: response.CodeBadRequest, key: "error.invalid_title"},
	{target: service.ErrInvalidQuantity, code: response.CodeBadRequest, key: "error.invalid_quantity"},
	{target: service.ErrNotAuthor, code: response.CodeForbidden, key: "error.not_author"},
	{target: service.ErrPermissionDenied, code: response.CodeForbidden, key: "error.not_book_owner"},
	{target: service.ErrBookNotFound, code: response.CodeNotFound, key: "error.book_not_found"},
	{target: service.ErrNotFound, code: response.CodeNotFound, key: "error.user_not_found"},
}

func respondCartError(c *gin.Context, err error) {
	respondWithMappedError(c, err, cartErrorRules, response.CodeInternal, "error.cart_update_failed")
}

func respondCheckoutError(c *gin.Context, err error) {
	respondWithMappedError(c, err, checkoutErrorRules, response.CodeInternal, "error.checkout_failed")
}
