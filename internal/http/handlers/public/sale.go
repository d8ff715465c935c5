package public

import (
	"strconv"

	"github.com/bookmart-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// CheckoutCart 结算购物车
func (h *Handler) CheckoutCart(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	sale, err := h.SaleService.CheckoutCart(uid)
	if err != nil {
		respondCheckoutError(c, err)
		return
	}
	response.Success(c, sale)
}

// CheckoutDirect 直接购买单本图书（数量固定为 1）
func (h *Handler) CheckoutDirect(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	rawID := c.Param("book_id")
	bookID, err := strconv.ParseUint(rawID, 10, 64)
	if err != nil || bookID == 0 {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}

	sale, err := h.SaleService.CheckoutDirect(uid, uint(bookID))
	if err != nil {
		respondCheckoutError(c, err)
		return
	}
	response.Success(c, sale)
}

// ListSales 获取销售与购买总览
func (h *Handler) ListSales(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	overview, err := h.SaleService.ListSalesAndPurchases(uid)
	if err != nil {
		respondError(c, response.CodeInternal, "error.sales_fetch_failed", err)
		return
	}
	response.Success(c, overview)
}
