package public

import (
	"strconv"
	"strings"

	"github.com/bookmart-next/internal/http/response"
	"github.com/bookmart-next/internal/models"
	"github.com/bookmart-next/internal/service"

	"github.com/gin-gonic/gin"
)

// BookCreateRequest 图书创建请求
type BookCreateRequest struct {
	Title         string       `json:"title" binding:"required"`
	Genre         string       `json:"genre"`
	Description   string       `json:"description"`
	ImageURL      string       `json:"image_url"`
	Price         models.Money `json:"price"`
	StockQuantity int          `json:"stock_quantity"`
}

// BookUpdateRequest 图书更新请求（缺省字段不修改）
type BookUpdateRequest struct {
	Title         *string       `json:"title"`
	Genre         *string       `json:"genre"`
	Description   *string       `json:"description"`
	ImageURL      *string       `json:"image_url"`
	Price         *models.Money `json:"price"`
	StockQuantity *int          `json:"stock_quantity"`
}

func parseBookID(c *gin.Context) (uint, bool) {
	rawID := c.Param("id")
	id, err := strconv.ParseUint(rawID, 10, 64)
	if err != nil || id == 0 {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return 0, false
	}
	return uint(id), true
}

// ListBooks 图书列表（公开）
func (h *Handler) ListBooks(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "0"))
	page, pageSize = normalizePagination(page, pageSize, h.Config.Books.DefaultPageSize)
	var authorID uint
	if raw := strings.TrimSpace(c.Query("author_id")); raw != "" {
		if parsed, err := strconv.ParseUint(raw, 10, 64); err == nil {
			authorID = uint(parsed)
		}
	}

	books, total, err := h.BookService.List(service.BookListInput{
		Page:     page,
		PageSize: pageSize,
		Search:   c.Query("search"),
		Genre:    c.Query("genre"),
		AuthorID: authorID,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.book_fetch_failed", err)
		return
	}

	pagination := response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	}
	response.SuccessWithPage(c, books, pagination)
}

// GetBook 图书详情（公开）
func (h *Handler) GetBook(c *gin.Context) {
	id, ok := parseBookID(c)
	if !ok {
		return
	}
	book, err := h.BookService.GetByID(id)
	if err != nil {
		respondWithMappedError(c, err, bookWriteErrorRules, response.CodeInternal, "error.book_fetch_failed")
		return
	}
	response.Success(c, book)
}

// CreateBook 创建图书（仅作者）
func (h *Handler) CreateBook(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req BookCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	book, err := h.BookService.Create(uid, service.CreateBookInput{
		Title:         req.Title,
		Genre:         req.Genre,
		Description:   req.Description,
		ImageURL:      req.ImageURL,
		Price:         req.Price,
		StockQuantity: req.StockQuantity,
	})
	if err != nil {
		respondWithMappedError(c, err, bookWriteErrorRules, response.CodeInternal, "error.book_create_failed")
		return
	}
	response.Success(c, book)
}

// UpdateBook 更新图书（仅本人名下图书）
func (h *Handler) UpdateBook(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	id, ok := parseBookID(c)
	if !ok {
		return
	}
	var req BookUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	book, err := h.BookService.Update(uid, id, service.UpdateBookInput{
		Title:         req.Title,
		Genre:         req.Genre,
		Description:   req.Description,
		ImageURL:      req.ImageURL,
		Price:         req.Price,
		StockQuantity: req.StockQuantity,
	})
	if err != nil {
		respondWithMappedError(c, err, bookWriteErrorRules, response.CodeInternal, "error.book_update_failed")
		return
	}
	response.Success(c, book)
}

// DeleteBook 删除图书（仅本人名下图书）
func (h *Handler) DeleteBook(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	id, ok := parseBookID(c)
	if !ok {
		return
	}
	if err := h.BookService.Delete(uid, id); err != nil {
		respondWithMappedError(c, err, bookWriteErrorRules, response.CodeInternal, "error.book_delete_failed")
		return
	}
	response.Success(c, gin.H{"deleted": true})
}
