package service

import (
	"strings"

	"github.com/bookmart-next/internal/constants"
	"github.com/bookmart-next/internal/models"
	"github.com/bookmart-next/internal/repository"
)

// BookListInput 图书列表查询输入
type BookListInput struct {
	Page     int
	PageSize int
	Search   string
	Genre    string
	AuthorID uint
}

// CreateBookInput 图书创建输入
type CreateBookInput struct {
	Title         string
	Genre         string
	Description   string
	ImageURL      string
	Price         models.Money
	StockQuantity int
}

// UpdateBookInput 图书更新输入（nil 字段表示不修改）
type UpdateBookInput struct {
	Title         *string
	Genre         *string
	Description   *string
	ImageURL      *string
	Price         *models.Money
	StockQuantity *int
}

// BookService 图书服务
type BookService struct {
	bookRepo repository.BookRepository
	userRepo repository.UserRepository
}

// NewBookService 创建图书服务
func NewBookService(bookRepo repository.BookRepository, userRepo repository.UserRepository) *BookService {
	return &BookService{
		bookRepo: bookRepo,
		userRepo: userRepo,
	}
}

// List 图书列表（分页）
func (s *BookService) List(input BookListInput) ([]models.Book, int64, error) {
	page := input.Page
	if page < 1 {
		page = constants.DefaultBookPage
	}
	pageSize := input.PageSize
	if pageSize <= 0 {
		pageSize = constants.DefaultBookPageSize
	}
	if pageSize > constants.MaxBookPageSize {
		pageSize = constants.MaxBookPageSize
	}
	return s.bookRepo.List(repository.BookListFilter{
		Page:       page,
		PageSize:   pageSize,
		Search:     input.Search,
		Genre:      input.Genre,
		AuthorID:   input.AuthorID,
		WithAuthor: true,
	})
}

// GetByID 获取单本图书
func (s *BookService) GetByID(id uint) (*models.Book, error) {
	if id == 0 {
		return nil, ErrBookNotFound
	}
	book, err := s.bookRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if book == nil {
		return nil, ErrBookNotFound
	}
	return book, nil
}

// Create 创建图书（仅作者可操作）
func (s *BookService) Create(operatorID uint, input CreateBookInput) (*models.Book, error) {
	operator, err := s.userRepo.GetByID(operatorID)
	if err != nil {
		return nil, err
	}
	if operator == nil {
		return nil, ErrNotFound
	}
	if !operator.IsAuthor {
		return nil, ErrNotAuthor
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrInvalidTitle
	}
	if input.StockQuantity < 0 {
		return nil, ErrInvalidQuantity
	}

	book := &models.Book{
		Title:         title,
		AuthorID:      operatorID,
		Genre:         strings.TrimSpace(input.Genre),
		Description:   input.Description,
		ImageURL:      strings.TrimSpace(input.ImageURL),
		Price:         input.Price,
		StockQuantity: input.StockQuantity,
	}
	if err := s.bookRepo.Create(book); err != nil {
		return nil, err
	}
	return book, nil
}

// Update 更新图书（仅本人名下图书）
func (s *BookService) Update(operatorID, bookID uint, input UpdateBookInput) (*models.Book, error) {
	book, err := s.requireOwnedBook(operatorID, bookID)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		trimmed := strings.TrimSpace(*input.Title)
		if trimmed == "" {
			return nil, ErrInvalidTitle
		}
		book.Title = trimmed
	}
	if input.Genre != nil {
		book.Genre = strings.TrimSpace(*input.Genre)
	}
	if input.Description != nil {
		book.Description = *input.Description
	}
	if input.ImageURL != nil {
		book.ImageURL = strings.TrimSpace(*input.ImageURL)
	}
	if input.Price != nil {
		book.Price = *input.Price
	}
	if input.StockQuantity != nil {
		if *input.StockQuantity < 0 {
			return nil, ErrInvalidQuantity
		}
		book.StockQuantity = *input.StockQuantity
	}

	if err := s.bookRepo.Update(book); err != nil {
		return nil, err
	}
	return book, nil
}

// Delete 删除图书（仅本人名下图书，软删除）
func (s *BookService) Delete(operatorID, bookID uint) error {
	if _, err := s.requireOwnedBook(operatorID, bookID); err != nil {
		return err
	}
	return s.bookRepo.Delete(bookID)
}

func (s *BookService) requireOwnedBook(operatorID, bookID uint) (*models.Book, error) {
	if bookID == 0 {
		return nil, ErrBookNotFound
	}
	operator, err := s.userRepo.GetByID(operatorID)
	if err != nil {
		return nil, err
	}
	if operator == nil {
		return nil, ErrNotFound
	}
	if !operator.IsAuthor {
		return nil, ErrNotAuthor
	}
	book, err := s.bookRepo.GetByID(bookID)
	if err != nil {
		return nil, err
	}
	if book == nil {
		return nil, ErrBookNotFound
	}
	if book.AuthorID != operatorID {
		return nil, ErrPermissionDenied
	}
	return book, nil
}
