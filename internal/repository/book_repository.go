package repository

import (
	"errors"
	"strings"

	"github.com/bookmart-next/internal/models"

	"gorm.io/gorm"
)

// BookListFilter 图书列表筛选条件
type BookListFilter struct {
	Page       int    // 页码（从 1 开始）
	PageSize   int    // 每页数量
	Search     string // 标题模糊搜索
	Genre      string // 分类精确筛选
	AuthorID   uint   // 作者筛选（0 表示不筛选）
	WithAuthor bool   // 是否预加载作者
}

// BookRepository 图书数据访问接口
type BookRepository interface {
	List(filter BookListFilter) ([]models.Book, int64, error)
	GetByID(id uint) (*models.Book, error)
	Create(book *models.Book) error
	Update(book *models.Book) error
	Delete(id uint) error
	DecrementStock(bookID uint, quantity int) (int64, error)
	WithTx(tx *gorm.DB) BookRepository
}

// GormBookRepository GORM 实现
type GormBookRepository struct {
	db *gorm.DB
}

// NewBookRepository 创建图书仓库
func NewBookRepository(db *gorm.DB) *GormBookRepository {
	return &GormBookRepository{db: db}
}

// WithTx 绑定事务
func (r *GormBookRepository) WithTx(tx *gorm.DB) BookRepository {
	if tx == nil {
		return r
	}
	return &GormBookRepository{db: tx}
}

// List 图书列表
func (r *GormBookRepository) List(filter BookListFilter) ([]models.Book, int64, error) {
	query := r.db.Model(&models.Book{})
	if filter.WithAuthor {
		query = query.Preload("Author")
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		query = query.Where("title LIKE ?", "%"+search+"%")
	}
	if genre := strings.TrimSpace(filter.Genre); genre != "" {
		query = query.Where("genre = ?", genre)
	}
	if filter.AuthorID != 0 {
		query = query.Where("author_id = ?", filter.AuthorID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.PageSize > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		query = query.Limit(filter.PageSize).Offset((page - 1) * filter.PageSize)
	}

	var books []models.Book
	if err := query.Order("created_at DESC, id DESC").Find(&books).Error; err != nil {
		return nil, 0, err
	}
	return books, total, nil
}

// GetByID 根据 ID 获取图书
func (r *GormBookRepository) GetByID(id uint) (*models.Book, error) {
	var book models.Book
	if err := r.db.First(&book, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &book, nil
}

// Create 创建图书
func (r *GormBookRepository) Create(book *models.Book) error {
	return r.db.Create(book).Error
}

// Update 更新图书
func (r *GormBookRepository) Update(book *models.Book) error {
	return r.db.Save(book).Error
}

// Delete 删除图书（软删除）
func (r *GormBookRepository) Delete(id uint) error {
	return r.db.Delete(&models.Book{}, id).Error
}

// DecrementStock 条件扣减库存
//
// 仅当剩余库存足够时才扣减，返回受影响行数：
// 0 行表示库存不足（或图书不存在），由调用方决定失败语义。
func (r *GormBookRepository) DecrementStock(bookID uint, quantity int) (int64, error) {
	if bookID == 0 || quantity <= 0 {
		return 0, errors.New("invalid stock decrement params")
	}
	result := r.db.Model(&models.Book{}).
		Where("id = ? AND stock_quantity >= ?", bookID, quantity).
		Updates(map[string]interface{}{
			"stock_quantity": gorm.Expr("stock_quantity - ?", quantity),
		})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
