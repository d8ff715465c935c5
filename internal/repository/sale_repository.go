package repository

import (
	"errors"

	"github.com/bookmart-next/internal/models"

	"gorm.io/gorm"
)

// SaleRepository 销售单数据访问接口
type SaleRepository interface {
	Create(sale *models.Sale) error
	GetByID(id string) (*models.Sale, error)
	ListByBuyer(buyerID uint) ([]models.Sale, error)
	ListItemsByAuthor(authorID uint) ([]models.SaleItem, error)
	Transaction(fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) SaleRepository
}

// GormSaleRepository GORM 实现
type GormSaleRepository struct {
	db *gorm.DB
}

// NewSaleRepository 创建销售单仓库
func NewSaleRepository(db *gorm.DB) *GormSaleRepository {
	return &GormSaleRepository{db: db}
}

// WithTx 绑定事务
func (r *GormSaleRepository) WithTx(tx *gorm.DB) SaleRepository {
	if tx == nil {
		return r
	}
	return &GormSaleRepository{db: tx}
}

// Transaction 执行事务
func (r *GormSaleRepository) Transaction(fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return nil
	}
	return r.db.Transaction(fn)
}

// Create 创建销售单（携带销售项一并写入）
func (r *GormSaleRepository) Create(sale *models.Sale) error {
	if sale == nil {
		return nil
	}
	return r.db.Create(sale).Error
}

// preloadBookUnscoped 关联图书含已下架删除的，历史成交明细始终可回溯
func preloadBookUnscoped(db *gorm.DB) *gorm.DB {
	return db.Unscoped()
}

// GetByID 根据 ID 获取销售单
func (r *GormSaleRepository) GetByID(id string) (*models.Sale, error) {
	var sale models.Sale
	if err := r.db.Preload("Items").Preload("Items.Book", preloadBookUnscoped).Where("id = ?", id).First(&sale).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &sale, nil
}

// ListByBuyer 获取买家的全部销售单（购买记录）
func (r *GormSaleRepository) ListByBuyer(buyerID uint) ([]models.Sale, error) {
	var sales []models.Sale
	if err := r.db.Preload("Items").Preload("Items.Book", preloadBookUnscoped).
		Where("buyer_id = ?", buyerID).
		Order("created_at desc").
		Find(&sales).Error; err != nil {
		return nil, err
	}
	return sales, nil
}

// ListItemsByAuthor 获取某作者名下图书的全部销售项
func (r *GormSaleRepository) ListItemsByAuthor(authorID uint) ([]models.SaleItem, error) {
	var items []models.SaleItem
	if err := r.db.Preload("Book", preloadBookUnscoped).
		Preload("Sale").
		Joins("JOIN books ON books.id = sale_items.book_id").
		Where("books.author_id = ?", authorID).
		Order("sale_items.sale_id asc, sale_items.id asc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}
