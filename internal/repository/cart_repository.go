package repository

import (
	"github.com/bookmart-next/internal/models"

	"gorm.io/gorm"
)

// CartRepository 购物车数据访问接口
type CartRepository interface {
	ListByUser(userID uint) ([]models.CartEntry, error)
	ListByUserAndBook(userID, bookID uint) ([]models.CartEntry, error)
	ReplaceWithMerged(merged *models.CartEntry, staleIDs []uint) error
	DeleteByIDs(ids []uint) error
	ClearByUser(userID uint) error
	WithTx(tx *gorm.DB) CartRepository
}

// GormCartRepository GORM 实现
type GormCartRepository struct {
	db *gorm.DB
}

// NewCartRepository 创建购物车仓库
func NewCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

// WithTx 绑定事务
func (r *GormCartRepository) WithTx(tx *gorm.DB) CartRepository {
	if tx == nil {
		return r
	}
	return &GormCartRepository{db: tx}
}

// ListByUser 获取用户全部购物车条目
func (r *GormCartRepository) ListByUser(userID uint) ([]models.CartEntry, error) {
	var entries []models.CartEntry
	if err := r.db.Preload("Book").Where("user_id = ?", userID).Order("id asc").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// ListByUserAndBook 获取用户同一本书的全部条目
//
// 同书条目可能临时存在多行，调用方需汇总 quantity。
func (r *GormCartRepository) ListByUserAndBook(userID, bookID uint) ([]models.CartEntry, error) {
	var entries []models.CartEntry
	if err := r.db.Where("user_id = ? AND book_id = ?", userID, bookID).Order("id asc").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// ReplaceWithMerged 写入合并后的条目并删除被合并的旧行（同一事务内）
func (r *GormCartRepository) ReplaceWithMerged(merged *models.CartEntry, staleIDs []uint) error {
	if merged == nil {
		return nil
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(merged).Error; err != nil {
			return err
		}
		if len(staleIDs) > 0 {
			if err := tx.Where("id IN ?", staleIDs).Delete(&models.CartEntry{}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// DeleteByIDs 按 ID 删除购物车条目
func (r *GormCartRepository) DeleteByIDs(ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.Where("id IN ?", ids).Delete(&models.CartEntry{}).Error
}

// ClearByUser 清空购物车
func (r *GormCartRepository) ClearByUser(userID uint) error {
	return r.db.Where("user_id = ?", userID).Delete(&models.CartEntry{}).Error
}
