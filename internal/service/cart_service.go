package service

import (
	"github.com/bookmart-next/internal/models"
	"github.com/bookmart-next/internal/repository"

	"github.com/shopspring/decimal"
)

// CartEntryDetail 购物车条目详情（按图书聚合后的视图）
type CartEntryDetail struct {
	BookID    uint         `json:"book_id"`
	Quantity  int          `json:"quantity"`
	UnitPrice models.Money `json:"unit_price"`
	LineTotal models.Money `json:"line_total"`
	Book      *models.Book `json:"book"`
}

// CartSummary 购物车汇总
type CartSummary struct {
	Items         []CartEntryDetail `json:"items"`
	TotalQuantity int               `json:"total_quantity"`
	TotalAmount   models.Money      `json:"total_amount"`
}

// CartService 购物车服务
type CartService struct {
	cartRepo repository.CartRepository
	bookRepo repository.BookRepository
}

// NewCartService 创建购物车服务
func NewCartService(cartRepo repository.CartRepository, bookRepo repository.BookRepository) *CartService {
	return &CartService{
		cartRepo: cartRepo,
		bookRepo: bookRepo,
	}
}

// ListByUser 获取用户购物车（按图书聚合）
//
// 同一本书可能临时存在多行，这里始终按 book_id 汇总数量。
func (s *CartService) ListByUser(userID uint) (*CartSummary, error) {
	if userID == 0 {
		return nil, ErrNotFound
	}
	entries, err := s.cartRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}

	summary := &CartSummary{Items: []CartEntryDetail{}}
	index := map[uint]int{}
	var stale []uint
	for _, entry := range entries {
		if entry.Book == nil || entry.Book.ID == 0 {
			// 图书已下架或删除，顺手清理
			stale = append(stale, entry.ID)
			continue
		}
		if pos, ok := index[entry.BookID]; ok {
			summary.Items[pos].Quantity += entry.Quantity
			continue
		}
		index[entry.BookID] = len(summary.Items)
		summary.Items = append(summary.Items, CartEntryDetail{
			BookID:    entry.BookID,
			Quantity:  entry.Quantity,
			UnitPrice: entry.Book.Price,
			Book:      entry.Book,
		})
	}
	if len(stale) > 0 {
		_ = s.cartRepo.DeleteByIDs(stale)
	}

	total := decimal.Zero
	for i := range summary.Items {
		item := &summary.Items[i]
		item.LineTotal = models.NewMoneyFromDecimal(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
		summary.TotalQuantity += item.Quantity
		total = total.Add(item.LineTotal.Decimal)
	}
	summary.TotalAmount = models.NewMoneyFromDecimal(total)
	return summary, nil
}

// AddItem 加入购物车
//
// 同一本书的已有条目与新增数量合并成一行写入，旧行在同一事务内删除。
// 合并后的总量必须严格小于当前库存，等于库存也会被拒绝，
// 为结算时的扣减留出余量。
func (s *CartService) AddItem(userID, bookID uint, quantity int) (*models.CartEntry, error) {
	if userID == 0 || bookID == 0 {
		return nil, ErrBookNotFound
	}
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	book, err := s.bookRepo.GetByID(bookID)
	if err != nil {
		return nil, err
	}
	if book == nil {
		return nil, ErrBookNotFound
	}

	existing, err := s.cartRepo.ListByUserAndBook(userID, bookID)
	if err != nil {
		return nil, err
	}

	effective := quantity
	staleIDs := make([]uint, 0, len(existing))
	for _, entry := range existing {
		effective += entry.Quantity
		staleIDs = append(staleIDs, entry.ID)
	}

	if book.StockQuantity <= effective {
		return nil, &InsufficientStockError{
			BookID:    bookID,
			Title:     book.Title,
			Remaining: book.StockQuantity,
			Requested: effective,
		}
	}

	merged := &models.CartEntry{
		UserID:   userID,
		BookID:   bookID,
		Quantity: effective,
	}
	if err := s.cartRepo.ReplaceWithMerged(merged, staleIDs); err != nil {
		return nil, err
	}
	return merged, nil
}

// RemoveItem 从购物车移除指定数量
//
// 移除量超过现有量视为非法请求，恰好减到零时整组条目删除。
func (s *CartService) RemoveItem(userID, bookID uint, quantity int) error {
	if userID == 0 || bookID == 0 {
		return ErrCartEntryNotFound
	}
	if quantity <= 0 {
		return ErrInvalidQuantity
	}

	existing, err := s.cartRepo.ListByUserAndBook(userID, bookID)
	if err != nil {
		return err
	}
	if len(existing) == 0 {
		return ErrCartEntryNotFound
	}

	total := 0
	staleIDs := make([]uint, 0, len(existing))
	for _, entry := range existing {
		total += entry.Quantity
		staleIDs = append(staleIDs, entry.ID)
	}

	if quantity > total {
		return ErrInvalidQuantity
	}

	remaining := total - quantity
	if remaining == 0 {
		return s.cartRepo.DeleteByIDs(staleIDs)
	}

	merged := &models.CartEntry{
		UserID:   userID,
		BookID:   bookID,
		Quantity: remaining,
	}
	return s.cartRepo.ReplaceWithMerged(merged, staleIDs)
}
