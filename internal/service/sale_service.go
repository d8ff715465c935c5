package service

import (
	"time"

	"github.com/bookmart-next/internal/constants"
	"github.com/bookmart-next/internal/models"
	"github.com/bookmart-next/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SaleGroup 按销售单聚合的明细
type SaleGroup struct {
	SaleID      string            `json:"sale_id"`
	CreatedAt   time.Time         `json:"created_at"`
	Items       []models.SaleItem `json:"items"`
	TotalAmount models.Money      `json:"total_amount"`
}

// SalesOverview 销售与购买总览
//
// Sales 为本人（作者身份）名下图书的销售记录，
// Purchases 为本人作为买家的购买记录。
type SalesOverview struct {
	Sales     []SaleGroup `json:"sales"`
	Purchases []SaleGroup `json:"purchases"`
}

// SaleService 销售服务
type SaleService struct {
	saleRepo repository.SaleRepository
	cartRepo repository.CartRepository
	bookRepo repository.BookRepository
}

// NewSaleService 创建销售服务
func NewSaleService(saleRepo repository.SaleRepository, cartRepo repository.CartRepository, bookRepo repository.BookRepository) *SaleService {
	return &SaleService{
		saleRepo: saleRepo,
		cartRepo: cartRepo,
		bookRepo: bookRepo,
	}
}

type checkoutLine struct {
	bookID   uint
	quantity int
}

// CheckoutCart 结算购物车
//
// 整单一个事务：任何一本书库存不足则全部回滚，库存扣减与
// 销售单写入要么同时生效要么都不生效。成交单价取结算时的
// 图书价格快照，后续改价不影响历史金额。
func (s *SaleService) CheckoutCart(buyerID uint) (*models.Sale, error) {
	if buyerID == 0 {
		return nil, ErrNotFound
	}
	entries, err := s.cartRepo.ListByUser(buyerID)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, ErrEmptyCart
	}

	// 同一本书可能存在多行，先按 book_id 汇总
	lines := make([]checkoutLine, 0, len(entries))
	index := map[uint]int{}
	for _, entry := range entries {
		if entry.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
		if pos, ok := index[entry.BookID]; ok {
			lines[pos].quantity += entry.Quantity
			continue
		}
		index[entry.BookID] = len(lines)
		lines = append(lines, checkoutLine{bookID: entry.BookID, quantity: entry.Quantity})
	}

	sale := &models.Sale{
		ID:      uuid.NewString(),
		BuyerID: buyerID,
	}

	err = s.saleRepo.Transaction(func(tx *gorm.DB) error {
		bookRepo := s.bookRepo.WithTx(tx)
		cartRepo := s.cartRepo.WithTx(tx)
		saleRepo := s.saleRepo.WithTx(tx)

		items := make([]models.SaleItem, 0, len(lines))
		for _, line := range lines {
			item, err := reserveSaleItem(bookRepo, sale.ID, line.bookID, line.quantity)
			if err != nil {
				return err
			}
			items = append(items, *item)
		}
		sale.Items = items

		if err := saleRepo.Create(sale); err != nil {
			return err
		}
		return cartRepo.ClearByUser(buyerID)
	})
	if err != nil {
		return nil, err
	}
	return sale, nil
}

// CheckoutDirect 直接购买单本图书（固定数量 1，不经过购物车）
func (s *SaleService) CheckoutDirect(buyerID, bookID uint) (*models.Sale, error) {
	if buyerID == 0 || bookID == 0 {
		return nil, ErrBookNotFound
	}

	// 买家指定的图书不存在（或已下架删除）时按未找到处理，
	// 与购物车路径不同：购物车条目引用失效才算数据完整性问题
	book, err := s.bookRepo.GetByID(bookID)
	if err != nil {
		return nil, err
	}
	if book == nil {
		return nil, ErrBookNotFound
	}

	sale := &models.Sale{
		ID:      uuid.NewString(),
		BuyerID: buyerID,
	}

	err = s.saleRepo.Transaction(func(tx *gorm.DB) error {
		bookRepo := s.bookRepo.WithTx(tx)
		saleRepo := s.saleRepo.WithTx(tx)

		item, err := reserveSaleItem(bookRepo, sale.ID, bookID, constants.DirectCheckoutQuantity)
		if err != nil {
			return err
		}
		sale.Items = []models.SaleItem{*item}
		return saleRepo.Create(sale)
	})
	if err != nil {
		return nil, err
	}
	return sale, nil
}

// reserveSaleItem 条件扣减库存并生成销售项（含单价快照）
func reserveSaleItem(bookRepo repository.BookRepository, saleID string, bookID uint, quantity int) (*models.SaleItem, error) {
	book, err := bookRepo.GetByID(bookID)
	if err != nil {
		return nil, err
	}
	if book == nil {
		// 购物车引用了不存在的图书
		return nil, ErrDataIntegrity
	}
	if book.StockQuantity < quantity {
		return nil, &InsufficientStockError{
			BookID:    bookID,
			Title:     book.Title,
			Remaining: book.StockQuantity,
			Requested: quantity,
		}
	}

	affected, err := bookRepo.DecrementStock(bookID, quantity)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		// 并发下被其他结算抢先，重读剩余量用于提示
		current, err := bookRepo.GetByID(bookID)
		if err != nil {
			return nil, err
		}
		remaining := 0
		if current != nil {
			remaining = current.StockQuantity
		}
		return nil, &InsufficientStockError{
			BookID:    bookID,
			Title:     book.Title,
			Remaining: remaining,
			Requested: quantity,
		}
	}

	return &models.SaleItem{
		SaleID:    saleID,
		BookID:    bookID,
		Quantity:  quantity,
		UnitPrice: book.Price,
	}, nil
}

// ListSalesAndPurchases 获取销售与购买总览
func (s *SaleService) ListSalesAndPurchases(userID uint) (*SalesOverview, error) {
	if userID == 0 {
		return nil, ErrNotFound
	}

	overview := &SalesOverview{
		Sales:     []SaleGroup{},
		Purchases: []SaleGroup{},
	}

	// 作者视角：名下图书的销售项按销售单分组
	items, err := s.saleRepo.ListItemsByAuthor(userID)
	if err != nil {
		return nil, err
	}
	saleIndex := map[string]int{}
	for _, item := range items {
		pos, ok := saleIndex[item.SaleID]
		if !ok {
			createdAt := item.CreatedAt
			if item.Sale != nil {
				createdAt = item.Sale.CreatedAt
			}
			saleIndex[item.SaleID] = len(overview.Sales)
			overview.Sales = append(overview.Sales, SaleGroup{
				SaleID:    item.SaleID,
				CreatedAt: createdAt,
			})
			pos = saleIndex[item.SaleID]
		}
		group := &overview.Sales[pos]
		group.Items = append(group.Items, item)
		group.TotalAmount = models.NewMoneyFromDecimal(group.TotalAmount.Add(item.LineTotal().Decimal))
	}

	// 买家视角：本人全部购买记录
	purchases, err := s.saleRepo.ListByBuyer(userID)
	if err != nil {
		return nil, err
	}
	for _, sale := range purchases {
		total := decimal.Zero
		for _, item := range sale.Items {
			total = total.Add(item.LineTotal().Decimal)
		}
		overview.Purchases = append(overview.Purchases, SaleGroup{
			SaleID:      sale.ID,
			CreatedAt:   sale.CreatedAt,
			Items:       sale.Items,
			TotalAmount: models.NewMoneyFromDecimal(total),
		})
	}

	return overview, nil
}
