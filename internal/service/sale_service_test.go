package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/bookmart-next/internal/constants"
	"github.com/bookmart-next/internal/models"
	"github.com/bookmart-next/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupSaleServiceTest(t *testing.T) (*SaleService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:sale_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Book{},
		&models.CartEntry{},
		&models.Sale{},
		&models.SaleItem{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	saleRepo := repository.NewSaleRepository(db)
	cartRepo := repository.NewCartRepository(db)
	bookRepo := repository.NewBookRepository(db)
	return NewSaleService(saleRepo, cartRepo, bookRepo), db
}

func createSaleTestAuthor(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	user := models.User{
		Email:        email,
		PasswordHash: "hash",
		FirstName:    "Ada",
		Status:       constants.UserStatusActive,
		IsAuthor:     true,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create author failed: %v", err)
	}
	return &user
}

func createSaleTestBook(t *testing.T, db *gorm.DB, authorID uint, title string, price string, stock int) *models.Book {
	t.Helper()
	book := models.Book{
		Title:         title,
		AuthorID:      authorID,
		Genre:         "fiction",
		Price:         models.NewMoneyFromDecimal(decimal.RequireFromString(price)),
		StockQuantity: stock,
	}
	if err := db.Create(&book).Error; err != nil {
		t.Fatalf("create book failed: %v", err)
	}
	return &book
}

func reloadSaleTestBook(t *testing.T, db *gorm.DB, id uint) *models.Book {
	t.Helper()
	var book models.Book
	if err := db.First(&book, id).Error; err != nil {
		t.Fatalf("reload book failed: %v", err)
	}
	return &book
}

func TestSaleServiceCheckoutCart(t *testing.T) {
	svc, db := setupSaleServiceTest(t)
	author := createSaleTestAuthor(t, db, "checkout_author@example.com")
	book1 := createSaleTestBook(t, db, author.ID, "潮汐模型", "20.00", 10)
	book2 := createSaleTestBook(t, db, author.ID, "玻璃花园", "15.50", 5)

	const buyerID = uint(99)
	entries := []models.CartEntry{
		{UserID: buyerID, BookID: book1.ID, Quantity: 2},
		{UserID: buyerID, BookID: book2.ID, Quantity: 1},
		// 同一本书的重复行在结算时必须先汇总
		{UserID: buyerID, BookID: book1.ID, Quantity: 1},
	}
	if err := db.Create(&entries).Error; err != nil {
		t.Fatalf("seed cart failed: %v", err)
	}

	sale, err := svc.CheckoutCart(buyerID)
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}
	if sale.ID == "" {
		t.Fatalf("expected sale id to be assigned")
	}
	if len(sale.Items) != 2 {
		t.Fatalf("expected 2 sale items, got %d", len(sale.Items))
	}
	if !sale.TotalAmount().Equal(decimal.RequireFromString("75.50")) {
		t.Fatalf("unexpected sale total: %s", sale.TotalAmount().String())
	}

	if got := reloadSaleTestBook(t, db, book1.ID).StockQuantity; got != 7 {
		t.Fatalf("expected book1 stock 7, got %d", got)
	}
	if got := reloadSaleTestBook(t, db, book2.ID).StockQuantity; got != 4 {
		t.Fatalf("expected book2 stock 4, got %d", got)
	}

	var cartCount int64
	if err := db.Model(&models.CartEntry{}).Where("user_id = ?", buyerID).Count(&cartCount).Error; err != nil {
		t.Fatalf("count cart failed: %v", err)
	}
	if cartCount != 0 {
		t.Fatalf("expected cart cleared, got %d rows", cartCount)
	}
}

func TestSaleServiceCheckoutCartEmpty(t *testing.T) {
	svc, _ := setupSaleServiceTest(t)
	if _, err := svc.CheckoutCart(42); !errors.Is(err, ErrEmptyCart) {
		t.Fatalf("expected empty cart error, got: %v", err)
	}
}

func TestSaleServiceCheckoutCartRollsBackOnShortage(t *testing.T) {
	svc, db := setupSaleServiceTest(t)
	author := createSaleTestAuthor(t, db, "rollback_author@example.com")
	book1 := createSaleTestBook(t, db, author.ID, "库存充足", "20.00", 10)
	book2 := createSaleTestBook(t, db, author.ID, "库存不足", "15.50", 1)

	const buyerID = uint(7)
	entries := []models.CartEntry{
		{UserID: buyerID, BookID: book1.ID, Quantity: 2},
		{UserID: buyerID, BookID: book2.ID, Quantity: 3},
	}
	if err := db.Create(&entries).Error; err != nil {
		t.Fatalf("seed cart failed: %v", err)
	}

	_, err := svc.CheckoutCart(buyerID)
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("expected insufficient stock, got: %v", err)
	}
	var stockErr *InsufficientStockError
	if !errors.As(err, &stockErr) {
		t.Fatalf("expected typed stock error, got: %T", err)
	}
	if stockErr.BookID != book2.ID || stockErr.Remaining != 1 || stockErr.Requested != 3 {
		t.Fatalf("unexpected stock error detail: %+v", stockErr)
	}

	// 失败的整单必须完全回滚：库存、购物车、销售单都不变
	if got := reloadSaleTestBook(t, db, book1.ID).StockQuantity; got != 10 {
		t.Fatalf("expected book1 stock untouched, got %d", got)
	}
	var saleCount, cartCount int64
	if err := db.Model(&models.Sale{}).Count(&saleCount).Error; err != nil {
		t.Fatalf("count sales failed: %v", err)
	}
	if saleCount != 0 {
		t.Fatalf("expected no sale written, got %d", saleCount)
	}
	if err := db.Model(&models.CartEntry{}).Where("user_id = ?", buyerID).Count(&cartCount).Error; err != nil {
		t.Fatalf("count cart failed: %v", err)
	}
	if cartCount != 2 {
		t.Fatalf("expected cart untouched, got %d rows", cartCount)
	}
}

func TestSaleServiceCheckoutDrainsStockToZero(t *testing.T) {
	svc, db := setupSaleServiceTest(t)
	author := createSaleTestAuthor(t, db, "lastcopy_author@example.com")
	book := createSaleTestBook(t, db, author.ID, "最后一本", "30.00", 1)

	// 结算允许把库存扣到 0
	sale, err := svc.CheckoutDirect(5, book.ID)
	if err != nil {
		t.Fatalf("first direct checkout failed: %v", err)
	}
	if len(sale.Items) != 1 || sale.Items[0].Quantity != constants.DirectCheckoutQuantity {
		t.Fatalf("unexpected sale items: %+v", sale.Items)
	}
	if got := reloadSaleTestBook(t, db, book.ID).StockQuantity; got != 0 {
		t.Fatalf("expected stock 0, got %d", got)
	}

	// 第二次购买同一本书应当失败
	_, err = svc.CheckoutDirect(6, book.ID)
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("expected insufficient stock, got: %v", err)
	}
}

func TestSaleServiceUnitPriceSnapshot(t *testing.T) {
	svc, db := setupSaleServiceTest(t)
	author := createSaleTestAuthor(t, db, "snapshot_author@example.com")
	book := createSaleTestBook(t, db, author.ID, "快照测试", "25.00", 10)

	sale, err := svc.CheckoutDirect(3, book.ID)
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}

	// 成交后改价不影响历史销售项
	if err := db.Model(&models.Book{}).Where("id = ?", book.ID).
		Update("price", models.NewMoneyFromDecimal(decimal.RequireFromString("99.00"))).Error; err != nil {
		t.Fatalf("update price failed: %v", err)
	}

	var item models.SaleItem
	if err := db.Where("sale_id = ?", sale.ID).First(&item).Error; err != nil {
		t.Fatalf("load sale item failed: %v", err)
	}
	if !item.UnitPrice.Equal(decimal.RequireFromString("25.00")) {
		t.Fatalf("expected snapshot price 25.00, got %s", item.UnitPrice.String())
	}
}

func TestSaleServiceListSalesAndPurchases(t *testing.T) {
	svc, db := setupSaleServiceTest(t)
	author := createSaleTestAuthor(t, db, "overview_author@example.com")
	other := createSaleTestAuthor(t, db, "overview_other@example.com")
	book1 := createSaleTestBook(t, db, author.ID, "作者甲的书一", "10.00", 20)
	book2 := createSaleTestBook(t, db, author.ID, "作者甲的书二", "12.00", 20)
	otherBook := createSaleTestBook(t, db, other.ID, "作者乙的书", "8.00", 20)

	// 作者甲本人购买了作者乙的书
	if _, err := svc.CheckoutDirect(author.ID, otherBook.ID); err != nil {
		t.Fatalf("author purchase failed: %v", err)
	}
	// 另一位买家一单买走作者甲的两本书
	entries := []models.CartEntry{
		{UserID: other.ID, BookID: book1.ID, Quantity: 2},
		{UserID: other.ID, BookID: book2.ID, Quantity: 1},
	}
	if err := db.Create(&entries).Error; err != nil {
		t.Fatalf("seed cart failed: %v", err)
	}
	buyerSale, err := svc.CheckoutCart(other.ID)
	if err != nil {
		t.Fatalf("cart checkout failed: %v", err)
	}

	overview, err := svc.ListSalesAndPurchases(author.ID)
	if err != nil {
		t.Fatalf("overview failed: %v", err)
	}

	if len(overview.Sales) != 1 {
		t.Fatalf("expected 1 sale group, got %d", len(overview.Sales))
	}
	group := overview.Sales[0]
	if group.SaleID != buyerSale.ID {
		t.Fatalf("unexpected sale group id: %s", group.SaleID)
	}
	if len(group.Items) != 2 {
		t.Fatalf("expected 2 items in sale group, got %d", len(group.Items))
	}
	if !group.TotalAmount.Equal(decimal.RequireFromString("32.00")) {
		t.Fatalf("unexpected sale group total: %s", group.TotalAmount.String())
	}

	if len(overview.Purchases) != 1 {
		t.Fatalf("expected 1 purchase group, got %d", len(overview.Purchases))
	}
	purchase := overview.Purchases[0]
	if len(purchase.Items) != 1 || purchase.Items[0].BookID != otherBook.ID {
		t.Fatalf("unexpected purchase items: %+v", purchase.Items)
	}
	if !purchase.TotalAmount.Equal(decimal.RequireFromString("8.00")) {
		t.Fatalf("unexpected purchase total: %s", purchase.TotalAmount.String())
	}

	// 作者乙的总览不应混入作者甲的销售
	otherOverview, err := svc.ListSalesAndPurchases(other.ID)
	if err != nil {
		t.Fatalf("other overview failed: %v", err)
	}
	if len(otherOverview.Sales) != 1 || otherOverview.Sales[0].Items[0].BookID != otherBook.ID {
		t.Fatalf("unexpected sales for other author: %+v", otherOverview.Sales)
	}
	if len(otherOverview.Purchases) != 1 || otherOverview.Purchases[0].SaleID != buyerSale.ID {
		t.Fatalf("unexpected purchases for other author: %+v", otherOverview.Purchases)
	}
}

func TestSaleServiceCheckoutDirectUnknownBook(t *testing.T) {
	svc, db := setupSaleServiceTest(t)
	author := createSaleTestAuthor(t, db, "direct_missing_author@example.com")
	book := createSaleTestBook(t, db, author.ID, "已下架", "20.00", 5)

	// 不存在的图书按未找到处理
	_, err := svc.CheckoutDirect(4, book.ID+100)
	if !errors.Is(err, ErrBookNotFound) {
		t.Fatalf("expected book not found, got: %v", err)
	}

	// 已删除的图书同样按未找到处理
	if err := db.Delete(&models.Book{}, book.ID).Error; err != nil {
		t.Fatalf("delete book failed: %v", err)
	}
	_, err = svc.CheckoutDirect(4, book.ID)
	if !errors.Is(err, ErrBookNotFound) {
		t.Fatalf("expected book not found for deleted book, got: %v", err)
	}
}

func TestSaleServiceSaleGroupUsesSaleTimestamp(t *testing.T) {
	svc, db := setupSaleServiceTest(t)
	author := createSaleTestAuthor(t, db, "timestamp_author@example.com")
	book := createSaleTestBook(t, db, author.ID, "时间戳测试", "15.00", 5)

	sale, err := svc.CheckoutDirect(8, book.ID)
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}

	// 人为把销售单时间改到过去，分组时间应跟随销售单而不是销售项
	past := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	if err := db.Model(&models.Sale{}).Where("id = ?", sale.ID).
		Update("created_at", past).Error; err != nil {
		t.Fatalf("backdate sale failed: %v", err)
	}

	overview, err := svc.ListSalesAndPurchases(author.ID)
	if err != nil {
		t.Fatalf("overview failed: %v", err)
	}
	if len(overview.Sales) != 1 {
		t.Fatalf("expected 1 sale group, got %d", len(overview.Sales))
	}
	if got := overview.Sales[0].CreatedAt; got.Unix() != past.Unix() {
		t.Fatalf("expected sale group time %v, got %v", past, got)
	}
}
