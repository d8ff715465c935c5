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

func setupBookServiceTest(t *testing.T) (*BookService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:book_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Book{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return NewBookService(repository.NewBookRepository(db), repository.NewUserRepository(db)), db
}

func createBookTestUser(t *testing.T, db *gorm.DB, email string, isAuthor bool) *models.User {
	t.Helper()
	user := models.User{
		Email:        email,
		PasswordHash: "hash",
		FirstName:    "Ada",
		Status:       constants.UserStatusActive,
		IsAuthor:     isAuthor,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	return &user
}

func TestBookServiceCreatePermissions(t *testing.T) {
	svc, db := setupBookServiceTest(t)
	author := createBookTestUser(t, db, "create_author@example.com", true)
	reader := createBookTestUser(t, db, "create_reader@example.com", false)

	input := CreateBookInput{
		Title:         "  静海之港  ",
		Genre:         "fiction",
		Price:         models.NewMoneyFromDecimal(decimal.RequireFromString("29.90")),
		StockQuantity: 25,
	}

	if _, err := svc.Create(reader.ID, input); !errors.Is(err, ErrNotAuthor) {
		t.Fatalf("expected not-author error, got: %v", err)
	}

	book, err := svc.Create(author.ID, input)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if book.Title != "静海之港" {
		t.Fatalf("expected trimmed title, got: %q", book.Title)
	}
	if book.AuthorID != author.ID {
		t.Fatalf("expected author id %d, got %d", author.ID, book.AuthorID)
	}

	if _, err := svc.Create(author.ID, CreateBookInput{Title: "   "}); !errors.Is(err, ErrInvalidTitle) {
		t.Fatalf("expected invalid title, got: %v", err)
	}
	if _, err := svc.Create(author.ID, CreateBookInput{Title: "负库存", StockQuantity: -1}); !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("expected invalid quantity, got: %v", err)
	}
}

func TestBookServiceUpdateOwnership(t *testing.T) {
	svc, db := setupBookServiceTest(t)
	owner := createBookTestUser(t, db, "owner@example.com", true)
	rival := createBookTestUser(t, db, "rival@example.com", true)

	book, err := svc.Create(owner.ID, CreateBookInput{
		Title:         "初版",
		Price:         models.NewMoneyFromDecimal(decimal.RequireFromString("10.00")),
		StockQuantity: 5,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	newTitle := "修订版"
	newStock := 8
	if _, err := svc.Update(rival.ID, book.ID, UpdateBookInput{Title: &newTitle}); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("expected permission denied for non-owner, got: %v", err)
	}

	updated, err := svc.Update(owner.ID, book.ID, UpdateBookInput{Title: &newTitle, StockQuantity: &newStock})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Title != "修订版" || updated.StockQuantity != 8 {
		t.Fatalf("unexpected updated book: %+v", updated)
	}
	// 未提供的字段保持不变
	if !updated.Price.Equal(decimal.RequireFromString("10.00")) {
		t.Fatalf("expected price unchanged, got: %s", updated.Price.String())
	}

	if err := svc.Delete(rival.ID, book.ID); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("expected permission denied on delete, got: %v", err)
	}
	if err := svc.Delete(owner.ID, book.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := svc.GetByID(book.ID); !errors.Is(err, ErrBookNotFound) {
		t.Fatalf("expected book gone after delete, got: %v", err)
	}
}

func TestBookServiceListFilters(t *testing.T) {
	svc, db := setupBookServiceTest(t)
	author1 := createBookTestUser(t, db, "list_author1@example.com", true)
	author2 := createBookTestUser(t, db, "list_author2@example.com", true)

	seed := []struct {
		authorID uint
		title    string
		genre    string
	}{
		{author1.ID, "潮汐建模实务", "science"},
		{author1.ID, "玻璃花园", "fiction"},
		{author2.ID, "静海之港", "fiction"},
	}
	for _, s := range seed {
		if _, err := svc.Create(s.authorID, CreateBookInput{
			Title:         s.title,
			Genre:         s.genre,
			Price:         models.NewMoneyFromDecimal(decimal.NewFromInt(10)),
			StockQuantity: 3,
		}); err != nil {
			t.Fatalf("seed book failed: %v", err)
		}
	}

	books, total, err := svc.List(BookListInput{Genre: "fiction"})
	if err != nil {
		t.Fatalf("list by genre failed: %v", err)
	}
	if total != 2 || len(books) != 2 {
		t.Fatalf("expected 2 fiction books, got total=%d len=%d", total, len(books))
	}

	books, total, err = svc.List(BookListInput{AuthorID: author1.ID})
	if err != nil {
		t.Fatalf("list by author failed: %v", err)
	}
	if total != 2 {
		t.Fatalf("expected 2 books for author1, got %d", total)
	}
	for _, b := range books {
		if b.AuthorID != author1.ID {
			t.Fatalf("unexpected author in result: %+v", b)
		}
	}

	books, total, err = svc.List(BookListInput{Search: "花园"})
	if err != nil {
		t.Fatalf("list by search failed: %v", err)
	}
	if total != 1 || books[0].Title != "玻璃花园" {
		t.Fatalf("unexpected search result: total=%d %+v", total, books)
	}

	// 分页参数越界时回落到默认值
	books, _, err = svc.List(BookListInput{Page: -1, PageSize: 100000})
	if err != nil {
		t.Fatalf("list with wild paging failed: %v", err)
	}
	if len(books) != 3 {
		t.Fatalf("expected all 3 books, got %d", len(books))
	}
}
