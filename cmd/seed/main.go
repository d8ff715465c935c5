package main

import (
	"time"

	"github.com/bookmart-next/internal/config"
	"github.com/bookmart-next/internal/constants"
	"github.com/bookmart-next/internal/logger"
	"github.com/bookmart-next/internal/models"

	"golang.org/x/crypto/bcrypt"
)

func main() {
	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte("Passw0rd!"), bcrypt.DefaultCost)
	if err != nil {
		stdLog.Fatalf("Failed to hash seed password: %v", err)
	}

	birthDate := time.Date(1980, 4, 23, 0, 0, 0, 0, time.UTC)
	users := []models.User{
		{
			Email:        "author@example.com",
			PasswordHash: string(passwordHash),
			FirstName:    "Alice",
			LastName:     "Author",
			BirthDate:    &birthDate,
			IsAuthor:     true,
			Status:       constants.UserStatusActive,
		},
		{
			Email:        "reader@example.com",
			PasswordHash: string(passwordHash),
			FirstName:    "Bob",
			LastName:     "Reader",
			Status:       constants.UserStatusActive,
		},
	}
	for i := range users {
		if err := models.DB.Where("email = ?", users[i].Email).FirstOrCreate(&users[i]).Error; err != nil {
			stdLog.Fatalf("Failed to seed user %s: %v", users[i].Email, err)
		}
	}

	books := []models.Book{
		{
			Title:         "The Silent Harbor",
			AuthorID:      users[0].ID,
			Genre:         "fiction",
			Description:   "A slow-burn mystery set in a fading port town.",
			Price:         models.MustMoneyFromString("29.90"),
			StockQuantity: 25,
		},
		{
			Title:         "Gardens of Glass",
			AuthorID:      users[0].ID,
			Genre:         "poetry",
			Description:   "Collected poems, 2012-2024.",
			Price:         models.MustMoneyFromString("14.50"),
			StockQuantity: 40,
		},
		{
			Title:         "Practical Tidal Modeling",
			AuthorID:      users[0].ID,
			Genre:         "science",
			Description:   "An applied introduction with worked examples.",
			Price:         models.MustMoneyFromString("56.00"),
			StockQuantity: 8,
		},
	}
	for i := range books {
		if err := models.DB.Where("title = ? AND author_id = ?", books[i].Title, books[i].AuthorID).FirstOrCreate(&books[i]).Error; err != nil {
			stdLog.Fatalf("Failed to seed book %s: %v", books[i].Title, err)
		}
	}

	stdLog.Printf("Seed finished: %d users, %d books", len(users), len(books))
}
