package provider

import (
	"github.com/bookmart-next/internal/cache"
	"github.com/bookmart-next/internal/config"
	"github.com/bookmart-next/internal/logger"
	"github.com/bookmart-next/internal/models"
	"github.com/bookmart-next/internal/repository"
	"github.com/bookmart-next/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config *config.Config

	// Repositories
	UserRepo repository.UserRepository
	BookRepo repository.BookRepository
	CartRepo repository.CartRepository
	SaleRepo repository.SaleRepository

	// Services
	UserAuthService *service.UserAuthService
	BookService     *service.BookService
	CartService     *service.CartService
	SaleService     *service.SaleService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	c := &Container{Config: cfg}

	// 1. 初始化 Repositories
	c.initRepositories()

	// 2. 初始化 Services
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.UserRepo = repository.NewUserRepository(db)
	c.BookRepo = repository.NewBookRepository(db)
	c.CartRepo = repository.NewCartRepository(db)
	c.SaleRepo = repository.NewSaleRepository(db)
}

func (c *Container) initServices() {
	c.UserAuthService = service.NewUserAuthService(c.Config, c.UserRepo)
	c.BookService = service.NewBookService(c.BookRepo, c.UserRepo)
	c.CartService = service.NewCartService(c.CartRepo, c.BookRepo)
	c.SaleService = service.NewSaleService(c.SaleRepo, c.CartRepo, c.BookRepo)
}
