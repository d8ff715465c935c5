package router

import (
	"fmt"

	"github.com/bookmart-next/internal/cache"
	"github.com/bookmart-next/internal/config"
	publichandlers "github.com/bookmart-next/internal/http/handlers/public"
	"github.com/bookmart-next/internal/logger"
	"github.com/bookmart-next/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	publicHandler := publichandlers.New(c)
	redisClient := cache.Client()
	loginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:login", cache.Prefix()),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		BlockSeconds:  cfg.Security.LoginRateLimit.BlockSeconds,
		MessageKey:    "error.login_too_many",
	}

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	// API 路由组
	apiV1 := r.Group("/api/v1")
	{
		// 用户认证接口
		auth := apiV1.Group("/auth")
		{
			auth.POST("/register", publicHandler.UserRegister)
			auth.POST("/login", RateLimitMiddleware(redisClient, loginRule, KeyByIPAndJSONField("email")), publicHandler.UserLogin)
		}

		// 图书浏览（公开）
		apiV1.GET("/books", publicHandler.ListBooks)
		apiV1.GET("/books/:id", publicHandler.GetBook)

		// 用户接口（需鉴权）
		user := apiV1.Group("")
		user.Use(UserJWTAuthMiddleware(cfg.UserJWT.SecretKey, c.UserRepo))
		{
			user.GET("/me", publicHandler.GetProfile)
			user.DELETE("/me", publicHandler.DeactivateUser)
			user.POST("/users/:id/activate-author", publicHandler.ActivateAuthor)

			// 图书管理（作者）
			user.POST("/books", publicHandler.CreateBook)
			user.PUT("/books/:id", publicHandler.UpdateBook)
			user.DELETE("/books/:id", publicHandler.DeleteBook)

			// 购物车
			user.GET("/cart", publicHandler.GetCart)
			user.POST("/cart/items", publicHandler.AddCartItem)
			user.POST("/cart/items/remove", publicHandler.RemoveCartItem)

			// 结算与销售
			user.POST("/checkout/cart", publicHandler.CheckoutCart)
			user.POST("/checkout/direct/:book_id", publicHandler.CheckoutDirect)
			user.GET("/sales", publicHandler.ListSales)
		}
	}

	return r
}
