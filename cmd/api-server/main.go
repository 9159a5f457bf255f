package main

import (
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"bookshare/database"
	"bookshare/internal/cache"
	"bookshare/internal/config"
	"bookshare/internal/httpapi/handler"
	"bookshare/internal/httpapi/middleware"
	"bookshare/internal/httpapi/repository"
	"bookshare/internal/httpapi/service"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	db, err := database.Connect(cfg, logger)
	if err != nil {
		log.Fatalf("could not connect to database: %v", err)
	}

	catalogCache, err := cache.NewCatalogCache(cfg.RedisAddr, cfg.RedisPassword, cfg.CacheTTL)
	if err != nil {
		log.Fatalf("could not connect to redis: %v", err)
	}
	if catalogCache == nil {
		logger.Info("catalog cache disabled (no REDIS_ADDR)")
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	bookRepo := repository.NewBookRepository(db)
	borrowingRepo := repository.NewBorrowingRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)
	ratingRepo := repository.NewRatingRepository(db)

	// Services
	catalogService := service.NewCatalogService(bookRepo, userRepo, catalogCache)
	loanService := service.NewLoanService(bookRepo, userRepo, borrowingRepo, catalogCache)
	userService := service.NewUserService(userRepo, bookRepo, borrowingRepo, transactionRepo, ratingRepo)
	ratingService := service.NewRatingService(ratingRepo, userRepo)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst).Middleware())

	api := r.Group("/api")
	api.GET("/healthcheck", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	handler.NewBookHandler(catalogService).RegisterRoutes(api)
	handler.NewBorrowHandler(loanService).RegisterRoutes(api)
	handler.NewUserHandler(userService).RegisterRoutes(api)
	handler.NewRatingHandler(ratingService).RegisterRoutes(api)

	addr := fmt.Sprintf(":%d", cfg.HTTPPort)
	logger.Info("starting HTTP server", "addr", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
