package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/IKER-Finance/iker-finance-backend-sub000/internal/clock"
	"github.com/IKER-Finance/iker-finance-backend-sub000/internal/config"
	"github.com/IKER-Finance/iker-finance-backend-sub000/internal/database"
	_ "github.com/IKER-Finance/iker-finance-backend-sub000/internal/docs" // swagger docs
	"github.com/IKER-Finance/iker-finance-backend-sub000/internal/handlers"
	"github.com/IKER-Finance/iker-finance-backend-sub000/internal/logger"
	"github.com/IKER-Finance/iker-finance-backend-sub000/internal/middleware"
	"github.com/IKER-Finance/iker-finance-backend-sub000/internal/services"
	"github.com/IKER-Finance/iker-finance-backend-sub000/internal/validator"
)

// @title           IKER Finance API
// @version         1.0
// @description     Multi-currency budget tracking with transaction impact previews.

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
// @description Shared key used by the exchange-rate feed.

const shutdownTimeout = 15 * time.Second

func main() {
	if err := run(); err != nil {
		logger.Get().Errorf("Fatal error: %v", err)
		logger.Sync()
		os.Exit(1)
	}
	logger.Sync()
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	logger.Init(cfg.Env, cfg.LogLevel)
	log := logger.Get()

	dbManager, err := database.NewManager(cfg)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	defer func() {
		if err := dbManager.Close(); err != nil {
			log.Warnf("database close error: %v", err)
		}
	}()

	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	currencyCache, err := services.NewCurrencyCache(cfg.CurrencyCacheSize, cfg.CurrencyCacheTTL)
	if err != nil {
		return fmt.Errorf("failed to create currency cache: %w", err)
	}
	defer currencyCache.Close()

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	validator.Register()

	router := newRouter(cfg, dbManager.DB(), clock.System{}, currencyCache)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Infof("Starting IKER Finance API on port %s", cfg.Port)
		log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// newRouter wires services and handlers onto a gin engine.
func newRouter(cfg *config.Config, db *gorm.DB, clk clock.Clock, currencyCache *services.CurrencyCache) *gin.Engine {
	currencyService := services.NewCurrencyService(db, currencyCache)
	userService := services.NewUserService(db, currencyService)
	categoryService := services.NewCategoryService(db)
	rateService := services.NewExchangeRateService(db, clk, currencyService)
	transactionService := services.NewTransactionService(db, clk, currencyService)
	budgetService := services.NewBudgetService(db, clk, currencyService, cfg.SummaryConcurrency)
	auditService := services.NewAuditService(db)

	budgetHandler := handlers.NewBudgetHandler(budgetService, auditService)
	transactionHandler := handlers.NewTransactionHandler(transactionService, auditService)
	rateHandler := handlers.NewExchangeRateHandler(rateService, auditService)
	currencyHandler := handlers.NewCurrencyHandler(currencyService)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	profileHandler := handlers.NewProfileHandler(userService, auditService)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.CORS(cfg.CORSOrigin))
	router.Use(middleware.ErrorHandler())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")

	// Rate feed
	feed := v1.Group("/exchange-rates", middleware.RateFeedAuth(cfg.RateFeedAPIKey))
	feed.POST("", rateHandler.CreateExchangeRate)
	feed.DELETE("/:id", rateHandler.DeactivateExchangeRate)

	protected := v1.Group("",
		middleware.AuthMiddleware(middleware.TokenConfig{
			Secret: []byte(cfg.JWTSecret),
			Issuer: cfg.JWTIssuer,
		}),
		middleware.ProvisionUser(userService),
	)

	protected.GET("/profile", profileHandler.GetProfile)
	protected.PUT("/profile/home-currency", profileHandler.SetHomeCurrency)

	protected.GET("/currencies", currencyHandler.GetCurrencies)
	protected.GET("/currencies/:id", currencyHandler.GetCurrency)

	rates := protected.Group("/exchange-rates")
	rates.GET("", rateHandler.GetExchangeRates)
	rates.GET("/quote", rateHandler.GetQuote)
	rates.GET("/:id", rateHandler.GetExchangeRate)

	categories := protected.Group("/categories")
	categories.POST("", categoryHandler.CreateCategory)
	categories.GET("", categoryHandler.GetCategories)
	categories.GET("/:id", categoryHandler.GetCategory)

	transactions := protected.Group("/transactions")
	transactions.POST("", transactionHandler.CreateTransaction)
	transactions.GET("", transactionHandler.GetTransactions)
	transactions.GET("/:id", transactionHandler.GetTransaction)
	transactions.PUT("/:id", transactionHandler.UpdateTransaction)
	transactions.DELETE("/:id", transactionHandler.DeleteTransaction)

	budgets := protected.Group("/budgets")
	budgets.POST("", budgetHandler.CreateBudget)
	budgets.GET("", budgetHandler.GetBudgets)
	budgets.GET("/active", budgetHandler.GetActiveBudgets)
	budgets.POST("/preview-impact", budgetHandler.PreviewImpact)
	budgets.GET("/:id", budgetHandler.GetBudget)
	budgets.PUT("/:id", budgetHandler.UpdateBudget)
	budgets.DELETE("/:id", budgetHandler.DeleteBudget)
	budgets.PATCH("/:id/amount", budgetHandler.UpdateBudgetAmount)
	budgets.PATCH("/:id/status", budgetHandler.SetBudgetStatus)
	budgets.GET("/:id/summary", budgetHandler.GetBudgetSummary)

	return router
}
