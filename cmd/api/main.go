// cmd/api/main.go
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/robfig/cron/v3"

	"bill-tracker/internal/auth"
	"bill-tracker/internal/bankfeed"
	"bill-tracker/internal/config"
	"bill-tracker/internal/handler"
	"bill-tracker/internal/middleware"
	"bill-tracker/internal/storage/postgres"
)

func main() {
	// Настройка логгера
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := config.MustLoad()

	pool, err := pgxpool.New(context.Background(), cfg.DBConn)
	if err != nil {
		slog.Error("Не удалось подключиться к БД", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := pool.Ping(context.Background()); err != nil {
		slog.Error("Ping БД не удался", "error", err)
		os.Exit(1)
	}
	slog.Info("✅ Подключились к PostgreSQL")

	store := postgres.NewStorage(pool)

	// Ежедневный пересчёт кэша просрочки
	scheduler := cron.New()
	if _, err := scheduler.AddFunc("@daily", func() {
		if err := store.RefreshPastDueDays(context.Background()); err != nil {
			slog.Error("Не удалось пересчитать просрочку", "error", err)
			return
		}
		slog.Info("Кэш просрочки пересчитан")
	}); err != nil {
		slog.Error("Не удалось настроить cron", "error", err)
		os.Exit(1)
	}
	scheduler.Start()
	defer scheduler.Stop()

	// JWT
	tokenService := auth.NewTokenService(cfg)
	authMiddleware := middleware.NewAuthMiddleware(tokenService)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.POST("/api/v1/login", func(c *gin.Context) {
		var req struct {
			UserID int64 `json:"user_id" binding:"required,min=1"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "user_id required"})
			return
		}
		token, err := tokenService.GenerateToken(req.UserID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "token generation failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"token": token})
	})

	billHandler := handler.NewBillHandler(store)
	payoffHandler := handler.NewPayoffHandler(store)
	accountHandler := handler.NewAccountHandler(store)
	goalHandler := handler.NewGoalHandler(store)
	txHandler := handler.NewTransactionHandler(store)

	v1 := router.Group("/api/v1")
	v1.Use(authMiddleware.RequireAuth())
	{
		v1.POST("/bills", billHandler.Create)
		v1.GET("/bills", billHandler.List)
		v1.GET("/bills/summary", billHandler.Summary)
		v1.GET("/bills/:id", billHandler.Get)
		v1.PUT("/bills/:id", billHandler.Update)
		v1.DELETE("/bills/:id", billHandler.Delete)
		v1.POST("/bills/:id/snooze", billHandler.Snooze)
		v1.POST("/bills/:id/pay", billHandler.MarkPaid)
		v1.POST("/bills/:id/unpay", billHandler.MarkUnpaid)

		v1.POST("/payoff/plan", payoffHandler.Plan)

		v1.POST("/accounts", accountHandler.Create)
		v1.GET("/accounts", accountHandler.List)
		v1.GET("/accounts/liquid-balance", accountHandler.LiquidBalance)
		v1.GET("/accounts/:id", accountHandler.Get)
		v1.PUT("/accounts/:id", accountHandler.Update)
		v1.DELETE("/accounts/:id", accountHandler.Delete)

		v1.POST("/goals", goalHandler.Create)
		v1.GET("/goals", goalHandler.List)
		v1.GET("/goals/:id", goalHandler.Get)
		v1.PUT("/goals/:id", goalHandler.Update)
		v1.DELETE("/goals/:id", goalHandler.Delete)
		v1.POST("/goals/:id/progress", goalHandler.AddProgress)

		v1.POST("/transactions", txHandler.Create)
		v1.GET("/transactions", txHandler.List)

		// синхронизация с банком включается только при настроенном прокси
		if cfg.BankFeedURL != "" {
			syncer := bankfeed.NewSyncer(bankfeed.NewClient(cfg.BankFeedURL, cfg.BankFeedToken), store)
			v1.POST("/sync/bank", handler.NewSyncHandler(syncer).Run)
		}
	}

	slog.Info("🚀 Сервер запущен", "port", cfg.ServerPort)
	if err := router.Run(cfg.ServerPort); err != nil {
		slog.Error("Сервер завершил работу с ошибкой", "error", err)
	}
}
