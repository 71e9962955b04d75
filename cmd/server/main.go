package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/coderr-backend/internal/config"
	"github.com/ignatzorin/coderr-backend/internal/db"
	httpHandlers "github.com/ignatzorin/coderr-backend/internal/http/handlers"
	httpRouter "github.com/ignatzorin/coderr-backend/internal/http/router"
	"github.com/ignatzorin/coderr-backend/internal/logger"
	"github.com/ignatzorin/coderr-backend/internal/repository"
	"github.com/ignatzorin/coderr-backend/internal/service"
	"github.com/ignatzorin/coderr-backend/internal/storage"
)

func main() {
	// Готовим контекст для graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("main: ошибка загрузки конфигурации: %v", err)
	}

	logger.Init(cfg.Env)

	// Подключение к базе и миграции.
	dbConn, err := db.NewPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("main: ошибка подключения к базе: %v", err)
	}
	defer safeClose(dbConn)

	if err := db.RunMigrations(ctx, dbConn, cfg.MigrationsPath); err != nil {
		log.Fatalf("main: ошибка миграций: %v", err)
	}

	tokenManager := service.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTL)

	mediaStorage, err := storage.NewMediaStorage(cfg.MediaStoragePath, cfg.MaxUploadSizeMB)
	if err != nil {
		log.Fatalf("main: не удалось подготовить файловое хранилище: %v", err)
	}

	// Репозитории.
	userRepo := repository.NewUserRepository(dbConn)
	offerRepo := repository.NewOfferRepository(dbConn)
	orderRepo := repository.NewOrderRepository(dbConn)
	reviewRepo := repository.NewReviewRepository(dbConn)
	statsRepo := repository.NewStatsRepository(dbConn)

	// Сервисы.
	authService := service.NewAuthService(userRepo, tokenManager)
	profileService := service.NewProfileService(userRepo)
	offerService := service.NewOfferService(offerRepo, userRepo)
	orderService := service.NewOrderService(orderRepo, offerRepo, userRepo)
	reviewService := service.NewReviewService(reviewRepo, userRepo)
	statsService := service.NewStatsService(statsRepo)

	// HTTP хэндлеры.
	authHandler := httpHandlers.NewAuthHandler(authService)
	profileHandler := httpHandlers.NewProfileHandler(profileService, mediaStorage)
	offerHandler := httpHandlers.NewOfferHandler(offerService, mediaStorage)
	orderHandler := httpHandlers.NewOrderHandler(orderService)
	reviewHandler := httpHandlers.NewReviewHandler(reviewService)
	statsHandler := httpHandlers.NewStatsHandler(statsService)
	healthHandler := httpHandlers.NewHealthHandler(dbConn)

	engine := httpRouter.SetupRouter(cfg, authHandler, profileHandler, offerHandler, orderHandler, reviewHandler, statsHandler, healthHandler, tokenManager)

	server := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: engine,
	}

	// Завершаем сервер при получении сигнала.
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("main: ошибка остановки http сервера: %v", err)
		}
	}()

	log.Printf("main: HTTP сервер запущен на порту %s", cfg.HTTPPort)

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("main: сервер завершился с ошибкой: %v", err)
	}
}

// safeClose закрывает соединение с базой.
func safeClose(db *sqlx.DB) {
	if err := db.Close(); err != nil {
		log.Printf("main: ошибка закрытия базы: %v", err)
	}
}
