package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/satraksha/hazard-backend/internal/classifier"
	"github.com/satraksha/hazard-backend/internal/config"
	"github.com/satraksha/hazard-backend/internal/db"
	httpHandlers "github.com/satraksha/hazard-backend/internal/http/handlers"
	httpRouter "github.com/satraksha/hazard-backend/internal/http/router"
	"github.com/satraksha/hazard-backend/internal/logger"
	"github.com/satraksha/hazard-backend/internal/notifier"
	"github.com/satraksha/hazard-backend/internal/repository"
	"github.com/satraksha/hazard-backend/internal/service"
	"github.com/satraksha/hazard-backend/internal/storage"
	"github.com/satraksha/hazard-backend/internal/ws"
)

func main() {
	// Готовим контекст для graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("main: ошибка загрузки конфигурации: %v", err)
	}

	// Инициализация логгера
	logLevel := "info"
	if cfg.Env == "development" {
		logLevel = "debug"
		logger.Init(logLevel)
		logger.SetTextFormatter()
	} else {
		logger.Init(logLevel)
	}

	// Подключение к базе и миграции.
	dbConn, err := db.NewPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("main: ошибка подключения к базе: %v", err)
	}
	defer safeClose(dbConn)

	if err := db.RunMigrations(ctx, dbConn, cfg.MigrationsPath); err != nil {
		log.Fatalf("main: ошибка миграций: %v", err)
	}

	// Инициализируем вспомогательные сервисы.
	tokenManager := service.NewTokenManager(cfg.JWTSecret, cfg.RefreshSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)

	blobStorage, err := storage.NewS3Storage(ctx, storage.S3Config{
		Endpoint:  cfg.S3Endpoint,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
		Bucket:    cfg.S3Bucket,
		Region:    cfg.S3Region,
		UseSSL:    cfg.S3UseSSL,
		URLTTL:    cfg.S3URLTTL,
	})
	if err != nil {
		log.Fatalf("main: не удалось подготовить blob-хранилище: %v", err)
	}

	classifierClient := classifier.NewClient(cfg.ClassifierBaseURL)
	emailNotifier := notifier.NewEmailNotifier(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.FromEmail, cfg.AlertRecipient)

	// Репозитории.
	userRepo := repository.NewUserRepository(dbConn)
	hazardRepo := repository.NewHazardRepository(dbConn)
	locationRepo := repository.NewLocationRepository(dbConn)
	voteRepo := repository.NewVoteRepository(dbConn)
	commentRepo := repository.NewCommentRepository(dbConn)
	notificationRepo := repository.NewNotificationRepository(dbConn)

	// Вебсокеты.
	hub := ws.NewHub(ctx)
	go hub.Run()

	// Сервисы.
	authService := service.NewAuthService(userRepo, tokenManager)
	userService := service.NewUserService(userRepo)
	locationService := service.NewLocationService(locationRepo, cfg.NearbyRadiusKM)
	notificationService := service.NewNotificationService(notificationRepo)
	hub.SetNotificationSaver(notificationService)

	hazardService := service.NewHazardService(
		hazardRepo,
		locationService,
		classifierClient,
		blobStorage,
		emailNotifier,
		hub,
		notificationRepo,
		cfg,
	)
	voteService := service.NewVoteService(voteRepo, hazardRepo)
	commentService := service.NewCommentService(commentRepo, hazardRepo)

	// HTTP хэндлеры.
	authHandler := httpHandlers.NewAuthHandler(authService)
	profileHandler := httpHandlers.NewProfileHandler(userService)
	hazardHandler := httpHandlers.NewHazardHandler(hazardService, cfg.MaxUploadSizeMB)
	locationHandler := httpHandlers.NewLocationHandler(locationService)
	voteHandler := httpHandlers.NewVoteHandler(voteService)
	commentHandler := httpHandlers.NewCommentHandler(commentService)
	notificationHandler := httpHandlers.NewNotificationHandler(notificationService)
	wsHandler := httpHandlers.NewWSHandler(hub, tokenManager)
	healthHandler := httpHandlers.NewHealthHandler(dbConn)

	// Роутер.
	engine := httpRouter.SetupRouter(
		cfg,
		authHandler,
		profileHandler,
		hazardHandler,
		locationHandler,
		voteHandler,
		commentHandler,
		notificationHandler,
		wsHandler,
		healthHandler,
		tokenManager,
	)

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
