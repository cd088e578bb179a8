package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	_ "croplife/docs" // swagger docs

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"croplife/internal/auth"
	"croplife/internal/cache"
	"croplife/internal/config"
	"croplife/internal/db"
	"croplife/internal/events"
	"croplife/internal/handler"
	"croplife/internal/logging"
	"croplife/internal/media"
	"croplife/internal/repository"
	"croplife/internal/router"
	"croplife/internal/service"
	"croplife/internal/validation"
)

// @title CropLife Catalog API
// @version 1.0
// @description Product catalog, media upload and admin panel API for the CropLife site.
// @host localhost:8080
// @BasePath /
// @schemes http
func main() {
	cfg := config.Load()

	logger, err := logging.New(cfg.LogLevel, cfg.IsProduction())
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger init: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.UsingDefaultSecret() {
		logger.Warn("JWT_SECRET is not set; sessions are signed with the public development secret")
	}

	productRepo, adminRepo, closeStore, err := openStores(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	cacheStore, closeCache := newCache(ctx, cfg, logger)
	defer closeCache()

	publisher := newPublisher(cfg, logger)
	defer publisher.Close()

	uploader := newUploader(cfg, logger)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	tokenStore := auth.NewTokenStore(cacheStore)

	// Initialize services
	validator := validation.New()
	pageService := service.NewPageService(productRepo, cacheStore, cfg.PageCacheTTL)
	productService := service.NewProductService(productRepo, validator, pageService, publisher)
	authService := service.NewAuthService(adminRepo, jwtService, tokenStore, validator)
	uploadService := service.NewUploadService(uploader)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Register routes
	router.Register(e, cfg, logger, authService, router.Handlers{
		Product: handler.NewProductHandler(productService),
		Upload:  handler.NewUploadHandler(uploadService),
		Admin:   handler.NewAdminHandler(authService, productService, cfg.IsProduction()),
		Page:    handler.NewPageHandler(pageService),
	})

	logger.Info("swagger documentation available", zap.String("url", strings.TrimSuffix(cfg.BaseURL, "/")+"/swagger/index.html"))

	errCh := make(chan error, 1)
	go func() {
		addr := ":" + cfg.ServerPort
		logger.Info("server listening", zap.String("addr", addr), zap.String("db_driver", cfg.DBDriver))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server start: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

// openStores connects the configured backend and returns its repositories.
func openStores(ctx context.Context, cfg *config.Config, logger *zap.Logger) (repository.ProductRepository, repository.AdminRepository, func(), error) {
	switch cfg.DBDriver {
	case "memory":
		logger.Warn("DB_DRIVER=memory; products and credentials are lost on restart")
		return repository.NewMemoryProductRepository(), repository.NewMemoryAdminRepository(), func() {}, nil
	case "mongo":
		client, database, err := db.NewMongo(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("database init: %w", err)
		}
		logger.Info("connected to mongo", zap.String("database", cfg.MongoDB))
		return repository.NewMongoProductRepository(database),
			repository.NewMongoAdminRepository(database),
			func() { disconnect(client, logger) },
			nil
	}

	gormDB, err := db.Open(cfg.DBDriver, cfg.DatabaseDSN)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("database init: %w", err)
	}
	if err := db.Migrate(gormDB); err != nil {
		return nil, nil, nil, err
	}
	closeFn := func() {
		if sqlDB, err := gormDB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	logger.Info("connected to database", zap.String("driver", cfg.DBDriver))
	return repository.NewProductRepository(gormDB), repository.NewAdminRepository(gormDB), closeFn, nil
}

// newCache returns the page and revocation store selected by CACHE_DRIVER.
func newCache(ctx context.Context, cfg *config.Config, logger *zap.Logger) (cache.Store, func()) {
	if cfg.CacheDriver == "memory" {
		logger.Info("using in-process cache; revoked sessions are forgotten on restart")
		return cache.NewMemory(), func() {}
	}

	client := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx); err != nil {
		logger.Warn("redis unavailable; page cache and session revocation disabled", zap.String("addr", cfg.RedisAddr), zap.Error(err))
	}
	return client, func() { _ = client.Close() }
}

func disconnect(client *mongo.Client, logger *zap.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Disconnect(ctx); err != nil {
		logger.Warn("mongo disconnect", zap.Error(err))
	}
}

func newPublisher(cfg *config.Config, logger *zap.Logger) events.Publisher {
	if len(cfg.KafkaBrokers) == 0 {
		logger.Info("KAFKA_BROKERS not set; product events disabled")
		return events.NopPublisher{}
	}
	logger.Info("publishing product events", zap.Strings("brokers", cfg.KafkaBrokers), zap.String("topic", cfg.KafkaTopic))
	return events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
}

func newUploader(cfg *config.Config, logger *zap.Logger) media.Uploader {
	uploader, err := media.NewCloudinaryUploader(media.CloudinaryConfig{
		URL:       cfg.CloudinaryURL,
		CloudName: cfg.CloudinaryCloudName,
		APIKey:    cfg.CloudinaryAPIKey,
		APISecret: cfg.CloudinaryAPISecret,
		Folder:    cfg.UploadFolder,
	})
	if err != nil {
		logger.Warn("media host not configured; uploads will fail", zap.Error(err))
		return media.Unconfigured{}
	}
	return uploader
}
