package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"croplife/internal/config"
	"croplife/internal/db"
	"croplife/internal/logging"
	"croplife/internal/model"
	"croplife/internal/repository"
	"croplife/internal/validation"
)

func main() {
	cfg := config.Load()

	logger, err := logging.New(cfg.LogLevel, cfg.IsProduction())
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger init: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("starting seed script", zap.String("db_driver", cfg.DBDriver))

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	repo, closeFn, err := openProductRepository(ctx, cfg)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer closeFn()

	created, err := seedProducts(ctx, repo, validation.New(), starterCatalog)
	if err != nil {
		logger.Fatal("failed to seed products", zap.Error(err))
	}
	if created == 0 {
		logger.Info("catalog already has products; nothing seeded")
		return
	}
	logger.Info("seed completed successfully", zap.Int("products_created", created))
}

func openProductRepository(ctx context.Context, cfg *config.Config) (repository.ProductRepository, func(), error) {
	if cfg.DBDriver == "mongo" {
		client, database, err := db.NewMongo(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return nil, nil, err
		}
		return repository.NewMongoProductRepository(database), func() { _ = client.Disconnect(context.Background()) }, nil
	}

	gormDB, err := db.Open(cfg.DBDriver, cfg.DatabaseDSN)
	if err != nil {
		return nil, nil, err
	}
	// Run migrations to ensure schema is up to date
	if err := db.Migrate(gormDB); err != nil {
		return nil, nil, err
	}
	closeFn := func() {
		if sqlDB, err := gormDB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	return repository.NewProductRepository(gormDB), closeFn, nil
}

// seedProducts inserts catalog into an empty store. Items are written last
// to first so the newest-first listing matches catalog order. A store that
// already holds products is left alone.
func seedProducts(ctx context.Context, repo repository.ProductRepository, v *validation.Validator, catalog []model.ProductInput) (int, error) {
	existing, err := repo.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("list products: %w", err)
	}
	if len(existing) > 0 {
		return 0, nil
	}

	created := 0
	for i := len(catalog) - 1; i >= 0; i-- {
		in := catalog[i]
		if err := v.Validate(&in); err != nil {
			return created, fmt.Errorf("invalid catalog entry %q: %w", in.Title, err)
		}
		if err := repo.Create(ctx, model.NewProduct(in)); err != nil {
			return created, fmt.Errorf("create product %q: %w", in.Title, err)
		}
		created++
	}
	return created, nil
}
