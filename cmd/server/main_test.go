package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"croplife/internal/cache"
	"croplife/internal/config"
	"croplife/internal/model"
	"croplife/internal/repository"
)

func TestOpenStores_Memory(t *testing.T) {
	cfg := &config.Config{DBDriver: "memory"}

	products, admins, closeFn, err := openStores(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	defer closeFn()

	assert.IsType(t, &repository.MemoryProductRepository{}, products)
	assert.IsType(t, &repository.MemoryAdminRepository{}, admins)
}

func TestOpenStores_SQLite(t *testing.T) {
	cfg := &config.Config{DBDriver: "sqlite", DatabaseDSN: filepath.Join(t.TempDir(), "croplife.db")}
	ctx := context.Background()

	products, _, closeFn, err := openStores(ctx, cfg, zap.NewNop())
	require.NoError(t, err)
	defer closeFn()

	require.NoError(t, products.Create(ctx, &model.Product{Title: "EcoGrow", Category: model.CategoryOther}))
	list, err := products.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestNewCache(t *testing.T) {
	store, closeFn := newCache(context.Background(), &config.Config{CacheDriver: "memory"}, zap.NewNop())
	defer closeFn()
	assert.IsType(t, &cache.Memory{}, store)

	// An unreachable redis still yields a usable store.
	cfg := &config.Config{CacheDriver: "redis", RedisAddr: "127.0.0.1:1"}
	store, closeFn = newCache(context.Background(), cfg, zap.NewNop())
	defer closeFn()
	assert.IsType(t, &cache.Client{}, store)
	v, err := store.Get(context.Background(), "page:/")
	assert.NoError(t, err)
	assert.Nil(t, v)
}
