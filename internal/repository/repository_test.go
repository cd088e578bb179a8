package repository

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"gorm.io/gorm"

	apperrors "croplife/internal/errors"
	"croplife/internal/model"
)

func initTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to connect to in-memory db")

	// :memory: databases are per connection.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&model.Product{}, &model.AdminUser{}))
	return db
}

func sampleInput(title string) model.ProductInput {
	return model.ProductInput{
		Title:       title,
		Description: "A balanced organic fertilizer for all plants",
		Price:       "$25.99",
		Category:    model.CategoryFungicides,
		Image:       "https://example.com/a.png",
	}
}

var productBackends = map[string]func(t *testing.T) ProductRepository{
	"gorm":   func(t *testing.T) ProductRepository { return NewProductRepository(initTestDB(t)) },
	"memory": func(t *testing.T) ProductRepository { return NewMemoryProductRepository() },
}

var adminBackends = map[string]func(t *testing.T) AdminRepository{
	"gorm":   func(t *testing.T) AdminRepository { return NewAdminRepository(initTestDB(t)) },
	"memory": func(t *testing.T) AdminRepository { return NewMemoryAdminRepository() },
}

func TestProductRepository_CreateAndFind(t *testing.T) {
	for name, newRepo := range productBackends {
		t.Run(name, func(t *testing.T) {
			repo := newRepo(t)
			ctx := context.Background()

			product := model.NewProduct(sampleInput("EcoGrow"))
			require.NoError(t, repo.Create(ctx, product))
			assert.NotEqual(t, uuid.Nil, product.ID)
			assert.False(t, product.CreatedAt.IsZero())

			found, err := repo.FindByID(ctx, product.ID)
			require.NoError(t, err)
			assert.Equal(t, product.ID, found.ID)
			assert.Equal(t, "EcoGrow", found.Title)
			assert.Equal(t, model.CategoryFungicides, found.Category)
			assert.False(t, found.Featured)

			_, err = repo.FindByID(ctx, uuid.New())
			assert.ErrorIs(t, err, apperrors.ErrProductNotFound)
		})
	}
}

func TestProductRepository_ListNewestFirst(t *testing.T) {
	for name, newRepo := range productBackends {
		t.Run(name, func(t *testing.T) {
			repo := newRepo(t)
			ctx := context.Background()

			list, err := repo.List(ctx)
			require.NoError(t, err)
			assert.NotNil(t, list)
			assert.Empty(t, list)

			for _, title := range []string{"First", "Second", "Third"} {
				require.NoError(t, repo.Create(ctx, model.NewProduct(sampleInput(title))))
				time.Sleep(2 * time.Millisecond)
			}

			list, err = repo.List(ctx)
			require.NoError(t, err)
			require.Len(t, list, 3)
			assert.Equal(t, "Third", list[0].Title)
			assert.Equal(t, "Second", list[1].Title)
			assert.Equal(t, "First", list[2].Title)
		})
	}
}

func TestProductRepository_Update(t *testing.T) {
	for name, newRepo := range productBackends {
		t.Run(name, func(t *testing.T) {
			repo := newRepo(t)
			ctx := context.Background()

			in := sampleInput("EcoGrow")
			in.Featured = true
			product := model.NewProduct(in)
			require.NoError(t, repo.Create(ctx, product))

			replacement := sampleInput("EcoGrow Plus")
			replacement.Category = model.CategoryHerbicides
			replacement.Featured = false

			updated, err := repo.Update(ctx, product.ID, replacement)
			require.NoError(t, err)
			assert.Equal(t, product.ID, updated.ID)
			assert.Equal(t, "EcoGrow Plus", updated.Title)
			assert.Equal(t, model.CategoryHerbicides, updated.Category)
			assert.False(t, updated.Featured, "zero values must overwrite")
			assert.WithinDuration(t, product.CreatedAt, updated.CreatedAt, time.Second)

			missing := uuid.New()
			_, err = repo.Update(ctx, missing, replacement)
			assert.ErrorIs(t, err, apperrors.ErrProductNotFound)

			_, err = repo.FindByID(ctx, missing)
			assert.ErrorIs(t, err, apperrors.ErrProductNotFound, "update must not create")
		})
	}
}

func TestProductRepository_DeleteTwice(t *testing.T) {
	for name, newRepo := range productBackends {
		t.Run(name, func(t *testing.T) {
			repo := newRepo(t)
			ctx := context.Background()

			product := model.NewProduct(sampleInput("EcoGrow"))
			require.NoError(t, repo.Create(ctx, product))

			require.NoError(t, repo.Delete(ctx, product.ID))
			assert.ErrorIs(t, repo.Delete(ctx, product.ID), apperrors.ErrProductNotFound)
		})
	}
}

func TestAdminRepository_Singleton(t *testing.T) {
	for name, newRepo := range adminBackends {
		t.Run(name, func(t *testing.T) {
			repo := newRepo(t)
			ctx := context.Background()

			_, err := repo.Get(ctx)
			assert.ErrorIs(t, err, apperrors.ErrAdminNotFound)
			assert.ErrorIs(t, repo.Update(ctx, &model.AdminUser{Username: "x"}), apperrors.ErrAdminNotFound)

			require.NoError(t, repo.Create(ctx, &model.AdminUser{Username: "admin", PasswordHash: "h1"}))
			assert.ErrorIs(t, repo.Create(ctx, &model.AdminUser{Username: "other", PasswordHash: "h2"}), apperrors.ErrAdminExists)

			admin, err := repo.Get(ctx)
			require.NoError(t, err)
			assert.Equal(t, model.AdminSingletonID, admin.ID)
			assert.Equal(t, "admin", admin.Username)

			admin.Username = "farmer"
			admin.PasswordHash = "h3"
			require.NoError(t, repo.Update(ctx, admin))

			admin, err = repo.Get(ctx)
			require.NoError(t, err)
			assert.Equal(t, "farmer", admin.Username)
			assert.Equal(t, "h3", admin.PasswordHash)
		})
	}
}

func TestProductDocument_RoundTrip(t *testing.T) {
	p := model.NewProduct(sampleInput("EcoGrow"))
	p.ID = uuid.New()
	p.CreatedAt = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	p.UpdatedAt = p.CreatedAt

	doc := toProductDocument(p)
	assert.Equal(t, p.ID.String(), doc.ID)

	back, err := doc.toModel()
	require.NoError(t, err)
	assert.Equal(t, *p, back)

	doc.ID = "not-a-uuid"
	_, err = doc.toModel()
	assert.Error(t, err)
}

func TestProductDocument_BSONKeepsTimestamps(t *testing.T) {
	p := model.NewProduct(sampleInput("EcoGrow"))
	p.ID = uuid.New()
	p.CreatedAt = mongoNow()
	p.UpdatedAt = p.CreatedAt

	raw, err := bson.Marshal(toProductDocument(p))
	require.NoError(t, err)
	var doc productDocument
	require.NoError(t, bson.Unmarshal(raw, &doc))

	back, err := doc.toModel()
	require.NoError(t, err)
	assert.True(t, p.CreatedAt.Equal(back.CreatedAt), "%s != %s", p.CreatedAt, back.CreatedAt)
	assert.True(t, p.UpdatedAt.Equal(back.UpdatedAt))
}

func TestProductRepository_UpdateUnchangedRow(t *testing.T) {
	db := initTestDB(t)
	// Report zero affected rows like MySQL does for a no-op UPDATE.
	require.NoError(t, db.Callback().Update().After("gorm:update").Register("test:changed_rows", func(tx *gorm.DB) {
		tx.RowsAffected = 0
	}))
	repo := NewProductRepository(db)
	ctx := context.Background()

	p := model.NewProduct(sampleInput("EcoGrow"))
	require.NoError(t, repo.Create(ctx, p))

	got, err := repo.Update(ctx, p.ID, sampleInput("EcoGrow"))
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)

	_, err = repo.Update(ctx, uuid.New(), sampleInput("EcoGrow"))
	assert.ErrorIs(t, err, apperrors.ErrProductNotFound)
}
