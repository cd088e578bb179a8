package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	apperrors "croplife/internal/errors"
	"croplife/internal/model"
)

// ProductRepository defines product persistence operations. Lookups by an
// unknown id return apperrors.ErrProductNotFound.
type ProductRepository interface {
	// List returns every product, newest first.
	List(ctx context.Context) ([]model.Product, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	Create(ctx context.Context, product *model.Product) error
	// Update replaces the writable fields of an existing product and returns
	// the stored result. It never creates a record.
	Update(ctx context.Context, id uuid.UUID, in model.ProductInput) (*model.Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type productRepository struct {
	db *gorm.DB
}

// NewProductRepository creates a GORM-backed product repository.
func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

// List lists all products sorted by creation time, newest first.
func (r *productRepository) List(ctx context.Context) ([]model.Product, error) {
	products := make([]model.Product, 0)
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// FindByID finds a product by ID.
func (r *productRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	var product model.Product
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrProductNotFound
		}
		return nil, err
	}
	return &product, nil
}

// Create creates a new product.
func (r *productRepository) Create(ctx context.Context, product *model.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

// Update overwrites every writable column, including zero values.
func (r *productRepository) Update(ctx context.Context, id uuid.UUID, in model.ProductInput) (*model.Product, error) {
	changes := model.NewProduct(in)
	changes.UpdatedAt = time.Now().UTC()

	res := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("id = ?", id).
		Select("Title", "Description", "Price", "Category", "Image", "Featured", "UpdatedAt").
		Updates(changes)
	if res.Error != nil {
		return nil, res.Error
	}
	// MySQL counts changed rather than matched rows, so RowsAffected cannot
	// tell an unchanged product from a missing one. FindByID decides.
	return r.FindByID(ctx, id)
}

// Delete removes a product.
func (r *productRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Product{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrProductNotFound
	}
	return nil
}
