package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"croplife/internal/errors"
	"croplife/internal/events"
	"croplife/internal/logging"
	"croplife/internal/model"
	"croplife/internal/repository"
	"croplife/internal/validation"
)

// Summaries returned with field errors on rejected writes.
const (
	MsgCreateFailed = "Failed to create product."
	MsgUpdateFailed = "Failed to update product."
)

// ProductService handles catalog operations.
type ProductService interface {
	List(ctx context.Context) ([]model.Product, error)
	Get(ctx context.Context, rawID string) (*model.Product, error)
	Create(ctx context.Context, in model.ProductInput) (*model.Product, error)
	// Update replaces every writable field of an existing product.
	Update(ctx context.Context, rawID string, in model.ProductInput) (*model.Product, error)
	Delete(ctx context.Context, rawID string) error
}

type productService struct {
	repo      repository.ProductRepository
	validator *validation.Validator
	pages     PageService
	publisher events.Publisher
}

// NewProductService creates a new product service. pages and publisher may
// be nil.
func NewProductService(repo repository.ProductRepository, validator *validation.Validator, pages PageService, publisher events.Publisher) ProductService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &productService{
		repo:      repo,
		validator: validator,
		pages:     pages,
		publisher: publisher,
	}
}

// ParseProductID checks id format before any store access.
func ParseProductID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, errors.ErrInvalidProductID
	}
	return id, nil
}

// List returns all products, newest first.
func (s *productService) List(ctx context.Context) ([]model.Product, error) {
	products, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

// Get retrieves a product by its id string.
func (s *productService) Get(ctx context.Context, rawID string) (*model.Product, error) {
	id, err := ParseProductID(rawID)
	if err != nil {
		return nil, err
	}
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find product %s: %w", id, err)
	}
	return product, nil
}

// Create validates in and stores a new product.
func (s *productService) Create(ctx context.Context, in model.ProductInput) (*model.Product, error) {
	if err := s.validate(in, MsgCreateFailed); err != nil {
		return nil, err
	}

	product := model.NewProduct(in)
	if err := s.repo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	s.afterWrite(ctx, events.ProductCreated, product.ID, product.Title)
	return product, nil
}

// Update validates in and overwrites the stored product. Missing products
// are never created.
func (s *productService) Update(ctx context.Context, rawID string, in model.ProductInput) (*model.Product, error) {
	id, err := ParseProductID(rawID)
	if err != nil {
		return nil, err
	}
	if err := s.validate(in, MsgUpdateFailed); err != nil {
		return nil, err
	}

	product, err := s.repo.Update(ctx, id, in)
	if err != nil {
		return nil, fmt.Errorf("update product %s: %w", id, err)
	}

	s.afterWrite(ctx, events.ProductUpdated, product.ID, product.Title)
	return product, nil
}

// Delete removes a product.
func (s *productService) Delete(ctx context.Context, rawID string) error {
	id, err := ParseProductID(rawID)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete product %s: %w", id, err)
	}

	s.afterWrite(ctx, events.ProductDeleted, id, "")
	return nil
}

func (s *productService) validate(in model.ProductInput, summary string) error {
	err := s.validator.Validate(&in)
	if err == nil {
		return nil
	}
	fields, ok := validation.FieldErrors(err)
	if !ok {
		return fmt.Errorf("validate product: %w", err)
	}
	return errors.NewValidationError(summary, fields)
}

// afterWrite drops stale page data and announces the change. Neither step
// can fail the write that already committed.
func (s *productService) afterWrite(ctx context.Context, eventType string, id uuid.UUID, title string) {
	if s.pages != nil {
		s.pages.Revalidate(ctx, id)
	}
	if err := s.publisher.Publish(ctx, events.ProductEvent{Type: eventType, ProductID: id, Title: title}); err != nil {
		logging.FromContext(ctx).Warn("publish product event",
			zap.String("type", eventType),
			zap.Stringer("product_id", id),
			zap.Error(err),
		)
	}
}
