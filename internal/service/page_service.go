package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"croplife/internal/cache"
	"croplife/internal/logging"
	"croplife/internal/model"
	"croplife/internal/repository"
)

// Cache keys of the public pages that render product data. Stored entries
// are suffixed with the generation current when the page was read, so a
// snapshot taken before a write can never be served after it.
const (
	HomePageKey    = "page:/"
	CatalogPageKey = "page:/products"

	listingGenerationKey = "page:gen"
)

// ProductPageKey returns the cache key of a product detail page.
func ProductPageKey(id uuid.UUID) string {
	return "page:/products/" + id.String()
}

func productGenerationKey(id uuid.UUID) string {
	return "page:gen:/products/" + id.String()
}

func versioned(key string, gen int64) string {
	return key + "#" + strconv.FormatInt(gen, 10)
}

// HomePage is the data behind the landing page.
type HomePage struct {
	Featured []model.Product `json:"featured"`
}

// CatalogPage is the data behind the product listing page. Filtering by
// category and search happen client side.
type CatalogPage struct {
	Products   []model.Product `json:"products"`
	Categories []string        `json:"categories"`
}

// ProductPage is the data behind a product detail page.
type ProductPage struct {
	Product model.Product `json:"product"`
}

// PageService serves cached public page data and invalidates it on writes.
type PageService interface {
	Home(ctx context.Context) (*HomePage, error)
	Catalog(ctx context.Context) (*CatalogPage, error)
	ProductDetail(ctx context.Context, rawID string) (*ProductPage, error)
	// Revalidate drops the listing pages and, for a non-nil id, that
	// product's detail page.
	Revalidate(ctx context.Context, id uuid.UUID)
}

type pageService struct {
	repo  repository.ProductRepository
	cache cache.Store
	ttl   time.Duration
}

// NewPageService creates a new page service.
func NewPageService(repo repository.ProductRepository, store cache.Store, ttl time.Duration) PageService {
	return &pageService{
		repo:  repo,
		cache: store,
		ttl:   ttl,
	}
}

// Home returns featured products, newest first.
func (s *pageService) Home(ctx context.Context) (*HomePage, error) {
	var page HomePage
	key := s.pageKey(ctx, HomePageKey, listingGenerationKey)
	if s.load(ctx, key, &page) {
		return &page, nil
	}

	products, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	page.Featured = make([]model.Product, 0, len(products))
	for _, p := range products {
		if p.Featured {
			page.Featured = append(page.Featured, p)
		}
	}

	s.store(ctx, key, &page)
	return &page, nil
}

// Catalog returns every product with the category filter options.
func (s *pageService) Catalog(ctx context.Context) (*CatalogPage, error) {
	var page CatalogPage
	key := s.pageKey(ctx, CatalogPageKey, listingGenerationKey)
	if s.load(ctx, key, &page) {
		return &page, nil
	}

	products, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	page.Products = products
	page.Categories = model.Categories

	s.store(ctx, key, &page)
	return &page, nil
}

// ProductDetail returns a single product page.
func (s *pageService) ProductDetail(ctx context.Context, rawID string) (*ProductPage, error) {
	id, err := ParseProductID(rawID)
	if err != nil {
		return nil, err
	}

	var page ProductPage
	key := s.pageKey(ctx, ProductPageKey(id), productGenerationKey(id))
	if s.load(ctx, key, &page) {
		return &page, nil
	}

	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find product %s: %w", id, err)
	}
	page.Product = *product

	s.store(ctx, key, &page)
	return &page, nil
}

// Revalidate moves the listing pages and, for a non-nil id, that product's
// page to a new generation, then drops the entries of the previous one.
func (s *pageService) Revalidate(ctx context.Context, id uuid.UUID) {
	s.bump(ctx, listingGenerationKey, HomePageKey, CatalogPageKey)
	if id != uuid.Nil {
		s.bump(ctx, productGenerationKey(id), ProductPageKey(id))
	}
}

func (s *pageService) bump(ctx context.Context, genKey string, pages ...string) {
	gen, err := s.cache.Incr(ctx, genKey)
	if err != nil {
		logging.FromContext(ctx).Warn("revalidate pages", zap.String("generation", genKey), zap.Error(err))
		return
	}
	if gen <= 0 {
		return
	}
	stale := make([]string, 0, len(pages))
	for _, p := range pages {
		stale = append(stale, versioned(p, gen-1))
	}
	if err := s.cache.Delete(ctx, stale...); err != nil {
		logging.FromContext(ctx).Warn("drop stale pages", zap.Strings("keys", stale), zap.Error(err))
	}
}

// pageKey must be called before the repository read it caches.
func (s *pageService) pageKey(ctx context.Context, page, genKey string) string {
	var gen int64
	if data, _ := s.cache.Get(ctx, genKey); data != nil {
		gen, _ = strconv.ParseInt(string(data), 10, 64)
	}
	return versioned(page, gen)
}

func (s *pageService) load(ctx context.Context, key string, dst interface{}) bool {
	data, _ := s.cache.Get(ctx, key)
	if data == nil {
		return false
	}
	return json.Unmarshal(data, dst) == nil
}

func (s *pageService) store(ctx context.Context, key string, page interface{}) {
	if s.ttl <= 0 {
		return
	}
	data, err := json.Marshal(page)
	if err != nil {
		return
	}
	_ = s.cache.Set(ctx, key, data, s.ttl)
}
