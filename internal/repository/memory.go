package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	apperrors "croplife/internal/errors"
	"croplife/internal/model"
)

// MemoryProductRepository keeps products in process memory. It is safe for
// concurrent use and backs tests and DB_DRIVER=memory runs.
type MemoryProductRepository struct {
	mu       sync.RWMutex
	products map[uuid.UUID]*memoryProduct
	seq      uint64
	now      func() time.Time
}

type memoryProduct struct {
	product model.Product
	seq     uint64
}

var _ ProductRepository = (*MemoryProductRepository)(nil)

// NewMemoryProductRepository creates an empty in-memory product store.
func NewMemoryProductRepository() *MemoryProductRepository {
	return &MemoryProductRepository{
		products: make(map[uuid.UUID]*memoryProduct),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// List returns copies of all products, newest first. Products created in the
// same instant keep reverse insertion order.
func (r *MemoryProductRepository) List(_ context.Context) ([]model.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := make([]*memoryProduct, 0, len(r.products))
	for _, e := range r.products {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if !a.product.CreatedAt.Equal(b.product.CreatedAt) {
			return a.product.CreatedAt.After(b.product.CreatedAt)
		}
		return a.seq > b.seq
	})

	out := make([]model.Product, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.product)
	}
	return out, nil
}

func (r *MemoryProductRepository) FindByID(_ context.Context, id uuid.UUID) (*model.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.products[id]
	if !ok {
		return nil, apperrors.ErrProductNotFound
	}
	p := e.product
	return &p, nil
}

func (r *MemoryProductRepository) Create(_ context.Context, product *model.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	now := r.now()
	product.CreatedAt = now
	product.UpdatedAt = now
	r.seq++
	r.products[product.ID] = &memoryProduct{product: *product, seq: r.seq}
	return nil
}

func (r *MemoryProductRepository) Update(_ context.Context, id uuid.UUID, in model.ProductInput) (*model.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.products[id]
	if !ok {
		return nil, apperrors.ErrProductNotFound
	}
	e.product.Apply(in)
	e.product.UpdatedAt = r.now()
	p := e.product
	return &p, nil
}

func (r *MemoryProductRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[id]; !ok {
		return apperrors.ErrProductNotFound
	}
	delete(r.products, id)
	return nil
}

// MemoryAdminRepository holds the admin singleton in process memory.
type MemoryAdminRepository struct {
	mu    sync.Mutex
	admin *model.AdminUser
}

var _ AdminRepository = (*MemoryAdminRepository)(nil)

// NewMemoryAdminRepository creates an admin store with no record.
func NewMemoryAdminRepository() *MemoryAdminRepository {
	return &MemoryAdminRepository{}
}

func (r *MemoryAdminRepository) Get(_ context.Context) (*model.AdminUser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.admin == nil {
		return nil, apperrors.ErrAdminNotFound
	}
	a := *r.admin
	return &a, nil
}

func (r *MemoryAdminRepository) Create(_ context.Context, admin *model.AdminUser) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.admin != nil {
		return apperrors.ErrAdminExists
	}
	now := time.Now().UTC()
	admin.ID = model.AdminSingletonID
	admin.CreatedAt = now
	admin.UpdatedAt = now
	a := *admin
	r.admin = &a
	return nil
}

func (r *MemoryAdminRepository) Update(_ context.Context, admin *model.AdminUser) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.admin == nil {
		return apperrors.ErrAdminNotFound
	}
	r.admin.Username = admin.Username
	r.admin.PasswordHash = admin.PasswordHash
	r.admin.UpdatedAt = time.Now().UTC()
	admin.UpdatedAt = r.admin.UpdatedAt
	return nil
}
