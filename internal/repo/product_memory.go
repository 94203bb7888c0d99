package repo

import (
	"context"
	"slices"
	"sync"

	"github.com/rogerio-castellano/frame-storefront/internal/models"
)

// InMemoryProductRepository is an in-memory implementation of ProductRepository.
type InMemoryProductRepository struct {
	mu       sync.RWMutex
	products []models.Product
}

// NewInMemoryProductRepository creates a repository holding a copy of seed.
func NewInMemoryProductRepository(seed ...models.Product) *InMemoryProductRepository {
	return &InMemoryProductRepository{products: slices.Clone(seed)}
}

// GetAll retrieves all products in insertion order.
func (r *InMemoryProductRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]models.Product{}, r.products...), nil
}

// GetByID retrieves a product by its ID.
func (r *InMemoryProductRepository) GetByID(ctx context.Context, id string) (models.Product, error) {
	if err := ctx.Err(); err != nil {
		return models.Product{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.products {
		if p.ID == id {
			return p, nil
		}
	}
	return models.Product{}, ErrProductNotFound
}

// Put adds p, replacing any product with the same ID.
func (r *InMemoryProductRepository) Put(p models.Product) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.products {
		if r.products[i].ID == p.ID {
			r.products[i] = p
			return
		}
	}
	r.products = append(r.products, p)
}

func (r *InMemoryProductRepository) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products = []models.Product{}
}
