package cache

import (
	"context"

	"go.uber.org/zap"

	"github.com/rogerio-castellano/frame-storefront/internal/models"
	"github.com/rogerio-castellano/frame-storefront/internal/repo"
)

// CachedProductRepository reads the catalog through a Store. Cache failures
// are logged and fall through to the wrapped repository.
type CachedProductRepository struct {
	next  repo.ProductRepository
	store Store
	log   *zap.Logger
}

func NewCachedProductRepository(next repo.ProductRepository, store Store, log *zap.Logger) *CachedProductRepository {
	if log == nil {
		log = zap.NewNop()
	}
	return &CachedProductRepository{next: next, store: store, log: log.Named("cache")}
}

func (r *CachedProductRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	products, ok, err := r.store.Get(ctx)
	if err != nil {
		r.log.Warn("catalog cache read failed", zap.Error(err))
	}
	if ok {
		return products, nil
	}

	products, err = r.next.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	if err := r.store.Set(ctx, products); err != nil {
		r.log.Warn("catalog cache write failed", zap.Error(err))
	}
	return products, nil
}

func (r *CachedProductRepository) GetByID(ctx context.Context, id string) (models.Product, error) {
	products, ok, err := r.store.Get(ctx)
	if err == nil && ok {
		for _, p := range products {
			if p.ID == id {
				return p, nil
			}
		}
	}
	return r.next.GetByID(ctx, id)
}

// Invalidate drops the cached snapshot so the next read goes to the source.
func (r *CachedProductRepository) Invalidate(ctx context.Context) error {
	return r.store.Delete(ctx)
}
