package repo

import (
	"context"
	"errors"

	"github.com/rogerio-castellano/frame-storefront/internal/backend"
	"github.com/rogerio-castellano/frame-storefront/internal/models"
)

// CatalogClient is the part of the backend client the product repository uses.
type CatalogClient interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
	GetProduct(ctx context.Context, id string) (models.Product, error)
}

// BackendProductRepository reads the catalog through the hosted backend's
// edge functions.
type BackendProductRepository struct {
	client CatalogClient
}

func NewBackendProductRepository(client CatalogClient) *BackendProductRepository {
	return &BackendProductRepository{client: client}
}

func (r *BackendProductRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	return r.client.ListProducts(ctx)
}

func (r *BackendProductRepository) GetByID(ctx context.Context, id string) (models.Product, error) {
	p, err := r.client.GetProduct(ctx, id)
	if errors.Is(err, backend.ErrNotFound) {
		return models.Product{}, ErrProductNotFound
	}
	return p, err
}
