package repo

import (
	"context"
	"errors"

	"github.com/rogerio-castellano/frame-storefront/internal/models"
)

var ErrProductNotFound = errors.New("product not found")

// ProductRepository is a read-only catalog source. The storefront never
// writes products; the hosted backend owns them.
type ProductRepository interface {
	GetAll(ctx context.Context) ([]models.Product, error)
	GetByID(ctx context.Context, id string) (models.Product, error)
}
