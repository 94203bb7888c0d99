package repo

import (
	"context"
	"fmt"

	"github.com/rogerio-castellano/frame-storefront/internal/models"
	"github.com/rogerio-castellano/frame-storefront/internal/pricing"
)

type TopCategory struct {
	Name         string `json:"name"`
	ProductCount int    `json:"product_count"`
}

// Metrics is the admin dashboard summary of the catalog. UnpricedProducts
// holds the IDs of products none of whose listed sizes can be priced in the
// product's own format and set type.
type Metrics struct {
	TotalProducts     int         `json:"total_products"`
	TotalGalleryItems int         `json:"total_gallery_items"`
	UnpricedProducts  []string    `json:"unpriced_products"`
	TopCategory       TopCategory `json:"top_category"`
}

type MetricsRepository interface {
	GetDashboardMetrics(ctx context.Context) (Metrics, error)
}

// CatalogMetricsRepository derives the dashboard from the catalog and gallery
// sources.
type CatalogMetricsRepository struct {
	products ProductRepository
	gallery  GalleryRepository
}

func NewCatalogMetricsRepository(products ProductRepository, gallery GalleryRepository) *CatalogMetricsRepository {
	return &CatalogMetricsRepository{products: products, gallery: gallery}
}

func (r *CatalogMetricsRepository) GetDashboardMetrics(ctx context.Context) (Metrics, error) {
	m := Metrics{UnpricedProducts: []string{}}

	products, err := r.products.GetAll(ctx)
	if err != nil {
		return m, fmt.Errorf("failed to load products: %w", err)
	}
	m.TotalProducts = len(products)

	if r.gallery != nil {
		items, err := r.gallery.List(ctx)
		if err != nil {
			return m, fmt.Errorf("failed to load gallery: %w", err)
		}
		m.TotalGalleryItems = len(items)
	}

	perCategory := map[string]int{}
	for _, p := range products {
		if p.Category != "" {
			perCategory[p.Category]++
			c := perCategory[p.Category]
			if c > m.TopCategory.ProductCount || (c == m.TopCategory.ProductCount && p.Category < m.TopCategory.Name) {
				m.TopCategory = TopCategory{Name: p.Category, ProductCount: c}
			}
		}
		if !priceable(p) {
			m.UnpricedProducts = append(m.UnpricedProducts, p.ID)
		}
	}

	return m, nil
}

func priceable(p models.Product) bool {
	format, err := pricing.ParseFormat(p.Format)
	if err != nil {
		format = pricing.Rolled
	}
	setType, err := pricing.ParseSetType(p.Subsection)
	if err != nil {
		setType = pricing.Basic
	}

	sizes := p.Sizes
	if len(sizes) == 0 {
		sizes = []string{p.Size}
	}
	for _, s := range sizes {
		if _, ok := pricing.Resolve(s, format, setType); ok {
			return true
		}
	}
	return false
}
