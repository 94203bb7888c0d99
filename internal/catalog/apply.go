package catalog

import (
	"cmp"
	"slices"
	"time"

	"github.com/rogerio-castellano/frame-storefront/internal/models"
)

// Apply runs the shop pipeline over products, which must already be in the
// base (shuffled) order: facet filters, price bounds, sort, then the format
// and set-type chips. The input slice is not modified.
func Apply(products []models.Product, f FilterState, format, set Chip) []models.Product {
	result := make([]models.Product, 0, len(products))
	for _, p := range products {
		if Matches(p, f) && InPriceRange(p, f) {
			result = append(result, p)
		}
	}

	sortProducts(result, f.SortBy)

	return slices.DeleteFunc(result, func(p models.Product) bool {
		return !matchesChips(p, format, set)
	})
}

func sortProducts(products []models.Product, key SortKey) {
	switch key {
	case SortPriceLow:
		slices.SortStableFunc(products, func(a, b models.Product) int {
			return cmp.Compare(a.Price, b.Price)
		})
	case SortPriceHigh:
		slices.SortStableFunc(products, func(a, b models.Product) int {
			return cmp.Compare(b.Price, a.Price)
		})
	case SortNewest:
		slices.SortStableFunc(products, func(a, b models.Product) int {
			return CreatedAt(b).Compare(CreatedAt(a))
		})
	}
	// popular keeps the shuffled base order
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02 15:04:05.999999-07",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// CreatedAt parses the product's creation timestamp. Missing or unparseable
// values give the zero time, which sorts as the earliest.
func CreatedAt(p models.Product) time.Time {
	if p.CreatedAt == "" {
		return time.Time{}
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, p.CreatedAt); err == nil {
			return t
		}
	}
	return time.Time{}
}
