package catalog

import (
	"regexp"
	"slices"
	"strings"

	"github.com/rogerio-castellano/frame-storefront/internal/models"
)

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// Slug is the URL segment used for product names and categories.
func Slug(s string) string {
	return nonSlug.ReplaceAllString(strings.ToLower(s), "-")
}

// ProductPath is the storefront link for a product card.
func ProductPath(p models.Product) string {
	category := p.Category
	if category == "" {
		category = "all"
	}
	name := p.Name
	if name == "" {
		name = "item"
	}
	return "/product/" + Slug(category) + "/" + Slug(name)
}

// FindBySlug returns the first product whose name slug equals slug.
func FindBySlug(products []models.Product, slug string) (models.Product, bool) {
	for _, p := range products {
		name := p.Name
		if name == "" {
			name = "item"
		}
		if Slug(name) == slug {
			return p, true
		}
	}
	return models.Product{}, false
}

// Related returns up to limit other products from the same category.
func Related(products []models.Product, of models.Product, limit int) []models.Product {
	related := []models.Product{}
	for _, p := range products {
		if len(related) == limit {
			break
		}
		if p.Category == of.Category && p.ID != of.ID {
			related = append(related, p)
		}
	}
	return related
}

// Newest returns the n most recently created products.
func Newest(products []models.Product, n int) []models.Product {
	sorted := slices.Clone(products)
	sortProducts(sorted, SortNewest)
	return sorted[:clamp(n, 0, len(sorted))]
}
