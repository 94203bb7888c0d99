package catalog

import (
	"github.com/rogerio-castellano/frame-storefront/internal/models"
	"github.com/rogerio-castellano/frame-storefront/internal/pricing"
)

// DisplayPrice is the card price shown when the shopper has narrowed to a
// format and at least one size. It prices the first selected size using the
// set chip, or the product's own set type when no chip is active. The boolean
// is false when no override applies; the card then shows the base price.
func DisplayPrice(p models.Product, f FilterState, format, set Chip) (int, bool) {
	if !format.active() || len(f.Sizes) == 0 {
		return 0, false
	}

	setType := pricing.SetType(set)
	if !set.active() {
		setType = pricing.SetType(p.Subsection)
		if setType == "" {
			setType = pricing.Basic
		}
	}
	return pricing.Resolve(f.Sizes[0], pricing.Format(format), setType)
}
