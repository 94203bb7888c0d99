package catalog

import (
	"slices"

	"github.com/rogerio-castellano/frame-storefront/internal/models"
	"github.com/rogerio-castellano/frame-storefront/internal/pricing"
)

// Matches reports whether p satisfies every non-empty facet group in f. Groups
// combine with AND; values inside a group combine with OR.
func Matches(p models.Product, f FilterState) bool {
	if len(f.Rooms) > 0 && !slices.Contains(f.Rooms, p.EffectiveRoom()) {
		return false
	}
	if len(f.Layouts) > 0 && !slices.Contains(f.Layouts, p.Layout) {
		return false
	}
	if len(f.Sizes) > 0 && !matchesSize(p, f.Sizes) {
		return false
	}
	if len(f.Colors) > 0 && !anyIn(p.Colors, f.Colors) {
		return false
	}
	if len(f.Materials) > 0 && !slices.Contains(f.Materials, p.Material) {
		return false
	}
	if len(f.Categories) > 0 && !slices.Contains(f.Categories, p.Category) {
		return false
	}
	return true
}

// InPriceRange applies the inclusive price bounds.
func InPriceRange(p models.Product, f FilterState) bool {
	return p.Price >= f.PriceMin && p.Price <= f.PriceMax
}

// Sizes compare on their canonical form, so "8×12" selects a product listed
// as "8X12".
func matchesSize(p models.Product, selected []string) bool {
	want := make(map[string]struct{}, len(selected))
	for _, s := range selected {
		want[pricing.NormalizeSize(s)] = struct{}{}
	}

	if p.Sizes != nil {
		for _, s := range p.Sizes {
			if _, ok := want[pricing.NormalizeSize(s)]; ok {
				return true
			}
		}
		return false
	}
	_, ok := want[pricing.NormalizeSize(p.Size)]
	return ok
}

func anyIn(have, want []string) bool {
	for _, h := range have {
		if slices.Contains(want, h) {
			return true
		}
	}
	return false
}

func matchesChips(p models.Product, format, set Chip) bool {
	if format.active() && p.Format != string(format) {
		return false
	}
	if set.active() && p.Subsection != string(set) {
		return false
	}
	return true
}
