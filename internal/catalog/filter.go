package catalog

import (
	"fmt"
	"slices"
	"strings"
)

// SortKey orders the shop listing.
type SortKey string

const (
	SortPopular   SortKey = "popular"
	SortNewest    SortKey = "newest"
	SortPriceLow  SortKey = "price-low"
	SortPriceHigh SortKey = "price-high"
)

// ParseSortKey falls back to popular for unknown values.
func ParseSortKey(s string) SortKey {
	switch k := SortKey(strings.ToLower(strings.TrimSpace(s))); k {
	case SortNewest, SortPriceLow, SortPriceHigh:
		return k
	}
	return SortPopular
}

const (
	DefaultPriceMin = 0
	DefaultPriceMax = 10000
)

// Group names a facet filter group.
type Group string

const (
	GroupRooms      Group = "rooms"
	GroupLayouts    Group = "layouts"
	GroupSizes      Group = "sizes"
	GroupColors     Group = "colors"
	GroupMaterials  Group = "materials"
	GroupCategories Group = "categories"
)

// Groups lists the facet groups in display order.
var Groups = []Group{GroupRooms, GroupLayouts, GroupSizes, GroupColors, GroupMaterials, GroupCategories}

// FilterState is the shopper's current selection on the shop page.
type FilterState struct {
	Rooms      []string `json:"rooms"`
	Layouts    []string `json:"layouts"`
	Sizes      []string `json:"sizes"`
	Colors     []string `json:"colors"`
	Materials  []string `json:"materials"`
	Categories []string `json:"categories"`
	PriceMin   float64  `json:"price_min"`
	PriceMax   float64  `json:"price_max"`
	SortBy     SortKey  `json:"sort_by"`
}

// DefaultFilterState is the cleared state.
func DefaultFilterState() FilterState {
	return FilterState{
		Rooms:      []string{},
		Layouts:    []string{},
		Sizes:      []string{},
		Colors:     []string{},
		Materials:  []string{},
		Categories: []string{},
		PriceMin:   DefaultPriceMin,
		PriceMax:   DefaultPriceMax,
		SortBy:     SortPopular,
	}
}

// FilterStateForCategory is the state a shop page opens with when it is
// linked to with a category.
func FilterStateForCategory(category string) FilterState {
	f := DefaultFilterState()
	if category != "" {
		f.Categories = []string{category}
	}
	return f
}

// Reset clears every selection.
func (f *FilterState) Reset() {
	*f = DefaultFilterState()
}

func (f *FilterState) group(g Group) *[]string {
	switch g {
	case GroupRooms:
		return &f.Rooms
	case GroupLayouts:
		return &f.Layouts
	case GroupSizes:
		return &f.Sizes
	case GroupColors:
		return &f.Colors
	case GroupMaterials:
		return &f.Materials
	case GroupCategories:
		return &f.Categories
	}
	return nil
}

// Values returns the selection of one group.
func (f FilterState) Values(g Group) []string {
	if vals := f.group(g); vals != nil {
		return *vals
	}
	return nil
}

// Select adds value to the group unless it is already selected. It reports
// false for an unknown group.
func (f *FilterState) Select(g Group, value string) bool {
	vals := f.group(g)
	if vals == nil {
		return false
	}
	if !slices.Contains(*vals, value) {
		*vals = append(*vals, value)
	}
	return true
}

// Toggle adds value to the group, or removes it if already selected.
func (f *FilterState) Toggle(g Group, value string) error {
	vals := f.group(g)
	if vals == nil {
		return fmt.Errorf("unknown filter group %q", g)
	}
	for i, v := range *vals {
		if v == value {
			*vals = append((*vals)[:i:i], (*vals)[i+1:]...)
			return nil
		}
	}
	*vals = append(*vals, value)
	return nil
}

// ActiveCount is the number of selected facet values.
func (f FilterState) ActiveCount() int {
	n := 0
	for _, g := range Groups {
		n += len(f.Values(g))
	}
	return n
}

// Chip is a format or set-type chip value. All (or empty) disables it.
type Chip string

const ChipAll Chip = "All"

func (c Chip) active() bool {
	return c != "" && c != ChipAll
}

// Key identifies the selection, including chips. Two states with the same key
// produce the same listing.
func (f FilterState) Key(format, set Chip) string {
	var sb strings.Builder
	for _, g := range Groups {
		sb.WriteString(string(g))
		sb.WriteByte('=')
		sb.WriteString(strings.Join(f.Values(g), "\x1f"))
		sb.WriteByte(';')
	}
	fmt.Fprintf(&sb, "price=%g-%g;sort=%s;format=%s;set=%s", f.PriceMin, f.PriceMax, f.SortBy, normChip(format), normChip(set))
	return sb.String()
}

func normChip(c Chip) Chip {
	if !c.active() {
		return ChipAll
	}
	return c
}
