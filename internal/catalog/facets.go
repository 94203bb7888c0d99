package catalog

import (
	"slices"

	"github.com/rogerio-castellano/frame-storefront/internal/models"
)

// Options offered by the shop sidebar.
var (
	RoomOptions = []string{
		"Home Bar",
		"Bath Space",
		"Bedroom",
		"Dining Area",
		"Game Zone / Lounge Cave",
		"Workshop / Garage Space",
		"Fitness Room",
		"Entryway / Corridor",
		"Kids Space",
		"Kitchen",
		"Living Area",
		"Office / Study Zone",
		"Pooja Room",
	}
	LayoutOptions   = []string{"Portrait", "Square", "Landscape"}
	SizeOptions     = []string{"8×12", "12×18", "18×24", "20×30", "24×36", "30×40", "36×48", "48×66", "18×18", "24×24", "36×36", "20×20", "30×30"}
	ColorOptions    = []string{"White", "Black", "Brown"}
	MaterialOptions = []string{"Wood", "Metal", "Plastic", "Glass"}
	FormatChips     = []Chip{ChipAll, "Rolled", "Canvas", "Frame"}
	SetChips        = []Chip{ChipAll, "2-Set", "3-Set", "Square"}
)

// Facets are per-value product counts over the whole catalog.
type Facets struct {
	Rooms         map[string]int `json:"rooms"`
	Categories    map[string]int `json:"categories"`
	CategoryNames []string       `json:"category_names"`
}

// CountFacets counts rooms and categories. Products without a value are not
// counted. Category names come back sorted.
func CountFacets(products []models.Product) Facets {
	f := Facets{
		Rooms:         map[string]int{},
		Categories:    map[string]int{},
		CategoryNames: []string{},
	}
	for _, p := range products {
		if room := p.EffectiveRoom(); room != "" {
			f.Rooms[room]++
		}
		if p.Category != "" {
			if f.Categories[p.Category] == 0 {
				f.CategoryNames = append(f.CategoryNames, p.Category)
			}
			f.Categories[p.Category]++
		}
	}
	slices.Sort(f.CategoryNames)
	return f
}
