package models

// Product is the catalog entry as served by the hosted backend. The service
// only ever holds read-only copies of it.
type Product struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Description  string   `json:"description,omitempty"`
	Price        float64  `json:"price"`
	Image        string   `json:"image"`
	Images       []string `json:"images,omitempty"`
	Category     string   `json:"category,omitempty"`
	Room         string   `json:"room,omitempty"`
	RoomCategory string   `json:"roomCategory,omitempty"`
	Layout       string   `json:"layout,omitempty"`
	Size         string   `json:"size,omitempty"`
	Sizes        []string `json:"sizes,omitempty"`
	Colors       []string `json:"colors,omitempty"`
	Material     string   `json:"material,omitempty"`
	Format       string   `json:"format,omitempty"`
	Subsection   string   `json:"subsection,omitempty"`
	FrameColor   string   `json:"frameColor,omitempty"`
	CreatedAt    string   `json:"createdAt,omitempty"`
}

// EffectiveRoom is the room used for filtering and facet counts.
func (p Product) EffectiveRoom() string {
	if p.RoomCategory != "" {
		return p.RoomCategory
	}
	return p.Room
}
