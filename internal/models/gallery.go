package models

// GalleryItem is a photo managed from the admin gallery panel.
type GalleryItem struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category"`
	Year        int    `json:"year"`
	ProductID   string `json:"productId,omitempty"`
	Image       string `json:"image"`
	CreatedAt   string `json:"createdAt,omitempty"`
}

// GalleryCategories are the categories the admin panel offers.
var GalleryCategories = []string{"Events", "Studio", "Outdoor", "Portrait"}

// GalleryUpload carries a new or replacement image for a gallery item.
type GalleryUpload struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category"`
	Year        int    `json:"year"`
	ProductID   string `json:"productId,omitempty"`
	Image       string `json:"image,omitempty"`
	FileName    string `json:"fileName,omitempty"`
	MimeType    string `json:"mimeType,omitempty"`
}
