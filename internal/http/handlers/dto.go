package handlers

import (
	"github.com/rogerio-castellano/frame-storefront/internal/catalog"
	"github.com/rogerio-castellano/frame-storefront/internal/images"
	"github.com/rogerio-castellano/frame-storefront/internal/models"
	"github.com/rogerio-castellano/frame-storefront/internal/pricing"
)

type ProductResponse struct {
	models.Product
	Thumbnail string `json:"thumbnail,omitempty"`
	Path      string `json:"path"`
}

func toProductResponse(p models.Product) ProductResponse {
	return ProductResponse{Product: p, Thumbnail: images.Optimize(p.Image, 0, 0), Path: catalog.ProductPath(p)}
}

func toProductResponses(products []models.Product) []ProductResponse {
	out := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, toProductResponse(p))
	}
	return out
}

type ShopItemResponse struct {
	catalog.ShopItem
	Thumbnail string `json:"thumbnail,omitempty"`
}

// ShopResponse is one window of the shop listing. Key goes back as the key
// parameter when the client loads the next page.
type ShopResponse struct {
	Items       []ShopItemResponse  `json:"items"`
	Meta        catalog.PageMeta    `json:"meta"`
	Facets      catalog.Facets      `json:"facets"`
	Filters     catalog.FilterState `json:"filters"`
	Format      catalog.Chip        `json:"format"`
	Set         catalog.Chip        `json:"set"`
	Key         string              `json:"key"`
	Reset       bool                `json:"reset"`
	ActiveCount int                 `json:"active_count"`
	Empty       bool                `json:"empty"`
}

type VariantDefaults struct {
	Size       string         `json:"size"`
	Color      string         `json:"color,omitempty"`
	Format     pricing.Format `json:"format"`
	FrameColor string         `json:"frame_color"`
}

type VariantsResponse struct {
	ProductID    string                  `json:"product_id"`
	SetType      pricing.SetType         `json:"set_type"`
	Sizes        []string                `json:"sizes"`
	Colors       []string                `json:"colors"`
	Size         string                  `json:"size"`
	Defaults     VariantDefaults         `json:"defaults"`
	Availability map[pricing.Format]bool `json:"availability"`
	Prices       map[pricing.Format]*int `json:"prices"`
}

type HomeResponse struct {
	Featured     []ProductResponse    `json:"featured"`
	Newest       []ProductResponse    `json:"newest"`
	Testimonials []models.Testimonial `json:"testimonials"`
	Videos       []models.Video       `json:"videos"`
	FAQs         []models.FAQ         `json:"faqs"`
	// Errors names the sections that failed to load; the rest are served.
	Errors map[string]string `json:"errors,omitempty"`
}

type SiteResponse struct {
	Theme             string         `json:"theme"`
	MobilePageSize    int            `json:"mobile_page_size"`
	DesktopPageSize   int            `json:"desktop_page_size"`
	MobileBreakpoint  int            `json:"mobile_breakpoint"`
	PriceMin          float64        `json:"price_min"`
	PriceMax          float64        `json:"price_max"`
	Rooms             []string       `json:"rooms"`
	Layouts           []string       `json:"layouts"`
	Sizes             []string       `json:"sizes"`
	Colors            []string       `json:"colors"`
	Materials         []string       `json:"materials"`
	FormatChips       []catalog.Chip `json:"format_chips"`
	SetChips          []catalog.Chip `json:"set_chips"`
	GalleryCategories []string       `json:"gallery_categories"`
	MaxUploadBytes    int64          `json:"max_upload_bytes"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type LoginResult struct {
	Token        string      `json:"token"`
	RefreshToken string      `json:"refresh_token,omitempty"`
	ExpiresIn    int         `json:"expires_in,omitempty"`
	User         models.User `json:"user"`
}

type AddToCartRequest struct {
	ProductID  string `json:"product_id" validate:"required"`
	Quantity   int    `json:"quantity" validate:"omitempty,min=1,max=99"`
	Size       string `json:"size" validate:"required"`
	Color      string `json:"color"`
	Format     string `json:"format" validate:"omitempty,oneof=Rolled Canvas Frame"`
	FrameColor string `json:"frame_color"`
	SetType    string `json:"set_type" validate:"omitempty,oneof=Basic 2-Set 3-Set Square"`
}

type AddToCartResult struct {
	Item      models.CartItem `json:"item"`
	CartCount int             `json:"cart_count"`
}

type WishlistRequest struct {
	ProductID string `json:"product_id" validate:"required"`
}

type WishlistResult struct {
	ProductID     string `json:"product_id"`
	WishlistCount int    `json:"wishlist_count"`
}

type CountsResponse struct {
	Cart     int `json:"cart"`
	Wishlist int `json:"wishlist"`
}

type ContactRequest struct {
	Name    string `json:"name" validate:"required,max=200"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone" validate:"max=40"`
	Subject string `json:"subject" validate:"max=200"`
	Message string `json:"message" validate:"required,max=5000"`
}

type GalleryRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"max=2000"`
	Category    string `json:"category" validate:"required,oneof=Events Studio Outdoor Portrait"`
	Year        int    `json:"year" validate:"gte=1900,lte=2100"`
	ProductID   string `json:"product_id"`
	// Image is a base64 data URL. Required on create; on update an empty
	// value keeps the current picture.
	Image    string `json:"image"`
	FileName string `json:"file_name"`
}

type RefreshCatalogResult struct {
	Changed bool           `json:"changed"`
	Status  catalog.Status `json:"status"`
}

type HealthResponse struct {
	Status  string            `json:"status"`
	Catalog catalog.Status    `json:"catalog"`
	Checks  map[string]string `json:"checks"`
}
