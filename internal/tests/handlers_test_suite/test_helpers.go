package handlers_test_suite

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/rogerio-castellano/frame-storefront/internal/auth"
	"github.com/rogerio-castellano/frame-storefront/internal/backend"
	"github.com/rogerio-castellano/frame-storefront/internal/catalog"
	"github.com/rogerio-castellano/frame-storefront/internal/events"
	handler "github.com/rogerio-castellano/frame-storefront/internal/http/handlers"
	"github.com/rogerio-castellano/frame-storefront/internal/http/router"
	"github.com/rogerio-castellano/frame-storefront/internal/models"
	"github.com/rogerio-castellano/frame-storefront/internal/repo"
)

const testSecret = "test-secret"

var (
	token       string
	adminToken  string
	verifier    = auth.NewVerifier(testSecret)
	productRepo *repo.InMemoryProductRepository
	galleryRepo *repo.InMemoryGalleryRepository
	backendStub *stubBackend
	bus         *events.MemoryBus
)

func init() {
	setupTestRepos()

	var err error
	token, err = verifier.GenerateToken(auth.Identity{UserID: "shopper-1", Email: "shopper@example.com"}, time.Hour)
	if err != nil {
		panic(fmt.Sprintf("error generating token: %v", err))
	}
	adminToken, err = verifier.GenerateToken(auth.Identity{UserID: "admin-1", Email: "admin@example.com", Admin: true}, time.Hour)
	if err != nil {
		panic(fmt.Sprintf("error generating admin token: %v", err))
	}
}

func setupTestRepos() {
	productRepo = repo.NewInMemoryProductRepository(sampleProducts()...)
	galleryRepo = repo.NewInMemoryGalleryRepository()
	backendStub = newStubBackend()
	bus = events.NewMemoryBus()
}

func resetAll() {
	setupTestRepos()
}

// newRouter builds a fresh server over the current test repositories, so a
// product put into productRepo before the call is part of the catalog.
func newRouter() http.Handler {
	return router.NewRouter(newServer(), router.Options{Tokens: verifier, Log: zap.NewNop()})
}

func newServer() *handler.Server {
	svc := catalog.NewService(productRepo, zap.NewNop(), catalog.WithRand(rand.New(rand.NewPCG(7, 11))))
	return &handler.Server{
		Catalog: svc,
		Gallery: galleryRepo,
		Metrics: repo.NewCatalogMetricsRepository(productRepo, galleryRepo),
		Backend: backendStub,
		Events:  bus,
		Site:    handler.SiteSettings{Theme: "dark", MaxUploadBytes: 1 << 20},
		Health:  map[string]handler.HealthCheck{},
		Log:     zap.NewNop(),
	}
}

// sampleProducts covers each set type and one size that has no framed
// version.
func sampleProducts() []models.Product {
	return []models.Product{
		{
			ID: "p1", Name: "Golden Hour", Category: "Abstract", Room: "Living Room", Layout: "Landscape",
			Sizes: []string{"8 x 12", "12x18"}, Colors: []string{"Gold", "Black"}, Material: "Paper",
			Price: 679, Image: "https://x.supabase.co/storage/v1/object/public/products/p1.jpg", CreatedAt: "2024-01-01T00:00:00Z",
		},
		{
			ID: "p2", Name: "Blue Lines", Category: "Abstract", RoomCategory: "Bedroom", Layout: "Portrait",
			Sizes: []string{"8X12"}, Colors: []string{"Blue"}, Material: "Canvas", Format: "Canvas", Subsection: "2-Set",
			Price: 1599, CreatedAt: "2024-03-01T00:00:00Z",
		},
		{
			ID: "p3", Name: "Forest Trio", Category: "Nature", Room: "Office", Layout: "Landscape",
			Sizes: []string{"12X18"}, Colors: []string{"Green"}, Material: "Paper", Subsection: "3-Set",
			Price: 2699, CreatedAt: "2024-02-01T00:00:00Z",
		},
		{
			ID: "p4", Name: "Giant Mural", Category: "Nature", Room: "Living Room", Layout: "Panoramic",
			Sizes: []string{"48X66"}, Colors: []string{"White"}, Material: "Paper", Format: "Frame",
			Price: 100, CreatedAt: "2023-12-01T00:00:00Z",
		},
	}
}

func doRequest(r http.Handler, method, path string, body any, bearer string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			_ = json.NewEncoder(&buf).Encode(b)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func addToCart(r http.Handler, req handler.AddToCartRequest) *httptest.ResponseRecorder {
	return doRequest(r, http.MethodPost, "/cart", req, token)
}

func createGalleryItem(r http.Handler, req handler.GalleryRequest) *httptest.ResponseRecorder {
	return doRequest(r, http.MethodPost, "/admin/gallery", req, adminToken)
}

// onePixelPNG is a valid 1x1 PNG as a data URL.
const onePixelPNG = "data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNkYPhfDwAChwGA60e6kgAAAABJRU5ErkJggg=="

// stubBackend stands in for the hosted backend. Carts and wishlists are
// keyed by access token; fail makes the named operation return the error.
type stubBackend struct {
	mu        sync.Mutex
	carts     map[string]models.Cart
	wishlists map[string]models.Wishlist
	contacts  []models.ContactMessage
	fail      map[string]error

	testimonials []models.Testimonial
	videos       []models.Video
	faqs         []models.FAQ
	posts        []models.InstagramPost
}

func newStubBackend() *stubBackend {
	b := &stubBackend{
		carts:     map[string]models.Cart{},
		wishlists: map[string]models.Wishlist{},
		fail:      map[string]error{},
		faqs:      []models.FAQ{{ID: "f1", Question: "Do you ship?", Answer: "Yes."}},
	}
	for i := range 6 {
		b.testimonials = append(b.testimonials, models.Testimonial{ID: fmt.Sprint(i), Name: "Customer", Content: "Lovely"})
	}
	for i := range 12 {
		b.videos = append(b.videos, models.Video{ID: fmt.Sprint(i), Title: "Room tour", URL: "https://video.example/" + fmt.Sprint(i)})
	}
	for i := range 9 {
		b.posts = append(b.posts, models.InstagramPost{ID: fmt.Sprint(i), EmbedURL: "https://instagram.example/p/" + fmt.Sprint(i)})
	}
	return b
}

func (b *stubBackend) failWith(op string, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.fail[op] = err
}

func (b *stubBackend) err(op string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.fail[op]
}

func (b *stubBackend) SignInWithPassword(ctx context.Context, email, password string) (models.Session, error) {
	if err := b.err("signin"); err != nil {
		return models.Session{}, err
	}
	if password != "secret" {
		return models.Session{}, &backend.APIError{Status: http.StatusBadRequest, Message: "Invalid login credentials"}
	}
	return models.Session{
		AccessToken:  token,
		RefreshToken: "refresh-1",
		ExpiresIn:    3600,
		User:         models.User{ID: "shopper-1", Email: email},
	}, nil
}

func (b *stubBackend) RefreshSession(ctx context.Context, refreshToken string) (models.Session, error) {
	if refreshToken != "refresh-1" {
		return models.Session{}, &backend.APIError{Status: http.StatusBadRequest, Message: "Invalid Refresh Token"}
	}
	return models.Session{AccessToken: token, RefreshToken: "refresh-2", ExpiresIn: 3600, User: models.User{ID: "shopper-1"}}, nil
}

func (b *stubBackend) GetCart(ctx context.Context, tok string) (models.Cart, error) {
	if err := b.err("cart"); err != nil {
		return models.Cart{}, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.carts[tok], nil
}

func (b *stubBackend) AddToCart(ctx context.Context, tok string, item models.CartItem) error {
	if err := b.err("addcart"); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	cart := b.carts[tok]
	cart.Items = append(cart.Items, item)
	b.carts[tok] = cart
	return nil
}

func (b *stubBackend) GetWishlist(ctx context.Context, tok string) (models.Wishlist, error) {
	if err := b.err("wishlist"); err != nil {
		return models.Wishlist{}, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.wishlists[tok], nil
}

func (b *stubBackend) AddToWishlist(ctx context.Context, tok, productID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	wishlist := b.wishlists[tok]
	wishlist.Items = append(wishlist.Items, models.WishlistItem{ProductID: productID})
	b.wishlists[tok] = wishlist
	return nil
}

func (b *stubBackend) ListTestimonials(ctx context.Context) ([]models.Testimonial, error) {
	return b.testimonials, b.err("testimonials")
}

func (b *stubBackend) ListVideos(ctx context.Context) ([]models.Video, error) {
	return b.videos, b.err("videos")
}

func (b *stubBackend) ListFAQs(ctx context.Context) ([]models.FAQ, error) {
	return b.faqs, b.err("faqs")
}

func (b *stubBackend) ListInstagramPosts(ctx context.Context) ([]models.InstagramPost, error) {
	return b.posts, b.err("instagram")
}

func (b *stubBackend) SubmitContactMessage(ctx context.Context, msg models.ContactMessage) error {
	if err := b.err("contact"); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.contacts = append(b.contacts, msg)
	return nil
}
