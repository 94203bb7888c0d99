package handlers

import (
	"context"

	"go.uber.org/zap"

	"github.com/rogerio-castellano/frame-storefront/internal/catalog"
	"github.com/rogerio-castellano/frame-storefront/internal/events"
	"github.com/rogerio-castellano/frame-storefront/internal/models"
	"github.com/rogerio-castellano/frame-storefront/internal/repo"
)

// Backend is what the handlers need from the hosted backend. Calls taking a
// token act for the signed-in caller.
type Backend interface {
	SignInWithPassword(ctx context.Context, email, password string) (models.Session, error)
	RefreshSession(ctx context.Context, refreshToken string) (models.Session, error)

	GetCart(ctx context.Context, token string) (models.Cart, error)
	AddToCart(ctx context.Context, token string, item models.CartItem) error
	GetWishlist(ctx context.Context, token string) (models.Wishlist, error)
	AddToWishlist(ctx context.Context, token, productID string) error

	ListTestimonials(ctx context.Context) ([]models.Testimonial, error)
	ListVideos(ctx context.Context) ([]models.Video, error)
	ListFAQs(ctx context.Context) ([]models.FAQ, error)
	ListInstagramPosts(ctx context.Context) ([]models.InstagramPost, error)
	SubmitContactMessage(ctx context.Context, msg models.ContactMessage) error
}

// SiteSettings are served to the storefront as-is.
type SiteSettings struct {
	Theme          string
	MaxUploadBytes int64
}

// HealthCheck pings one dependency.
type HealthCheck func(ctx context.Context) error

// Server carries the dependencies of every handler.
type Server struct {
	Catalog *catalog.Service
	Gallery repo.GalleryRepository
	Metrics repo.MetricsRepository
	Backend Backend
	Events  events.Bus
	Site    SiteSettings
	Health  map[string]HealthCheck
	Log     *zap.Logger
}

func (s *Server) logger() *zap.Logger {
	if s.Log == nil {
		return zap.NewNop()
	}
	return s.Log
}
