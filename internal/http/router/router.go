package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"

	_ "github.com/rogerio-castellano/frame-storefront/docs"
	"github.com/rogerio-castellano/frame-storefront/internal/http/ban"
	"github.com/rogerio-castellano/frame-storefront/internal/http/handlers"
	mw "github.com/rogerio-castellano/frame-storefront/internal/http/middleware"
	rl "github.com/rogerio-castellano/frame-storefront/internal/http/rate_limiter"
)

// Options carries what the router wires around the handlers. A nil Limiter
// disables throttling.
type Options struct {
	Tokens         mw.TokenParser
	Limiter        *rl.Limiter
	Bans           *ban.Tracker
	Log            *zap.Logger
	RequestTimeout time.Duration
}

func NewRouter(s *handlers.Server, opts Options) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(mw.RequestLogger(opts.Log))
	r.Use(chimw.Recoverer)

	throttle := func(next http.Handler) http.Handler { return next }
	if opts.Limiter != nil {
		throttle = mw.RateLimit(opts.Limiter, opts.Bans, opts.Log)
	}

	r.Get("/healthz", s.HealthHandler)
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	// Long-lived; kept outside the request timeout.
	r.With(throttle, mw.AuthMiddleware(opts.Tokens)).Get("/events", s.EventsHandler)

	r.Group(func(r chi.Router) {
		if opts.RequestTimeout > 0 {
			r.Use(chimw.Timeout(opts.RequestTimeout))
		}
		r.Use(throttle)

		r.Get("/products", s.GetProductsHandler)
		r.Get("/products/slug/{category}/{name}", s.GetProductBySlugHandler)
		r.Get("/products/{id}", s.GetProductByIDHandler)
		r.Get("/products/{id}/related", s.GetRelatedProductsHandler)
		r.Get("/products/{id}/quote", s.GetProductQuoteHandler)
		r.Get("/products/{id}/variants", s.GetProductVariantsHandler)

		r.Get("/shop", s.GetShopHandler)
		r.Get("/facets", s.GetFacetsHandler)
		r.Get("/pricing/quote", s.GetPriceQuoteHandler)
		r.Get("/pricing/tables", s.GetPriceTablesHandler)

		r.Get("/home", s.GetHomeHandler)
		r.Get("/site", s.GetSiteHandler)
		r.Get("/instagram", s.GetInstagramHandler)
		r.Get("/gallery", s.GetGalleryHandler)
		r.Post("/contact-messages", s.SubmitContactMessageHandler)

		r.Post("/login", s.LoginHandler)
		r.Post("/login/refresh", s.RefreshTokenHandler)

		r.Group(func(r chi.Router) {
			r.Use(mw.AuthMiddleware(opts.Tokens))

			r.Get("/cart", s.GetCartHandler)
			r.Post("/cart", s.AddToCartHandler)
			r.Get("/wishlist", s.GetWishlistHandler)
			r.Post("/wishlist", s.AddToWishlistHandler)
			r.Get("/counts", s.GetCountsHandler)

			r.Route("/admin", func(r chi.Router) {
				r.Use(mw.AdminOnly)

				r.Get("/metrics", s.GetMetricsHandler)
				r.Post("/catalog/refresh", s.RefreshCatalogHandler)
				r.Get("/gallery", s.ListGalleryAdminHandler)
				r.Post("/gallery", s.CreateGalleryItemHandler)
				r.Put("/gallery/{id}", s.UpdateGalleryItemHandler)
				r.Delete("/gallery/{id}", s.DeleteGalleryItemHandler)
			})
		})
	})

	return r
}
