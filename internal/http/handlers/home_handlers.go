package handlers

import (
	"context"
	"net/http"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/rogerio-castellano/frame-storefront/internal/catalog"
	"github.com/rogerio-castellano/frame-storefront/internal/models"
)

const (
	featuredLimit    = 20
	newestLimit      = 20
	testimonialLimit = 4
	videoLimit       = 10
	instagramLimit   = 6
)

// GetHomeHandler godoc
// @Summary Everything the home page shows
// @Description Sections load in parallel. A section that fails is left empty and named in errors; the others are still served.
// @Tags content
// @Produce json
// @Success 200 {object} HomeResponse
// @Router /home [get]
func (s *Server) GetHomeHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	resp := HomeResponse{
		Featured:     []ProductResponse{},
		Newest:       []ProductResponse{},
		Testimonials: []models.Testimonial{},
		Videos:       []models.Video{},
		FAQs:         []models.FAQ{},
	}

	var mu sync.Mutex
	failed := map[string]string{}
	section := func(name string, load func(context.Context) error) func() error {
		return func() error {
			if err := load(ctx); err != nil {
				if ctx.Err() == nil {
					s.logger().Warn("home section failed", zap.String("section", name), zap.Error(err))
				}
				mu.Lock()
				failed[name] = "could not load " + name
				mu.Unlock()
			}
			return nil
		}
	}

	// Plain Group: one failed section must not cancel the others.
	var g errgroup.Group
	g.Go(section("products", func(ctx context.Context) error {
		products, err := s.Catalog.Products(ctx)
		if err != nil {
			return err
		}
		resp.Featured = toProductResponses(products[:min(featuredLimit, len(products))])
		resp.Newest = toProductResponses(catalog.Newest(products, newestLimit))
		return nil
	}))
	g.Go(section("testimonials", func(ctx context.Context) error {
		items, err := s.Backend.ListTestimonials(ctx)
		if err == nil && items != nil {
			resp.Testimonials = items[:min(testimonialLimit, len(items))]
		}
		return err
	}))
	g.Go(section("videos", func(ctx context.Context) error {
		items, err := s.Backend.ListVideos(ctx)
		if err == nil && items != nil {
			resp.Videos = items[:min(videoLimit, len(items))]
		}
		return err
	}))
	g.Go(section("faqs", func(ctx context.Context) error {
		items, err := s.Backend.ListFAQs(ctx)
		if err == nil && items != nil {
			resp.FAQs = items
		}
		return err
	}))
	_ = g.Wait()

	// The visitor navigated away; nothing to render.
	if ctx.Err() != nil {
		return
	}
	if len(failed) > 0 {
		resp.Errors = failed
	}
	s.respond(w, http.StatusOK, resp)
}

// GetSiteHandler godoc
// @Summary Storefront settings and filter options
// @Tags content
// @Produce json
// @Success 200 {object} SiteResponse
// @Router /site [get]
func (s *Server) GetSiteHandler(w http.ResponseWriter, r *http.Request) {
	theme := s.Site.Theme
	if theme == "" {
		theme = "light"
	}
	s.respond(w, http.StatusOK, SiteResponse{
		Theme:             theme,
		MobilePageSize:    catalog.MobilePageSize,
		DesktopPageSize:   catalog.DesktopPageSize,
		MobileBreakpoint:  catalog.PageSizeBreakpoint,
		PriceMin:          catalog.DefaultPriceMin,
		PriceMax:          catalog.DefaultPriceMax,
		Rooms:             catalog.RoomOptions,
		Layouts:           catalog.LayoutOptions,
		Sizes:             catalog.SizeOptions,
		Colors:            catalog.ColorOptions,
		Materials:         catalog.MaterialOptions,
		FormatChips:       catalog.FormatChips,
		SetChips:          catalog.SetChips,
		GalleryCategories: models.GalleryCategories,
		MaxUploadBytes:    s.Site.MaxUploadBytes,
	})
}

// GetInstagramHandler godoc
// @Summary Latest Instagram posts
// @Tags content
// @Produce json
// @Success 200 {array} models.InstagramPost
// @Failure 502 {string} string "Backend error"
// @Router /instagram [get]
func (s *Server) GetInstagramHandler(w http.ResponseWriter, r *http.Request) {
	posts, err := s.Backend.ListInstagramPosts(r.Context())
	if err != nil {
		s.upstreamError(w, r, err, "load instagram posts")
		return
	}
	if posts == nil {
		posts = []models.InstagramPost{}
	}
	s.respond(w, http.StatusOK, posts[:min(instagramLimit, len(posts))])
}

// SubmitContactMessageHandler godoc
// @Summary Send a message through the contact form
// @Tags content
// @Accept json
// @Produce json
// @Param message body ContactRequest true "Message"
// @Success 201 {object} map[string]bool
// @Failure 400 {array} ValidationError
// @Failure 429 {string} string "Too many requests"
// @Failure 502 {string} string "Backend error"
// @Router /contact-messages [post]
func (s *Server) SubmitContactMessageHandler(w http.ResponseWriter, r *http.Request) {
	var req ContactRequest
	if err := readJSON(w, r, &req, 0); err != nil {
		readError(w, err)
		return
	}
	if errs := validateRequest(req); len(errs) > 0 {
		s.respond(w, http.StatusBadRequest, errs)
		return
	}

	msg := models.ContactMessage{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Subject: req.Subject,
		Message: req.Message,
	}
	if err := s.Backend.SubmitContactMessage(r.Context(), msg); err != nil {
		s.upstreamError(w, r, err, "send message")
		return
	}
	s.respond(w, http.StatusCreated, map[string]bool{"success": true})
}
