package handlers

import (
	"context"
	"net/http"
	"slices"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/rogerio-castellano/frame-storefront/internal/auth"
	"github.com/rogerio-castellano/frame-storefront/internal/events"
	"github.com/rogerio-castellano/frame-storefront/internal/models"
	"github.com/rogerio-castellano/frame-storefront/internal/pricing"
)

// GetCartHandler godoc
// @Summary The caller's cart
// @Tags cart
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.Cart
// @Failure 401 {string} string "Unauthorized"
// @Router /cart [get]
func (s *Server) GetCartHandler(w http.ResponseWriter, r *http.Request) {
	cart, err := s.Backend.GetCart(r.Context(), auth.TokenFromContext(r.Context()))
	if err != nil {
		s.upstreamError(w, r, err, "load cart")
		return
	}
	if cart.Items == nil {
		cart.Items = []models.CartItem{}
	}
	s.respond(w, http.StatusOK, cart)
}

// AddToCartHandler godoc
// @Summary Add a product variant to the cart
// @Description The line is priced from the size, format and set type. A variant that cannot be priced is refused with 409; there is no fallback to the base price.
// @Tags cart
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param item body AddToCartRequest true "Variant to add"
// @Success 201 {object} AddToCartResult
// @Failure 400 {array} ValidationError
// @Failure 401 {string} string "Unauthorized"
// @Failure 404 {string} string "Product not found"
// @Failure 409 {object} pricing.Quote
// @Router /cart [post]
func (s *Server) AddToCartHandler(w http.ResponseWriter, r *http.Request) {
	var req AddToCartRequest
	if err := readJSON(w, r, &req, 0); err != nil {
		readError(w, err)
		return
	}
	if errs := validateRequest(req); len(errs) > 0 {
		s.respond(w, http.StatusBadRequest, errs)
		return
	}

	product, err := s.Catalog.Product(r.Context(), req.ProductID)
	if err != nil {
		s.catalogError(w, r, err)
		return
	}

	item, quote, errs := cartItemFor(product, req)
	if len(errs) > 0 {
		s.respond(w, http.StatusBadRequest, errs)
		return
	}
	if !quote.Available {
		s.respond(w, http.StatusConflict, quote)
		return
	}

	token := auth.TokenFromContext(r.Context())
	if err := s.Backend.AddToCart(r.Context(), token, item); err != nil {
		s.upstreamError(w, r, err, "add to cart")
		return
	}

	result := AddToCartResult{Item: item}
	if cart, err := s.Backend.GetCart(r.Context(), token); err == nil {
		result.CartCount = cart.Count()
		s.publish(r.Context(), events.CartChanged, result.CartCount)
	} else {
		s.logger().Warn("cart count refresh failed", zap.Error(err))
	}
	s.respond(w, http.StatusCreated, result)
}

// cartItemFor resolves the requested variant against the product. Format
// falls back to the product's own format, else Rolled; set type to the
// product's, else Basic.
func cartItemFor(p models.Product, req AddToCartRequest) (models.CartItem, pricing.Quote, []ValidationError) {
	errs := []ValidationError{}

	format := variantDefaults(p).Format
	if req.Format != "" {
		format = pricing.Format(req.Format)
	}
	setType := productSetType(p)
	if req.SetType != "" {
		setType = pricing.SetType(req.SetType)
	}

	sizes := productSizes(p)
	want := pricing.NormalizeSize(req.Size)
	if len(sizes) > 0 && !slices.ContainsFunc(sizes, func(s string) bool { return pricing.NormalizeSize(s) == want }) {
		errs = append(errs, ValidationError{Field: "size", Description: "size is not offered for this product"})
	}
	if format == pricing.Frame && req.Color == "" {
		errs = append(errs, ValidationError{Field: "color", Description: "color is required for framed prints"})
	}
	if req.Color != "" && len(p.Colors) > 0 && !slices.Contains(p.Colors, req.Color) {
		errs = append(errs, ValidationError{Field: "color", Description: "color is not offered for this product"})
	}

	quote := pricing.QuoteFor(req.Size, format, setType)
	if len(errs) > 0 || !quote.Available {
		return models.CartItem{}, quote, errs
	}

	quantity := req.Quantity
	if quantity == 0 {
		quantity = 1
	}
	frameColor := ""
	if format == pricing.Frame {
		frameColor = req.FrameColor
		if frameColor == "" {
			frameColor = defaultFrameColor
		}
	}
	return models.CartItem{
		ProductID:  p.ID,
		Quantity:   quantity,
		Size:       quote.Size,
		Color:      req.Color,
		Format:     string(format),
		FrameColor: frameColor,
		Price:      float64(*quote.Price),
		Subsection: string(setType),
	}, quote, errs
}

// GetWishlistHandler godoc
// @Summary The caller's wishlist
// @Tags wishlist
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.Wishlist
// @Failure 401 {string} string "Unauthorized"
// @Router /wishlist [get]
func (s *Server) GetWishlistHandler(w http.ResponseWriter, r *http.Request) {
	wishlist, err := s.Backend.GetWishlist(r.Context(), auth.TokenFromContext(r.Context()))
	if err != nil {
		s.upstreamError(w, r, err, "load wishlist")
		return
	}
	if wishlist.Items == nil {
		wishlist.Items = []models.WishlistItem{}
	}
	s.respond(w, http.StatusOK, wishlist)
}

// AddToWishlistHandler godoc
// @Summary Add a product to the wishlist
// @Tags wishlist
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param item body WishlistRequest true "Product"
// @Success 201 {object} WishlistResult
// @Failure 400 {array} ValidationError
// @Failure 401 {string} string "Unauthorized"
// @Failure 404 {string} string "Product not found"
// @Router /wishlist [post]
func (s *Server) AddToWishlistHandler(w http.ResponseWriter, r *http.Request) {
	var req WishlistRequest
	if err := readJSON(w, r, &req, 0); err != nil {
		readError(w, err)
		return
	}
	if errs := validateRequest(req); len(errs) > 0 {
		s.respond(w, http.StatusBadRequest, errs)
		return
	}
	if _, err := s.Catalog.Product(r.Context(), req.ProductID); err != nil {
		s.catalogError(w, r, err)
		return
	}

	token := auth.TokenFromContext(r.Context())
	if err := s.Backend.AddToWishlist(r.Context(), token, req.ProductID); err != nil {
		s.upstreamError(w, r, err, "add to wishlist")
		return
	}

	result := WishlistResult{ProductID: req.ProductID}
	if wishlist, err := s.Backend.GetWishlist(r.Context(), token); err == nil {
		result.WishlistCount = wishlist.Count()
		s.publish(r.Context(), events.WishlistChanged, result.WishlistCount)
	} else {
		s.logger().Warn("wishlist count refresh failed", zap.Error(err))
	}
	s.respond(w, http.StatusCreated, result)
}

// GetCountsHandler godoc
// @Summary Header badge counts
// @Description Cart count is the total quantity; wishlist count is the number of items.
// @Tags cart
// @Produce json
// @Security BearerAuth
// @Success 200 {object} CountsResponse
// @Failure 401 {string} string "Unauthorized"
// @Router /counts [get]
func (s *Server) GetCountsHandler(w http.ResponseWriter, r *http.Request) {
	token := auth.TokenFromContext(r.Context())

	var resp CountsResponse
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		cart, err := s.Backend.GetCart(ctx, token)
		resp.Cart = cart.Count()
		return err
	})
	g.Go(func() error {
		wishlist, err := s.Backend.GetWishlist(ctx, token)
		resp.Wishlist = wishlist.Count()
		return err
	})
	if err := g.Wait(); err != nil {
		s.upstreamError(w, r, err, "load counts")
		return
	}
	s.respond(w, http.StatusOK, resp)
}

func (s *Server) publish(ctx context.Context, kind events.Kind, count int) {
	if s.Events == nil {
		return
	}
	id, _ := auth.FromContext(ctx)
	e := events.Event{Kind: kind, UserID: id.UserID, Count: count, At: time.Now().UTC()}
	if err := s.Events.Publish(context.WithoutCancel(ctx), e); err != nil {
		s.logger().Warn("event publish failed", zap.String("kind", string(kind)), zap.Error(err))
	}
}
