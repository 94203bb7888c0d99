package handlers

import (
	"errors"
	"net/http"
	"slices"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/rogerio-castellano/frame-storefront/internal/catalog"
	"github.com/rogerio-castellano/frame-storefront/internal/models"
	"github.com/rogerio-castellano/frame-storefront/internal/pricing"
	"github.com/rogerio-castellano/frame-storefront/internal/repo"
)

const (
	relatedLimit      = 4
	defaultSize       = "8X12"
	defaultFrameColor = "Black"
)

// GetProductsHandler godoc
// @Summary List all products
// @Tags products
// @Produce json
// @Success 200 {array} ProductResponse
// @Failure 503 {string} string "Catalog unavailable"
// @Router /products [get]
func (s *Server) GetProductsHandler(w http.ResponseWriter, r *http.Request) {
	products, err := s.Catalog.Products(r.Context())
	if err != nil {
		s.catalogError(w, r, err)
		return
	}
	s.respond(w, http.StatusOK, toProductResponses(products))
}

// GetProductByIDHandler godoc
// @Summary Get product by ID
// @Tags products
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} ProductResponse
// @Failure 404 {string} string "Not found"
// @Failure 503 {string} string "Catalog unavailable"
// @Router /products/{id} [get]
func (s *Server) GetProductByIDHandler(w http.ResponseWriter, r *http.Request) {
	product, ok := s.productFromPath(w, r)
	if !ok {
		return
	}
	s.respond(w, http.StatusOK, toProductResponse(product))
}

// GetProductBySlugHandler godoc
// @Summary Get product by its storefront URL
// @Description Resolves /product/{category}/{name} links, where both segments are slugs.
// @Tags products
// @Produce json
// @Param category path string true "Category slug"
// @Param name path string true "Product name slug"
// @Success 200 {object} ProductResponse
// @Failure 404 {string} string "Not found"
// @Router /products/slug/{category}/{name} [get]
func (s *Server) GetProductBySlugHandler(w http.ResponseWriter, r *http.Request) {
	product, err := s.Catalog.ProductBySlug(r.Context(), chi.URLParam(r, "category"), chi.URLParam(r, "name"))
	if err != nil {
		s.catalogError(w, r, err)
		return
	}
	s.respond(w, http.StatusOK, toProductResponse(product))
}

// GetRelatedProductsHandler godoc
// @Summary Products from the same category
// @Tags products
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {array} ProductResponse
// @Failure 404 {string} string "Not found"
// @Router /products/{id}/related [get]
func (s *Server) GetRelatedProductsHandler(w http.ResponseWriter, r *http.Request) {
	product, ok := s.productFromPath(w, r)
	if !ok {
		return
	}
	products, err := s.Catalog.Products(r.Context())
	if err != nil {
		s.catalogError(w, r, err)
		return
	}
	s.respond(w, http.StatusOK, toProductResponses(catalog.Related(products, product, relatedLimit)))
}

// GetProductQuoteHandler godoc
// @Summary Price one variant of a product
// @Description The set type defaults to the product's own. An unavailable variant answers 409 with the quote.
// @Tags products
// @Produce json
// @Param id path string true "Product ID"
// @Param size query string true "Size, e.g. 8X12"
// @Param format query string true "Rolled, Canvas or Frame"
// @Param set query string false "Basic, 2-Set, 3-Set or Square"
// @Success 200 {object} pricing.Quote
// @Failure 400 {string} string "Invalid input"
// @Failure 404 {string} string "Not found"
// @Failure 409 {object} pricing.Quote
// @Router /products/{id}/quote [get]
func (s *Server) GetProductQuoteHandler(w http.ResponseWriter, r *http.Request) {
	product, ok := s.productFromPath(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	set := q.Get("set")
	if set == "" {
		set = product.Subsection
	}
	s.writeQuote(w, q.Get("size"), q.Get("format"), set)
}

// GetProductVariantsHandler godoc
// @Summary Variant selector state for a product page
// @Description Default selections and, for the chosen size, which formats can be bought and at what price.
// @Tags products
// @Produce json
// @Param id path string true "Product ID"
// @Param size query string false "Selected size; defaults to the product's default size"
// @Success 200 {object} VariantsResponse
// @Failure 404 {string} string "Not found"
// @Router /products/{id}/variants [get]
func (s *Server) GetProductVariantsHandler(w http.ResponseWriter, r *http.Request) {
	product, ok := s.productFromPath(w, r)
	if !ok {
		return
	}

	setType := productSetType(product)
	defaults := variantDefaults(product)
	size := r.URL.Query().Get("size")
	if size == "" {
		size = defaults.Size
	}

	resp := VariantsResponse{
		ProductID:    product.ID,
		SetType:      setType,
		Sizes:        productSizes(product),
		Colors:       product.Colors,
		Size:         pricing.NormalizeSize(size),
		Defaults:     defaults,
		Availability: pricing.Availability(size, setType),
		Prices:       map[pricing.Format]*int{},
	}
	if resp.Colors == nil {
		resp.Colors = []string{}
	}
	for _, f := range pricing.Formats {
		resp.Prices[f] = pricing.QuoteFor(size, f, setType).Price
	}
	s.respond(w, http.StatusOK, resp)
}

func (s *Server) productFromPath(w http.ResponseWriter, r *http.Request) (models.Product, bool) {
	product, err := s.Catalog.Product(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.catalogError(w, r, err)
		return models.Product{}, false
	}
	return product, true
}

func (s *Server) catalogError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, repo.ErrProductNotFound) {
		http.Error(w, "product not found", http.StatusNotFound)
		return
	}
	if r.Context().Err() != nil {
		return
	}
	s.logger().Error("catalog unavailable", zap.Error(err))
	http.Error(w, "catalog unavailable", http.StatusServiceUnavailable)
}

// productSizes lists the sizes a product is offered in.
func productSizes(p models.Product) []string {
	if len(p.Sizes) > 0 {
		return p.Sizes
	}
	if p.Size != "" {
		return []string{p.Size}
	}
	return []string{}
}

func productSetType(p models.Product) pricing.SetType {
	setType, err := pricing.ParseSetType(p.Subsection)
	if err != nil {
		return pricing.Basic
	}
	return setType
}

// variantDefaults is what a product page selects on first render: 8X12 when
// offered, else the first size; the first color; the product's own format,
// else Rolled; a black frame.
func variantDefaults(p models.Product) VariantDefaults {
	d := VariantDefaults{Format: pricing.Rolled, FrameColor: defaultFrameColor}

	sizes := productSizes(p)
	if i := slices.IndexFunc(sizes, func(s string) bool { return pricing.NormalizeSize(s) == defaultSize }); i >= 0 {
		d.Size = sizes[i]
	} else if len(sizes) > 0 {
		d.Size = sizes[0]
	}
	if len(p.Colors) > 0 {
		d.Color = p.Colors[0]
	}
	if f, err := pricing.ParseFormat(p.Format); err == nil {
		d.Format = f
	}
	return d
}
