package handlers

import (
	"errors"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/rogerio-castellano/frame-storefront/internal/catalog"
	"github.com/rogerio-castellano/frame-storefront/internal/images"
)

// GetShopHandler godoc
// @Summary Filtered, sorted shop listing
// @Description Facet groups take repeated parameters (OR within a group, AND across groups).
// @Description page is the number of infinite-scroll pages shown; the listing is the first page*page_size matches.
// @Tags shop
// @Produce json
// @Param category query string false "Initial category, as linked from a category tile"
// @Param rooms query []string false "Rooms" collectionFormat(multi)
// @Param layouts query []string false "Layouts" collectionFormat(multi)
// @Param sizes query []string false "Sizes" collectionFormat(multi)
// @Param colors query []string false "Colors" collectionFormat(multi)
// @Param materials query []string false "Materials" collectionFormat(multi)
// @Param categories query []string false "Categories" collectionFormat(multi)
// @Param price_min query number false "Lower price bound (default 0)"
// @Param price_max query number false "Upper price bound (default 10000)"
// @Param sort query string false "popular, newest, price-low or price-high"
// @Param format query string false "Format chip; All or empty disables it"
// @Param set query string false "Set-type chip; All or empty disables it"
// @Param toggle query []string false "group:value pairs flipped after the selections above" collectionFormat(multi)
// @Param clear query bool false "Clear every filter, bound and sort"
// @Param page query int false "Pages shown so far (default 1)"
// @Param key query string false "key of the listing being extended; a different selection starts over at page 1"
// @Param page_size query int false "Page size; defaults from width"
// @Param width query int false "Viewport width in pixels"
// @Success 200 {object} ShopResponse
// @Failure 400 {array} ValidationError
// @Failure 503 {string} string "Catalog unavailable"
// @Router /shop [get]
func (s *Server) GetShopHandler(w http.ResponseWriter, r *http.Request) {
	query, errs := parseShopQuery(r.URL.Query())
	if len(errs) > 0 {
		s.respond(w, http.StatusBadRequest, errs)
		return
	}

	page, err := s.Catalog.Shop(r.Context(), query)
	if err != nil {
		if r.Context().Err() != nil {
			return
		}
		s.logger().Error("shop listing failed", zap.Error(err))
		http.Error(w, "catalog unavailable", http.StatusServiceUnavailable)
		return
	}

	items := make([]ShopItemResponse, 0, len(page.Items))
	for _, item := range page.Items {
		items = append(items, ShopItemResponse{ShopItem: item, Thumbnail: images.Optimize(item.Image, 0, 0)})
	}
	s.respond(w, http.StatusOK, ShopResponse{
		Items:       items,
		Meta:        page.Meta,
		Facets:      page.Facets,
		Filters:     page.Filters,
		Format:      chipOrAll(query.Format),
		Set:         chipOrAll(query.Set),
		Key:         page.Key,
		Reset:       page.Reset,
		ActiveCount: page.Filters.ActiveCount(),
		Empty:       page.Empty,
	})
}

// GetFacetsHandler godoc
// @Summary Room and category counts over the whole catalog
// @Tags shop
// @Produce json
// @Success 200 {object} catalog.Facets
// @Failure 503 {string} string "Catalog unavailable"
// @Router /facets [get]
func (s *Server) GetFacetsHandler(w http.ResponseWriter, r *http.Request) {
	products, err := s.Catalog.Products(r.Context())
	if err != nil {
		s.catalogError(w, r, err)
		return
	}
	s.respond(w, http.StatusOK, catalog.CountFacets(products))
}

func parseShopQuery(q url.Values) (catalog.ShopQuery, []ValidationError) {
	errs := []ValidationError{}
	f := catalog.FilterStateForCategory(strings.TrimSpace(q.Get("category")))

	for _, g := range catalog.Groups {
		for _, v := range q[string(g)] {
			if v = strings.TrimSpace(v); v != "" {
				f.Select(g, v)
			}
		}
	}
	for _, t := range q["toggle"] {
		group, value, ok := strings.Cut(t, ":")
		value = strings.TrimSpace(value)
		if !ok || value == "" || f.Toggle(catalog.Group(strings.TrimSpace(group)), value) != nil {
			errs = append(errs, ValidationError{Field: "toggle", Description: "toggle must be group:value for a known filter group"})
		}
	}

	var err error
	if f.PriceMin, err = floatParam(q, "price_min", catalog.DefaultPriceMin); err != nil {
		errs = append(errs, ValidationError{Field: "price_min", Description: "price_min must be a finite number"})
	}
	if f.PriceMax, err = floatParam(q, "price_max", catalog.DefaultPriceMax); err != nil {
		errs = append(errs, ValidationError{Field: "price_max", Description: "price_max must be a finite number"})
	}
	if f.PriceMin > f.PriceMax {
		errs = append(errs, ValidationError{Field: "price_min", Description: "price_min cannot exceed price_max"})
	}
	f.SortBy = catalog.ParseSortKey(q.Get("sort"))

	if raw := q.Get("clear"); raw != "" {
		clearAll, err := strconv.ParseBool(raw)
		if err != nil {
			errs = append(errs, ValidationError{Field: "clear", Description: "clear must be true or false"})
		} else if clearAll {
			f.Reset()
		}
	}

	query := catalog.ShopQuery{
		Filters: f,
		Format:  catalog.Chip(strings.TrimSpace(q.Get("format"))),
		Set:     catalog.Chip(strings.TrimSpace(q.Get("set"))),
		Key:     q.Get("key"),
	}
	for name, dst := range map[string]*int{"page": &query.Page, "page_size": &query.PageSize, "width": &query.ViewportWidth} {
		v, err := intParam(q, name)
		if err != nil {
			errs = append(errs, ValidationError{Field: name, Description: name + " must be a non-negative integer"})
			continue
		}
		*dst = v
	}
	if query.PageSize > 100 {
		errs = append(errs, ValidationError{Field: "page_size", Description: "page_size must be at most 100"})
	}
	return query, errs
}

var (
	errNegative  = errors.New("negative value")
	errNotFinite = errors.New("not a finite number")
)

func intParam(q url.Values, name string) (int, error) {
	raw := q.Get(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, err
	}
	if v < 0 {
		return 0, errNegative
	}
	return v, nil
}

func floatParam(q url.Values, name string, def float64) (float64, error) {
	raw := q.Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errNotFinite
	}
	return v, nil
}

func chipOrAll(c catalog.Chip) catalog.Chip {
	if c == "" {
		return catalog.ChipAll
	}
	return c
}
