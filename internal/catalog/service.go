package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"go.uber.org/zap"

	"github.com/rogerio-castellano/frame-storefront/internal/models"
	"github.com/rogerio-castellano/frame-storefront/internal/repo"
)

// Service keeps the current catalog snapshot together with its shuffled base
// order. The shuffle only changes when the snapshot content does, so every
// shopper sees the same "popular" order between refreshes.
type Service struct {
	repo repo.ProductRepository
	log  *zap.Logger
	rng  *rand.Rand
	now  func() time.Time

	mu          sync.RWMutex
	products    []models.Product
	base        []models.Product
	fingerprint uint64
	loadedAt    time.Time
}

type Option func(*Service)

// WithRand fixes the shuffle source; tests use it for a repeatable order.
func WithRand(rng *rand.Rand) Option {
	return func(s *Service) { s.rng = rng }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(r repo.ProductRepository, log *zap.Logger, opts ...Option) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Service{
		repo: r,
		log:  log.Named("catalog"),
		rng:  rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Refresh reloads the snapshot from the repository and reports whether it
// changed. On error the previous snapshot stays in place.
func (s *Service) Refresh(ctx context.Context) (bool, error) {
	products, err := s.repo.GetAll(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to load catalog: %w", err)
	}

	sum, err := fingerprint(products)
	if err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.loadedAt = s.now()
	if s.products != nil && sum == s.fingerprint {
		return false, nil
	}

	s.products = append(make([]models.Product, 0, len(products)), products...)
	s.base = Shuffle(s.products, s.rng)
	s.fingerprint = sum
	s.log.Info("catalog snapshot updated", zap.Int("products", len(products)), zap.Uint64("fingerprint", sum))
	return true, nil
}

type invalidator interface {
	Invalidate(ctx context.Context) error
}

// Reload drops any cached copy held by the repository before refreshing.
func (s *Service) Reload(ctx context.Context) (bool, error) {
	if inv, ok := s.repo.(invalidator); ok {
		if err := inv.Invalidate(ctx); err != nil {
			s.log.Warn("cache invalidation failed", zap.Error(err))
		}
	}
	return s.Refresh(ctx)
}

func fingerprint(products []models.Product) (uint64, error) {
	h := xxhash.New()
	enc := json.NewEncoder(h)
	for _, p := range products {
		if err := enc.Encode(p); err != nil {
			return 0, fmt.Errorf("failed to fingerprint product %s: %w", p.ID, err)
		}
	}
	return h.Sum64(), nil
}

func (s *Service) snapshot(ctx context.Context) (products, base []models.Product, err error) {
	s.mu.RLock()
	loaded := s.products != nil
	s.mu.RUnlock()

	if !loaded {
		if _, err := s.Refresh(ctx); err != nil {
			return nil, nil, err
		}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.products, s.base, nil
}

// Products returns the catalog in source order. The slice is shared and must
// not be modified.
func (s *Service) Products(ctx context.Context) ([]models.Product, error) {
	products, _, err := s.snapshot(ctx)
	return products, err
}

// Shuffled returns the catalog in its session-stable base order.
func (s *Service) Shuffled(ctx context.Context) ([]models.Product, error) {
	_, base, err := s.snapshot(ctx)
	return base, err
}

func (s *Service) Product(ctx context.Context, id string) (models.Product, error) {
	products, _, err := s.snapshot(ctx)
	if err != nil {
		return models.Product{}, err
	}
	for _, p := range products {
		if p.ID == id {
			return p, nil
		}
	}
	return models.Product{}, repo.ErrProductNotFound
}

// ProductBySlug resolves the storefront product URL.
func (s *Service) ProductBySlug(ctx context.Context, category, name string) (models.Product, error) {
	products, _, err := s.snapshot(ctx)
	if err != nil {
		return models.Product{}, err
	}
	var candidates []models.Product
	for _, p := range products {
		c := p.Category
		if c == "" {
			c = "all"
		}
		if category == "" || Slug(c) == category {
			candidates = append(candidates, p)
		}
	}
	if p, ok := FindBySlug(candidates, name); ok {
		return p, nil
	}
	return models.Product{}, repo.ErrProductNotFound
}

// Status describes the loaded snapshot.
type Status struct {
	Products    int       `json:"products"`
	Fingerprint string    `json:"fingerprint"`
	LoadedAt    time.Time `json:"loaded_at"`
}

func (s *Service) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Status{
		Products:    len(s.products),
		Fingerprint: fmt.Sprintf("%016x", s.fingerprint),
		LoadedAt:    s.loadedAt,
	}
}

// ShopQuery is one request for the shop listing.
type ShopQuery struct {
	Filters FilterState
	Format  Chip
	Set     Chip
	// Page is the number of infinite-scroll pages shown so far, for the
	// selection identified by Key. A Key that no longer matches the filters
	// starts over at one page; an empty Key keeps Page as given.
	Page          int
	Key           string
	PageSize      int
	ViewportWidth int
}

type ShopItem struct {
	models.Product
	DisplayPrice *int   `json:"display_price,omitempty"`
	Path         string `json:"path"`
}

type PageMeta struct {
	Total      int  `json:"total"`
	Page       int  `json:"page"`
	PageSize   int  `json:"page_size"`
	TotalPages int  `json:"total_pages"`
	HasMore    bool `json:"has_more"`
}

type ShopPage struct {
	Items   []ShopItem  `json:"items"`
	Meta    PageMeta    `json:"meta"`
	Facets  Facets      `json:"facets"`
	Filters FilterState `json:"filters"`
	Key     string      `json:"key"`
	// Reset is set when the selection changed and the window went back to one
	// page.
	Reset bool `json:"reset"`
	// Empty is set when nothing matches; the storefront then offers a reset.
	Empty bool `json:"empty"`
}

var ErrNoCatalog = errors.New("catalog is not available")

// Shop runs the filter pipeline over the base order and returns the visible
// window.
func (s *Service) Shop(ctx context.Context, q ShopQuery) (ShopPage, error) {
	products, base, err := s.snapshot(ctx)
	if err != nil {
		return ShopPage{}, errors.Join(ErrNoCatalog, err)
	}

	pageSize := q.PageSize
	if pageSize <= 0 {
		pageSize = PageSizeFor(q.ViewportWidth)
	}
	filtered := Apply(base, q.Filters, q.Format, q.Set)
	totalPages := TotalPages(len(filtered), pageSize)

	key := q.Filters.Key(q.Format, q.Set)
	prev := q.Key
	if prev == "" {
		prev = key
	}
	window := NewWindow(pageSize)
	window.Resume(prev, q.Page)
	reset := window.Sync(key)
	window.PageCount = min(window.PageCount, totalPages)
	visible := window.Visible(filtered)
	next := *window

	items := make([]ShopItem, 0, len(visible))
	for _, p := range visible {
		item := ShopItem{Product: p, Path: ProductPath(p)}
		if price, ok := DisplayPrice(p, q.Filters, q.Format, q.Set); ok {
			item.DisplayPrice = &price
		}
		items = append(items, item)
	}

	return ShopPage{
		Items: items,
		Meta: PageMeta{
			Total:      len(filtered),
			Page:       window.PageCount,
			PageSize:   pageSize,
			TotalPages: totalPages,
			HasMore:    next.Advance(len(filtered)),
		},
		Facets:  CountFacets(products),
		Filters: q.Filters,
		Key:     key,
		Reset:   reset,
		Empty:   len(filtered) == 0,
	}, nil
}
