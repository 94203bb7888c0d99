package handlers_test_suite

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"

	"github.com/rogerio-castellano/frame-storefront/internal/http/ban"
	handler "github.com/rogerio-castellano/frame-storefront/internal/http/handlers"
	rl "github.com/rogerio-castellano/frame-storefront/internal/http/rate_limiter"
	"github.com/rogerio-castellano/frame-storefront/internal/http/router"
	"github.com/rogerio-castellano/frame-storefront/internal/models"
	"github.com/rogerio-castellano/frame-storefront/internal/repo"
)

func TestAdminRoutesRequireAdmin(t *testing.T) {
	r := newRouter()

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/admin/metrics"},
		{http.MethodPost, "/admin/catalog/refresh"},
		{http.MethodGet, "/admin/gallery"},
		{http.MethodDelete, "/admin/gallery/some-id"},
	}
	for _, p := range paths {
		t.Run(p.method+" "+p.path, func(t *testing.T) {
			if w := doRequest(r, p.method, p.path, nil, ""); w.Code != http.StatusUnauthorized {
				t.Errorf("expected 401 without a token, got %d", w.Code)
			}
			if w := doRequest(r, p.method, p.path, nil, token); w.Code != http.StatusForbidden {
				t.Errorf("expected 403 for a shopper, got %d", w.Code)
			}
		})
	}
}

func TestGalleryHandlers_Lifecycle(t *testing.T) {
	t.Cleanup(resetAll)
	r := newRouter()

	w := createGalleryItem(r, handler.GalleryRequest{
		Title:    "Opening night",
		Category: "Events",
		Year:     2024,
		Image:    onePixelPNG,
		FileName: `C:\photos\opening.jpeg`,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 Created, got %d: %s", w.Code, w.Body.String())
	}
	var created models.GalleryItem
	if err := json.NewDecoder(w.Body).Decode(&created); err != nil {
		t.Fatalf("error decoding response: %v", err)
	}
	if created.ID == "" || created.Image == "" {
		t.Fatalf("expected id and image, got %+v", created)
	}

	w = doRequest(r, http.MethodPut, "/admin/gallery/"+created.ID, handler.GalleryRequest{
		Title:    "Opening night (edited)",
		Category: "Studio",
		Year:     2025,
	}, adminToken)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d: %s", w.Code, w.Body.String())
	}
	var updated models.GalleryItem
	if err := json.NewDecoder(w.Body).Decode(&updated); err != nil {
		t.Fatalf("error decoding response: %v", err)
	}
	if updated.Title != "Opening night (edited)" || updated.Category != "Studio" || updated.Image != created.Image {
		t.Errorf("unexpected update result %+v", updated)
	}

	w = doRequest(r, http.MethodGet, "/gallery?category=studio", nil, "")
	var public []models.GalleryItem
	if err := json.NewDecoder(w.Body).Decode(&public); err != nil {
		t.Fatalf("error decoding response: %v", err)
	}
	if len(public) != 1 || public[0].ID != created.ID {
		t.Errorf("expected the item in the public studio listing, got %+v", public)
	}

	w = doRequest(r, http.MethodGet, "/gallery?category=Events", nil, "")
	if strings.TrimSpace(w.Body.String()) != "[]" {
		t.Errorf("expected no Events items after the edit, got %s", w.Body.String())
	}

	w = doRequest(r, http.MethodDelete, "/admin/gallery/"+created.ID, nil, adminToken)
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204 No Content, got %d", w.Code)
	}
	w = doRequest(r, http.MethodDelete, "/admin/gallery/"+created.ID, nil, adminToken)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 on a second delete, got %d", w.Code)
	}
}

func TestCreateGalleryItemHandler_Invalid(t *testing.T) {
	t.Cleanup(resetAll)
	r := newRouter()

	text := "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("just some text, not a picture"))
	big := make([]byte, 1<<20+100)
	copy(big, []byte("\x89PNG\r\n\x1a\n"))
	tooLarge := "data:image/png;base64," + base64.StdEncoding.EncodeToString(big)

	tests := []struct {
		name           string
		payload        handler.GalleryRequest
		expectCode     int
		expectedErrors []string
	}{
		{"missing everything", handler.GalleryRequest{}, http.StatusBadRequest, []string{"title", "category", "year", "image"}},
		{"unknown category", handler.GalleryRequest{Title: "x", Category: "Weddings", Year: 2024, Image: onePixelPNG}, http.StatusBadRequest, []string{"category"}},
		{"not a data url", handler.GalleryRequest{Title: "x", Category: "Studio", Year: 2024, Image: "https://example.com/a.png"}, http.StatusBadRequest, []string{"image"}},
		{"not an image", handler.GalleryRequest{Title: "x", Category: "Studio", Year: 2024, Image: text}, http.StatusBadRequest, []string{"image"}},
		{"image too large", handler.GalleryRequest{Title: "x", Category: "Studio", Year: 2024, Image: tooLarge}, http.StatusRequestEntityTooLarge, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := createGalleryItem(r, tt.payload)
			if w.Code != tt.expectCode {
				t.Fatalf("expected status %d, got %d: %s", tt.expectCode, w.Code, w.Body.String())
			}
			if tt.expectedErrors == nil {
				return
			}
			var resp []handler.ValidationError
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("error decoding response: %v", err)
			}
			for _, field := range tt.expectedErrors {
				found := false
				for _, err := range resp {
					if err.Field == field {
						found = true
						break
					}
				}
				if !found {
					t.Errorf("expected error for field %q, got %+v", field, resp)
				}
			}
		})
	}

	items, _ := galleryRepo.List(context.Background())
	if len(items) != 0 {
		t.Errorf("expected no items created, got %d", len(items))
	}
}

func TestGetMetricsHandler(t *testing.T) {
	t.Cleanup(resetAll)
	r := newRouter()
	createGalleryItem(r, handler.GalleryRequest{Title: "a", Category: "Studio", Year: 2024, Image: onePixelPNG})

	w := doRequest(r, http.MethodGet, "/admin/metrics", nil, adminToken)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d", w.Code)
	}
	var metrics repo.Metrics
	if err := json.NewDecoder(w.Body).Decode(&metrics); err != nil {
		t.Fatalf("failed to decode metrics: %v", err)
	}

	want := repo.Metrics{
		TotalProducts:     4,
		TotalGalleryItems: 1,
		UnpricedProducts:  []string{"p4"},
		TopCategory:       repo.TopCategory{Name: "Abstract", ProductCount: 2},
	}
	if diff := cmp.Diff(want, metrics); diff != "" {
		t.Errorf("metrics mismatch (-want +got):\n%s", diff)
	}
}

func TestRefreshCatalogHandler(t *testing.T) {
	t.Cleanup(resetAll)
	r := newRouter()

	// Load the first snapshot.
	if w := doRequest(r, http.MethodGet, "/products", nil, ""); w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d", w.Code)
	}

	w := doRequest(r, http.MethodPost, "/admin/catalog/refresh", nil, adminToken)
	var result handler.RefreshCatalogResult
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatalf("error decoding response: %v", err)
	}
	if result.Changed {
		t.Error("expected no change for an identical catalog")
	}

	productRepo.Put(models.Product{ID: "p5", Name: "New Arrival", Category: "Abstract", Sizes: []string{"8X12"}, Price: 679})
	w = doRequest(r, http.MethodPost, "/admin/catalog/refresh", nil, adminToken)
	result = handler.RefreshCatalogResult{}
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatalf("error decoding response: %v", err)
	}
	if !result.Changed || result.Status.Products != 5 {
		t.Errorf("expected the new product picked up, got %+v", result)
	}

	w = doRequest(r, http.MethodGet, "/products/p5", nil, "")
	if w.Code != http.StatusOK {
		t.Errorf("expected the refreshed product to be served, got %d", w.Code)
	}
}

func TestHealthHandler(t *testing.T) {
	t.Cleanup(resetAll)

	s := newServer()
	s.Health["redis"] = func(ctx context.Context) error { return nil }
	r := router.NewRouter(s, router.Options{Tokens: verifier, Log: zap.NewNop()})

	w := doRequest(r, http.MethodGet, "/healthz", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d", w.Code)
	}

	s.Health["postgres"] = func(ctx context.Context) error { return errors.New("connection refused") }
	w = doRequest(r, http.MethodGet, "/healthz", nil, "")
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", w.Code)
	}
	var resp handler.HealthResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("error decoding response: %v", err)
	}
	want := map[string]string{"redis": "ok", "postgres": "connection refused"}
	if resp.Status != "degraded" || !cmp.Equal(want, resp.Checks) {
		t.Errorf("unexpected health %+v", resp)
	}
}

func TestRateLimitAndBan(t *testing.T) {
	t.Cleanup(resetAll)
	r := router.NewRouter(newServer(), router.Options{
		Tokens:  verifier,
		Limiter: rl.New(0.001, 2),
		Bans:    ban.NewTracker(nil, 2, time.Minute, nil),
		Log:     zap.NewNop(),
	})

	expect := []int{
		http.StatusOK,
		http.StatusOK,
		http.StatusTooManyRequests,
		http.StatusTooManyRequests, // second strike bans
		http.StatusForbidden,
	}
	for i, code := range expect {
		w := doRequest(r, http.MethodGet, "/pricing/tables", nil, "")
		if w.Code != code {
			t.Fatalf("request %d: expected %d, got %d", i+1, code, w.Code)
		}
	}

	// Health checks are not throttled.
	if w := doRequest(r, http.MethodGet, "/healthz", nil, ""); w.Code != http.StatusOK {
		t.Errorf("expected healthz to bypass the limiter, got %d", w.Code)
	}
}
