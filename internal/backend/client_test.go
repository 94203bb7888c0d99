package backend

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/rogerio-castellano/frame-storefront/internal/models"
)

const functionsPrefix = "/functions/v1/make-server-test"

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(Config{
		ProjectURL:    srv.URL + "/",
		FunctionsPath: "/make-server-test/",
		AnonKey:       "anon-key",
		Timeout:       2 * time.Second,
	}, nil)
}

func TestListProducts_DecodesEnvelopeWithAnonKey(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != functionsPrefix+"/products" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer anon-key" {
			t.Errorf("expected anon bearer, got %q", got)
		}
		if r.Header.Get("X-Request-ID") == "" {
			t.Error("expected a request id header")
		}
		_, _ = io.WriteString(w, `{"products":[{"id":"p1","name":"Lakeside","price":499,"sizes":["8X12"]}]}`)
	})

	got, err := client.ListProducts(context.Background())
	if err != nil {
		t.Fatalf("ListProducts: %v", err)
	}
	want := []models.Product{{ID: "p1", Name: "Lakeside", Price: 499, Sizes: []string{"8X12"}}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("products mismatch (-want +got):\n%s", diff)
	}
}

func TestListProducts_EmptyEnvelope(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{}`)
	})

	got, err := client.ListProducts(context.Background())
	if err != nil || got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil list, got %v, %v", got, err)
	}
}

func TestErrorEnvelope(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		message string
		is      error
	}{
		{"json error", http.StatusNotFound, `{"error":"Product not found"}`, "Product not found", ErrNotFound},
		{"plain text", http.StatusUnauthorized, "Invalid JWT", "Invalid JWT", ErrUnauthorized},
		{"empty body", http.StatusInternalServerError, "", "no error message", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})

			_, err := client.GetProduct(context.Background(), "p1")

			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("expected *APIError, got %v", err)
			}
			if apiErr.Status != tt.status || apiErr.Message != tt.message {
				t.Errorf("got %d %q, want %d %q", apiErr.Status, apiErr.Message, tt.status, tt.message)
			}
			if tt.is != nil && !errors.Is(err, tt.is) {
				t.Errorf("expected errors.Is(%v)", tt.is)
			}
		})
	}
}

func TestCartCallsForwardUserToken(t *testing.T) {
	var posted models.CartItem
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer user-token" {
			t.Errorf("expected user bearer, got %q", got)
		}
		switch r.Method {
		case http.MethodGet:
			_, _ = io.WriteString(w, `{"cart":{"items":[{"productId":"p1","quantity":2},{"productId":"p2","quantity":1}]}}`)
		case http.MethodPost:
			if err := json.NewDecoder(r.Body).Decode(&posted); err != nil {
				t.Errorf("decode body: %v", err)
			}
			_, _ = io.WriteString(w, `{"success":true}`)
		}
	})

	cart, err := client.GetCart(context.Background(), "user-token")
	if err != nil {
		t.Fatalf("GetCart: %v", err)
	}
	if cart.Count() != 3 {
		t.Errorf("expected cart count 3, got %d", cart.Count())
	}

	item := models.CartItem{ProductID: "p1", Quantity: 1, Size: "8X12", Format: "Frame", Color: "Black", Price: 999}
	if err := client.AddToCart(context.Background(), "user-token", item); err != nil {
		t.Fatalf("AddToCart: %v", err)
	}
	if diff := cmp.Diff(item, posted); diff != "" {
		t.Errorf("posted item mismatch (-want +got):\n%s", diff)
	}
}

func TestCancelledCallReturnsContextError(t *testing.T) {
	release := make(chan struct{})
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := client.ListVideos(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestSignInWithPassword(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/v1/token" || r.URL.Query().Get("grant_type") != "password" {
			t.Errorf("unexpected url %s", r.URL.String())
		}
		if r.Header.Get("apikey") != "anon-key" {
			t.Error("expected apikey header")
		}
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["email"] != "ada@example.com" || body["password"] != "secret" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = io.WriteString(w, `{"error":"invalid_grant","error_description":"Invalid login credentials"}`)
			return
		}
		_, _ = io.WriteString(w, `{"access_token":"jwt","token_type":"bearer","expires_in":3600,"user":{"id":"u1","email":"ada@example.com"}}`)
	})

	session, err := client.SignInWithPassword(context.Background(), "ada@example.com", "secret")
	if err != nil {
		t.Fatalf("SignInWithPassword: %v", err)
	}
	if session.AccessToken != "jwt" || session.User.ID != "u1" {
		t.Errorf("unexpected session %+v", session)
	}

	_, err = client.SignInWithPassword(context.Background(), "ada@example.com", "wrong")
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Message != "invalid_grant" {
		t.Errorf("expected invalid_grant APIError, got %v", err)
	}
}

func TestGalleryWrites(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == functionsPrefix+"/gallery/upload":
			_, _ = io.WriteString(w, `{"galleryItem":{"id":"g1","title":"Studio","category":"Studio","year":2024,"image":"https://cdn/x.png"}}`)
		case r.Method == http.MethodPut && r.URL.Path == functionsPrefix+"/gallery/g1":
			_, _ = io.WriteString(w, `{"success":true}`)
		case r.Method == http.MethodDelete && r.URL.Path == functionsPrefix+"/gallery/g1":
			w.WriteHeader(http.StatusNoContent)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
	ctx := context.Background()

	created, err := client.UploadGalleryItem(ctx, "admin", models.GalleryUpload{Title: "Studio", Category: "Studio", Year: 2024, Image: "data:image/png;base64,AA=="})
	if err != nil || created.ID != "g1" || created.Image != "https://cdn/x.png" {
		t.Fatalf("UploadGalleryItem = %+v, %v", created, err)
	}

	updated, err := client.UpdateGalleryItem(ctx, "admin", "g1", models.GalleryUpload{Title: "Renamed", Category: "Studio", Year: 2024})
	if err != nil || updated.ID != "g1" || updated.Title != "Renamed" {
		t.Fatalf("UpdateGalleryItem = %+v, %v", updated, err)
	}

	if err := client.DeleteGalleryItem(ctx, "admin", "g1"); err != nil {
		t.Fatalf("DeleteGalleryItem: %v", err)
	}
	if err := client.DeleteGalleryItem(ctx, "admin", "g2"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
