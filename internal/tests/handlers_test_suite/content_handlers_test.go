package handlers_test_suite

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/google/go-cmp/cmp"

	handler "github.com/rogerio-castellano/frame-storefront/internal/http/handlers"
)

func TestLoginHandler(t *testing.T) {
	r := newRouter()

	tests := []struct {
		name       string
		payload    handler.LoginRequest
		expectCode int
	}{
		{"valid credentials", handler.LoginRequest{Email: "shopper@example.com", Password: "secret"}, http.StatusOK},
		{"wrong password", handler.LoginRequest{Email: "shopper@example.com", Password: "nope"}, http.StatusUnauthorized},
		{"invalid email", handler.LoginRequest{Email: "shopper", Password: "secret"}, http.StatusBadRequest},
		{"missing password", handler.LoginRequest{Email: "shopper@example.com"}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(r, http.MethodPost, "/login", tt.payload, "")
			if w.Code != tt.expectCode {
				t.Fatalf("expected status %d, got %d: %s", tt.expectCode, w.Code, w.Body.String())
			}
			if tt.expectCode != http.StatusOK {
				return
			}

			var resp handler.LoginResult
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("error decoding response: %v", err)
			}
			if resp.Token == "" || resp.RefreshToken != "refresh-1" || resp.User.ID != "shopper-1" {
				t.Errorf("unexpected login result %+v", resp)
			}
			if _, err := verifier.ParseToken(resp.Token); err != nil {
				t.Errorf("returned token does not verify: %v", err)
			}
		})
	}
}

func TestLoginHandler_BackendDown(t *testing.T) {
	t.Cleanup(resetAll)
	backendStub.failWith("signin", errors.New("dial tcp: connection refused"))
	r := newRouter()

	w := doRequest(r, http.MethodPost, "/login", handler.LoginRequest{Email: "a@example.com", Password: "secret"}, "")
	if w.Code != http.StatusBadGateway {
		t.Errorf("expected 502, got %d", w.Code)
	}
}

func TestRefreshTokenHandler(t *testing.T) {
	r := newRouter()

	w := doRequest(r, http.MethodPost, "/login/refresh", handler.RefreshRequest{RefreshToken: "refresh-1"}, "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d", w.Code)
	}
	var resp handler.LoginResult
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("error decoding response: %v", err)
	}
	if resp.RefreshToken != "refresh-2" {
		t.Errorf("expected rotated refresh token, got %q", resp.RefreshToken)
	}

	w = doRequest(r, http.MethodPost, "/login/refresh", handler.RefreshRequest{RefreshToken: "stale"}, "")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for a stale refresh token, got %d", w.Code)
	}

	w = doRequest(r, http.MethodPost, "/login/refresh", handler.RefreshRequest{}, "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 without a refresh token, got %d", w.Code)
	}
}

func TestGetHomeHandler(t *testing.T) {
	t.Cleanup(resetAll)
	r := newRouter()

	w := doRequest(r, http.MethodGet, "/home", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d", w.Code)
	}
	var resp handler.HomeResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("error decoding response: %v", err)
	}

	if len(resp.Featured) != 4 {
		t.Errorf("expected 4 featured products, got %d", len(resp.Featured))
	}
	if len(resp.Newest) == 0 || resp.Newest[0].ID != "p2" {
		t.Errorf("expected p2 as the newest product, got %+v", resp.Newest)
	}
	if len(resp.Testimonials) != 4 {
		t.Errorf("expected 4 testimonials, got %d", len(resp.Testimonials))
	}
	if len(resp.Videos) != 10 {
		t.Errorf("expected 10 videos, got %d", len(resp.Videos))
	}
	if len(resp.FAQs) != 1 {
		t.Errorf("expected 1 faq, got %d", len(resp.FAQs))
	}
	if resp.Errors != nil {
		t.Errorf("expected no section errors, got %v", resp.Errors)
	}
}

func TestGetHomeHandler_SectionFailure(t *testing.T) {
	t.Cleanup(resetAll)
	backendStub.failWith("videos", errors.New("boom"))
	backendStub.failWith("faqs", errors.New("boom"))
	r := newRouter()

	w := doRequest(r, http.MethodGet, "/home", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("a failed section must not fail the page, got %d", w.Code)
	}
	var resp handler.HomeResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("error decoding response: %v", err)
	}

	want := map[string]string{"videos": "could not load videos", "faqs": "could not load faqs"}
	if diff := cmp.Diff(want, resp.Errors); diff != "" {
		t.Errorf("errors mismatch (-want +got):\n%s", diff)
	}
	if len(resp.Videos) != 0 || len(resp.Testimonials) != 4 || len(resp.Featured) != 4 {
		t.Errorf("expected the healthy sections to be served, got %+v", resp)
	}
}

func TestGetSiteHandler(t *testing.T) {
	r := newRouter()

	w := doRequest(r, http.MethodGet, "/site", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d", w.Code)
	}
	var resp handler.SiteResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("error decoding response: %v", err)
	}
	if resp.Theme != "dark" || resp.MobilePageSize != 8 || resp.DesktopPageSize != 12 || resp.MobileBreakpoint != 640 {
		t.Errorf("unexpected site settings %+v", resp)
	}
	if resp.PriceMax != 10000 || len(resp.FormatChips) != 4 {
		t.Errorf("unexpected filter options %+v", resp)
	}
}

func TestGetInstagramHandler(t *testing.T) {
	r := newRouter()

	w := doRequest(r, http.MethodGet, "/instagram", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d", w.Code)
	}
	var posts []map[string]string
	if err := json.NewDecoder(w.Body).Decode(&posts); err != nil {
		t.Fatalf("error decoding response: %v", err)
	}
	if len(posts) != 6 {
		t.Errorf("expected the first 6 posts, got %d", len(posts))
	}
}

func TestSubmitContactMessageHandler(t *testing.T) {
	t.Cleanup(resetAll)
	r := newRouter()

	w := doRequest(r, http.MethodPost, "/contact-messages", handler.ContactRequest{
		Name:    "Ana",
		Email:   "ana@example.com",
		Message: "Do you ship abroad?",
	}, "")
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 Created, got %d: %s", w.Code, w.Body.String())
	}
	if len(backendStub.contacts) != 1 || backendStub.contacts[0].Email != "ana@example.com" {
		t.Errorf("expected the message forwarded, got %+v", backendStub.contacts)
	}

	w = doRequest(r, http.MethodPost, "/contact-messages", handler.ContactRequest{Name: "Ana", Email: "ana", Message: "hi"}, "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for an invalid email, got %d", w.Code)
	}
	var errs []handler.ValidationError
	if err := json.NewDecoder(w.Body).Decode(&errs); err != nil {
		t.Fatalf("error decoding response: %v", err)
	}
	if len(errs) != 1 || errs[0].Field != "email" {
		t.Errorf("expected one email error, got %+v", errs)
	}

	backendStub.failWith("contact", errors.New("boom"))
	w = doRequest(r, http.MethodPost, "/contact-messages", handler.ContactRequest{Name: "Ana", Email: "ana@example.com", Message: "hi"}, "")
	if w.Code != http.StatusBadGateway {
		t.Errorf("expected 502 when the backend fails, got %d", w.Code)
	}
}
