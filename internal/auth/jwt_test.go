package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestParseToken_RoundTrip(t *testing.T) {
	v := NewVerifier("test-secret")

	tests := []Identity{
		{UserID: "u1", Email: "ada@example.com"},
		{UserID: "admin-1", Email: "ops@example.com", Admin: true},
	}
	for _, want := range tests {
		token, err := v.GenerateToken(want, time.Hour)
		if err != nil {
			t.Fatalf("GenerateToken: %v", err)
		}
		got, err := v.ParseToken(token)
		if err != nil {
			t.Fatalf("ParseToken: %v", err)
		}
		if got != want {
			t.Errorf("got %+v, want %+v", got, want)
		}
	}
}

func TestParseToken_Rejects(t *testing.T) {
	v := NewVerifier("test-secret")
	other := NewVerifier("other-secret")

	wrongKey, _ := other.GenerateToken(Identity{UserID: "u1"}, time.Hour)
	expired, _ := v.GenerateToken(Identity{UserID: "u1"}, -time.Hour)
	noExpiry, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "u1"}).SignedString([]byte("test-secret"))
	noSubject, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"exp": time.Now().Add(time.Hour).Unix()}).SignedString([]byte("test-secret"))
	hs512, _ := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.MapClaims{"sub": "u1", "exp": time.Now().Add(time.Hour).Unix()}).SignedString([]byte("test-secret"))

	tests := map[string]string{
		"garbage":    "not-a-jwt",
		"wrong key":  wrongKey,
		"expired":    expired,
		"no expiry":  noExpiry,
		"no subject": noSubject,
		"other alg":  hs512,
	}
	for name, token := range tests {
		if _, err := v.ParseToken(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("%s: expected ErrInvalidToken, got %v", name, err)
		}
	}
}

func TestParseToken_TopLevelAdminRole(t *testing.T) {
	v := NewVerifier("test-secret")
	token, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  "u9",
		"role": "admin",
		"exp":  time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("test-secret"))

	id, err := v.ParseToken(token)
	if err != nil || !id.Admin {
		t.Errorf("expected admin identity, got %+v, %v", id, err)
	}
}

func TestContext(t *testing.T) {
	if _, ok := FromContext(context.Background()); ok {
		t.Error("expected no identity in empty context")
	}

	ctx := WithIdentity(context.Background(), Identity{UserID: "u1"}, "tok")
	id, ok := FromContext(ctx)
	if !ok || id.UserID != "u1" || TokenFromContext(ctx) != "tok" {
		t.Errorf("unexpected context values %+v %q", id, TokenFromContext(ctx))
	}
}
