package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/rogerio-castellano/frame-storefront/internal/auth"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestPriceCommand(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"basic rolled default", []string{"price", "8x12"}, "8X12 Basic Rolled: 679\n"},
		{"canvas with unicode times", []string{"price", "8 × 12", "--format", "Canvas"}, "8X12 Basic Canvas: 800\n"},
		{"three set canvas", []string{"price", "12x18", "-f", "Canvas", "-s", "3-Set"}, "12X18 3-Set Canvas: 3399\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := execute(t, tt.args...)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestPriceCommand_Unavailable(t *testing.T) {
	_, err := execute(t, "price", "48x66", "--format", "Frame")
	if !errors.Is(err, errUnavailable) {
		t.Fatalf("expected errUnavailable, got %v", err)
	}
}

func TestPriceCommand_BadFormat(t *testing.T) {
	if _, err := execute(t, "price", "8x12", "--format", "Poster"); err == nil {
		t.Fatal("expected an error for an unknown format")
	}
}

func TestNormalizeCommand(t *testing.T) {
	got, err := execute(t, "normalize", "8x12", " 12 × 18 ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "8X12\n12X18\n" {
		t.Errorf("unexpected output %q", got)
	}
}

func TestTablesCommand(t *testing.T) {
	got, err := execute(t, "tables")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{"Basic", "2-Set", "3-Set", "8X12"} {
		if !strings.Contains(got, want) {
			t.Errorf("expected output to contain %q", want)
		}
	}
}

func TestTokenCommand(t *testing.T) {
	got, err := execute(t, "token", "user-1", "--secret", "s3cret", "--admin", "--email", "a@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	id, err := auth.NewVerifier("s3cret").ParseToken(strings.TrimSpace(got))
	if err != nil {
		t.Fatalf("minted token does not verify: %v", err)
	}
	if id.UserID != "user-1" || !id.Admin || id.Email != "a@example.com" {
		t.Errorf("unexpected identity %+v", id)
	}
}

func TestTokenCommand_RequiresSecret(t *testing.T) {
	if _, err := execute(t, "token", "user-1"); err == nil {
		t.Fatal("expected an error without --secret")
	}
}
