package pricing

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestNormalizeSize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"8 x 12", "8X12"},
		{"8X12", "8X12"},
		{"8×12", "8X12"},
		{" 24 × 36 ", "24X36"},
		{"8x12", "8X12"},
		{"", ""},
		{"8X12X3", "8X12X3"},
		{"large", "LARGE"},
		{"8\t×\n12", "8X12"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := NormalizeSize(tt.in); got != tt.want {
				t.Errorf("NormalizeSize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeSize_Idempotent(t *testing.T) {
	inputs := []string{"8 x 12", "8×12×3", "××", "x", "abc def", "  ", "12X", "X12", "18 × 18", "ß×ǅ"}
	for _, in := range inputs {
		once := NormalizeSize(in)
		if twice := NormalizeSize(once); twice != once {
			t.Errorf("NormalizeSize not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name    string
		size    string
		format  Format
		setType SetType
		want    int
		ok      bool
	}{
		{"basic rolled", "8X12", Rolled, "", 679, true},
		{"two set frame", "8X12", Frame, TwoSet, 1999, true},
		{"three set canvas", "30 x 40", Canvas, ThreeSet, 14099, true},
		{"square aliases basic", "20×20", Frame, Square, 1999, true},
		{"explicit basic", "36X36", Canvas, Basic, 4599, true},
		{"unknown size", "99X99", Rolled, "", 0, false},
		{"square size missing in 2-set", "18X18", Rolled, TwoSet, 0, false},
		{"unknown format", "8X12", Format("Poster"), "", 0, false},
		{"malformed size", "8X12X3", Rolled, "", 0, false},
		{"empty size", "", Rolled, "", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Resolve(tt.size, tt.format, tt.setType)
			if ok != tt.ok || got != tt.want {
				t.Errorf("Resolve(%q, %q, %q) = (%d, %v), want (%d, %v)", tt.size, tt.format, tt.setType, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestResolve_OversizedFrameNeverOffered(t *testing.T) {
	for _, st := range []SetType{"", Basic, TwoSet, ThreeSet, Square} {
		if _, ok := Resolve("48X66", Frame, st); ok {
			t.Errorf("48X66 Frame should not be offered for set type %q", st)
		}
		if _, ok := Resolve("48X66", Rolled, st); !ok {
			t.Errorf("48X66 Rolled should be offered for set type %q", st)
		}
	}
}

func TestTables_AllPricesPositive(t *testing.T) {
	for _, table := range Tables() {
		for _, size := range table.Sizes() {
			if NormalizeSize(size) != size {
				t.Errorf("%s: key %q is not canonical", table.SetType(), size)
			}
			row, _ := table.Lookup(size)
			for _, f := range Formats {
				if price, ok := row.Cell(f).Price(); ok && price <= 0 {
					t.Errorf("%s %s %s: price %d must be positive", table.SetType(), size, f, price)
				}
			}
		}
	}
	if n := len(TableFor(Basic).Sizes()); n != 13 {
		t.Errorf("expected 13 basic sizes, got %d", n)
	}
}

func TestAvailability(t *testing.T) {
	got := Availability("48 x 66", Basic)
	if !got[Rolled] || !got[Canvas] || got[Frame] {
		t.Errorf("unexpected availability for 48X66: %v", got)
	}

	got = Availability("7X7", Basic)
	for f, ok := range got {
		if ok {
			t.Errorf("format %s should be unavailable for unknown size", f)
		}
	}
}

func TestParseSetType(t *testing.T) {
	for in, want := range map[string]SetType{"": Basic, "basic": Basic, "2-Set": TwoSet, "3-set": ThreeSet, "Square": Square} {
		got, err := ParseSetType(in)
		if err != nil || got != want {
			t.Errorf("ParseSetType(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ParseSetType("4-Set"); err == nil {
		t.Error("expected error for 4-Set")
	}
	if _, err := ParseFormat("poster"); err == nil {
		t.Error("expected error for unknown format")
	}
	if f, err := ParseFormat("canvas"); err != nil || f != Canvas {
		t.Errorf("ParseFormat(canvas) = %q, %v", f, err)
	}
}

func TestTableJSON_NotOfferedIsNull(t *testing.T) {
	data, err := json.Marshal(TableFor(TwoSet))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	s := string(data)
	if !strings.Contains(s, `{"size":"48X66","Rolled":11799,"Canvas":18899,"Frame":null}`) {
		t.Errorf("unexpected table JSON: %s", s)
	}
}

func TestQuoteFor(t *testing.T) {
	q := QuoteFor("8 x 12", Frame, TwoSet)
	if !q.Available || q.Price == nil || *q.Price != 1999 || q.Size != "8X12" {
		t.Errorf("unexpected quote: %+v", q)
	}
	q = QuoteFor("48X66", Frame, Basic)
	if q.Available || q.Price != nil {
		t.Errorf("expected unavailable quote, got %+v", q)
	}
}
