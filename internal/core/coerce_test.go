package core

import (
	"math"
	"testing"
)

func TestCoerce(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		dataType string
		want     any
	}{
		// Null sentinels
		{"empty", "", "integer", nil},
		{"dashes", "--", "numeric", nil},
		{"NA upper", "NA", "text", nil},
		{"n/a mixed", "N/a", "character varying", nil},
		{"null padded", "  NULL ", "boolean", nil},

		// Integers truncate toward zero
		{"integer", "42", "integer", int64(42)},
		{"integer from decimal", "3.9", "integer", int64(3)},
		{"negative truncates up", "-3.9", "bigint", int64(-3)},
		{"smallint padded", " 7 ", "smallint", int64(7)},
		{"integer garbage", "abc", "integer", nil},
		{"integer infinity", "Inf", "integer", nil},
		{"integer out of range", "1e20", "bigint", float64(1e20)},

		// Floats
		{"numeric", "85.5", "numeric", 85.5},
		{"double precision", "1e3", "double precision", 1000.0},
		{"real", "-0.25", "real", -0.25},
		{"numeric NaN", "NaN", "numeric", nil},
		{"numeric percent sign", "85%", "numeric", nil},

		// Booleans
		{"bool t", "t", "boolean", true},
		{"bool TRUE", "TRUE", "boolean", true},
		{"bool 1", "1", "boolean", true},
		{"bool f", "f", "boolean", false},
		{"bool false", "False", "boolean", false},
		{"bool 0", "0", "boolean", false},
		{"bool yes", "yes", "boolean", nil},

		// Everything else stays text
		{"text trimmed", "  Spring Valley ", "text", "Spring Valley"},
		{"varchar keeps digits", "00123", "character varying", "00123"},
		{"type case insensitive", "12", "INTEGER", int64(12)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Coerce(tt.raw, tt.dataType)
			if got != tt.want {
				t.Errorf("Coerce(%q, %q) = %#v, want %#v", tt.raw, tt.dataType, got, tt.want)
			}
		})
	}
}

func TestCoerceNullable(t *testing.T) {
	if got := CoerceNullable(nil, "integer"); got != nil {
		t.Errorf("CoerceNullable(nil) = %#v, want nil", got)
	}
	s := "12"
	if got := CoerceNullable(&s, "integer"); got != int64(12) {
		t.Errorf("CoerceNullable(&%q) = %#v, want 12", s, got)
	}
}

func TestIsNullSentinel(t *testing.T) {
	for _, s := range []string{"", " ", "--", "na", "N/A", "null", "Null"} {
		if !IsNullSentinel(s) {
			t.Errorf("IsNullSentinel(%q) = false, want true", s)
		}
	}
	for _, s := range []string{"0", "none", "-", "nan"} {
		if IsNullSentinel(s) {
			t.Errorf("IsNullSentinel(%q) = true, want false", s)
		}
	}
}

func TestParseFinite(t *testing.T) {
	if _, ok := parseFinite("+Inf"); ok {
		t.Error("parseFinite(+Inf) should fail")
	}
	f, ok := parseFinite("1.5")
	if !ok || math.Abs(f-1.5) > 1e-9 {
		t.Errorf("parseFinite(1.5) = %v, %v", f, ok)
	}
}
