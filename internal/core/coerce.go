package core

// coerce.go maps raw CSV text onto the value a typed column expects.
//
// The result is always one of int64, float64, bool, string or nil, which both
// pgx and database/sql drivers encode without extra help. Anything that cannot
// be represented in the target type becomes nil so the row still loads with
// a NULL instead of failing on a cast.

import (
	"math"
	"strconv"
	"strings"
)

// nullSentinels are placeholder spellings that mean "no value" in the source data.
// Compared case-insensitively after trimming.
var nullSentinels = map[string]struct{}{
	"":     {},
	"--":   {},
	"na":   {},
	"n/a":  {},
	"null": {},
}

// Column data types grouped by how their values are coerced.
// Names are information_schema.columns.data_type spellings.
var (
	integerTypes = map[string]bool{"integer": true, "bigint": true, "smallint": true}
	floatTypes   = map[string]bool{"numeric": true, "decimal": true, "double precision": true, "real": true}
)

// Coerce converts a raw field into a value for a column of dataType.
//
//   - Null sentinels ("", "--", "NA", "N/A", "NULL", any case) become nil.
//   - integer/bigint/smallint: parsed as a number and truncated toward zero.
//   - numeric/decimal/double precision/real: parsed as a float.
//   - boolean: t/true/1 and f/false/0, case-insensitive.
//   - anything else: the trimmed string.
//
// Unparseable or non-finite numbers and unrecognised booleans become nil.
func Coerce(raw string, dataType string) any {
	v := strings.TrimSpace(raw)
	if IsNullSentinel(v) {
		return nil
	}

	dt := strings.ToLower(strings.TrimSpace(dataType))
	switch {
	case integerTypes[dt]:
		f, ok := parseFinite(v)
		if !ok {
			return nil
		}
		t := math.Trunc(f)
		if t < math.MinInt64 || t >= math.MaxInt64 {
			// Out of int64 range; let the database reject it with a real error.
			return t
		}
		return int64(t)

	case floatTypes[dt]:
		f, ok := parseFinite(v)
		if !ok {
			return nil
		}
		return f

	case dt == "boolean":
		switch strings.ToLower(v) {
		case "t", "true", "1":
			return true
		case "f", "false", "0":
			return false
		default:
			return nil
		}
	}

	return v
}

// CoerceNullable is Coerce for a field that may be missing entirely.
func CoerceNullable(raw *string, dataType string) any {
	if raw == nil {
		return nil
	}
	return Coerce(*raw, dataType)
}

// IsNullSentinel reports whether s, after trimming, spells a null value.
func IsNullSentinel(s string) bool {
	_, ok := nullSentinels[strings.ToLower(strings.TrimSpace(s))]
	return ok
}

// parseFinite parses s as a float64 and rejects NaN and infinities.
func parseFinite(s string) (float64, bool) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
