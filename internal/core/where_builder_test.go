package core

import (
	"encoding/json"
	"math"
	"reflect"
	"strings"
	"testing"
)

var testCatalog = MustFilterCatalog(
	TextContains("name", "d.name"),
	FilterSpec{Key: "perfindexscore_min", Expr: "da.perfindexscore >= $?", Param: ParamNumeric},
	FilterSpec{Key: "perfindexscore_max", Expr: "da.perfindexscore <= $?", Param: ParamNumeric},
	FilterSpec{Key: "schoolcount_min", Expr: "COUNT(bt.districtirn) >= $?", Param: ParamNumeric, Aggregate: true},
)

func TestWhereBuilder_Numbering(t *testing.T) {
	wb := NewWhereBuilder()
	wb.Add("a = $?", 1)
	wb.AddHaving("COUNT(*) > $?", 2)
	wb.Add("b = $?", 3)

	got := wb.Build()
	if !reflect.DeepEqual(got.Where, []string{"a = $1", "b = $3"}) {
		t.Errorf("Where = %v", got.Where)
	}
	if !reflect.DeepEqual(got.Having, []string{"COUNT(*) > $2"}) {
		t.Errorf("Having = %v", got.Having)
	}
	if !reflect.DeepEqual(got.Args, []any{1, 2, 3}) {
		t.Errorf("Args = %v", got.Args)
	}
	if wb.NextArgIndex() != 4 || got.NextArg != 4 {
		t.Errorf("NextArg = %d, want 4", got.NextArg)
	}
}

func TestBuildFilters_CatalogOrder(t *testing.T) {
	// Map iteration order is random; output must follow the catalog regardless.
	for i := 0; i < 20; i++ {
		got := BuildFilters(map[string]any{
			"perfindexscore_max": "95",
			"name":               "spring",
			"perfindexscore_min": "80",
		}, testCatalog)

		want := []string{
			"LOWER(d.name) LIKE '%' || LOWER($1) || '%'",
			"da.perfindexscore >= $2",
			"da.perfindexscore <= $3",
		}
		if !reflect.DeepEqual(got.Where, want) {
			t.Fatalf("Where = %v, want %v", got.Where, want)
		}
		if !reflect.DeepEqual(got.Args, []any{"spring", 80.0, 95.0}) {
			t.Fatalf("Args = %#v", got.Args)
		}
	}
}

func TestBuildFilters_Empty(t *testing.T) {
	got := BuildFilters(map[string]any{}, testCatalog)
	if got.WhereSQL() != "" || got.HavingSQL() != "" {
		t.Errorf("expected no clauses, got %q %q", got.WhereSQL(), got.HavingSQL())
	}
	if len(got.Args) != 0 {
		t.Errorf("Args = %v, want none", got.Args)
	}
	if got.NextArg != 1 {
		t.Errorf("NextArg = %d, want 1", got.NextArg)
	}
}

func TestBuildFilters_AbsentValues(t *testing.T) {
	got := BuildFilters(map[string]any{
		"name":               "",
		"perfindexscore_min": nil,
		"perfindexscore_max": "not-a-number",
		"unknown_key":        "DROP TABLE District",
	}, testCatalog)

	if len(got.Where) != 0 || len(got.Args) != 0 {
		t.Errorf("expected everything skipped, got %v %v", got.Where, got.Args)
	}
}

func TestBuildFilters_ZeroIsPresent(t *testing.T) {
	got := BuildFilters(map[string]any{"perfindexscore_min": 0}, testCatalog)
	if !reflect.DeepEqual(got.Args, []any{0.0}) {
		t.Errorf("Args = %#v, want [0]", got.Args)
	}
}

func TestBuildFilters_HavingContinuesNumbering(t *testing.T) {
	got := BuildFilters(map[string]any{
		"schoolcount_min":    "3",
		"perfindexscore_min": "80",
	}, testCatalog)

	if got.WhereSQL() != " WHERE da.perfindexscore >= $1" {
		t.Errorf("WhereSQL = %q", got.WhereSQL())
	}
	if got.HavingSQL() != " HAVING COUNT(bt.districtirn) >= $2" {
		t.Errorf("HavingSQL = %q", got.HavingSQL())
	}
	if !reflect.DeepEqual(got.Args, []any{80.0, 3.0}) {
		t.Errorf("Args = %#v", got.Args)
	}
}

func TestBuildFilters_ValueNeverInSQL(t *testing.T) {
	evil := "x' OR '1'='1"
	got := BuildFilters(map[string]any{"name": evil}, testCatalog)

	if strings.Contains(got.WhereSQL(), evil) {
		t.Errorf("value leaked into SQL: %q", got.WhereSQL())
	}
	if !reflect.DeepEqual(got.Args, []any{evil}) {
		t.Errorf("Args = %#v", got.Args)
	}
}

func TestFilterParam(t *testing.T) {
	tests := []struct {
		name   string
		raw    any
		pt     ParamType
		want   any
		wantOK bool
	}{
		{"nil", nil, ParamNumeric, nil, false},
		{"empty string", "", ParamText, nil, false},
		{"text", "spring", ParamText, "spring", true},
		{"text keeps spaces", " spring ", ParamText, " spring ", true},
		{"numeric string", " 80.5 ", ParamNumeric, 80.5, true},
		{"numeric garbage", "eighty", ParamNumeric, nil, false},
		{"numeric NaN", "NaN", ParamNumeric, nil, false},
		{"query slice", []string{"70", "90"}, ParamNumeric, 70.0, true},
		{"empty slice", []string{}, ParamNumeric, nil, false},
		{"json number", json.Number("12"), ParamNumeric, 12.0, true},
		{"int", 5, ParamNumeric, 5.0, true},
		{"int64", int64(-2), ParamNumeric, -2.0, true},
		{"uint8", uint8(9), ParamNumeric, 9.0, true},
		{"float32", float32(0.5), ParamNumeric, 0.5, true},
		{"float inf", math.Inf(1), ParamNumeric, nil, false},
		{"float as text", 2.5, ParamText, "2.5", true},
		{"bool numeric", true, ParamNumeric, 1.0, true},
		{"bool text", false, ParamText, "false", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := filterParam(tt.raw, tt.pt)
			if ok != tt.wantOK {
				t.Fatalf("filterParam(%#v) ok = %v, want %v", tt.raw, ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("filterParam(%#v) = %#v, want %#v", tt.raw, got, tt.want)
			}
		})
	}
}
