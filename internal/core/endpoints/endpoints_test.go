package endpoints

import (
	"reflect"
	"strings"
	"testing"

	"github.com/JonMunkholm/schoolreport/internal/core"
)

func TestRegistered(t *testing.T) {
	for _, key := range []string{"district", "schools", "highschoolachievement", "highschools"} {
		if _, ok := core.Get(key); !ok {
			t.Errorf("endpoint %q not registered", key)
		}
	}
}

func TestDistrict_NameAndScore(t *testing.T) {
	stmt := District.Compose(map[string]any{
		"name":               "spring",
		"perfindexscore_min": "80",
	})

	where := stmt.SQL[strings.Index(stmt.SQL, " WHERE "):strings.Index(stmt.SQL, " GROUP BY ")]
	want := " WHERE LOWER(d.name) LIKE '%' || LOWER($1) || '%' AND da.perfindexscore >= $2"
	if where != want {
		t.Errorf("WHERE clause =\n%q\nwant\n%q", where, want)
	}
	if !reflect.DeepEqual(stmt.Params, []any{"spring", 80.0}) {
		t.Errorf("Params = %#v", stmt.Params)
	}
	if strings.Contains(stmt.SQL, " HAVING ") {
		t.Error("no HAVING expected without schoolcount filters")
	}
}

func TestDistrict_NoFilters(t *testing.T) {
	stmt := District.Compose(map[string]any{})

	if strings.Contains(stmt.SQL, " WHERE ") {
		t.Errorf("unexpected WHERE in %q", stmt.SQL)
	}
	if len(stmt.Params) != 0 {
		t.Errorf("Params = %#v, want empty", stmt.Params)
	}
	if !strings.HasSuffix(stmt.SQL, " ORDER BY d.name") {
		t.Errorf("SQL should end in ORDER BY: %q", stmt.SQL)
	}
}

func TestDistrict_SchoolCountHaving(t *testing.T) {
	stmt := District.Compose(map[string]any{
		"schoolcount_max":     "10",
		"studentsadvanced_min": 5,
	})

	if !strings.Contains(stmt.SQL, " WHERE da.studentsadvanced >= $1 GROUP BY ") {
		t.Errorf("WHERE missing: %q", stmt.SQL)
	}
	if !strings.Contains(stmt.SQL, " HAVING COUNT(bt.districtirn) <= $2 ORDER BY ") {
		t.Errorf("HAVING missing: %q", stmt.SQL)
	}
	if !reflect.DeepEqual(stmt.Params, []any{5.0, 10.0}) {
		t.Errorf("Params = %#v", stmt.Params)
	}
}

func TestSchools_Filters(t *testing.T) {
	stmt := Schools.Compose(map[string]any{
		"perfindexscore_max": "90",
		"enrollment_min":     "500",
		"attendancerate_min": "",
	})

	want := " WHERE b.enrollment >= $1 AND ba.perfindexscore <= $2 ORDER BY b.name"
	if !strings.HasSuffix(stmt.SQL, want) {
		t.Errorf("SQL = %q, want suffix %q", stmt.SQL, want)
	}
	if !reflect.DeepEqual(stmt.Params, []any{500.0, 90.0}) {
		t.Errorf("Params = %#v", stmt.Params)
	}
}

func TestHighSchoolAchievement_Filters(t *testing.T) {
	keys := HighSchoolAchievement.Filters.Keys()
	if len(keys) != 21 {
		t.Fatalf("filter count = %d, want 21", len(keys))
	}

	stmt := HighSchoolAchievement.Compose(map[string]any{
		"fouryeargradrate_min": "95",
		"name":                 "central",
	})
	want := " WHERE LOWER(b.name) LIKE '%' || LOWER($1) || '%' AND h.fouryeargradrate >= $2 ORDER BY b.name"
	if !strings.HasSuffix(stmt.SQL, want) {
		t.Errorf("SQL = %q, want suffix %q", stmt.SQL, want)
	}
}

func TestHighSchools_IgnoresFilters(t *testing.T) {
	stmt := HighSchools.Compose(map[string]any{"name": "x"})
	if stmt.SQL != "SELECT irn, name FROM Building WHERE level = 'High' ORDER BY name" {
		t.Errorf("SQL = %q", stmt.SQL)
	}
	if len(stmt.Params) != 0 {
		t.Errorf("Params = %#v", stmt.Params)
	}
}

func TestCatalogs_NoDuplicateColumns(t *testing.T) {
	for _, def := range core.All() {
		seen := make(map[string]bool)
		for _, spec := range def.Filters.Specs() {
			if seen[spec.Expr] {
				t.Errorf("%s: expression %q declared twice", def.Key, spec.Expr)
			}
			seen[spec.Expr] = true
		}
	}
}
