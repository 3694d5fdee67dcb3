package core

import (
	"reflect"
	"strings"
	"testing"
)

// withCleanRegistry saves the registry, clears it, and restores it after the test.
func withCleanRegistry(t *testing.T) {
	t.Helper()
	registryMu.Lock()
	saved := registry
	registry = make(map[string]EndpointDefinition)
	registryMu.Unlock()

	t.Cleanup(func() {
		registryMu.Lock()
		registry = saved
		registryMu.Unlock()
	})
}

func sampleDefinition(key string) EndpointDefinition {
	return EndpointDefinition{
		Key:     key,
		Label:   "Sample",
		Filters: testCatalog,
		Select:  "SELECT d.irn, COUNT(bt.districtirn) FROM District d LEFT JOIN BelongsTo bt ON d.irn = bt.districtirn",
		GroupBy: "d.irn",
		OrderBy: "d.irn",
	}
}

func TestRegister(t *testing.T) {
	withCleanRegistry(t)

	Register(sampleDefinition("b"))
	Register(sampleDefinition("a"))

	if EndpointCount() != 2 {
		t.Fatalf("EndpointCount() = %d, want 2", EndpointCount())
	}
	if _, ok := Get("a"); !ok {
		t.Error("Get(a) not found")
	}
	if _, ok := Get("missing"); ok {
		t.Error("Get(missing) should miss")
	}

	all := All()
	if all[0].Key != "a" || all[1].Key != "b" {
		t.Errorf("All() not sorted: %s, %s", all[0].Key, all[1].Key)
	}

	Clear()
	if EndpointCount() != 0 {
		t.Errorf("EndpointCount() after Clear = %d", EndpointCount())
	}
}

func TestRegister_Panics(t *testing.T) {
	tests := []struct {
		name string
		def  func() EndpointDefinition
	}{
		{"empty select", func() EndpointDefinition {
			d := sampleDefinition("x")
			d.Select = ""
			return d
		}},
		{"where inside select", func() EndpointDefinition {
			d := sampleDefinition("x")
			d.Select = "SELECT irn FROM Building WHERE level = 'High'"
			return d
		}},
		{"aggregate without group by", func() EndpointDefinition {
			d := sampleDefinition("x")
			d.GroupBy = ""
			return d
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withCleanRegistry(t)
			defer func() {
				if recover() == nil {
					t.Error("Register should panic")
				}
			}()
			Register(tt.def())
		})
	}

	t.Run("duplicate key", func(t *testing.T) {
		withCleanRegistry(t)
		Register(sampleDefinition("dup"))
		defer func() {
			if recover() == nil {
				t.Error("Register should panic on duplicate")
			}
		}()
		Register(sampleDefinition("dup"))
	})
}

func TestCompose(t *testing.T) {
	def := sampleDefinition("district")

	stmt := def.Compose(map[string]any{"schoolcount_min": 2, "name": "oak"})
	want := "SELECT d.irn, COUNT(bt.districtirn) FROM District d LEFT JOIN BelongsTo bt ON d.irn = bt.districtirn" +
		" WHERE LOWER(d.name) LIKE '%' || LOWER($1) || '%'" +
		" GROUP BY d.irn" +
		" HAVING COUNT(bt.districtirn) >= $2" +
		" ORDER BY d.irn"
	if stmt.SQL != want {
		t.Errorf("SQL =\n%s\nwant\n%s", stmt.SQL, want)
	}
	if !reflect.DeepEqual(stmt.Params, []any{"oak", 2.0}) {
		t.Errorf("Params = %#v", stmt.Params)
	}
}

func TestCompose_NoFilters(t *testing.T) {
	def := EndpointDefinition{Key: "plain", Select: "SELECT irn FROM Building", Filters: MustFilterCatalog()}

	stmt := def.Compose(nil)
	if stmt.SQL != "SELECT irn FROM Building" {
		t.Errorf("SQL = %q", stmt.SQL)
	}
	if stmt.Params == nil || len(stmt.Params) != 0 {
		t.Errorf("Params = %#v, want empty non-nil", stmt.Params)
	}
}

func TestCompose_FixedWhere(t *testing.T) {
	def := sampleDefinition("district")
	def.Where = "d.active"

	stmt := def.Compose(map[string]any{"name": "oak"})
	want := "SELECT d.irn, COUNT(bt.districtirn) FROM District d LEFT JOIN BelongsTo bt ON d.irn = bt.districtirn" +
		" WHERE d.active AND LOWER(d.name) LIKE '%' || LOWER($1) || '%'" +
		" GROUP BY d.irn" +
		" ORDER BY d.irn"
	if stmt.SQL != want {
		t.Errorf("SQL =\n%s\nwant\n%s", stmt.SQL, want)
	}

	stmt = def.Compose(nil)
	if !strings.Contains(stmt.SQL, " WHERE d.active GROUP BY") {
		t.Errorf("SQL without filters = %q", stmt.SQL)
	}
}
