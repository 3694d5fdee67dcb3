package core

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// EndpointDefinition describes one filterable query endpoint.
// Select, GroupBy and OrderBy are fixed SQL written alongside the catalog;
// request input only ever supplies bound values.
type EndpointDefinition struct {
	Key     string        // Route name: "district"
	Label   string        // Human-readable description
	Filters FilterCatalog // Accepted filter keys
	Select  string        // SELECT ... FROM ... [JOIN ...], never a WHERE
	Where   string        // Optional fixed predicate, ANDed before any filters
	GroupBy string        // Optional, without the GROUP BY keyword
	OrderBy string        // Optional, without the ORDER BY keyword
}

// QueryStatement is a complete parameterized statement ready to execute.
type QueryStatement struct {
	SQL    string
	Params []any
}

// Compose builds the full statement for values.
// Clause keywords are only emitted when they have predicates.
func (d EndpointDefinition) Compose(values map[string]any) QueryStatement {
	clause := BuildFilters(values, d.Filters)

	if d.Where != "" {
		clause.Where = append([]string{d.Where}, clause.Where...)
	}

	sql := d.Select + clause.WhereSQL()
	if d.GroupBy != "" {
		sql += " GROUP BY " + d.GroupBy
	}
	sql += clause.HavingSQL()
	if d.OrderBy != "" {
		sql += " ORDER BY " + d.OrderBy
	}

	params := clause.Args
	if params == nil {
		params = []any{}
	}
	return QueryStatement{SQL: sql, Params: params}
}

var (
	registry   = make(map[string]EndpointDefinition)
	registryMu sync.RWMutex
)

// Register adds an endpoint definition to the registry.
// Panics on a duplicate key, a WHERE inside Select, or aggregate filters
// declared without a GROUP BY.
func Register(def EndpointDefinition) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if _, exists := registry[def.Key]; exists {
		panic(fmt.Sprintf("endpoint already registered: %s", def.Key))
	}
	if def.Select == "" {
		panic(fmt.Sprintf("endpoint %s: empty select", def.Key))
	}
	if strings.Contains(strings.ToUpper(def.Select), " WHERE ") {
		panic(fmt.Sprintf("endpoint %s: fixed predicates belong in Where, not Select", def.Key))
	}
	if def.GroupBy == "" {
		for _, spec := range def.Filters.specs {
			if spec.Aggregate {
				panic(fmt.Sprintf("endpoint %s: aggregate filter %s requires GROUP BY", def.Key, spec.Key))
			}
		}
	}

	registry[def.Key] = def
}

// Get returns an endpoint definition by key.
// Returns false if not found.
func Get(key string) (EndpointDefinition, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	def, ok := registry[key]
	return def, ok
}

// All returns all registered endpoint definitions sorted by key.
func All() []EndpointDefinition {
	registryMu.RLock()
	defer registryMu.RUnlock()

	result := make([]EndpointDefinition, 0, len(registry))
	for _, def := range registry {
		result = append(result, def)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Key < result[j].Key
	})

	return result
}

// EndpointCount returns the number of registered endpoints.
func EndpointCount() int {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return len(registry)
}

// Clear removes all registered endpoints.
// Primarily useful for testing.
func Clear() {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry = make(map[string]EndpointDefinition)
}
