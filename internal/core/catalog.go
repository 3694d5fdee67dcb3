package core

import (
	"fmt"
	"strings"
)

// PlaceholderToken marks where a FilterSpec expression takes its parameter.
// The builder replaces it with the next positional placeholder ($1, $2, ...).
const PlaceholderToken = "$?"

// ParamType says how a filter value is converted before it is bound.
type ParamType int

const (
	ParamNumeric ParamType = iota
	ParamText
)

func (p ParamType) String() string {
	switch p {
	case ParamNumeric:
		return "numeric"
	case ParamText:
		return "text"
	default:
		return "unknown"
	}
}

// FilterSpec maps one externally accepted filter key onto a SQL comparison.
// Expr is written by us, never by the caller: only column references,
// operators and exactly one PlaceholderToken.
type FilterSpec struct {
	Key       string    // Query parameter name: "perfindexscore_min"
	Expr      string    // SQL fragment: "da.perfindexscore >= $?"
	Param     ParamType // How the value is converted
	Aggregate bool      // Goes into HAVING instead of WHERE
}

// FilterCatalog is the ordered, whitelisted set of filters for one endpoint.
// Its order is the order predicates and parameters are emitted in.
type FilterCatalog struct {
	specs []FilterSpec
	index map[string]int
}

// NewFilterCatalog validates specs and returns an immutable catalog.
// Every key must be unique and every expression must hold exactly one placeholder token.
func NewFilterCatalog(specs ...FilterSpec) (FilterCatalog, error) {
	cat := FilterCatalog{
		specs: make([]FilterSpec, len(specs)),
		index: make(map[string]int, len(specs)),
	}
	for i, spec := range specs {
		if spec.Key == "" {
			return FilterCatalog{}, fmt.Errorf("filter %d: empty key", i)
		}
		if _, dup := cat.index[spec.Key]; dup {
			return FilterCatalog{}, fmt.Errorf("filter %q: duplicate key", spec.Key)
		}
		if n := strings.Count(spec.Expr, PlaceholderToken); n != 1 {
			return FilterCatalog{}, fmt.Errorf("filter %q: expression must contain exactly one %s, found %d", spec.Key, PlaceholderToken, n)
		}
		cat.specs[i] = spec
		cat.index[spec.Key] = i
	}
	return cat, nil
}

// MustFilterCatalog is NewFilterCatalog for package-level definitions.
func MustFilterCatalog(specs ...FilterSpec) FilterCatalog {
	cat, err := NewFilterCatalog(specs...)
	if err != nil {
		panic(err)
	}
	return cat
}

// Specs returns a copy of the catalog's filters in emission order.
func (c FilterCatalog) Specs() []FilterSpec {
	out := make([]FilterSpec, len(c.specs))
	copy(out, c.specs)
	return out
}

// Keys returns the accepted filter keys in emission order.
func (c FilterCatalog) Keys() []string {
	keys := make([]string, len(c.specs))
	for i, spec := range c.specs {
		keys[i] = spec.Key
	}
	return keys
}

// Lookup returns the spec for key.
func (c FilterCatalog) Lookup(key string) (FilterSpec, bool) {
	i, ok := c.index[key]
	if !ok {
		return FilterSpec{}, false
	}
	return c.specs[i], true
}

// Len returns the number of filters in the catalog.
func (c FilterCatalog) Len() int {
	return len(c.specs)
}

// TextContains builds a case-insensitive substring filter on column.
// The value is not escaped, so % and _ inside it act as LIKE wildcards.
func TextContains(key, column string) FilterSpec {
	return FilterSpec{
		Key:   key,
		Expr:  fmt.Sprintf("LOWER(%s) LIKE '%%' || LOWER(%s) || '%%'", column, PlaceholderToken),
		Param: ParamText,
	}
}

// NumericRange builds the <prefix>_min / <prefix>_max pair for column.
func NumericRange(prefix, column string) []FilterSpec {
	return []FilterSpec{
		{Key: prefix + "_min", Expr: column + " >= " + PlaceholderToken, Param: ParamNumeric},
		{Key: prefix + "_max", Expr: column + " <= " + PlaceholderToken, Param: ParamNumeric},
	}
}

// AggregateRange is NumericRange applied after grouping.
func AggregateRange(prefix, expr string) []FilterSpec {
	specs := NumericRange(prefix, expr)
	for i := range specs {
		specs[i].Aggregate = true
	}
	return specs
}
