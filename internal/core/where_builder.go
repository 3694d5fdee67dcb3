package core

// where_builder.go turns a loose filter map into parameterized SQL.
//
// Only FilterCatalog expressions ever reach the SQL text; caller input is
// bound as parameters. Placeholders are numbered once across WHERE and
// HAVING so the two clauses can share one argument list.

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FilterClause is the result of applying a filter map to a catalog.
type FilterClause struct {
	Where   []string // Predicates joined with AND after WHERE
	Having  []string // Predicates joined with AND after HAVING
	Args    []any    // Bound values, in placeholder order
	NextArg int      // Index the caller should use for its next placeholder
}

// WhereSQL returns " WHERE a AND b", or "" when there are no predicates.
func (c FilterClause) WhereSQL() string {
	if len(c.Where) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(c.Where, " AND ")
}

// HavingSQL returns " HAVING a AND b", or "" when there are no predicates.
func (c FilterClause) HavingSQL() string {
	if len(c.Having) == 0 {
		return ""
	}
	return " HAVING " + strings.Join(c.Having, " AND ")
}

// WhereBuilder accumulates predicates and their arguments with a shared
// placeholder counter.
type WhereBuilder struct {
	conditions []string
	having     []string
	args       []any
	argIndex   int
}

// NewWhereBuilder returns a builder whose first placeholder is $1.
func NewWhereBuilder() *WhereBuilder {
	return &WhereBuilder{argIndex: 1}
}

// Add appends a WHERE predicate. expr must contain exactly one PlaceholderToken.
func (wb *WhereBuilder) Add(expr string, arg any) {
	wb.conditions = append(wb.conditions, wb.bind(expr, arg))
}

// AddHaving appends a HAVING predicate. expr must contain exactly one PlaceholderToken.
func (wb *WhereBuilder) AddHaving(expr string, arg any) {
	wb.having = append(wb.having, wb.bind(expr, arg))
}

func (wb *WhereBuilder) bind(expr string, arg any) string {
	sql := strings.Replace(expr, PlaceholderToken, "$"+strconv.Itoa(wb.argIndex), 1)
	wb.args = append(wb.args, arg)
	wb.argIndex++
	return sql
}

// NextArgIndex returns the next placeholder index for appending LIMIT/OFFSET etc.
func (wb *WhereBuilder) NextArgIndex() int {
	return wb.argIndex
}

// Build returns the accumulated clause.
func (wb *WhereBuilder) Build() FilterClause {
	return FilterClause{
		Where:   wb.conditions,
		Having:  wb.having,
		Args:    wb.args,
		NextArg: wb.argIndex,
	}
}

// BuildFilters applies values to cat in catalog order.
//
// A key contributes a predicate only when its value is present: nil, "" and
// missing keys are skipped, while 0 and false count. Numeric filters whose
// value does not parse to a finite number are skipped as if absent. Keys not
// in the catalog are ignored.
func BuildFilters(values map[string]any, cat FilterCatalog) FilterClause {
	wb := NewWhereBuilder()

	for _, spec := range cat.specs {
		raw, ok := values[spec.Key]
		if !ok {
			continue
		}
		arg, ok := filterParam(raw, spec.Param)
		if !ok {
			continue
		}
		if spec.Aggregate {
			wb.AddHaving(spec.Expr, arg)
		} else {
			wb.Add(spec.Expr, arg)
		}
	}

	return wb.Build()
}

// filterParam converts a raw filter value into its bound parameter.
// The bool result is false when the value counts as absent.
func filterParam(raw any, pt ParamType) (any, bool) {
	switch v := raw.(type) {
	case nil:
		return nil, false
	case []string:
		if len(v) == 0 {
			return nil, false
		}
		return filterParam(v[0], pt)
	case string:
		return stringParam(v, pt)
	case json.Number:
		return stringParam(v.String(), pt)
	case bool:
		if pt == ParamText {
			return strconv.FormatBool(v), true
		}
		if v {
			return float64(1), true
		}
		return float64(0), true
	case float64:
		return floatParam(v, pt)
	case float32:
		return floatParam(float64(v), pt)
	case int:
		return floatParam(float64(v), pt)
	case int8:
		return floatParam(float64(v), pt)
	case int16:
		return floatParam(float64(v), pt)
	case int32:
		return floatParam(float64(v), pt)
	case int64:
		return floatParam(float64(v), pt)
	case uint:
		return floatParam(float64(v), pt)
	case uint8:
		return floatParam(float64(v), pt)
	case uint16:
		return floatParam(float64(v), pt)
	case uint32:
		return floatParam(float64(v), pt)
	case uint64:
		return floatParam(float64(v), pt)
	default:
		return stringParam(fmt.Sprint(v), pt)
	}
}

func stringParam(s string, pt ParamType) (any, bool) {
	if s == "" {
		return nil, false
	}
	if pt == ParamText {
		return s, true
	}
	f, ok := parseFinite(strings.TrimSpace(s))
	if !ok {
		return nil, false
	}
	return f, true
}

func floatParam(f float64, pt ParamType) (any, bool) {
	if pt == ParamText {
		return strconv.FormatFloat(f, 'f', -1, 64), true
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, false
	}
	return f, true
}
