package loader

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Column is one table column as reported by information_schema.
type Column struct {
	Name            string
	DataType        string
	OrdinalPosition int
}

// Querier runs a read query and returns normalized rows. Tx satisfies it.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) ([]map[string]any, error)
}

const columnsQuery = `SELECT column_name::text AS column_name,
       data_type::text AS data_type,
       ordinal_position::int AS ordinal_position
FROM information_schema.columns
WHERE table_schema = COALESCE($2::text, current_schema()) AND table_name = $1
ORDER BY ordinal_position`

// Introspect returns the columns of table in ordinal order. The name is
// lower-cased before lookup; "schema.table" is looked up in that schema,
// a bare name in current_schema(). A table with no visible columns is a
// SchemaError.
func Introspect(ctx context.Context, q Querier, table string) ([]Column, error) {
	name := strings.ToLower(table)
	var schema any
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		schema, name = name[:i], name[i+1:]
	}

	rows, err := q.Query(ctx, columnsQuery, name, schema)
	if err != nil {
		return nil, errors.Wrapf(err, "introspect %s", table)
	}
	if len(rows) == 0 {
		return nil, &SchemaError{Table: table}
	}

	cols := make([]Column, len(rows))
	for i, row := range rows {
		pos, err := asInt(row["ordinal_position"])
		if err != nil {
			return nil, errors.Wrapf(err, "introspect %s: ordinal_position", table)
		}
		cols[i] = Column{
			Name:            asString(row["column_name"]),
			DataType:        asString(row["data_type"]),
			OrdinalPosition: pos,
		}
	}
	return cols, nil
}

// ColumnNames returns the names of cols in order.
func ColumnNames(cols []Column) []string {
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.Name
	}
	return names
}

func asString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case []byte:
		return string(s)
	default:
		return fmt.Sprint(s)
	}
}

func asInt(v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int16:
		return int(n), nil
	case int32:
		return int(n), nil
	case int64:
		return int(n), nil
	case string:
		return strconv.Atoi(n)
	case []byte:
		return strconv.Atoi(string(n))
	default:
		return 0, fmt.Errorf("unexpected type %T", v)
	}
}
