package loader

import (
	"fmt"

	"github.com/pkg/errors"
)

// Error kinds reported in LoadResult.Kind and log lines.
const (
	KindSchema    = "schema"
	KindFileRead  = "file_read"
	KindRow       = "row"
	KindStatement = "statement"
	KindOther     = "other"
)

// SchemaError means introspection returned no columns for a table
// referenced by a \copy directive.
type SchemaError struct {
	Table string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("no columns found for table %q", e.Table)
}

// FileReadError means a script or CSV file could not be read or parsed.
type FileReadError struct {
	Path string
	Err  error
}

func (e *FileReadError) Error() string {
	return fmt.Sprintf("read %s: %v", e.Path, e.Err)
}

func (e *FileReadError) Unwrap() error { return e.Err }

// RowError is a failed INSERT for one CSV record. Values holds the coerced
// row so the failure can be reproduced from the log.
type RowError struct {
	Table  string
	Line   int
	Values []any
	Err    error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("insert into %s (line %d): %v", e.Table, e.Line, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }

// StatementError is a failed plain-SQL statement. Index is 1-based.
type StatementError struct {
	Index     int
	Statement string
	Err       error
}

func (e *StatementError) Error() string {
	return fmt.Sprintf("statement %d: %v", e.Index, e.Err)
}

func (e *StatementError) Unwrap() error { return e.Err }

// Kind names the taxonomy bucket err belongs to, or "" for nil.
func Kind(err error) string {
	if err == nil {
		return ""
	}

	var (
		schemaErr *SchemaError
		fileErr   *FileReadError
		rowErr    *RowError
		stmtErr   *StatementError
	)
	switch {
	case errors.As(err, &schemaErr):
		return KindSchema
	case errors.As(err, &fileErr):
		return KindFileRead
	case errors.As(err, &rowErr):
		return KindRow
	case errors.As(err, &stmtErr):
		return KindStatement
	default:
		return KindOther
	}
}
