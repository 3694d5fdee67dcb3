package loader

import (
	"context"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/JonMunkholm/schoolreport/internal/core"
	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"
)

// BulkLoader runs one script inside one transaction. Scripts holding \copy
// directives have their CSV files inserted row by row; other scripts are
// split into statements and executed in order. Any failure rolls back the
// whole script.
type BulkLoader struct {
	// DataDir resolves relative \copy paths.
	DataDir string

	// MaxFileSize caps CSV reads in bytes. Zero disables the cap.
	MaxFileSize int64

	Logger *slog.Logger
}

// NewBulkLoader creates a loader that resolves CSV paths against dataDir.
func NewBulkLoader(dataDir string, maxFileSize int64, logger *slog.Logger) *BulkLoader {
	if logger == nil {
		logger = slog.Default()
	}
	return &BulkLoader{DataDir: dataDir, MaxFileSize: maxFileSize, Logger: logger}
}

// LoadScript executes script in a single transaction on sess. name labels the
// result and log lines. The returned result is final.
func (l *BulkLoader) LoadScript(ctx context.Context, sess Session, name, script string) LoadResult {
	start := time.Now()
	result := LoadResult{File: name}
	logger := l.logger().With("file", name)

	err := l.runInTx(ctx, sess, logger, script, &result)
	result.Duration = time.Since(start)
	if err != nil {
		result.fail(err)
		logger.Error("script rolled back",
			"kind", result.Kind,
			"error", err,
			"duration", result.Duration,
		)
		return result
	}

	result.Status = StatusCommitted
	logger.Info("script committed",
		"rows", result.Rows,
		"skipped", result.Skipped,
		"statements", result.Statements,
		"duration", result.Duration,
	)
	return result
}

func (l *BulkLoader) runInTx(ctx context.Context, sess Session, logger *slog.Logger, script string, result *LoadResult) error {
	tx, err := sess.Begin(ctx)
	if err != nil {
		return err
	}
	// No-op once committed
	defer tx.Rollback(ctx)

	directives := ParseDirectives(script)
	if len(directives) > 0 {
		if rest := ignoredSQL(script); rest != "" {
			logger.Warn("script mixes \\copy with other SQL; only the \\copy directives run",
				"ignored", rest,
			)
		}
		for _, d := range directives {
			if err := l.copyInto(ctx, tx, logger, d, result); err != nil {
				return err
			}
		}
	} else {
		for i, stmt := range SplitStatements(script) {
			if _, err := tx.Exec(ctx, stmt); err != nil {
				return &StatementError{Index: i + 1, Statement: stmt, Err: err}
			}
			result.Statements++
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return errors.Wrap(err, "commit")
	}
	return nil
}

// copyInto emulates one \copy directive with per-row INSERTs on tx.
func (l *BulkLoader) copyInto(ctx context.Context, tx Tx, logger *slog.Logger, d CopyDirective, result *LoadResult) error {
	path := l.resolvePath(d.Path)
	logger = logger.With("table", d.Table, "csv", path)

	data, err := ReadFile(path, l.MaxFileSize)
	if err != nil {
		return err
	}
	records, err := ParseCSV(data)
	if err != nil {
		return &FileReadError{Path: path, Err: err}
	}

	cols, err := Introspect(ctx, tx, d.Table)
	if err != nil {
		return err
	}
	insert := InsertSQL(d.Table, cols)
	logger.Debug("target columns", "columns", ColumnNames(cols))

	for _, rec := range records {
		values := CoerceRow(rec.Fields, cols)
		n, err := tx.Exec(ctx, insert, values...)
		if err != nil {
			logger.Error("row insert failed",
				"line", rec.Line,
				"values", values,
				"error", err,
			)
			return &RowError{Table: d.Table, Line: rec.Line, Values: values, Err: err}
		}
		if n == 0 {
			result.Skipped++
		} else {
			result.Rows++
		}
	}

	logger.Debug("copied", "records", len(records))
	return nil
}

func (l *BulkLoader) resolvePath(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(l.DataDir, p)
}

func (l *BulkLoader) logger() *slog.Logger {
	if l.Logger == nil {
		return slog.Default()
	}
	return l.Logger
}

// CoerceRow aligns fields with cols: each field is coerced to its column's
// type, missing trailing fields become nil and extra fields are dropped.
// The result always has len(cols) entries.
func CoerceRow(fields []string, cols []Column) []any {
	row := make([]any, len(cols))
	for i, col := range cols {
		var raw *string
		if i < len(fields) {
			raw = &fields[i]
		}
		row[i] = core.CoerceNullable(raw, col.DataType)
	}
	return row
}

// InsertSQL builds the parameterized INSERT for table. Identifiers are quoted;
// the table name is lower-cased to match how unquoted DDL stores it.
func InsertSQL(table string, cols []Column) string {
	names := make([]string, len(cols))
	placeholders := make([]string, len(cols))
	for i, c := range cols {
		names[i] = pgx.Identifier{c.Name}.Sanitize()
		placeholders[i] = "$" + strconv.Itoa(i+1)
	}

	return "INSERT INTO " + pgx.Identifier(strings.Split(strings.ToLower(table), ".")).Sanitize() +
		" (" + strings.Join(names, ", ") + ")" +
		" VALUES (" + strings.Join(placeholders, ", ") + ")" +
		" ON CONFLICT DO NOTHING"
}

// ignoredSQL is what a \copy script would have executed besides its
// directives, with comment-only lines removed.
func ignoredSQL(script string) string {
	var kept []string
	for _, line := range strings.Split(StripDirectives(script), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || line == ";" || strings.HasPrefix(line, "--") {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, " ")
}
