package loader

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strings"

	"github.com/jackc/pgx/v5"
	_ "github.com/lib/pq"
	"github.com/pkg/errors"
)

// Session is the single database connection a load run uses from start to finish.
type Session interface {
	Begin(ctx context.Context) (Tx, error)
	Close(ctx context.Context) error
}

// Tx is one file's transaction. Query results are normalized to one map per
// row keyed by column name, whichever driver produced them.
type Tx interface {
	Exec(ctx context.Context, sql string, args ...any) (int64, error)
	Query(ctx context.Context, sql string, args ...any) ([]map[string]any, error)
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// Supported driver names for Open.
const (
	DriverPgx = "pgx"
	DriverPq  = "pq"
)

// Open connects a Session using the named driver.
func Open(ctx context.Context, driver, connString string) (Session, error) {
	switch strings.ToLower(driver) {
	case DriverPgx, "":
		conn, err := pgx.Connect(ctx, connString)
		if err != nil {
			return nil, errors.Wrap(err, "pgx connect")
		}
		return NewPgxSession(conn), nil

	case DriverPq:
		db, err := sql.Open("postgres", pqConnString(connString))
		if err != nil {
			return nil, errors.Wrap(err, "pq open")
		}
		conn, err := db.Conn(ctx)
		if err != nil {
			db.Close()
			return nil, errors.Wrap(err, "pq connect")
		}
		return &SQLSession{db: db, conn: conn}, nil

	default:
		return nil, fmt.Errorf("unknown driver %q (want %s or %s)", driver, DriverPgx, DriverPq)
	}
}

// pqConnString rewrites the libpq sslmodes lib/pq rejects: allow becomes
// disable and prefer becomes require, keeping each mode's first choice.
// Key/value DSNs are handled the same way as URLs.
func pqConnString(connString string) string {
	if !strings.Contains(connString, "sslmode=") {
		return connString
	}
	if strings.HasPrefix(connString, "postgres://") || strings.HasPrefix(connString, "postgresql://") {
		u, err := url.Parse(connString)
		if err != nil {
			return connString
		}
		q := u.Query()
		if mode, ok := pqSSLModes[q.Get("sslmode")]; ok {
			q.Set("sslmode", mode)
			u.RawQuery = q.Encode()
		}
		return u.String()
	}

	fields := strings.Fields(connString)
	for i, f := range fields {
		if v, ok := strings.CutPrefix(f, "sslmode="); ok {
			if mode, ok := pqSSLModes[v]; ok {
				fields[i] = "sslmode=" + mode
			}
		}
	}
	return strings.Join(fields, " ")
}

var pqSSLModes = map[string]string{
	"allow":  "disable",
	"prefer": "require",
}

// PgxSession is a Session over a single pgx connection.
type PgxSession struct {
	conn *pgx.Conn
}

// NewPgxSession wraps an open connection.
func NewPgxSession(conn *pgx.Conn) *PgxSession {
	return &PgxSession{conn: conn}
}

func (s *PgxSession) Begin(ctx context.Context) (Tx, error) {
	tx, err := s.conn.Begin(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "begin transaction")
	}
	return &pgxTx{tx: tx}, nil
}

func (s *PgxSession) Close(ctx context.Context) error {
	return s.conn.Close(ctx)
}

type pgxTx struct {
	tx pgx.Tx
}

func (t *pgxTx) Exec(ctx context.Context, sql string, args ...any) (int64, error) {
	tag, err := t.tx.Exec(ctx, sql, args...)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (t *pgxTx) Query(ctx context.Context, sql string, args ...any) ([]map[string]any, error) {
	rows, err := t.tx.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToMap)
}

func (t *pgxTx) Commit(ctx context.Context) error   { return t.tx.Commit(ctx) }
func (t *pgxTx) Rollback(ctx context.Context) error { return t.tx.Rollback(ctx) }

// SQLSession is a Session over database/sql with the lib/pq driver.
type SQLSession struct {
	db   *sql.DB
	conn *sql.Conn
}

func (s *SQLSession) Begin(ctx context.Context) (Tx, error) {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "begin transaction")
	}
	return &sqlTx{tx: tx}, nil
}

func (s *SQLSession) Close(context.Context) error {
	if err := s.conn.Close(); err != nil {
		s.db.Close()
		return err
	}
	return s.db.Close()
}

type sqlTx struct {
	tx *sql.Tx
}

func (t *sqlTx) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	res, err := t.tx.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (t *sqlTx) Query(ctx context.Context, query string, args ...any) ([]map[string]any, error) {
	rows, err := t.tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	result := []map[string]any{}
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}

		row := make(map[string]any, len(cols))
		for i, col := range cols {
			// lib/pq hands back text-like values as []byte
			if b, ok := values[i].([]byte); ok {
				row[col] = string(b)
				continue
			}
			row[col] = values[i]
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

func (t *sqlTx) Commit(context.Context) error   { return t.tx.Commit() }
func (t *sqlTx) Rollback(context.Context) error { return t.tx.Rollback() }
