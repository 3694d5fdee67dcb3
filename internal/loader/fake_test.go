package loader

import (
	"context"
	"errors"
	"strings"
)

var errTxDone = errors.New("transaction already closed")

type execCall struct {
	SQL  string
	Args []any
}

// fakeSession keeps executed statements pending per transaction and only
// publishes them to committed on Commit.
type fakeSession struct {
	// columns maps a lower-cased table name to information_schema rows.
	columns map[string][]map[string]any

	// failOn returns an error for the n-th Exec (1-based) of a transaction.
	failOn func(call execCall, n int) error

	// conflict reports whether an INSERT hits an existing key.
	conflict func(call execCall) bool

	committed []execCall
	attempted []execCall
	begins    int
	commits   int
	rollbacks int
}

func (s *fakeSession) Begin(context.Context) (Tx, error) {
	s.begins++
	return &fakeTx{s: s}, nil
}

func (s *fakeSession) Close(context.Context) error { return nil }

type fakeTx struct {
	s       *fakeSession
	pending []execCall
	done    bool
}

func (t *fakeTx) Exec(_ context.Context, sql string, args ...any) (int64, error) {
	call := execCall{SQL: sql, Args: args}
	t.s.attempted = append(t.s.attempted, call)
	if t.s.failOn != nil {
		if err := t.s.failOn(call, len(t.pending)+1); err != nil {
			return 0, err
		}
	}
	t.pending = append(t.pending, call)
	if t.s.conflict != nil && t.s.conflict(call) {
		return 0, nil
	}
	return 1, nil
}

func (t *fakeTx) Query(_ context.Context, sql string, args ...any) ([]map[string]any, error) {
	if !strings.Contains(sql, "information_schema.columns") {
		return nil, errors.New("unexpected query")
	}
	return t.s.columns[args[0].(string)], nil
}

func (t *fakeTx) Commit(context.Context) error {
	if t.done {
		return errTxDone
	}
	t.done = true
	t.s.commits++
	t.s.committed = append(t.s.committed, t.pending...)
	return nil
}

func (t *fakeTx) Rollback(context.Context) error {
	if t.done {
		return errTxDone
	}
	t.done = true
	t.s.rollbacks++
	return nil
}

// columnRows builds information_schema rows from name/type pairs.
func columnRows(pairs ...string) []map[string]any {
	rows := make([]map[string]any, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		rows = append(rows, map[string]any{
			"column_name":      pairs[i],
			"data_type":        pairs[i+1],
			"ordinal_position": int32(i/2 + 1),
		})
	}
	return rows
}

// inserts filters calls down to INSERT statements.
func inserts(calls []execCall) []execCall {
	var out []execCall
	for _, c := range calls {
		if strings.HasPrefix(c.SQL, "INSERT INTO") {
			out = append(out, c)
		}
	}
	return out
}
