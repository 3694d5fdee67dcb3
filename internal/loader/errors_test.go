package loader

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKind(t *testing.T) {
	cause := errors.New("boom")

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"schema", &SchemaError{Table: "x"}, KindSchema},
		{"file", &FileReadError{Path: "a.csv", Err: cause}, KindFileRead},
		{"row", &RowError{Table: "x", Line: 3, Err: cause}, KindRow},
		{"statement", &StatementError{Index: 2, Err: cause}, KindStatement},
		{"wrapped row", fmt.Errorf("load: %w", &RowError{Err: cause}), KindRow},
		{"other", cause, KindOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Kind(tt.err))
		})
	}
}

func TestErrorMessages(t *testing.T) {
	cause := errors.New("duplicate key")

	require.Equal(t, `no columns found for table "students"`, (&SchemaError{Table: "students"}).Error())
	require.Equal(t, "read setup/a.csv: duplicate key", (&FileReadError{Path: "setup/a.csv", Err: cause}).Error())
	require.Equal(t, "insert into students (line 5): duplicate key", (&RowError{Table: "students", Line: 5, Err: cause}).Error())
	require.Equal(t, "statement 2: duplicate key", (&StatementError{Index: 2, Err: cause}).Error())

	require.ErrorIs(t, &RowError{Err: cause}, cause)
	require.ErrorIs(t, &StatementError{Err: cause}, cause)
}
