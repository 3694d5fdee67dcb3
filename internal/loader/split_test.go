package loader

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSplitStatements(t *testing.T) {
	tests := []struct {
		name   string
		script string
		want   []string
	}{
		{
			name:   "three inserts",
			script: "INSERT INTO a VALUES (1);\nINSERT INTO a VALUES (2);\nINSERT INTO a VALUES (3);",
			want:   []string{"INSERT INTO a VALUES (1)", "INSERT INTO a VALUES (2)", "INSERT INTO a VALUES (3)"},
		},
		{
			name:   "crlf and trailing spaces",
			script: "CREATE TABLE a (id int);  \r\nDROP TABLE b;\r\n",
			want:   []string{"CREATE TABLE a (id int)", "DROP TABLE b"},
		},
		{
			name:   "multi-line statement",
			script: "CREATE TABLE a (\n  id int,\n  name text\n);\n",
			want:   []string{"CREATE TABLE a (\n  id int,\n  name text\n)"},
		},
		{
			name:   "empty fragments dropped",
			script: ";\n\n   ;\nSELECT 1;\n",
			want:   []string{"SELECT 1"},
		},
		{
			name:   "no terminator",
			script: "SELECT 1",
			want:   []string{"SELECT 1"},
		},
		{
			name:   "mid-line semicolon does not split",
			script: "SELECT 1; SELECT 2;\n",
			want:   []string{"SELECT 1; SELECT 2"},
		},
		{
			name:   "semicolon in literal at line end splits",
			script: "INSERT INTO notes VALUES ('a;\nb');\n",
			want:   []string{"INSERT INTO notes VALUES ('a", "b')"},
		},
		{
			name:   "empty script",
			script: "  \n",
			want:   []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, SplitStatements(tt.script))
		})
	}
}
