package sqlservice

import (
	"github.com/zzzcdf/cube.js/internal/coltype"
	"github.com/zzzcdf/cube.js/internal/values"
)

// Frame is the DataFrame the SQL Service returns from exec: a named column
// list plus rows of typed cells. The external Query Executor and Workbench
// Shim are the only producers whose results differ in shape, and both fit
// this one representation.
type Frame struct {
	Columns []string
	Rows    [][]values.Cell
}

// EmptyFrame is returned by no-op statements (SET, and any CREATE TABLE
// whose external import produced zero WALs).
func EmptyFrame() *Frame {
	return &Frame{}
}

// StringFrame builds a one-row frame of string cells, used by the
// Workbench Shim's canned responses.
func StringFrame(columns []string, vals ...string) *Frame {
	row := make([]values.Cell, len(vals))
	for i, v := range vals {
		row[i] = values.Cell{Type: coltype.String, Str: v}
	}
	return &Frame{Columns: columns, Rows: [][]values.Cell{row}}
}

// RowCountFrame is returned by INSERT: a single `rows` column carrying the
// number of rows accepted.
func RowCountFrame(n int) *Frame {
	return &Frame{
		Columns: []string{"rows"},
		Rows:    [][]values.Cell{{{Type: coltype.Int, Int: int64(n)}}},
	}
}
