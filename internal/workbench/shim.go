// Package workbench implements the Workbench Shim: canned
// frames for the fixed set of introspection queries BI tools issue before
// they run anything else, so the SQL Service never has to route them
// through the Statement Parser or Query Planner.
package workbench

import (
	"strings"

	"github.com/zzzcdf/cube.js/internal/coltype"
	"github.com/zzzcdf/cube.js/internal/values"
)

// Frame mirrors sqlservice.Frame's shape without importing that package,
// avoiding an import cycle (the SQL Service checks the shim first).
type Frame struct {
	Columns []string
	Rows    [][]values.Cell
}

func stringFrame(columns []string, vals ...string) *Frame {
	row := make([]values.Cell, len(vals))
	for i, v := range vals {
		row[i] = values.Cell{Type: coltype.String, Str: v}
	}
	return &Frame{Columns: columns, Rows: [][]values.Cell{row}}
}

func emptyFrame() *Frame { return &Frame{} }

// Match returns the canned frame for query, and whether it recognized it.
// Comparison is lower-cased for the select/set forms, case-sensitive for
// the SHOW SESSION VARIABLES forms.
func Match(query string) (*Frame, bool) {
	trimmed := strings.TrimSpace(query)
	trimmed = strings.TrimSuffix(trimmed, ";")

	switch trimmed {
	case `SHOW SESSION VARIABLES LIKE 'lower_case_table_names'`:
		return stringFrame([]string{"lower_case_table_names"}, "2"), true
	case `SHOW SESSION VARIABLES LIKE 'sql_mode'`:
		return stringFrame([]string{"sql_mode"}, "TRADITIONAL"), true
	}

	lower := strings.ToLower(trimmed)
	switch lower {
	case "select current_user()":
		return stringFrame([]string{"current_user()"}, "root"), true
	case "select connection_id()":
		return stringFrame([]string{"connection_id()"}, "1"), true
	case "select connection_id() as connectionid":
		return stringFrame([]string{"connectionId"}, "1"), true
	case "set character set utf8", "set names utf8":
		return emptyFrame(), true
	case "show character set where charset = 'utf8mb4'":
		return emptyFrame(), true
	}

	return nil, false
}
