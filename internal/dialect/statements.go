// Package dialect wraps a MySQL-dialect SQL parser (xwb1989/sqlparser) and
// extends it with CREATE SCHEMA, the composite CREATE TABLE ... INDEX ...
// LOCATION form, hex-string literals and the relaxed
// identifier-quoting/charset rules. It converts everything into a small
// statement sum type so the rest of the tree never touches the third-party
// AST directly.
package dialect

import "github.com/zzzcdf/cube.js/internal/values"

// TableRef is a schema-qualified table name; `<schema>.<table>` is the
// only accepted form in DDL/DML.
type TableRef struct {
	Schema string
	Table  string
}

// Qualified reports whether both parts of the name were present.
func (t TableRef) Qualified() bool {
	return t.Schema != "" && t.Table != ""
}

// ColumnSpec is one column from a CREATE TABLE column list.
type ColumnSpec struct {
	Name      string
	TypeName  string
	Length    int
	HasLength bool
	Precision int
	HasPrec   bool
	Scale     int
	HasScale  bool
}

// IndexSpec is one `INDEX name (col, ...)` clause, whether attached to a
// CREATE TABLE or issued standalone.
type IndexSpec struct {
	Name    string
	Columns []string
}

// Statement is the sum type the SQL Service dispatches on.
type Statement interface {
	isStatement()
}

// CreateSchema is `CREATE SCHEMA [IF NOT EXISTS] <name>`.
type CreateSchema struct {
	Name        string
	IfNotExists bool
}

// CreateTable is `CREATE TABLE ... (cols) [INDEX ...]* [LOCATION '...']`.
type CreateTable struct {
	Table       TableRef
	Columns     []ColumnSpec
	Indexes     []IndexSpec
	Location    string
	HasLocation bool
}

// CreateIndex is a standalone `CREATE INDEX name ON schema.table (cols)`.
type CreateIndex struct {
	Table TableRef
	Index IndexSpec
}

// DropKind distinguishes the two supported DROP targets.
type DropKind int

const (
	DropSchemaKind DropKind = iota
	DropTableKind
)

// Drop is `DROP SCHEMA <name>` or `DROP TABLE <schema>.<table>`.
type Drop struct {
	Kind  DropKind
	Name  string   // schema name, for DropSchemaKind
	Table TableRef // for DropTableKind
}

// InsertRow is one VALUES tuple, cells in the order the statement named
// the columns (which may differ from declared column order).
type InsertRow struct {
	Cells []values.Literal
}

// Insert is `INSERT INTO schema.table (cols) VALUES (...), (...)`.
type Insert struct {
	Table   TableRef
	Columns []string
	Rows    []InsertRow
}

// Select wraps an opaque, already-parsed SELECT for the Query Planner; the
// core never interprets it, only forwards it.
type Select struct {
	RawSQL string
	AST    interface{}
}

// Show is `SHOW <var>`.
type Show struct {
	Variable string
}

// Set is `SET <var> ...`; always a no-op.
type Set struct {
	RawSQL string
}

func (CreateSchema) isStatement() {}
func (CreateTable) isStatement()  {}
func (CreateIndex) isStatement()  {}
func (Drop) isStatement()         {}
func (Insert) isStatement()       {}
func (Select) isStatement()       {}
func (Show) isStatement()         {}
func (Set) isStatement()          {}
