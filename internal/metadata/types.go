// Package metadata implements the metadata store the SQL Service persists
// schema/table/index definitions through.
package metadata

import "github.com/zzzcdf/cube.js/internal/coltype"

// Schema is (id, name); name is unique.
type Schema struct {
	ID   uint64
	Name string
}

// Column is (name, type, index); index equals declaration order and never
// changes.
type Column struct {
	Name      string
	Type      coltype.Type
	Index     int
	Precision int // only meaningful for Decimal
	Scale     int // only meaningful for Decimal
}

// IndexDef is (name, ordered column-name list), attached to a table.
type IndexDef struct {
	Name    string
	Columns []string
}

// ImportFormat names the format of an external table's initial load.
type ImportFormat string

const (
	ImportCSV ImportFormat = "CSV"
)

// Table is (id, schema_id, name, columns, optional import location/format,
// external flag). After creation, the only changes are indexes added by
// AddIndex, the HasData flag, and drop.
type Table struct {
	ID           uint64
	SchemaID     uint64
	Name         string
	Columns      []Column
	Indexes      []IndexDef
	Location     string
	HasLocation  bool
	ImportFormat ImportFormat
	External     bool

	// HasData is set the moment the first WAL entry is recorded against
	// the table; CREATE INDEX is rejected once this is true.
	HasData bool
}

// ColumnByName is a case-sensitive lookup into Columns; names are matched
// as declared, never lower-cased.
func (t *Table) ColumnByName(name string) (Column, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}
