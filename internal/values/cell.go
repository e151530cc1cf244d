// Package values implements the Value Parser: it turns a
// parsed literal expression into a typed cell for a declared column type.
package values

import (
	"github.com/zzzcdf/cube.js/internal/coltype"
)

// Cell is a tagged variant over the eight column types plus Null.
type Cell struct {
	Type    coltype.Type
	Null    bool
	Str     string // String, or canonical Decimal/Float string
	Int     int64
	Bytes   []byte
	Bool    bool
	TSNanos int64
}

// NullCell returns the null cell; it carries no type tag of its own but
// keeps the declared type around for callers that need it.
func NullCell(t coltype.Type) Cell {
	return Cell{Type: t, Null: true}
}
