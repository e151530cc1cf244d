// Package coltype maps SQL declared column types onto the internal
// column-type enumeration used for storage and value parsing.
package coltype

import (
	"fmt"
	"strings"
)

// Type is the internal column-type enumeration.
type Type int

const (
	String Type = iota
	Int
	Decimal
	Float
	Bytes
	HyperLogLog
	Timestamp
	Boolean
)

func (t Type) String() string {
	switch t {
	case String:
		return "String"
	case Int:
		return "Int"
	case Decimal:
		return "Decimal"
	case Float:
		return "Float"
	case Bytes:
		return "Bytes"
	case HyperLogLog:
		return "HyperLogLog"
	case Timestamp:
		return "Timestamp"
	case Boolean:
		return "Boolean"
	default:
		return "Unknown"
	}
}

// Decimal clamping constants.
const (
	defaultPrecision = 18
	defaultScale     = 5
	maxPrecision     = 18
	promotedScale    = 10
)

// Declared carries the parsed pieces of a SQL column type declaration:
// `DECIMAL(p, s)`, `VARCHAR(n)`, etc.
type Declared struct {
	Name      string
	Length    int
	HasLength bool
	Precision int
	HasPrec   bool
	Scale     int
	HasScale  bool
}

// Mapped is the result of mapping a declared type: the internal type plus,
// for Decimal, the clamped (precision, scale) pair.
type Mapped struct {
	Type      Type
	Precision int
	Scale     int
}

// Map implements the §4.2 table. Names are matched case-insensitively.
func Map(d Declared) (Mapped, error) {
	name := strings.ToLower(strings.TrimSpace(d.Name))
	switch name {
	case "date", "time", "char", "varchar", "clob", "text":
		return Mapped{Type: String}, nil
	case "uuid", "binary", "varbinary", "blob", "bytea", "array":
		return Mapped{Type: Bytes}, nil
	case "decimal", "numeric":
		p, s := ClampDecimal(d.Precision, d.HasPrec, d.Scale, d.HasScale)
		return Mapped{Type: Decimal, Precision: p, Scale: s}, nil
	case "smallint", "int", "integer", "bigint", "interval", "mediumint":
		return Mapped{Type: Int}, nil
	case "boolean", "bool":
		return Mapped{Type: Boolean}, nil
	case "float", "real", "double":
		return Mapped{Type: Float}, nil
	case "timestamp", "datetime":
		return Mapped{Type: Timestamp}, nil
	case "hyperloglog":
		return Mapped{Type: HyperLogLog}, nil
	case "regclass":
		return Mapped{}, fmt.Errorf("Type 'RegClass' is not suppored.")
	default:
		return Mapped{}, fmt.Errorf("Custom type '%s' is not supported", d.Name)
	}
}

// ClampDecimal applies the precision/scale clamp rules:
// precision defaults to 18, scale defaults to 5; precision is capped at 18;
// scale above 5 is promoted to 10; if scale ends up greater than precision,
// precision is raised to match scale.
func ClampDecimal(precision int, hasPrec bool, scale int, hasScale bool) (int, int) {
	p := defaultPrecision
	if hasPrec {
		p = precision
	}
	s := defaultScale
	if hasScale {
		s = scale
	}
	if p > maxPrecision {
		p = maxPrecision
	}
	if s > defaultScale {
		s = promotedScale
	}
	if s > p {
		p = s
	}
	return p, s
}
