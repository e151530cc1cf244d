package values

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/zzzcdf/cube.js/internal/coltype"
)

// ParseCell interprets a single literal according to the declared column
// type, producing the typed cell stored at that column's index.
// precision/scale are the already-clamped Decimal values from coltype.Map;
// they do not affect parsing, since a Decimal is stored as the canonical
// string of its float64 value.
func ParseCell(t coltype.Type, lit Literal, precision, scale int) (Cell, error) {
	if lit.Kind == KindNull {
		return NullCell(t), nil
	}

	switch t {
	case coltype.String:
		return parseString(lit)
	case coltype.Int:
		return parseInt(lit)
	case coltype.Decimal:
		return parseDecimalLike(t, lit)
	case coltype.Float:
		return parseDecimalLike(t, lit)
	case coltype.Bytes:
		return parseBytes(lit)
	case coltype.HyperLogLog:
		return parseHLL(lit)
	case coltype.Timestamp:
		return parseTimestamp(lit)
	case coltype.Boolean:
		return parseBool(lit)
	default:
		return Cell{}, fmt.Errorf("unsupported column type %v", t)
	}
}

func parseString(lit Literal) (Cell, error) {
	if lit.Kind != KindString {
		return Cell{}, fmt.Errorf("cannot parse %v as String", lit.Text)
	}
	return Cell{Type: coltype.String, Str: lit.Text}, nil
}

func parseInt(lit Literal) (Cell, error) {
	switch lit.Kind {
	case KindNumber:
		n, err := strconv.ParseInt(lit.Text, 10, 64)
		if err != nil {
			return Cell{}, fmt.Errorf("cannot parse %q as Int: %v", lit.Text, err)
		}
		return Cell{Type: coltype.Int, Int: n}, nil
	case KindNegNumber:
		n, err := strconv.ParseInt(lit.Text, 10, 64)
		if err != nil {
			return Cell{}, fmt.Errorf("cannot parse %q as Int: %v", lit.Text, err)
		}
		return Cell{Type: coltype.Int, Int: -n}, nil
	case KindString:
		n, err := strconv.ParseInt(strings.TrimSpace(lit.Text), 10, 64)
		if err != nil {
			return Cell{}, fmt.Errorf("cannot parse %q as Int: %v", lit.Text, err)
		}
		return Cell{Type: coltype.Int, Int: n}, nil
	default:
		return Cell{}, fmt.Errorf("cannot parse value as Int: %q", lit.Text)
	}
}

// parseDecimalLike handles both Decimal and Float, which share the same
// accepted literal forms and the same "parse as float64, re-serialize
// canonically" pipeline.
func parseDecimalLike(t coltype.Type, lit Literal) (Cell, error) {
	var raw string
	switch lit.Kind {
	case KindNumber, KindString:
		raw = lit.Text
	case KindNegNumber:
		raw = "-" + lit.Text
	default:
		return Cell{}, fmt.Errorf("cannot parse value as %v: %q", t, lit.Text)
	}

	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return Cell{}, fmt.Errorf("cannot parse %q as %v: %v", raw, t, err)
	}

	d := decimal.NewFromFloat(f)
	return Cell{Type: t, Str: d.String()}, nil
}

func parseBytes(lit Literal) (Cell, error) {
	switch lit.Kind {
	case KindString:
		return Cell{Type: coltype.Bytes, Bytes: decodeSpaceHex(lit.Text)}, nil
	case KindHex:
		b, err := hex.DecodeString(lit.Text)
		if err != nil {
			return Cell{}, fmt.Errorf("cannot parse hex literal X'%s': %v", lit.Text, err)
		}
		return Cell{Type: coltype.Bytes, Bytes: b}, nil
	case KindNumber:
		return Cell{Type: coltype.Bytes, Bytes: []byte(lit.Text)}, nil
	default:
		return Cell{}, fmt.Errorf("cannot parse value as Bytes: %q", lit.Text)
	}
}

// decodeSpaceHex decodes a single-quoted string of space-separated 2-char
// hex pairs; unparsable or empty tokens are ignored.
func decodeSpaceHex(s string) []byte {
	var out []byte
	for _, tok := range strings.Fields(s) {
		if len(tok) == 0 {
			continue
		}
		b, err := hex.DecodeString(tok)
		if err != nil {
			continue
		}
		out = append(out, b...)
	}
	return out
}

func parseHLL(lit Literal) (Cell, error) {
	c, err := parseBytes(lit)
	if err != nil {
		return Cell{}, err
	}
	if err := ValidateSketch(c.Bytes); err != nil {
		return Cell{}, fmt.Errorf("%v (cell: %q)", err, lit.Text)
	}
	c.Type = coltype.HyperLogLog
	return c, nil
}

func parseTimestamp(lit Literal) (Cell, error) {
	if lit.Kind != KindString {
		return Cell{}, fmt.Errorf("cannot parse value as Timestamp: %q", lit.Text)
	}
	ts, err := time.Parse(time.RFC3339Nano, lit.Text)
	if err != nil {
		ts, err = time.Parse("2006-01-02 15:04:05", lit.Text)
	}
	if err != nil {
		ts, err = time.Parse("2006-01-02", lit.Text)
	}
	if err != nil {
		return Cell{}, fmt.Errorf("cannot parse %q as Timestamp: %v", lit.Text, err)
	}
	return Cell{Type: coltype.Timestamp, TSNanos: ts.UnixNano()}, nil
}

func parseBool(lit Literal) (Cell, error) {
	switch lit.Kind {
	case KindBool:
		return Cell{Type: coltype.Boolean, Bool: strings.EqualFold(lit.Text, "true")}, nil
	case KindString:
		return Cell{Type: coltype.Boolean, Bool: strings.EqualFold(lit.Text, "true")}, nil
	default:
		return Cell{}, fmt.Errorf("cannot parse value as Boolean: %q", lit.Text)
	}
}

// ZeroCell is the Int(0) placeholder materialized for an un-named column
// in an INSERT's row list.
func ZeroCell() Cell {
	return Cell{Type: coltype.Int, Int: 0}
}
