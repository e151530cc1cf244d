package dialect

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/xwb1989/sqlparser"

	"github.com/zzzcdf/cube.js/internal/values"
)

var (
	createTableHeadRe = regexp.MustCompile(`(?is)^\s*create\s+table\b`)
	dropHeadRe        = regexp.MustCompile(`(?is)^\s*drop\s+(\S+)`)
)

// Parse classifies and parses sql into one of the Statement variants.
// Unsupported statements return an error whose message includes the
// original SQL text; an unsupported DROP kind returns
// "Unsupported drop operation" instead.
func Parse(sql string) (Statement, error) {
	norm := normalizeIdentQuoting(normalizeEscapes(sql))

	if m := createSchemaRe.FindStringSubmatch(norm); m != nil {
		return CreateSchema{Name: stripQuotes(m[2]), IfNotExists: m[1] != ""}, nil
	}

	if m := createIndexRe.FindStringSubmatch(norm); m != nil {
		return CreateIndex{
			Table: TableRef{Schema: stripQuotes(m[2]), Table: stripQuotes(m[3])},
			Index: IndexSpec{Name: stripQuotes(m[1]), Columns: splitIdentList(m[4])},
		}, nil
	}

	if m := dropRe.FindStringSubmatch(norm); m != nil {
		kind := strings.ToLower(m[1])
		if kind == "schema" {
			return Drop{Kind: DropSchemaKind, Name: stripQuotes(m[2])}, nil
		}
		ref := TableRef{Table: stripQuotes(m[2])}
		if m[4] != "" {
			ref = TableRef{Schema: stripQuotes(m[2]), Table: stripQuotes(m[4])}
		}
		return Drop{Kind: DropTableKind, Table: ref}, nil
	}
	if m := dropHeadRe.FindStringSubmatch(norm); m != nil {
		kind := strings.ToLower(m[1])
		if kind != "schema" && kind != "table" {
			return nil, fmt.Errorf("Unsupported drop operation")
		}
	}

	if m := showRe.FindStringSubmatch(norm); m != nil {
		return Show{Variable: strings.ToLower(m[1])}, nil
	}

	if setRe.MatchString(norm) {
		return Set{RawSQL: sql}, nil
	}

	if createTableHeadRe.MatchString(norm) {
		base, indexes, location, hasLoc := extractCreateTableExtensions(norm)
		ct, err := parseCreateTableBase(base)
		if err != nil {
			return nil, fmt.Errorf("Unsupported SQL: '%s'", sql)
		}
		ct.Indexes = indexes
		ct.Location = location
		ct.HasLocation = hasLoc
		return *ct, nil
	}

	stmt, err := sqlparser.Parse(norm)
	if err != nil {
		return nil, fmt.Errorf("Unsupported SQL: '%s'", sql)
	}

	switch n := stmt.(type) {
	case *sqlparser.Insert:
		return convertInsert(n, sql)
	case *sqlparser.Select:
		return Select{RawSQL: sql, AST: n}, nil
	default:
		return nil, fmt.Errorf("Unsupported SQL: '%s'", sql)
	}
}

func toTableRef(tn sqlparser.TableName) TableRef {
	return TableRef{Schema: tn.Qualifier.String(), Table: tn.Name.String()}
}

func convertInsert(n *sqlparser.Insert, originalSQL string) (Statement, error) {
	vals, ok := n.Rows.(sqlparser.Values)
	if !ok {
		return nil, fmt.Errorf("Unsupported SQL: '%s'", originalSQL)
	}

	cols := make([]string, 0, len(n.Columns))
	for _, c := range n.Columns {
		cols = append(cols, c.String())
	}

	rows := make([]InsertRow, 0, len(vals))
	for _, tuple := range vals {
		lits := make([]values.Literal, 0, len(tuple))
		for _, e := range tuple {
			lit, err := exprToLiteral(e)
			if err != nil {
				return nil, fmt.Errorf("Unsupported SQL: '%s'", originalSQL)
			}
			lits = append(lits, lit)
		}
		rows = append(rows, InsertRow{Cells: lits})
	}

	return Insert{
		Table:   toTableRef(n.Table),
		Columns: cols,
		Rows:    rows,
	}, nil
}

func exprToLiteral(e sqlparser.Expr) (values.Literal, error) {
	switch v := e.(type) {
	case *sqlparser.NullVal:
		return values.Literal{Kind: values.KindNull}, nil
	case sqlparser.BoolVal:
		text := "false"
		if bool(v) {
			text = "true"
		}
		return values.Literal{Kind: values.KindBool, Text: text}, nil
	case *sqlparser.SQLVal:
		switch v.Type {
		case sqlparser.StrVal:
			return values.Literal{Kind: values.KindString, Text: string(v.Val)}, nil
		case sqlparser.IntVal, sqlparser.FloatVal:
			return values.Literal{Kind: values.KindNumber, Text: string(v.Val)}, nil
		case sqlparser.HexVal:
			return values.Literal{Kind: values.KindHex, Text: string(v.Val)}, nil
		default:
			return values.Literal{}, fmt.Errorf("unsupported literal type")
		}
	case *sqlparser.UnaryExpr:
		if v.Operator == sqlparser.UMinusStr {
			inner, err := exprToLiteral(v.Expr)
			if err != nil {
				return values.Literal{}, err
			}
			if inner.Kind == values.KindNumber {
				return values.Literal{Kind: values.KindNegNumber, Text: inner.Text}, nil
			}
		}
		return values.Literal{}, fmt.Errorf("unsupported unary expression")
	default:
		return values.Literal{}, fmt.Errorf("unsupported value expression")
	}
}
