package planner

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/zzzcdf/cube.js/internal/coltype"
	"github.com/zzzcdf/cube.js/internal/metadata"
	"github.com/zzzcdf/cube.js/internal/values"
	"github.com/zzzcdf/cube.js/internal/wal"
)

var (
	fromRe      = regexp.MustCompile(`(?is)\bfrom\s+([a-zA-Z0-9_."` + "`" + `]+)`)
	sumRe       = regexp.MustCompile(`(?is)^\s*select\s+sum\s*\(\s*([a-zA-Z0-9_]+)\s*\)`)
	starRe      = regexp.MustCompile(`(?is)^\s*select\s+\*\s+from`)
	metaTargets = map[string]bool{
		"schemas": true, "tables": true, "chunks": true, "indexes": true, "partitions": true,
	}
)

// LocalPlanner recognizes selects against the fixed system-table names and
// routes everything else to the cluster as a Select plan.
type LocalPlanner struct{}

func NewLocalPlanner() *LocalPlanner { return &LocalPlanner{} }

func (p *LocalPlanner) Plan(ctx context.Context, rawSQL string, ast interface{}) (Plan, error) {
	m := fromRe.FindStringSubmatch(rawSQL)
	if m != nil {
		target := strings.ToLower(strings.Trim(m[1], "`\""))
		if idx := strings.LastIndex(target, "."); idx >= 0 {
			target = target[idx+1:]
		}
		if metaTargets[target] {
			return Plan{Kind: Meta, MetaTable: target}, nil
		}
	}
	return Plan{Kind: Select, Serialized: rawSQL}, nil
}

// LocalExecutor answers Meta plans directly from the metadata store, and
// gives Select plans a best-effort local scan over whatever WAL entries a
// table still has buffered. It is explicitly not the distributed query
// executor: it has no visibility into rows that have already been
// partitioned into columnar storage, and exists so the core is exercisable
// without a cluster.
type LocalExecutor struct {
	Store metadata.Store
	WAL   wal.Store
}

func NewLocalExecutor(store metadata.Store, w wal.Store) *LocalExecutor {
	return &LocalExecutor{Store: store, WAL: w}
}

func (e *LocalExecutor) Execute(ctx context.Context, plan Plan) (*Frame, error) {
	if plan.Kind == Meta {
		return e.executeMeta(plan.MetaTable)
	}
	return e.executeSelect(plan.Serialized)
}

func intCell(n int64) values.Cell  { return values.Cell{Type: coltype.Int, Int: n} }
func strCell(s string) values.Cell { return values.Cell{Type: coltype.String, Str: s} }

func (e *LocalExecutor) executeMeta(table string) (*Frame, error) {
	switch table {
	case "schemas":
		rows := [][]values.Cell{}
		for _, s := range e.Store.ListSchemas() {
			rows = append(rows, []values.Cell{
				intCell(int64(s.ID)),
				strCell(s.Name),
			})
		}
		return &Frame{Columns: []string{"id", "name"}, Rows: rows}, nil
	case "tables":
		rows := [][]values.Cell{}
		for _, s := range e.Store.ListSchemas() {
			for _, t := range e.Store.ListTables(s.ID) {
				rows = append(rows, []values.Cell{
					intCell(int64(t.ID)),
					strCell(s.Name),
					strCell(t.Name),
				})
			}
		}
		return &Frame{Columns: []string{"id", "schema", "name"}, Rows: rows}, nil
	case "indexes":
		rows := [][]values.Cell{}
		for _, s := range e.Store.ListSchemas() {
			for _, t := range e.Store.ListTables(s.ID) {
				for _, idx := range t.Indexes {
					rows = append(rows, []values.Cell{
						strCell(s.Name), strCell(t.Name), strCell(idx.Name), strCell(strings.Join(idx.Columns, ",")),
					})
				}
			}
		}
		return &Frame{Columns: []string{"schema", "table", "index", "columns"}, Rows: rows}, nil
	case "chunks", "partitions":
		// Chunk/partition bookkeeping belongs to the physical-storage and
		// cluster job engine; the system table exists but is always empty
		// locally.
		return &Frame{Columns: []string{table}}, nil
	default:
		return nil, fmt.Errorf("unknown system table %q", table)
	}
}

func (e *LocalExecutor) executeSelect(sql string) (*Frame, error) {
	m := fromRe.FindStringSubmatch(sql)
	if m == nil {
		return nil, fmt.Errorf("cannot resolve table reference in query")
	}
	target := strings.Trim(m[1], "`\"")
	schema, tableName, ok := splitQualified(target)
	if !ok {
		return nil, fmt.Errorf("Schema's name should be present in table name but found:")
	}

	sch, ok := e.Store.GetSchema(schema)
	if !ok {
		return nil, fmt.Errorf("schema %q does not exist", schema)
	}
	table, ok := e.Store.GetTable(sch.ID, tableName)
	if !ok {
		return nil, fmt.Errorf("table %q does not exist", tableName)
	}

	var rows [][]values.Cell
	for _, entry := range e.WAL.ListByTable(table.ID) {
		rows = append(rows, entry.Rows...)
	}

	if sm := sumRe.FindStringSubmatch(sql); sm != nil {
		return sumColumn(table, rows, sm[1])
	}
	if starRe.MatchString(sql) {
		cols := make([]string, len(table.Columns))
		for i, c := range table.Columns {
			cols[i] = c.Name
		}
		return &Frame{Columns: cols, Rows: rows}, nil
	}
	return nil, fmt.Errorf("unsupported local select form")
}

func splitQualified(name string) (schema, table string, ok bool) {
	idx := strings.Index(name, ".")
	if idx <= 0 || idx == len(name)-1 {
		return "", "", false
	}
	return name[:idx], name[idx+1:], true
}

// sumColumn aggregates an Int, Decimal, or Float column across rows.
// Decimals are summed exactly; floats accumulate in IEEE-754 float64 the
// same way their cells were parsed, then re-serialize canonically.
func sumColumn(table metadata.Table, rows [][]values.Cell, column string) (*Frame, error) {
	col, ok := table.ColumnByName(column)
	if !ok {
		return nil, fmt.Errorf("unknown column %q", column)
	}

	switch col.Type {
	case coltype.Int:
		var sum int64
		for _, r := range rows {
			if col.Index < len(r) && !r[col.Index].Null {
				sum += r[col.Index].Int
			}
		}
		return &Frame{Columns: []string{"sum"}, Rows: [][]values.Cell{{intCell(sum)}}}, nil
	case coltype.Decimal:
		sum := decimal.Zero
		for _, r := range rows {
			if col.Index < len(r) && !r[col.Index].Null {
				d, err := decimal.NewFromString(r[col.Index].Str)
				if err != nil {
					return nil, fmt.Errorf("cannot sum column %q: %v", column, err)
				}
				sum = sum.Add(d)
			}
		}
		sumCell := values.Cell{Type: coltype.Decimal, Str: sum.String()}
		return &Frame{Columns: []string{"sum"}, Rows: [][]values.Cell{{sumCell}}}, nil
	case coltype.Float:
		var sum float64
		for _, r := range rows {
			if col.Index < len(r) && !r[col.Index].Null {
				f, err := strconv.ParseFloat(r[col.Index].Str, 64)
				if err != nil {
					return nil, fmt.Errorf("cannot sum column %q: %v", column, err)
				}
				sum += f
			}
		}
		sumCell := values.Cell{Type: coltype.Float, Str: decimal.NewFromFloat(sum).String()}
		return &Frame{Columns: []string{"sum"}, Rows: [][]values.Cell{{sumCell}}}, nil
	default:
		return nil, fmt.Errorf("SUM is not supported for column type %v", col.Type)
	}
}
