// Package planner declares the Query Planner and Query Executor contracts
// the SQL Service forwards SELECTs to. Both are external collaborators:
// physical plan generation, cost-based optimization, and distributed
// execution against the cluster are out of scope here. What ships is the
// dispatch seam plus a minimal in-memory implementation: Meta plans answer
// system-table introspection (`schemas`, `tables`, `chunks`, `indexes`,
// `partitions`), and Select plans get a best-effort scan of the WAL rows a
// table still has buffered, both without a real cluster handle.
package planner

import (
	"context"

	"github.com/zzzcdf/cube.js/internal/values"
)

// Frame mirrors sqlservice.Frame's shape; kept local to avoid an import
// cycle between the service and its planner collaborator.
type Frame struct {
	Columns []string
	Rows    [][]values.Cell
}

// Kind distinguishes the two plan shapes.
type Kind int

const (
	// Meta plans read system tables and execute locally against the
	// metadata store.
	Meta Kind = iota
	// Select plans are serialized and executed through the Query Executor
	// with a cluster handle.
	Select
)

// Plan is the planner's output: which executor path a parsed query takes.
type Plan struct {
	Kind       Kind
	MetaTable  string // set when Kind == Meta
	Serialized string // set when Kind == Select; opaque to the SQL Service
}

// Planner turns a parsed SELECT into a Plan. The concrete planner recognizes
// system-table scans by the table name in the FROM clause; anything else is
// handed to the cluster as a Select plan.
type Planner interface {
	Plan(ctx context.Context, rawSQL string, ast interface{}) (Plan, error)
}

// Executor runs a Plan and produces the resulting frame. A Meta plan never
// leaves the process; LocalExecutor also runs Select plans in-process,
// over buffered WAL rows only.
type Executor interface {
	Execute(ctx context.Context, plan Plan) (*Frame, error)
}
