// Package sqlservice implements the SQL Service: the single
// `Exec` entry point that dispatches parsed statements, driving the
// metadata store, the WAL store, and job-completion waits to give callers
// synchronous semantics atop the cluster's asynchronous partitioning.
package sqlservice

import (
	"context"
	"fmt"

	"github.com/juju/errors"
	"github.com/sirupsen/logrus"

	"github.com/zzzcdf/cube.js/internal/coltype"
	"github.com/zzzcdf/cube.js/internal/dialect"
	"github.com/zzzcdf/cube.js/internal/jobs"
	"github.com/zzzcdf/cube.js/internal/metadata"
	"github.com/zzzcdf/cube.js/internal/planner"
	"github.com/zzzcdf/cube.js/internal/values"
	"github.com/zzzcdf/cube.js/internal/wal"
	"github.com/zzzcdf/cube.js/internal/workbench"
)

// Config names the only statement-execution knob the core consumes from
// the configuration surface: the ingest chunk size
// (`[storage] wal_chunk_size`).
type Config struct {
	WalChunkSize int
}

// Service is the SQL Service. It owns no state of its own; every mutation
// goes through its collaborators, which are safely shareable across
// concurrently-executing statements by contract.
type Service struct {
	cfg      Config
	metadata metadata.Store
	wal      wal.Store
	bus      jobs.Bus
	waiter   *jobs.Waiter
	planner  planner.Planner
	executor planner.Executor
	log      *logrus.Logger
}

// New wires a Service from its collaborators. log may be nil, in which
// case a disabled logger is used.
func New(cfg Config, md metadata.Store, w wal.Store, bus jobs.Bus, p planner.Planner, ex planner.Executor, log *logrus.Logger) *Service {
	if log == nil {
		log = logrus.New()
		log.SetOutput(nopWriter{})
	}
	if cfg.WalChunkSize <= 0 {
		cfg.WalChunkSize = 1000
	}
	return &Service{
		cfg:      cfg,
		metadata: md,
		wal:      w,
		bus:      bus,
		waiter:   jobs.NewWaiter(bus),
		planner:  p,
		executor: ex,
		log:      log,
	}
}

type nopWriter struct{}

func (nopWriter) Write(p []byte) (int, error) { return len(p), nil }

// Exec is the single entry point.
func (s *Service) Exec(ctx context.Context, query string) (*Frame, error) {
	if frame, ok := workbench.Match(query); ok {
		return adaptFrame(frame), nil
	}

	stmt, err := dialect.Parse(query)
	if err != nil {
		s.log.Debugf("parse failed: %v", err)
		return nil, wrapUser(err)
	}

	switch st := stmt.(type) {
	case dialect.CreateSchema:
		s.log.Debugf("exec CREATE SCHEMA %s", st.Name)
		return s.execCreateSchema(st)
	case dialect.CreateTable:
		s.log.Debugf("exec CREATE TABLE %s.%s", st.Table.Schema, st.Table.Table)
		return s.execCreateTable(ctx, st)
	case dialect.CreateIndex:
		s.log.Debugf("exec CREATE INDEX %s on %s.%s", st.Index.Name, st.Table.Schema, st.Table.Table)
		return s.execCreateIndex(st)
	case dialect.Drop:
		s.log.Debugf("exec DROP")
		return s.execDrop(st)
	case dialect.Insert:
		// Insert payloads are never logged.
		return s.execInsert(ctx, st)
	case dialect.Select:
		s.log.Debugf("exec SELECT %s", st.RawSQL)
		return s.execSelect(ctx, st)
	case dialect.Show:
		s.log.Debugf("exec SHOW %s", st.Variable)
		return s.execShow(ctx, st)
	case dialect.Set:
		s.log.Debugf("exec SET")
		return EmptyFrame(), nil
	default:
		return nil, errUnsupportedSQL(query)
	}
}

func adaptFrame(f *workbench.Frame) *Frame {
	return &Frame{Columns: f.Columns, Rows: f.Rows}
}

func (s *Service) execCreateSchema(st dialect.CreateSchema) (*Frame, error) {
	sch, err := s.metadata.CreateSchema(st.Name, st.IfNotExists)
	if err != nil {
		return nil, wrapUser(errors.Annotate(err, "CREATE SCHEMA"))
	}
	return &Frame{
		Columns: []string{"id", "name"},
		Rows: [][]values.Cell{{
			{Type: coltype.Int, Int: int64(sch.ID)},
			{Type: coltype.String, Str: sch.Name},
		}},
	}, nil
}

func (s *Service) resolveSchema(ref dialect.TableRef) (metadata.Schema, error) {
	if !ref.Qualified() {
		return metadata.Schema{}, errUnqualifiedName()
	}
	sch, ok := s.metadata.GetSchema(ref.Schema)
	if !ok {
		return metadata.Schema{}, fmt.Errorf("schema %q does not exist", ref.Schema)
	}
	return sch, nil
}

func (s *Service) buildColumns(specs []dialect.ColumnSpec) ([]metadata.Column, error) {
	cols := make([]metadata.Column, 0, len(specs))
	for i, cs := range specs {
		mapped, err := coltype.Map(coltype.Declared{
			Name:      cs.TypeName,
			Length:    cs.Length,
			HasLength: cs.HasLength,
			Precision: cs.Precision,
			HasPrec:   cs.HasPrec,
			Scale:     cs.Scale,
			HasScale:  cs.HasScale,
		})
		if err != nil {
			return nil, err
		}
		cols = append(cols, metadata.Column{
			Name:      cs.Name,
			Type:      mapped.Type,
			Index:     i,
			Precision: mapped.Precision,
			Scale:     mapped.Scale,
		})
	}
	return cols, nil
}

func (s *Service) execCreateTable(ctx context.Context, st dialect.CreateTable) (*Frame, error) {
	sch, err := s.resolveSchema(st.Table)
	if err != nil {
		return nil, wrapUser(err)
	}
	cols, err := s.buildColumns(st.Columns)
	if err != nil {
		return nil, wrapUser(errCreateTableFailed(err))
	}

	idxDefs := make([]metadata.IndexDef, 0, len(st.Indexes))
	for _, idx := range st.Indexes {
		idxDefs = append(idxDefs, metadata.IndexDef{Name: idx.Name, Columns: idx.Columns})
	}

	table := metadata.Table{
		SchemaID: sch.ID,
		Name:     st.Table.Table,
		Columns:  cols,
		Indexes:  idxDefs,
	}

	if !st.HasLocation {
		created, err := s.metadata.CreateTable(table)
		if err != nil {
			return nil, wrapUser(errCreateTableFailed(err))
		}
		return tableFrame(created), nil
	}

	return s.execExternalCreateTable(ctx, table, st.Location)
}

// execExternalCreateTable handles the LOCATION sub-case: subscribe before
// enqueuing, insert the table with the CSV import hint, wait for
// TableImport, then wait for WalPartitioning on every WAL the import
// produced. An import that produces zero WALs succeeds with an empty
// frame.
func (s *Service) execExternalCreateTable(ctx context.Context, table metadata.Table, location string) (*Frame, error) {
	table.Location = location
	table.HasLocation = true
	table.External = true
	table.ImportFormat = metadata.ImportCSV

	sub := s.waiter.Subscribe()

	created, err := s.metadata.CreateTable(table)
	if err != nil {
		sub.Close()
		return nil, wrapUser(errCreateTableFailed(err))
	}

	importKey := jobs.RowKey{Kind: "table", ID: fmt.Sprintf("%d", created.ID)}
	ev, err := s.waiter.WaitForOne(ctx, sub, importKey, jobs.TableImport)
	if err != nil {
		return nil, wrapUser(errCreateTableFailed(err))
	}
	if ev.Kind == jobs.Error {
		return nil, wrapUser(errCreateTableFailed(fmt.Errorf("%s", ev.Message)))
	}

	entries := s.wal.ListByTable(created.ID)
	if len(entries) == 0 {
		return EmptyFrame(), nil
	}

	sub2 := s.waiter.Subscribe()
	pairs := make([]jobs.Pair, 0, len(entries))
	for _, e := range entries {
		pairs = append(pairs, jobs.Pair{Key: jobs.RowKey{Kind: "wal", ID: e.ID}, Type: jobs.WalPartitioning})
	}
	events, err := s.waiter.WaitForJobResults(ctx, sub2, pairs)
	if err != nil {
		return nil, wrapUser(errCreateTableFailed(err))
	}
	if msg, failed := jobs.FirstError(events); failed {
		return nil, wrapUser(errCreateTableFailed(fmt.Errorf("%s", msg)))
	}

	return tableFrame(created), nil
}

func tableFrame(t metadata.Table) *Frame {
	return &Frame{
		Columns: []string{"id", "schema_id", "name"},
		Rows: [][]values.Cell{{
			{Type: coltype.Int, Int: int64(t.ID)},
			{Type: coltype.Int, Int: int64(t.SchemaID)},
			{Type: coltype.String, Str: t.Name},
		}},
	}
}

func (s *Service) execCreateIndex(st dialect.CreateIndex) (*Frame, error) {
	sch, err := s.resolveSchema(st.Table)
	if err != nil {
		return nil, wrapUser(err)
	}
	if err := s.metadata.AddIndex(sch.ID, st.Table.Table, metadata.IndexDef{
		Name: st.Index.Name, Columns: st.Index.Columns,
	}); err != nil {
		return nil, wrapUser(err)
	}
	return EmptyFrame(), nil
}

func (s *Service) execDrop(st dialect.Drop) (*Frame, error) {
	switch st.Kind {
	case dialect.DropSchemaKind:
		if err := s.metadata.DropSchema(st.Name); err != nil {
			return nil, wrapUser(err)
		}
		return EmptyFrame(), nil
	case dialect.DropTableKind:
		sch, err := s.resolveSchema(st.Table)
		if err != nil {
			return nil, wrapUser(err)
		}
		if err := s.metadata.DropTable(sch.ID, st.Table.Table); err != nil {
			return nil, wrapUser(err)
		}
		return EmptyFrame(), nil
	default:
		return nil, wrapUser(errUnsupportedDrop())
	}
}

func (s *Service) execInsert(ctx context.Context, st dialect.Insert) (*Frame, error) {
	sch, err := s.resolveSchema(st.Table)
	if err != nil {
		return nil, wrapUser(err)
	}
	table, ok := s.metadata.GetTable(sch.ID, st.Table.Table)
	if !ok {
		return nil, wrapUser(fmt.Errorf("table %q does not exist", st.Table.Table))
	}

	// Resolve each named column to its declared index once, up front.
	targetIdx := make([]int, len(st.Columns))
	targetCol := make([]metadata.Column, len(st.Columns))
	for i, name := range st.Columns {
		col, ok := table.ColumnByName(name)
		if !ok {
			return nil, wrapUser(errColumnMissing(name, sch.Name, table.Name))
		}
		targetIdx[i] = col.Index
		targetCol[i] = col
	}

	allRows, err := s.parseRows(table, st.Rows, targetIdx, targetCol)
	if err != nil {
		return nil, wrapUser(err)
	}

	// Subscribe before the first WAL entry is appended, so no partitioning
	// event can fire before the subscription exists.
	sub := s.waiter.Subscribe()

	chunkSize := s.cfg.WalChunkSize
	var walIDs []string
	for start := 0; start < len(allRows); start += chunkSize {
		end := start + chunkSize
		if end > len(allRows) {
			end = len(allRows)
		}
		entry, err := s.wal.Append(table.ID, allRows[start:end])
		if err != nil {
			sub.Close()
			return nil, wrapUser(errInsertJobFailed(err))
		}
		walIDs = append(walIDs, entry.ID)
	}

	if err := s.metadata.MarkHasData(table.ID); err != nil {
		sub.Close()
		return nil, wrapUser(errInsertJobFailed(err))
	}

	if len(walIDs) == 0 {
		sub.Close()
		return RowCountFrame(0), nil
	}

	pairs := make([]jobs.Pair, 0, len(walIDs))
	for _, id := range walIDs {
		pairs = append(pairs, jobs.Pair{Key: jobs.RowKey{Kind: "wal", ID: id}, Type: jobs.WalPartitioning})
	}
	events, err := s.waiter.WaitForJobResults(ctx, sub, pairs)
	if err != nil {
		return nil, wrapUser(errInsertJobFailed(err))
	}
	if msg, failed := jobs.FirstError(events); failed {
		return nil, wrapUser(errInsertJobFailed(fmt.Errorf("%s", msg)))
	}

	return RowCountFrame(len(allRows)), nil
}

func (s *Service) parseRows(table metadata.Table, rows []dialect.InsertRow, targetIdx []int, targetCol []metadata.Column) ([][]values.Cell, error) {
	out := make([][]values.Cell, 0, len(rows))
	for _, row := range rows {
		cells := make([]values.Cell, len(table.Columns))
		for i := range cells {
			cells[i] = values.ZeroCell()
		}
		for i, lit := range row.Cells {
			if i >= len(targetIdx) {
				break
			}
			col := targetCol[i]
			cell, err := values.ParseCell(col.Type, lit, col.Precision, col.Scale)
			if err != nil {
				return nil, fmt.Errorf("%v (column %s)", err, col.Name)
			}
			cells[targetIdx[i]] = cell
		}
		out = append(out, cells)
	}
	return out, nil
}

func (s *Service) execSelect(ctx context.Context, st dialect.Select) (*Frame, error) {
	plan, err := s.planner.Plan(ctx, st.RawSQL, st.AST)
	if err != nil {
		return nil, wrapUser(err)
	}
	f, err := s.executor.Execute(ctx, plan)
	if err != nil {
		return nil, wrapUser(err)
	}
	return &Frame{Columns: f.Columns, Rows: f.Rows}, nil
}

var validShowVars = map[string]bool{
	"schemas": true, "tables": true, "chunks": true, "indexes": true, "partitions": true,
}

func (s *Service) execShow(ctx context.Context, st dialect.Show) (*Frame, error) {
	if !validShowVars[st.Variable] {
		return nil, wrapUser(errUnknownShow(st.Variable))
	}
	plan, err := s.planner.Plan(ctx, fmt.Sprintf("select * from %s", st.Variable), nil)
	if err != nil {
		return nil, wrapUser(err)
	}
	f, err := s.executor.Execute(ctx, plan)
	if err != nil {
		return nil, wrapUser(err)
	}
	return &Frame{Columns: f.Columns, Rows: f.Rows}, nil
}
