package dialect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCreateSchema(t *testing.T) {
	stmt, err := Parse("CREATE SCHEMA IF NOT EXISTS analytics")
	require.NoError(t, err)
	cs, ok := stmt.(CreateSchema)
	require.True(t, ok)
	assert.Equal(t, "analytics", cs.Name)
	assert.True(t, cs.IfNotExists)
}

func TestParseCreateSchemaWithoutIfNotExists(t *testing.T) {
	stmt, err := Parse("CREATE SCHEMA analytics")
	require.NoError(t, err)
	cs := stmt.(CreateSchema)
	assert.False(t, cs.IfNotExists)
}

func TestParseCreateTableQualified(t *testing.T) {
	stmt, err := Parse(`CREATE TABLE analytics.events (id BIGINT, name VARCHAR(255))`)
	require.NoError(t, err)
	ct, ok := stmt.(CreateTable)
	require.True(t, ok)
	assert.Equal(t, "analytics", ct.Table.Schema)
	assert.Equal(t, "events", ct.Table.Table)
	require.Len(t, ct.Columns, 2)
	assert.Equal(t, "id", ct.Columns[0].Name)
	assert.Equal(t, "BIGINT", ct.Columns[0].TypeName)
	assert.Equal(t, "name", ct.Columns[1].Name)
	assert.Equal(t, 255, ct.Columns[1].Length)
	assert.True(t, ct.Columns[1].HasLength)
	assert.False(t, ct.HasLocation)
}

func TestParseCreateTableWithHyperLogLogColumn(t *testing.T) {
	stmt, err := Parse(`CREATE TABLE analytics.rollups (uniques hyperloglog)`)
	require.NoError(t, err)
	ct := stmt.(CreateTable)
	require.Len(t, ct.Columns, 1)
	assert.Equal(t, "hyperloglog", ct.Columns[0].TypeName)
}

func TestParseCreateTableWithIndexAndLocation(t *testing.T) {
	stmt, err := Parse(`CREATE TABLE analytics.events (id BIGINT, region VARCHAR(8)) ` +
		`INDEX by_region (region) LOCATION 's3://bucket/events.csv'`)
	require.NoError(t, err)
	ct := stmt.(CreateTable)
	require.Len(t, ct.Indexes, 1)
	assert.Equal(t, "by_region", ct.Indexes[0].Name)
	assert.Equal(t, []string{"region"}, ct.Indexes[0].Columns)
	assert.True(t, ct.HasLocation)
	assert.Equal(t, "s3://bucket/events.csv", ct.Location)
}

func TestParseCreateTableDoubleQuotedIdentifiers(t *testing.T) {
	stmt, err := Parse(`CREATE TABLE "analytics"."events" ("id" BIGINT)`)
	require.NoError(t, err)
	ct := stmt.(CreateTable)
	assert.Equal(t, "analytics", ct.Table.Schema)
	assert.Equal(t, "events", ct.Table.Table)
	assert.Equal(t, "id", ct.Columns[0].Name)
}

func TestParseCreateIndex(t *testing.T) {
	stmt, err := Parse("CREATE INDEX by_name ON analytics.events (name)")
	require.NoError(t, err)
	ci := stmt.(CreateIndex)
	assert.Equal(t, "analytics", ci.Table.Schema)
	assert.Equal(t, "events", ci.Table.Table)
	assert.Equal(t, "by_name", ci.Index.Name)
	assert.Equal(t, []string{"name"}, ci.Index.Columns)
}

func TestParseDropSchema(t *testing.T) {
	stmt, err := Parse("DROP SCHEMA analytics")
	require.NoError(t, err)
	d := stmt.(Drop)
	assert.Equal(t, DropSchemaKind, d.Kind)
	assert.Equal(t, "analytics", d.Name)
}

func TestParseDropTable(t *testing.T) {
	stmt, err := Parse("DROP TABLE analytics.events")
	require.NoError(t, err)
	d := stmt.(Drop)
	assert.Equal(t, DropTableKind, d.Kind)
	assert.Equal(t, "analytics", d.Table.Schema)
	assert.Equal(t, "events", d.Table.Table)
}

func TestParseDropUnsupportedKind(t *testing.T) {
	_, err := Parse("DROP VIEW analytics.v1")
	require.Error(t, err)
	assert.Equal(t, "Unsupported drop operation", err.Error())
}

func TestParseShow(t *testing.T) {
	stmt, err := Parse("SHOW TABLES")
	require.NoError(t, err)
	s := stmt.(Show)
	assert.Equal(t, "tables", s.Variable)
}

func TestParseSet(t *testing.T) {
	stmt, err := Parse("SET autocommit = 1")
	require.NoError(t, err)
	_, ok := stmt.(Set)
	assert.True(t, ok)
}

func TestParseInsertWithNegativeNumberAndColumns(t *testing.T) {
	stmt, err := Parse("INSERT INTO analytics.events (id, int_value) VALUES (1, -153)")
	require.NoError(t, err)
	ins := stmt.(Insert)
	assert.Equal(t, "analytics", ins.Table.Schema)
	assert.Equal(t, []string{"id", "int_value"}, ins.Columns)
	require.Len(t, ins.Rows, 1)
	require.Len(t, ins.Rows[0].Cells, 2)
	assert.Equal(t, "-153", ins.Rows[0].Cells[1].Text)
}

func TestParseSelectPassthrough(t *testing.T) {
	stmt, err := Parse("SELECT * FROM analytics.events")
	require.NoError(t, err)
	sel, ok := stmt.(Select)
	require.True(t, ok)
	assert.NotNil(t, sel.AST)
}

func TestParseUnqualifiedCreateTableStillParses(t *testing.T) {
	stmt, err := Parse("CREATE TABLE events (id BIGINT)")
	require.NoError(t, err)
	ct := stmt.(CreateTable)
	assert.False(t, ct.Table.Qualified())
}

func TestParseUnsupportedSQLReturnsOriginalText(t *testing.T) {
	_, err := Parse("MERGE INTO foo USING bar")
	require.Error(t, err)
	assert.Equal(t, "Unsupported SQL: 'MERGE INTO foo USING bar'", err.Error())
}

func TestValidIdentifierRules(t *testing.T) {
	assert.True(t, ValidIdentifier("events"))
	assert.True(t, ValidIdentifier("_events"))
	assert.True(t, ValidIdentifier("événts"))
	assert.False(t, ValidIdentifier("1events"))
	assert.False(t, ValidIdentifier(""))
}
