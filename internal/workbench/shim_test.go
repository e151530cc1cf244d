package workbench

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchSessionVariablesCaseSensitive(t *testing.T) {
	f, ok := Match(`SHOW SESSION VARIABLES LIKE 'lower_case_table_names'`)
	require.True(t, ok)
	assert.Equal(t, []string{"lower_case_table_names"}, f.Columns)
	assert.Equal(t, "2", f.Rows[0][0].Str)

	_, ok = Match(`show session variables like 'lower_case_table_names'`)
	assert.False(t, ok)
}

func TestMatchSQLMode(t *testing.T) {
	f, ok := Match(`SHOW SESSION VARIABLES LIKE 'sql_mode'`)
	require.True(t, ok)
	assert.Equal(t, "TRADITIONAL", f.Rows[0][0].Str)
}

func TestMatchSelectFormsAreCaseInsensitive(t *testing.T) {
	f, ok := Match("SELECT CURRENT_USER()")
	require.True(t, ok)
	assert.Equal(t, "root", f.Rows[0][0].Str)

	f, ok = Match("select connection_id()")
	require.True(t, ok)
	assert.Equal(t, "1", f.Rows[0][0].Str)
}

func TestMatchConnectionIDAliasRenamesColumn(t *testing.T) {
	f, ok := Match("select connection_id() as connectionid")
	require.True(t, ok)
	assert.Equal(t, []string{"connectionId"}, f.Columns)
	assert.Equal(t, "1", f.Rows[0][0].Str)
}

func TestMatchSetCharsetFormsReturnEmptyFrame(t *testing.T) {
	for _, q := range []string{
		"set character set utf8",
		"SET NAMES utf8",
		"show character set where charset = 'utf8mb4'",
	} {
		f, ok := Match(q)
		require.True(t, ok, "query: %s", q)
		assert.Empty(t, f.Rows)
	}
}

func TestMatchUnknownQueryFallsThrough(t *testing.T) {
	_, ok := Match("SELECT * FROM s.t")
	assert.False(t, ok)
}
