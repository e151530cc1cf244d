package dialect

import (
	"regexp"
	"strings"
)

// normalizeEscapes rewrites every `\'` to `''`, unifying the two quote
// escape conventions before anything else looks at the text.
func normalizeEscapes(sql string) string {
	return strings.ReplaceAll(sql, `\'`, `''`)
}

var (
	createSchemaRe = regexp.MustCompile(`(?is)^\s*create\s+schema\s+(if\s+not\s+exists\s+)?` +
		`(` + identPattern + `)\s*;?\s*$`)

	createIndexRe = regexp.MustCompile(`(?is)^\s*create\s+index\s+(` + identPattern + `)\s+on\s+` +
		`(` + identPattern + `)\s*\.\s*(` + identPattern + `)\s*\(\s*([^)]*)\)\s*;?\s*$`)

	dropRe = regexp.MustCompile(`(?is)^\s*drop\s+(schema|table)\s+(` + identPattern + `)(\s*\.\s*(` + identPattern + `))?\s*;?\s*$`)

	showRe = regexp.MustCompile(`(?is)^\s*show\s+([a-zA-Z_]+)\s*;?\s*$`)

	setRe = regexp.MustCompile(`(?is)^\s*set\s+`)

	// locationClauseRe matches a trailing `LOCATION '<path>'` clause.
	locationClauseRe = regexp.MustCompile(`(?is)\s+location\s+'([^']*)'\s*;?\s*$`)

	// indexClauseRe matches one trailing `INDEX name (cols)` clause, applied
	// repeatedly from the end of the (location-stripped) statement.
	indexClauseRe = regexp.MustCompile(`(?is)\s+index\s+(` + identPattern + `)\s*\(\s*([^)]*)\)\s*$`)
)

// identPattern matches a bare, backtick-quoted or double-quoted identifier.
// It is deliberately permissive (Unicode letters included) to line up with
// ValidIdentifier's relaxed start/continue rules.
const identPattern = "(?:`[^`]+`|\"[^\"]+\"|[\\p{L}_$][\\p{L}\\p{N}_$]*)"

func splitIdentList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, stripQuotes(p))
	}
	return out
}

// extractCreateTableExtensions peels off trailing `LOCATION '...'` and
// `INDEX name (cols)` clauses from a CREATE TABLE statement, returning the
// base `CREATE TABLE ... (cols)` text the underlying grammar understands
// plus the extracted pieces.
func extractCreateTableExtensions(sql string) (base string, indexes []IndexSpec, location string, hasLocation bool) {
	base = strings.TrimRight(sql, "; \t\r\n")

	if m := locationClauseRe.FindStringSubmatchIndex(base); m != nil {
		location = base[m[2]:m[3]]
		hasLocation = true
		base = base[:m[0]]
	}

	for {
		m := indexClauseRe.FindStringSubmatchIndex(base)
		if m == nil {
			break
		}
		name := stripQuotes(base[m[2]:m[3]])
		cols := splitIdentList(base[m[4]:m[5]])
		indexes = append([]IndexSpec{{Name: name, Columns: cols}}, indexes...)
		base = base[:m[0]]
	}

	return base, indexes, location, hasLocation
}
