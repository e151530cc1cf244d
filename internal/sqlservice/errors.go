package sqlservice

import (
	"fmt"

	"github.com/juju/errors"
)

// UserError is the single error kind surfaced to callers:
// every parser, metadata, I/O, remote-FS, value-parse, and job-error
// failure is flattened into this one variant at the exec() boundary. The
// message prefixes below are part of the public contract: callers match
// on text, not on a typed case, so the exact wording (including the
// preserved spelling quirks) must never drift.
type UserError struct {
	msg string
}

func (e *UserError) Error() string { return e.msg }

func userErrorf(format string, args ...interface{}) *UserError {
	return &UserError{msg: fmt.Sprintf(format, args...)}
}

// wrapUser flattens any internal error (typically one juju/errors has
// already annotated with call-site context) into a UserError, unless it
// already is one.
func wrapUser(err error) error {
	if err == nil {
		return nil
	}
	if ue, ok := err.(*UserError); ok {
		return ue
	}
	return &UserError{msg: errors.Cause(err).Error()}
}

func errUnqualifiedName() error {
	return userErrorf("Schema's name should be present in table name but found:")
}

// errColumnMissing's wording, misspelling included, is matched verbatim by
// consumers and must never be corrected.
func errColumnMissing(column, schema, table string) error {
	return userErrorf("Column %s does noot present in table %s.%s.", column, schema, table)
}

func errUnsupportedSQL(q string) error {
	return userErrorf("Unsupported SQL: '%s'", q)
}

func errUnsupportedDrop() error {
	return userErrorf("Unsupported drop operation")
}

func errUnknownShow(variable string) error {
	return userErrorf("Unknown SHOW: %s", variable)
}

func errCreateTableFailed(err error) error {
	return userErrorf("Create table failed: %v", err)
}

func errInsertJobFailed(err error) error {
	return userErrorf("Insert job failed: %v", err)
}
