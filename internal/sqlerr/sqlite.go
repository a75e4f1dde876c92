package sqlerr

import (
	"fmt"
	"regexp"
	"strings"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// "UNIQUE constraint failed: companies.name"
// "NOT NULL constraint failed: companies.status"
// "CHECK constraint failed: companies_status_check"
var sqliteConstraintRe = regexp.MustCompile(`(UNIQUE|NOT NULL|CHECK|FOREIGN KEY) constraint failed(?:: ([A-Za-z0-9_]+)(?:\.([A-Za-z0-9_]+))?)?`)

// ConvertSQLiteError converts a modernc SQLite error into *Error.
func ConvertSQLiteError(src *sqlite.Error) *Error {
	sqlErr := &Error{
		Code:         Other,
		Severity:     SeverityError,
		DatabaseCode: fmt.Sprintf("%d", src.Code()),
		Message:      src.Error(),
		driverErr:    src,
	}

	switch src.Code() {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		sqlErr.Code = UniqueViolation
	case sqlite3.SQLITE_CONSTRAINT_NOTNULL:
		sqlErr.Code = NotNullViolation
	case sqlite3.SQLITE_CONSTRAINT_CHECK:
		sqlErr.Code = CheckViolation
	case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
		sqlErr.Code = ForeignKeyViolation
	}

	m := sqliteConstraintRe.FindStringSubmatch(src.Error())
	if m == nil {
		return sqlErr
	}

	// Without extended result codes only SQLITE_CONSTRAINT comes back, so the
	// message decides the class.
	if sqlErr.Code == Other && src.Code()&0xff == sqlite3.SQLITE_CONSTRAINT {
		sqlErr.Code = constraintKindCode(m[1])
	}

	switch {
	case m[3] != "":
		sqlErr.TableName = m[2]
		sqlErr.ColumnName = m[3]
		sqlErr.ConstraintName = fmt.Sprintf("%s_%s_key", m[2], m[3])
	case m[2] != "":
		sqlErr.ConstraintName = m[2]
		sqlErr.TableName = strings.SplitN(m[2], "_", 2)[0]
	}

	return sqlErr
}

func constraintKindCode(kind string) Code {
	switch kind {
	case "UNIQUE":
		return UniqueViolation
	case "NOT NULL":
		return NotNullViolation
	case "CHECK":
		return CheckViolation
	case "FOREIGN KEY":
		return ForeignKeyViolation
	default:
		return Other
	}
}
