package errors

import (
	stderrs "errors"
	"strings"
)

// SQLite result codes, extended codes carry the primary code in their low byte
const (
	sqliteBusy            = 5
	sqliteLocked          = 6
	sqliteConstraint      = 19
	sqliteCheck           = 275
	sqliteForeignKey      = 787
	sqliteNotNull         = 1299
	sqlitePrimaryKey      = 1555
	sqliteUnique          = 2067
	sqliteReadOnly        = 8
	sqliteCantOpen        = 14
	sqlitePrimaryCodeMask = 0xff
)

// sqliteCode finds a driver error exposing Code() int, as modernc.org/sqlite does
func sqliteCode(err error) (int, bool) {
	var coder interface{ Code() int }
	if stderrs.As(err, &coder) {
		return coder.Code(), true
	}
	return 0, false
}

// IsSQLiteBusy reports a locked local database
func IsSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	if code, ok := sqliteCode(err); ok {
		p := code & sqlitePrimaryCodeMask
		return p == sqliteBusy || p == sqliteLocked
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

// FromSQLite wraps a local store error with a mapped code
func FromSQLite(err error, msg string) error {
	if err == nil {
		return nil
	}
	code, ok := sqliteCode(err)
	if !ok {
		return Wrap(err, ErrorCodeDB, msg)
	}
	switch code {
	case sqliteUnique, sqlitePrimaryKey:
		return Wrap(err, ErrorCodeDuplicateKey, msg)
	case sqliteNotNull, sqliteCheck:
		return Wrap(err, ErrorCodeValidation, msg)
	case sqliteForeignKey:
		return Wrap(err, ErrorCodeInvalidArgument, msg)
	}
	switch code & sqlitePrimaryCodeMask {
	case sqliteBusy, sqliteLocked, sqliteReadOnly, sqliteCantOpen:
		return Wrap(err, ErrorCodeUnavailable, msg)
	case sqliteConstraint:
		return Wrap(err, ErrorCodeConflict, msg)
	}
	return Wrap(err, ErrorCodeDB, msg)
}
