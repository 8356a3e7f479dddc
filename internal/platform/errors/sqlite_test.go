package errors

import (
	stderrs "errors"
	"fmt"
	"testing"
)

type sqliteErr int

func (e sqliteErr) Error() string { return fmt.Sprintf("sqlite error %d", int(e)) }
func (e sqliteErr) Code() int     { return int(e) }

func TestFromSQLite(t *testing.T) {
	cases := map[int]ErrorCode{
		sqliteUnique:     ErrorCodeDuplicateKey,
		sqlitePrimaryKey: ErrorCodeDuplicateKey,
		sqliteNotNull:    ErrorCodeValidation,
		sqliteCheck:      ErrorCodeValidation,
		sqliteForeignKey: ErrorCodeInvalidArgument,
		sqliteBusy:       ErrorCodeUnavailable,
		261:              ErrorCodeUnavailable, // SQLITE_BUSY_RECOVERY
		sqliteConstraint: ErrorCodeConflict,
		1:                ErrorCodeDB,
	}
	for code, want := range cases {
		err := FromSQLite(fmt.Errorf("exec: %w", sqliteErr(code)), "save task")
		if !IsCode(err, want) {
			t.Fatalf("FromSQLite(%d) = %v, want %v", code, CodeOf(err), want)
		}
	}
	if FromSQLite(nil, "x") != nil {
		t.Fatalf("nil in, nil out")
	}
	if !IsCode(FromSQLite(stderrs.New("disk"), "x"), ErrorCodeDB) {
		t.Fatalf("foreign maps to DB")
	}
}

func TestIsSQLiteBusy(t *testing.T) {
	if !IsSQLiteBusy(sqliteErr(sqliteBusy)) || !IsSQLiteBusy(sqliteErr(sqliteLocked)) {
		t.Fatalf("busy codes")
	}
	if !IsSQLiteBusy(stderrs.New("database is locked (5) (SQLITE_BUSY)")) {
		t.Fatalf("text fallback")
	}
	if IsSQLiteBusy(sqliteErr(sqliteUnique)) || IsSQLiteBusy(nil) {
		t.Fatalf("not busy")
	}
	if !Retryable(sqliteErr(sqliteBusy)) {
		t.Fatalf("Retryable should include sqlite busy")
	}
}
