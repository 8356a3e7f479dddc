package errors

import (
	"context"
	stderrs "errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE codes the task store can produce
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgNotNullViolation    = "23502"
	pgCheckViolation      = "23514"
	pgStringTruncation    = "22001"
	pgInvalidText         = "22P02"
	pgInvalidDatetime     = "22007"
	pgSerialization       = "40001"
	pgDeadlock            = "40P01"
	pgLockNotAvailable    = "55P03"
	pgReadOnly            = "25006"
	pgCannotConnectNow    = "57P03"
)

// ExtractPgError returns the *pgconn.PgError at the root of err
func ExtractPgError(err error) (*pgconn.PgError, bool) {
	var pgErr *pgconn.PgError
	if stderrs.As(Root(err), &pgErr) {
		return pgErr, true
	}
	return nil, false
}

// IsSQLState reports whether err is a Postgres error with code
func IsSQLState(err error, code string) bool {
	pgErr, ok := ExtractPgError(err)
	return ok && pgErr.Code == code
}

// IsDuplicateKey reports a unique violation, e.g. a task id inserted twice
func IsDuplicateKey(err error) bool { return IsSQLState(err, pgUniqueViolation) }

// DBErrorCode maps a Postgres error, !ok means err holds no PgError
func DBErrorCode(err error) (ErrorCode, bool) {
	pgErr, ok := ExtractPgError(err)
	if !ok {
		return ErrorCodeUnknown, false
	}
	switch pgErr.Code {
	case pgUniqueViolation:
		return ErrorCodeDuplicateKey, true
	case pgForeignKeyViolation, pgStringTruncation, pgInvalidText, pgInvalidDatetime:
		return ErrorCodeInvalidArgument, true
	case pgNotNullViolation, pgCheckViolation:
		return ErrorCodeValidation, true
	case pgReadOnly, pgCannotConnectNow:
		return ErrorCodeUnavailable, true
	default:
		return ErrorCodeDB, true
	}
}

// FromPostgres wraps err with the mapped code and a field taken from the column or constraint
func FromPostgres(err error, msg string) error {
	if err == nil {
		return nil
	}
	code, ok := DBErrorCode(err)
	if !ok {
		code = ErrorCodeDB
	}
	return attachPgField(Wrap(err, code, msg))
}

// tasks_title_check -> title, tasks_pkey -> nothing
func attachPgField(err error) error {
	pgErr, ok := ExtractPgError(err)
	if !ok {
		return err
	}
	if col := strings.TrimSpace(pgErr.ColumnName); col != "" {
		return WithField(err, col)
	}
	parts := strings.Split(pgErr.ConstraintName, "_")
	if len(parts) >= 3 {
		if f := strings.Join(parts[1:len(parts)-1], "_"); f != "" {
			return WithField(err, f)
		}
	}
	return err
}

// IsRetryable reports transient Postgres contention, local cancellation never retries
func IsRetryable(err error) bool {
	if err == nil || stderrs.Is(err, context.Canceled) || stderrs.Is(err, context.DeadlineExceeded) {
		return false
	}
	if pgErr, ok := ExtractPgError(err); ok {
		switch pgErr.Code {
		case pgSerialization, pgDeadlock, pgLockNotAvailable, pgCannotConnectNow:
			return true
		}
		return false
	}
	s := strings.ToLower(Root(err).Error())
	for _, frag := range []string{
		"commit unexpectedly resulted in rollback",
		"deadlock detected",
		"could not serialize access",
		"canceling statement due to lock timeout",
	} {
		if strings.Contains(s, frag) {
			return true
		}
	}
	return false
}
