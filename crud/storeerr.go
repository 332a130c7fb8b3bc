package crud

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"inkwell/errs"
)

// Postgres error codes that mark a failure as transient: the statement lost
// a race, not its validity, so the caller may retry the whole transaction.
const (
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
	pgLockNotAvailable     = "55P03"
	pgUniqueViolation      = "23505"
)

// isUniqueViolation reports whether err is a violation of a unique index.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	return false
}

// classifyStoreErr passes application errors through untouched and maps
// recognized transient store failures to EUNAVAILABLE, so the http layer
// can tell the client a retry is safe. Anything else stays as-is and will
// surface as an internal error.
func classifyStoreErr(err error) error {
	if err == nil {
		return nil
	}
	var appErr *errs.Error
	if errors.As(err, &appErr) {
		return appErr
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgSerializationFailure, pgDeadlockDetected, pgLockNotAvailable:
			return errs.Errorf(errs.EUNAVAILABLE, "The operation timed out, please try again.")
		}
	}
	if pgconn.Timeout(err) || pgconn.SafeToRetry(err) {
		return errs.Errorf(errs.EUNAVAILABLE, "The operation timed out, please try again.")
	}
	return err
}
