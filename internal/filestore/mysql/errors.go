package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	gomysql "github.com/go-sql-driver/mysql"
	"github.com/koustreak/blobidx/internal/errs"
)

// MySQL error numbers
// Full list: https://dev.mysql.com/doc/mysql-errors/8.0/en/server-error-reference.html
const (
	errAccessDenied      = 1045
	errTableAccessDenied = 1142
	errUnknownDatabase   = 1049
	errNoSuchTable       = 1146
	errQueryInterrupted  = 1317
	errLockWaitTimeout   = 1205
	errConnRefused       = 2003
)

// mapError converts a MySQL driver error into a *errs.Error
func mapError(err error, msg string) *errs.Error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return errs.Wrap(errs.ErrKindTimeout, msg, err)
	case errors.Is(err, sql.ErrNoRows):
		return errs.Wrap(errs.ErrKindNotFound, msg, err)
	case errors.Is(err, gomysql.ErrInvalidConn), errors.Is(err, sql.ErrConnDone):
		return errs.Wrap(errs.ErrKindConnectionFailed, msg, err)
	}

	var mysqlErr *gomysql.MySQLError
	if errors.As(err, &mysqlErr) {
		msg = fmt.Sprintf("%s: %s", msg, mysqlErr.Message)
		switch mysqlErr.Number {
		case errAccessDenied, errTableAccessDenied:
			return errs.Wrap(errs.ErrKindPermissionDenied, msg, err)
		case errNoSuchTable:
			return errs.Wrap(errs.ErrKindNotFound, msg, err)
		case errQueryInterrupted, errLockWaitTimeout:
			return errs.Wrap(errs.ErrKindTimeout, msg, err)
		case errConnRefused, errUnknownDatabase:
			return errs.Wrap(errs.ErrKindConnectionFailed, msg, err)
		}
		return errs.Wrap(errs.ErrKindIOFailed, msg, err)
	}

	return errs.Wrap(errs.ErrKindConnectionFailed, msg, err)
}
