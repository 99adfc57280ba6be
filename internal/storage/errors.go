package storage

import (
	"errors"
)

var ErrNilDatabaseConnection = errors.New("database connection must not be nil")
var ErrEmptyTableNameSupplied = errors.New("empty table name supplied")
var ErrNilClockSupplied = errors.New("clock must not be nil")
var ErrBuildingQueryFailed = errors.New("building sql query failed")
var ErrQueryingDatabaseFailed = errors.New("database query execution failed")
var ErrExecutingUpdateFailed = errors.New("database update execution failed")
var ErrScanningDBRowFailed = errors.New("scanning database row failed")
var ErrGettingRowsAffectedFailed = errors.New("getting rows affected count failed")
var ErrPingingDatabaseFailed = errors.New("pinging the database failed")
var ErrCreatingSchemaFailed = errors.New("creating the circulation schema failed")

// ErrBookUnavailable is returned when a borrow attempt updates no row.
// A book that is already lent out and a book id that does not exist are
// indistinguishable at this point, so both end up here.
var ErrBookUnavailable = errors.New("book is already borrowed or does not exist")

// ErrAuthenticationFailed is returned for unknown usernames and wrong
// passwords alike, so callers cannot probe which usernames exist.
var ErrAuthenticationFailed = errors.New("invalid username or password")
