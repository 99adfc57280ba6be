package storage

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // driver import
	"github.com/jmoiron/sqlx"

	"github.com/circdesk/circdesk/internal/core"
	"github.com/circdesk/circdesk/internal/storage/adapters"
)

const (
	defaultBooksTableName = "lib"
	defaultRolesTableName = "roles"

	logMsgBuildQueryFailed     = "failed to build sql query"
	logMsgDBQueryFailed        = "database query execution failed"
	logMsgDBExecFailed         = "database execution failed"
	logMsgCloseRowsFailed      = "failed to close database rows"
	logMsgScanRowFailed        = "failed to scan database row"
	logMsgRowsAffectedFailed   = "failed to get rows affected count"
	logMsgPingFailed           = "database ping failed"
	logMsgBooksFetched         = "books fetched"
	logMsgBookBorrowed         = "book borrowed"
	logMsgBookUnavailable      = "book unavailable for borrowing"
	logMsgBookReturned         = "book returned"
	logMsgUserAuthenticated    = "user authenticated"
	logMsgAuthenticationFailed = "authentication failed"
	logMsgSchemaCreated        = "circulation schema created"
	logMsgSQLExecuted          = "executed sql for: "
	logMsgOperation            = "gateway operation: "

	logAttrError        = "error"
	logAttrQuery        = "query"
	logAttrBookID       = "book_id"
	logAttrUsername     = "username"
	logAttrRole         = "role"
	logAttrBookCount    = "book_count"
	logAttrDurationMS   = "duration_ms"
	logAttrRowsAffected = "rows_affected"

	logActionFetchBooks   = "fetch books"
	logActionBorrowBook   = "borrow book"
	logActionReturnBook   = "return book"
	logActionAuthenticate = "authenticate user"
	logActionCreateTable  = "create table"

	colID          = "id"
	colTitle       = "title"
	colAuthor      = "author"
	colReleaseDate = "release_date"
	colBorrowedBy  = "borrowed_by"
	colBorrowDate  = "borrow_date"
	colReturnDate  = "return_date"
	colUsername    = "username"
	colPassword    = "password"
	colRole        = "role"

	dialectPostgres = "postgres"
)

type (
	sqlQueryString    = string
	rowsAffectedInt64 = int64
	queryDuration     = time.Duration
)

// Logger interface for SQL query logging, operational metrics, warnings, and error reporting.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Gateway represents the persistence layer for book circulation in PostgreSQL.
// It leverages a database adapter and supports customizable logging, table
// names, and an injectable clock for borrow-date stamping.
type Gateway struct {
	db             adapters.DBAdapter
	booksTableName string
	rolesTableName string
	clock          func() time.Time
	logger         Logger
}

// Option defines a functional option for configuring Gateway.
type Option func(*Gateway) error

// WithBooksTable sets the book inventory table name for the Gateway.
func WithBooksTable(tableName string) Option {
	return func(gw *Gateway) error {
		if tableName == "" {
			return ErrEmptyTableNameSupplied
		}

		gw.booksTableName = tableName

		return nil
	}
}

// WithRolesTable sets the user roles table name for the Gateway.
func WithRolesTable(tableName string) Option {
	return func(gw *Gateway) error {
		if tableName == "" {
			return ErrEmptyTableNameSupplied
		}

		gw.rolesTableName = tableName

		return nil
	}
}

// WithClock sets the time source used to stamp borrow dates.
func WithClock(clock func() time.Time) Option {
	return func(gw *Gateway) error {
		if clock == nil {
			return ErrNilClockSupplied
		}

		gw.clock = clock

		return nil
	}
}

// WithLogger sets the logger for the Gateway.
// The logger will receive messages at different levels based on the logger's configured level:
//
// Debug level: SQL queries with execution timing (development use)
// Info level: Circulation actions, row counts, durations (production-safe)
// Warn level: Non-critical issues like cleanup failures
// Error level: Critical failures that cause operation failures.
func WithLogger(logger Logger) Option {
	return func(gw *Gateway) error {
		gw.logger = logger
		return nil
	}
}

// NewGatewayFromPGXPool creates a new Gateway using a pgx connection pool with optional configuration.
func NewGatewayFromPGXPool(pool adapters.PGXPool, options ...Option) (Gateway, error) {
	if pool == nil {
		return Gateway{}, ErrNilDatabaseConnection
	}

	gw := Gateway{
		db:             adapters.NewPGXAdapter(pool),
		booksTableName: defaultBooksTableName,
		rolesTableName: defaultRolesTableName,
		clock:          time.Now,
	}

	for _, option := range options {
		if err := option(&gw); err != nil {
			return Gateway{}, err
		}
	}

	return gw, nil
}

// NewGatewayFromSQLDB creates a new Gateway using a sql.DB with optional configuration.
func NewGatewayFromSQLDB(db *sql.DB, options ...Option) (Gateway, error) {
	if db == nil {
		return Gateway{}, ErrNilDatabaseConnection
	}

	gw := Gateway{
		db:             adapters.NewSQLAdapter(db),
		booksTableName: defaultBooksTableName,
		rolesTableName: defaultRolesTableName,
		clock:          time.Now,
	}

	for _, option := range options {
		if err := option(&gw); err != nil {
			return Gateway{}, err
		}
	}

	return gw, nil
}

// NewGatewayFromSQLX creates a new Gateway using a sqlx.DB with optional configuration.
func NewGatewayFromSQLX(db *sqlx.DB, options ...Option) (Gateway, error) {
	if db == nil {
		return Gateway{}, ErrNilDatabaseConnection
	}

	gw := Gateway{
		db:             adapters.NewSQLXAdapter(db),
		booksTableName: defaultBooksTableName,
		rolesTableName: defaultRolesTableName,
		clock:          time.Now,
	}

	for _, option := range options {
		if err := option(&gw); err != nil {
			return Gateway{}, err
		}
	}

	return gw, nil
}

// FetchBooks retrieves every row of the book inventory table ordered by id.
// There is no filtering and no pagination; the circulation desk always works
// on the full list.
func (gw Gateway) FetchBooks(ctx context.Context) ([]core.Book, error) {
	sqlQuery, buildQueryErr := gw.buildSelectBooksQuery()
	if buildQueryErr != nil {
		if gw.logger != nil {
			gw.logger.Error(logMsgBuildQueryFailed, logAttrError, buildQueryErr.Error())
		}
		return nil, buildQueryErr
	}

	rows, duration, queryErr := gw.executeQuery(ctx, sqlQuery, logActionFetchBooks)
	if queryErr != nil {
		return nil, queryErr
	}
	defer gw.closeRows(rows)

	books, scanErr := gw.scanBookRows(rows)
	if scanErr != nil {
		return nil, scanErr
	}

	gw.logOperation(
		logMsgBooksFetched,
		logAttrBookCount, len(books),
		logAttrDurationMS, gw.durationToMilliseconds(duration))

	return books, nil
}

// BorrowBook marks a book as lent out with a single conditional update.
// The borrow date is stamped from the gateway clock; the condition on
// borrowed_by IS NULL is the only guard against double borrowing, enforced
// by the atomic row update of the database.
//
// ErrBookUnavailable is returned when no row was updated, which covers both
// a book that is already lent out and a book id that does not exist.
func (gw Gateway) BorrowBook(
	ctx context.Context,
	bookID core.BookIDInt,
	username core.UsernameString,
	returnDate time.Time,
) error {

	sqlQuery, buildQueryErr := gw.buildBorrowBookQuery(bookID, username, returnDate)
	if buildQueryErr != nil {
		if gw.logger != nil {
			gw.logger.Error(logMsgBuildQueryFailed, logAttrError, buildQueryErr.Error())
		}
		return buildQueryErr
	}

	rowsAffected, duration, execErr := gw.executeUpdate(ctx, sqlQuery, logActionBorrowBook)
	if execErr != nil {
		return execErr
	}

	if rowsAffected == 0 {
		gw.logOperation(logMsgBookUnavailable, logAttrBookID, bookID)
		return ErrBookUnavailable
	}

	gw.logOperation(
		logMsgBookBorrowed,
		logAttrBookID, bookID,
		logAttrUsername, username,
		logAttrDurationMS, gw.durationToMilliseconds(duration))

	return nil
}

// ReturnBook clears the loan fields of a book unconditionally.
// Returning a book that is already available, or an id that does not exist,
// updates nothing and is not an error; the affected row count is logged.
func (gw Gateway) ReturnBook(ctx context.Context, bookID core.BookIDInt) error {
	sqlQuery, buildQueryErr := gw.buildReturnBookQuery(bookID)
	if buildQueryErr != nil {
		if gw.logger != nil {
			gw.logger.Error(logMsgBuildQueryFailed, logAttrError, buildQueryErr.Error())
		}
		return buildQueryErr
	}

	rowsAffected, duration, execErr := gw.executeUpdate(ctx, sqlQuery, logActionReturnBook)
	if execErr != nil {
		return execErr
	}

	gw.logOperation(
		logMsgBookReturned,
		logAttrBookID, bookID,
		logAttrRowsAffected, rowsAffected,
		logAttrDurationMS, gw.durationToMilliseconds(duration))

	return nil
}

// AuthenticateUser verifies a username/password pair against the roles table
// and returns the stored role. The table holds bcrypt hashes, never plain
// passwords. Unknown usernames and wrong passwords both yield
// ErrAuthenticationFailed so the two cases cannot be told apart.
func (gw Gateway) AuthenticateUser(
	ctx context.Context,
	username core.UsernameString,
	password string,
) (core.Role, error) {

	sqlQuery, buildQueryErr := gw.buildSelectCredentialsQuery(username)
	if buildQueryErr != nil {
		if gw.logger != nil {
			gw.logger.Error(logMsgBuildQueryFailed, logAttrError, buildQueryErr.Error())
		}
		return "", buildQueryErr
	}

	rows, duration, queryErr := gw.executeQuery(ctx, sqlQuery, logActionAuthenticate)
	if queryErr != nil {
		return "", queryErr
	}
	defer gw.closeRows(rows)

	storedHash, role, found, scanErr := gw.scanCredentialsRow(rows)
	if scanErr != nil {
		return "", scanErr
	}

	if !found || !core.CheckPasswordHash(password, storedHash) {
		gw.logOperation(logMsgAuthenticationFailed, logAttrUsername, username)
		return "", ErrAuthenticationFailed
	}

	gw.logOperation(
		logMsgUserAuthenticated,
		logAttrUsername, username,
		logAttrRole, role,
		logAttrDurationMS, gw.durationToMilliseconds(duration))

	return role, nil
}

// Ping verifies connectivity to the database. It is called once at startup;
// there are no retries anywhere in the circulation desk.
func (gw Gateway) Ping(ctx context.Context) error {
	if pingErr := gw.db.Ping(ctx); pingErr != nil {
		if gw.logger != nil {
			gw.logger.Error(logMsgPingFailed, logAttrError, pingErr.Error())
		}

		return errors.Join(ErrPingingDatabaseFailed, pingErr)
	}

	return nil
}

// executeQuery executes the SQL query and returns rows with timing information.
func (gw Gateway) executeQuery(ctx context.Context, sqlQuery string, action string) (
	adapters.DBRows,
	time.Duration,
	error,
) {

	start := time.Now()
	rows, queryErr := gw.db.Query(ctx, sqlQuery)
	duration := time.Since(start)
	gw.logQueryWithDuration(sqlQuery, action, duration)

	if queryErr != nil {
		if gw.logger != nil {
			gw.logger.Error(logMsgDBQueryFailed, logAttrError, queryErr.Error(), logAttrQuery, sqlQuery)
		}

		return nil, duration, errors.Join(ErrQueryingDatabaseFailed, queryErr)
	}

	return rows, duration, nil
}

// executeUpdate executes the SQL update and returns rows affected and duration.
func (gw Gateway) executeUpdate(ctx context.Context, sqlQuery string, action string) (
	rowsAffectedInt64,
	queryDuration,
	error,
) {

	start := time.Now()
	result, execErr := gw.db.Exec(ctx, sqlQuery)
	duration := time.Since(start)
	gw.logQueryWithDuration(sqlQuery, action, duration)

	if execErr != nil {
		if gw.logger != nil {
			gw.logger.Error(logMsgDBExecFailed, logAttrError, execErr.Error(), logAttrQuery, sqlQuery)
		}

		return 0, duration, errors.Join(ErrExecutingUpdateFailed, execErr)
	}

	rowsAffected, rowsAffectedErr := result.RowsAffected()
	if rowsAffectedErr != nil {
		if gw.logger != nil {
			gw.logger.Error(logMsgRowsAffectedFailed, logAttrError, rowsAffectedErr.Error())
		}

		return 0, duration, errors.Join(ErrGettingRowsAffectedFailed, rowsAffectedErr)
	}

	return rowsAffected, duration, nil
}

// closeRows safely closes database rows and logs any errors.
func (gw Gateway) closeRows(rows adapters.DBRows) {
	if closeErr := rows.Close(); closeErr != nil {
		if gw.logger != nil {
			gw.logger.Warn(logMsgCloseRowsFailed, logAttrError, closeErr.Error())
		}
	}
}

// scanBookRows converts database rows into books. The three loan fields scan
// into pointers so SQL NULL maps to nil in every supported adapter.
func (gw Gateway) scanBookRows(rows adapters.DBRows) ([]core.Book, error) {
	books := make([]core.Book, 0)

	for rows.Next() {
		var book core.Book

		rowScanErr := rows.Scan(
			&book.ID, &book.Title, &book.Author, &book.ReleaseDate,
			&book.BorrowedBy, &book.BorrowDate, &book.ReturnDate)
		if rowScanErr != nil {
			if gw.logger != nil {
				gw.logger.Error(logMsgScanRowFailed, logAttrError, rowScanErr.Error())
			}

			return nil, errors.Join(ErrScanningDBRowFailed, rowScanErr)
		}

		books = append(books, book)
	}

	return books, nil
}

// scanCredentialsRow reads the single credentials row for a username.
// A missing row is reported through found, not as an error.
func (gw Gateway) scanCredentialsRow(rows adapters.DBRows) (string, core.Role, bool, error) {
	if !rows.Next() {
		return "", "", false, nil
	}

	var storedHash string
	var role string

	rowScanErr := rows.Scan(&storedHash, &role)
	if rowScanErr != nil {
		if gw.logger != nil {
			gw.logger.Error(logMsgScanRowFailed, logAttrError, rowScanErr.Error())
		}

		return "", "", false, errors.Join(ErrScanningDBRowFailed, rowScanErr)
	}

	return storedHash, core.Role(role), true, nil
}

func (gw Gateway) buildSelectBooksQuery() (sqlQueryString, error) {
	selectStmt := goqu.Dialect(dialectPostgres).
		From(gw.booksTableName).
		Select(colID, colTitle, colAuthor, colReleaseDate, colBorrowedBy, colBorrowDate, colReturnDate).
		Order(goqu.I(colID).Asc())

	sqlQuery, _, toSQLErr := selectStmt.ToSQL()
	if toSQLErr != nil {
		return "", errors.Join(ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, nil
}

func (gw Gateway) buildBorrowBookQuery(
	bookID core.BookIDInt,
	username core.UsernameString,
	returnDate time.Time,
) (sqlQueryString, error) {

	updateStmt := goqu.Dialect(dialectPostgres).
		Update(gw.booksTableName).
		Set(goqu.Record{
			colBorrowedBy: username,
			colBorrowDate: gw.clock().Format(time.DateOnly),
			colReturnDate: returnDate.Format(time.DateOnly),
		}).
		Where(
			goqu.C(colID).Eq(bookID),
			goqu.C(colBorrowedBy).IsNull(),
		)

	sqlQuery, _, toSQLErr := updateStmt.ToSQL()
	if toSQLErr != nil {
		return "", errors.Join(ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, nil
}

func (gw Gateway) buildReturnBookQuery(bookID core.BookIDInt) (sqlQueryString, error) {
	updateStmt := goqu.Dialect(dialectPostgres).
		Update(gw.booksTableName).
		Set(goqu.Record{
			colBorrowedBy: nil,
			colBorrowDate: nil,
			colReturnDate: nil,
		}).
		Where(goqu.C(colID).Eq(bookID))

	sqlQuery, _, toSQLErr := updateStmt.ToSQL()
	if toSQLErr != nil {
		return "", errors.Join(ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, nil
}

func (gw Gateway) buildSelectCredentialsQuery(username core.UsernameString) (sqlQueryString, error) {
	selectStmt := goqu.Dialect(dialectPostgres).
		From(gw.rolesTableName).
		Select(colPassword, colRole).
		Where(goqu.C(colUsername).Eq(username))

	sqlQuery, _, toSQLErr := selectStmt.ToSQL()
	if toSQLErr != nil {
		return "", errors.Join(ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, nil
}

// logQueryWithDuration logs SQL queries with execution time at debug level if the logger is configured.
func (gw Gateway) logQueryWithDuration(
	sqlQuery string,
	action string,
	duration time.Duration,
) {

	if gw.logger != nil {
		gw.logger.Debug(logMsgSQLExecuted+action, logAttrDurationMS, gw.durationToMilliseconds(duration), logAttrQuery, sqlQuery)
	}
}

// logOperation logs operational information at info level if the logger is configured.
func (gw Gateway) logOperation(action string, args ...any) {
	if gw.logger != nil {
		gw.logger.Info(logMsgOperation+action, args...)
	}
}

// durationToMilliseconds converts a time.Duration to float64 milliseconds with 3 decimal places.
func (gw Gateway) durationToMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}
