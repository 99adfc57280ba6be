package storage_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"

	"github.com/circdesk/circdesk/internal/core"
	"github.com/circdesk/circdesk/internal/storage"
	"github.com/circdesk/circdesk/testutil/loggerspy"
)

// The gateway renders complete SQL strings, so the mock matches them
// verbatim. These constants double as the documented statement shapes: one
// ordered full scan, one conditional update guarding against double borrows,
// one unconditional update clearing the loan fields, and one credentials
// lookup by username.
const (
	selectBooksSQL = `SELECT "id", "title", "author", "release_date", "borrowed_by", "borrow_date", "return_date" ` +
		`FROM "lib" ORDER BY "id" ASC`
	borrowBookSQL = `UPDATE "lib" SET ` +
		`"borrow_date"='2024-12-01',"borrowed_by"='alice',"return_date"='2025-01-01' ` +
		`WHERE (("id" = 5) AND ("borrowed_by" IS NULL))`
	returnBookSQL = `UPDATE "lib" SET ` +
		`"borrow_date"=NULL,"borrowed_by"=NULL,"return_date"=NULL ` +
		`WHERE ("id" = 5)`
	selectCredentialsSQL = `SELECT "password", "role" FROM "roles" WHERE ("username" = 'alice')`
)

func Test_FetchBooks_ReturnsAllRowsInIDOrder(t *testing.T) {
	// arrange
	gateway, mockPool := givenGatewayWithMockedDB(t)

	borrower := "bob"
	borrowDate := time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC)
	returnDate := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	mockPool.ExpectQuery(selectBooksSQL).WillReturnRows(
		pgxmock.NewRows(bookColumns()).
			AddRow(1, "The Go Programming Language", "Donovan & Kernighan",
				time.Date(2015, 10, 26, 0, 0, 0, 0, time.UTC), nil, nil, nil).
			AddRow(2, "Domain-Driven Design", "Eric Evans",
				time.Date(2003, 8, 20, 0, 0, 0, 0, time.UTC), &borrower, &borrowDate, &returnDate),
	)

	// act
	books, err := gateway.FetchBooks(context.Background())

	// assert
	assert.NoError(t, err)
	assert.Len(t, books, 2)

	assert.Equal(t, 1, books[0].ID)
	assert.True(t, books[0].IsAvailable())
	assert.True(t, books[0].HasConsistentLoanState())

	assert.Equal(t, 2, books[1].ID)
	assert.False(t, books[1].IsAvailable())
	assert.True(t, books[1].HasConsistentLoanState())
	assert.Equal(t, "bob", *books[1].BorrowedBy)
	assert.Equal(t, borrowDate, *books[1].BorrowDate)
	assert.Equal(t, returnDate, *books[1].ReturnDate)

	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func Test_FetchBooks_ReturnsAnEmptySlice_ForAnEmptyTable(t *testing.T) {
	// arrange
	gateway, mockPool := givenGatewayWithMockedDB(t)
	mockPool.ExpectQuery(selectBooksSQL).WillReturnRows(pgxmock.NewRows(bookColumns()))

	// act
	books, err := gateway.FetchBooks(context.Background())

	// assert
	assert.NoError(t, err)
	assert.Empty(t, books)
	assert.NotNil(t, books)
}

func Test_FetchBooks_Fails_WhenTheQueryFails(t *testing.T) {
	// arrange
	gateway, mockPool := givenGatewayWithMockedDB(t)
	mockPool.ExpectQuery(selectBooksSQL).WillReturnError(errors.New("connection refused"))

	// act
	_, err := gateway.FetchBooks(context.Background())

	// assert
	assert.ErrorIs(t, err, storage.ErrQueryingDatabaseFailed)
}

func Test_FetchBooks_Fails_WhenARowCannotBeScanned(t *testing.T) {
	// arrange: a row with too few columns cannot be scanned into a book
	gateway, mockPool := givenGatewayWithMockedDB(t)
	mockPool.ExpectQuery(selectBooksSQL).WillReturnRows(
		pgxmock.NewRows([]string{"id"}).AddRow(1),
	)

	// act
	_, err := gateway.FetchBooks(context.Background())

	// assert
	assert.ErrorIs(t, err, storage.ErrScanningDBRowFailed)
}

func Test_FetchBooks_UsesTheConfiguredBooksTable(t *testing.T) {
	// arrange
	gateway, mockPool := givenGatewayWithMockedDB(t, storage.WithBooksTable("inventory"))

	customTableSQL := `SELECT "id", "title", "author", "release_date", "borrowed_by", "borrow_date", "return_date" ` +
		`FROM "inventory" ORDER BY "id" ASC`
	mockPool.ExpectQuery(customTableSQL).WillReturnRows(pgxmock.NewRows(bookColumns()))

	// act
	_, err := gateway.FetchBooks(context.Background())

	// assert
	assert.NoError(t, err)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func Test_BorrowBook_SetsTheLoanTriple_WithASingleConditionalUpdate(t *testing.T) {
	// arrange
	gateway, mockPool := givenGatewayWithMockedDB(t, storage.WithClock(givenFixedClock(t)))
	mockPool.ExpectExec(borrowBookSQL).WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	// act
	err := gateway.BorrowBook(context.Background(), 5, "alice", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))

	// assert
	assert.NoError(t, err)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func Test_BorrowBook_Fails_WhenNoRowMatches(t *testing.T) {
	// The conditional update matches nothing when the book is already lent
	// out or the id does not exist; the two cases collapse into one error.
	// arrange
	gateway, mockPool := givenGatewayWithMockedDB(t, storage.WithClock(givenFixedClock(t)))
	mockPool.ExpectExec(borrowBookSQL).WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	// act
	err := gateway.BorrowBook(context.Background(), 5, "alice", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))

	// assert
	assert.ErrorIs(t, err, storage.ErrBookUnavailable)
	assert.ErrorContains(t, err, "already borrowed or does not exist")
}

func Test_BorrowBook_Fails_WhenTheUpdateFails(t *testing.T) {
	// arrange
	gateway, mockPool := givenGatewayWithMockedDB(t, storage.WithClock(givenFixedClock(t)))
	mockPool.ExpectExec(borrowBookSQL).WillReturnError(errors.New("terminating connection"))

	// act
	err := gateway.BorrowBook(context.Background(), 5, "alice", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))

	// assert
	assert.ErrorIs(t, err, storage.ErrExecutingUpdateFailed)
}

func Test_ReturnBook_ClearsTheLoanTriple_Unconditionally(t *testing.T) {
	// arrange
	gateway, mockPool := givenGatewayWithMockedDB(t)
	mockPool.ExpectExec(returnBookSQL).WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	// act
	err := gateway.ReturnBook(context.Background(), 5)

	// assert
	assert.NoError(t, err)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func Test_ReturnBook_Succeeds_WhenTheBookWasNeverBorrowed(t *testing.T) {
	// Returning an available book, or an id that does not exist, updates
	// zero rows and is deliberately not an error.
	// arrange
	gateway, mockPool := givenGatewayWithMockedDB(t)
	mockPool.ExpectExec(returnBookSQL).WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	// act
	err := gateway.ReturnBook(context.Background(), 5)

	// assert
	assert.NoError(t, err)
}

func Test_ReturnBook_Fails_WhenTheUpdateFails(t *testing.T) {
	// arrange
	gateway, mockPool := givenGatewayWithMockedDB(t)
	mockPool.ExpectExec(returnBookSQL).WillReturnError(errors.New("terminating connection"))

	// act
	err := gateway.ReturnBook(context.Background(), 5)

	// assert
	assert.ErrorIs(t, err, storage.ErrExecutingUpdateFailed)
}

func Test_AuthenticateUser_ReturnsTheRole_OnMatchingCredentials(t *testing.T) {
	// arrange
	gateway, mockPool := givenGatewayWithMockedDB(t)

	storedHash := givenHashedPassword(t, "password123")
	mockPool.ExpectQuery(selectCredentialsSQL).WillReturnRows(
		pgxmock.NewRows([]string{"password", "role"}).AddRow(storedHash, "student"),
	)

	// act
	role, err := gateway.AuthenticateUser(context.Background(), "alice", "password123")

	// assert
	assert.NoError(t, err)
	assert.Equal(t, core.RoleStudent, role)
}

func Test_AuthenticateUser_Fails_OnWrongPassword(t *testing.T) {
	// arrange
	gateway, mockPool := givenGatewayWithMockedDB(t)

	storedHash := givenHashedPassword(t, "password123")
	mockPool.ExpectQuery(selectCredentialsSQL).WillReturnRows(
		pgxmock.NewRows([]string{"password", "role"}).AddRow(storedHash, "student"),
	)

	// act
	role, err := gateway.AuthenticateUser(context.Background(), "alice", "wrongpassword")

	// assert
	assert.ErrorIs(t, err, storage.ErrAuthenticationFailed)
	assert.Empty(t, role)
}

func Test_AuthenticateUser_Fails_OnUnknownUsername(t *testing.T) {
	// arrange
	gateway, mockPool := givenGatewayWithMockedDB(t)
	mockPool.ExpectQuery(selectCredentialsSQL).WillReturnRows(
		pgxmock.NewRows([]string{"password", "role"}),
	)

	// act
	role, err := gateway.AuthenticateUser(context.Background(), "alice", "password123")

	// assert
	assert.ErrorIs(t, err, storage.ErrAuthenticationFailed,
		"unknown usernames and wrong passwords must be indistinguishable")
	assert.Empty(t, role)
}

func Test_AuthenticateUser_UsesTheConfiguredRolesTable(t *testing.T) {
	// arrange
	gateway, mockPool := givenGatewayWithMockedDB(t, storage.WithRolesTable("accounts"))

	customTableSQL := `SELECT "password", "role" FROM "accounts" WHERE ("username" = 'alice')`
	mockPool.ExpectQuery(customTableSQL).WillReturnRows(
		pgxmock.NewRows([]string{"password", "role"}).AddRow(givenHashedPassword(t, "password123"), "librarian"),
	)

	// act
	role, err := gateway.AuthenticateUser(context.Background(), "alice", "password123")

	// assert
	assert.NoError(t, err)
	assert.Equal(t, core.RoleLibrarian, role)
}

func Test_Ping_VerifiesConnectivity(t *testing.T) {
	// arrange
	mockPool, poolErr := pgxmock.NewPool()
	assert.NoError(t, poolErr)
	t.Cleanup(mockPool.Close)

	gateway, gatewayErr := storage.NewGatewayFromPGXPool(mockPool)
	assert.NoError(t, gatewayErr)

	mockPool.ExpectPing()

	// act
	err := gateway.Ping(context.Background())

	// assert
	assert.NoError(t, err)
}

func Test_Ping_Fails_WhenTheDatabaseIsUnreachable(t *testing.T) {
	// arrange
	mockPool, poolErr := pgxmock.NewPool()
	assert.NoError(t, poolErr)
	t.Cleanup(mockPool.Close)

	gateway, gatewayErr := storage.NewGatewayFromPGXPool(mockPool)
	assert.NoError(t, gatewayErr)

	mockPool.ExpectPing().WillReturnError(errors.New("no route to host"))

	// act
	err := gateway.Ping(context.Background())

	// assert
	assert.ErrorIs(t, err, storage.ErrPingingDatabaseFailed)
}

func Test_FactoryFunctions_Fail_WithNilDatabaseConnection(t *testing.T) {
	testCases := []struct {
		name        string
		factoryFunc func() (storage.Gateway, error)
	}{
		{
			name: "NewGatewayFromPGXPool with nil",
			factoryFunc: func() (storage.Gateway, error) {
				return storage.NewGatewayFromPGXPool(nil)
			},
		},
		{
			name: "NewGatewayFromSQLDB with nil",
			factoryFunc: func() (storage.Gateway, error) {
				return storage.NewGatewayFromSQLDB(nil)
			},
		},
		{
			name: "NewGatewayFromSQLX with nil",
			factoryFunc: func() (storage.Gateway, error) {
				return storage.NewGatewayFromSQLX(nil)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// act
			_, err := tc.factoryFunc()

			// assert
			assert.ErrorIs(t, err, storage.ErrNilDatabaseConnection)
		})
	}
}

func Test_FactoryFunctions_Fail_WithEmptyTableName(t *testing.T) {
	testCases := []struct {
		name   string
		option storage.Option
	}{
		{name: "empty books table", option: storage.WithBooksTable("")},
		{name: "empty roles table", option: storage.WithRolesTable("")},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// arrange
			mockPool, poolErr := pgxmock.NewPool()
			assert.NoError(t, poolErr)
			t.Cleanup(mockPool.Close)

			// act
			_, err := storage.NewGatewayFromPGXPool(mockPool, tc.option)

			// assert
			assert.ErrorIs(t, err, storage.ErrEmptyTableNameSupplied)
		})
	}
}

func Test_FactoryFunctions_Fail_WithNilClock(t *testing.T) {
	// arrange
	mockPool, poolErr := pgxmock.NewPool()
	assert.NoError(t, poolErr)
	t.Cleanup(mockPool.Close)

	// act
	_, err := storage.NewGatewayFromPGXPool(mockPool, storage.WithClock(nil))

	// assert
	assert.ErrorIs(t, err, storage.ErrNilClockSupplied)
}

func Test_Gateway_LogsQueriesAndOperations(t *testing.T) {
	// arrange
	spy := loggerspy.New()
	gateway, mockPool := givenGatewayWithMockedDB(t,
		storage.WithClock(givenFixedClock(t)),
		storage.WithLogger(spy),
	)
	mockPool.ExpectExec(borrowBookSQL).WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	// act
	err := gateway.BorrowBook(context.Background(), 5, "alice", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))

	// assert
	assert.NoError(t, err)
	assert.True(t, spy.HasDebugLogContaining("executed sql for: borrow book"))
	assert.True(t, spy.HasInfoLogContaining("book borrowed"))
}

func Test_Gateway_LogsUnavailableBooks_AtInfoLevel(t *testing.T) {
	// arrange
	spy := loggerspy.New()
	gateway, mockPool := givenGatewayWithMockedDB(t,
		storage.WithClock(givenFixedClock(t)),
		storage.WithLogger(spy),
	)
	mockPool.ExpectExec(borrowBookSQL).WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	// act
	err := gateway.BorrowBook(context.Background(), 5, "alice", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))

	// assert
	assert.ErrorIs(t, err, storage.ErrBookUnavailable)
	assert.True(t, spy.HasInfoLogContaining("book unavailable for borrowing"))
}

func Test_Gateway_LogsStoreFailures_BeforeWrappingThem(t *testing.T) {
	// arrange
	spy := loggerspy.New()
	gateway, mockPool := givenGatewayWithMockedDB(t, storage.WithLogger(spy))
	mockPool.ExpectQuery(selectBooksSQL).WillReturnError(errors.New("connection refused"))

	// act
	_, err := gateway.FetchBooks(context.Background())

	// assert
	assert.ErrorIs(t, err, storage.ErrQueryingDatabaseFailed)
	assert.True(t, spy.HasErrorLogContaining("database query execution failed"))
}

// givenGatewayWithMockedDB creates a gateway over a pgx pool mock that
// matches rendered SQL verbatim.
func givenGatewayWithMockedDB(t *testing.T, options ...storage.Option) (storage.Gateway, pgxmock.PgxPoolIface) {
	t.Helper()

	mockPool, poolErr := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherEqual))
	assert.NoError(t, poolErr)
	t.Cleanup(mockPool.Close)

	gateway, gatewayErr := storage.NewGatewayFromPGXPool(mockPool, options...)
	assert.NoError(t, gatewayErr)

	return gateway, mockPool
}

// givenFixedClock pins the gateway clock to 2024-12-01, matching the borrow
// date in the expected SQL.
func givenFixedClock(t *testing.T) func() time.Time {
	t.Helper()

	return func() time.Time {
		return time.Date(2024, 12, 1, 9, 30, 0, 0, time.UTC)
	}
}

func givenHashedPassword(t *testing.T, password string) string {
	t.Helper()

	hash, err := core.HashPassword(password)
	assert.NoError(t, err)

	return hash
}

func bookColumns() []string {
	return []string{"id", "title", "author", "release_date", "borrowed_by", "borrow_date", "return_date"}
}
