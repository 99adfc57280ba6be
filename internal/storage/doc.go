// Package storage provides the PostgreSQL persistence gateway for the
// circulation desk.
//
// The gateway runs rendered SQL against two tables, the book inventory and
// the user roles, supporting multiple database adapters (pgx, sql.DB, sqlx)
// behind a common interface.
//
// Key features:
//   - Multiple database adapter support (PGX, SQL, SQLX)
//   - Conditional single-row update as the only double-borrow guard
//   - Configurable table names, logger, and clock
//   - bcrypt credential verification against the roles table
//
// Usage examples:
//
//	// Basic usage
//	pool, _ := pgxpool.New(context.Background(), dsn)
//	gateway, _ := storage.NewGatewayFromPGXPool(pool)
//
//	// With operational logging and custom table names
//	gateway, _ := storage.NewGatewayFromPGXPool(
//		pool,
//		storage.WithBooksTable("lib"),
//		storage.WithRolesTable("roles"),
//		storage.WithLogger(logger),
//	)
package storage
