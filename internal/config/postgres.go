package config

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // postgres driver
)

const (
	defaultMinConnections    = int32(2)
	defaultMaxConnLifetime   = time.Hour
	defaultMaxConnIdleTime   = time.Minute * 5
	defaultHealthCheckPeriod = time.Minute
	defaultConnectTimeout    = time.Second * 5
	defaultMaxIdleConns      = 2
)

// OpenPGXPool creates a pgx connection pool from the database configuration.
// The pool connects lazily; connectivity is verified once at startup through
// the gateway's Ping.
func OpenPGXPool(ctx context.Context, cfg Database) (*pgxpool.Pool, error) {
	poolConfig, parseErr := pgxpool.ParseConfig(cfg.DSN)
	if parseErr != nil {
		return nil, errors.Join(ErrParsingDSNFailed, parseErr)
	}

	poolConfig.MaxConns = cfg.MaxConns
	poolConfig.MinConns = defaultMinConnections
	poolConfig.MaxConnLifetime = defaultMaxConnLifetime
	poolConfig.MaxConnIdleTime = defaultMaxConnIdleTime
	poolConfig.HealthCheckPeriod = defaultHealthCheckPeriod
	poolConfig.ConnConfig.ConnectTimeout = defaultConnectTimeout

	pool, newErr := pgxpool.NewWithConfig(ctx, poolConfig)
	if newErr != nil {
		return nil, errors.Join(ErrOpeningDatabaseFailed, newErr)
	}

	return pool, nil
}

// OpenSQLDB creates a configured *sql.DB from the database configuration,
// using lib/pq as the driver.
func OpenSQLDB(cfg Database) (*sql.DB, error) {
	db, openErr := sql.Open("postgres", cfg.DSN)
	if openErr != nil {
		return nil, errors.Join(ErrOpeningDatabaseFailed, openErr)
	}

	db.SetMaxOpenConns(int(cfg.MaxConns))
	db.SetMaxIdleConns(defaultMaxIdleConns)
	db.SetConnMaxLifetime(defaultMaxConnLifetime)
	db.SetConnMaxIdleTime(defaultMaxConnIdleTime)

	return db, nil
}

// OpenSQLX creates a configured *sqlx.DB from the database configuration,
// using lib/pq as the underlying driver.
func OpenSQLX(cfg Database) (*sqlx.DB, error) {
	db, openErr := sqlx.Open("postgres", cfg.DSN)
	if openErr != nil {
		return nil, errors.Join(ErrOpeningDatabaseFailed, openErr)
	}

	db.SetMaxOpenConns(int(cfg.MaxConns))
	db.SetMaxIdleConns(defaultMaxIdleConns)
	db.SetConnMaxLifetime(defaultMaxConnLifetime)
	db.SetConnMaxIdleTime(defaultMaxConnIdleTime)

	return db, nil
}
