package storage

import (
	"context"
	"errors"
	"fmt"
)

// DDL for the two circulation tables. The table names are injected from the
// gateway configuration so custom names keep working.
const createBooksTableDDL = `CREATE TABLE IF NOT EXISTS %s (
	id           SERIAL PRIMARY KEY,
	title        TEXT NOT NULL,
	author       TEXT NOT NULL,
	release_date DATE NOT NULL,
	borrowed_by  TEXT,
	borrow_date  DATE,
	return_date  DATE
)`

const createRolesTableDDL = `CREATE TABLE IF NOT EXISTS %s (
	username TEXT PRIMARY KEY,
	password TEXT NOT NULL,
	role     TEXT NOT NULL
)`

// CreateSchema creates the circulation tables if they do not exist yet.
// It never seeds rows: inventory and user accounts are provisioned outside
// of this system.
func (gw Gateway) CreateSchema(ctx context.Context) error {
	statements := []string{
		fmt.Sprintf(createBooksTableDDL, gw.booksTableName),
		fmt.Sprintf(createRolesTableDDL, gw.rolesTableName),
	}

	for _, ddl := range statements {
		if _, _, execErr := gw.executeUpdate(ctx, ddl, logActionCreateTable); execErr != nil {
			return errors.Join(ErrCreatingSchemaFailed, execErr)
		}
	}

	gw.logOperation(logMsgSchemaCreated)

	return nil
}
